package reservation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-library/pkg/pagination"
)

// InMemoryReservationRepository implements ReservationRepository using in-memory storage
type InMemoryReservationRepository struct {
	mutex        sync.RWMutex
	reservations map[uuid.UUID]Reservation
}

// NewInMemoryReservationRepository creates a new in-memory reservation repository
func NewInMemoryReservationRepository() *InMemoryReservationRepository {
	return &InMemoryReservationRepository{
		reservations: make(map[uuid.UUID]Reservation),
	}
}

func (r *InMemoryReservationRepository) FindByID(_ context.Context, id uuid.UUID) (Reservation, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	res, ok := r.reservations[id]
	if !ok {
		return Reservation{}, ErrReservationNotFound
	}
	return res, nil
}

func (r *InMemoryReservationRepository) FindByOwner(_ context.Context, ownerID uuid.UUID, page pagination.PageRequest) ([]Reservation, int64, error) {
	return r.list(func(res Reservation) bool { return res.OwnerID == ownerID }, page)
}

func (r *InMemoryReservationRepository) FindAll(_ context.Context, page pagination.PageRequest) ([]Reservation, int64, error) {
	return r.list(func(Reservation) bool { return true }, page)
}

func (r *InMemoryReservationRepository) list(match func(Reservation) bool, page pagination.PageRequest) ([]Reservation, int64, error) {
	r.mutex.RLock()
	matched := make([]Reservation, 0)
	for _, res := range r.reservations {
		if match(res) {
			matched = append(matched, res)
		}
	}
	r.mutex.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].ReservedAt.Equal(matched[j].ReservedAt) {
			return matched[i].ID.String() < matched[j].ID.String()
		}
		return matched[i].ReservedAt.After(matched[j].ReservedAt)
	})
	return pagination.Slice(matched, page), int64(len(matched)), nil
}

func (r *InMemoryReservationRepository) Create(_ context.Context, res Reservation) (Reservation, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	if res.ReservedAt.IsZero() {
		res.ReservedAt = time.Now().UTC()
	}
	r.reservations[res.ID] = res
	return res, nil
}

func (r *InMemoryReservationRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.reservations[id]; !ok {
		return ErrReservationNotFound
	}
	delete(r.reservations, id)
	return nil
}

func (r *InMemoryReservationRepository) DeleteByBook(_ context.Context, bookID uuid.UUID) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var removed int64
	for id, res := range r.reservations {
		if res.BookID == bookID {
			delete(r.reservations, id)
			removed++
		}
	}
	return removed, nil
}
