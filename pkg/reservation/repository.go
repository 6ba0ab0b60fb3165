package reservation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/simple-library/pkg/pagination"
)

var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepository persists reservations. Listings are ordered newest
// first. There is deliberately no way to change a reservation's owner.
type ReservationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (Reservation, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, page pagination.PageRequest) ([]Reservation, int64, error)
	FindAll(ctx context.Context, page pagination.PageRequest) ([]Reservation, int64, error)
	Create(ctx context.Context, r Reservation) (Reservation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByBook removes every reservation against bookID and returns how
	// many were removed.
	DeleteByBook(ctx context.Context, bookID uuid.UUID) (int64, error)
}
