package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	liberrors "github.com/tendant/simple-library/pkg/errors"
	"github.com/tendant/simple-library/pkg/pagination"
	"github.com/tendant/simple-library/pkg/principal"
	"github.com/tendant/simple-library/pkg/role"
)

// BookChecker reports whether a book exists.
type BookChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ReservationService runs the reservation workflow. Every method takes the
// calling principal explicitly.
type ReservationService struct {
	repo  ReservationRepository
	books BookChecker
	guard *OwnershipGuard
	now   func() time.Time
}

func NewReservationService(repo ReservationRepository, books BookChecker) *ReservationService {
	return &ReservationService{
		repo:  repo,
		books: books,
		guard: NewOwnershipGuard(repo),
		now:   time.Now,
	}
}

func notFound(id uuid.UUID, err error) error {
	return liberrors.Wrap(err, liberrors.ErrCodeNotFound, fmt.Sprintf("reservation not found: %s", id))
}

// CreateReservation reserves bookID for p.
func (s *ReservationService) CreateReservation(ctx context.Context, p *principal.Principal, bookID uuid.UUID) (Reservation, error) {
	if err := p.Authorize(role.CreateReservation); err != nil {
		return Reservation{}, err
	}

	exists, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return Reservation{}, fmt.Errorf("failed to check book: %w", err)
	}
	if !exists {
		return Reservation{}, liberrors.NotFound("book", bookID.String())
	}

	created, err := s.repo.Create(ctx, Reservation{
		ID:         uuid.New(),
		BookID:     bookID,
		OwnerID:    p.AccountID,
		State:      StateReserved,
		ReservedAt: s.now().UTC(),
	})
	if err != nil {
		return Reservation{}, fmt.Errorf("failed to create reservation: %w", err)
	}
	slog.Info("Reservation created", "reservation_id", created.ID, "book_id", bookID, "principal", p)
	return created, nil
}

// GetReservation returns a reservation the principal owns, or any
// reservation for an elevated principal.
func (s *ReservationService) GetReservation(ctx context.Context, p *principal.Principal, bookID, id uuid.UUID) (Reservation, error) {
	return s.load(ctx, p, bookID, id, role.ReadOwnReservation, role.ReadAnyReservation)
}

// CancelReservation removes the reservation and returns it in the
// cancelled state.
func (s *ReservationService) CancelReservation(ctx context.Context, p *principal.Principal, bookID, id uuid.UUID) (Reservation, error) {
	res, err := s.load(ctx, p, bookID, id, role.CancelOwnReservation, role.CancelAnyReservation)
	if err != nil {
		return Reservation{}, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			return Reservation{}, notFound(id, err)
		}
		return Reservation{}, fmt.Errorf("failed to cancel reservation: %w", err)
	}

	res.State = StateCancelled
	slog.Info("Reservation cancelled", "reservation_id", id, "owner_id", res.OwnerID, "principal", p)
	return res, nil
}

// load applies the access rule shared by read and cancel: elevated
// principals pass on anyOp, everyone else must own the reservation.
func (s *ReservationService) load(ctx context.Context, p *principal.Principal, bookID, id uuid.UUID, ownOp, anyOp role.Operation) (Reservation, error) {
	if err := p.Authorize(ownOp); err != nil {
		return Reservation{}, err
	}

	if p.Authorize(anyOp) != nil && !s.guard.IsOwner(ctx, p, id) {
		return Reservation{}, s.denied(ctx, id)
	}

	res, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrReservationNotFound) {
		return Reservation{}, notFound(id, err)
	}
	if err != nil {
		return Reservation{}, fmt.Errorf("failed to get reservation: %w", err)
	}

	if res.BookID != bookID {
		return Reservation{}, liberrors.InvalidInput("bookID", "reservation does not belong to this book").
			WithDetail("reservation_id", id.String())
	}
	return res, nil
}

// ReleaseBook drops every reservation against a book removed from the
// catalog.
func (s *ReservationService) ReleaseBook(ctx context.Context, bookID uuid.UUID) error {
	removed, err := s.repo.DeleteByBook(ctx, bookID)
	if err != nil {
		return fmt.Errorf("failed to release reservations: %w", err)
	}
	if removed > 0 {
		slog.Info("Reservations released with deleted book", "book_id", bookID, "count", removed)
	}
	return nil
}

// denied tells a missing reservation apart from someone else's.
func (s *ReservationService) denied(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.FindByID(ctx, id)
	switch {
	case errors.Is(err, ErrReservationNotFound):
		return notFound(id, err)
	case err != nil:
		return fmt.Errorf("failed to get reservation: %w", err)
	default:
		return liberrors.Forbidden("reservation belongs to another account")
	}
}

// ListReservations lists reservations in the scope PlanListing allows for p.
func (s *ReservationService) ListReservations(ctx context.Context, p *principal.Principal, requestedOwner *uuid.UUID, offset, limit int) (pagination.Page[Reservation], error) {
	if err := p.Authorize(role.ListOwnReservations); err != nil {
		return pagination.Page[Reservation]{}, err
	}

	filter := PlanListing(p, requestedOwner)
	switch {
	case filter.All:
		if err := p.Authorize(role.ListAllReservations); err != nil {
			return pagination.Page[Reservation]{}, err
		}
	case filter.OwnerID != p.AccountID:
		if err := p.Authorize(role.ListOtherReservations); err != nil {
			return pagination.Page[Reservation]{}, err
		}
	}

	req, err := pagination.ToPageRequest(offset, limit)
	if err != nil {
		return pagination.Page[Reservation]{}, err
	}

	var (
		items []Reservation
		total int64
	)
	if filter.All {
		items, total, err = s.repo.FindAll(ctx, req)
	} else {
		items, total, err = s.repo.FindByOwner(ctx, filter.OwnerID, req)
	}
	if err != nil {
		return pagination.Page[Reservation]{}, fmt.Errorf("failed to list reservations: %w", err)
	}
	return pagination.ToPageResponse(items, total, offset, limit), nil
}
