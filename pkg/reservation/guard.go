package reservation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tendant/simple-library/pkg/principal"
)

// OwnershipGuard answers whether a principal owns a reservation. It looks
// only at the stored owner, never at the principal's role.
type OwnershipGuard struct {
	repo ReservationRepository
}

func NewOwnershipGuard(repo ReservationRepository) *OwnershipGuard {
	return &OwnershipGuard{repo: repo}
}

// IsOwner performs one store lookup per call. A missing reservation, a nil
// principal or a store failure all answer false.
func (g *OwnershipGuard) IsOwner(ctx context.Context, p *principal.Principal, reservationID uuid.UUID) bool {
	if p == nil {
		return false
	}
	res, err := g.repo.FindByID(ctx, reservationID)
	if err != nil {
		if !errors.Is(err, ErrReservationNotFound) {
			slog.Warn("Ownership check failed", "reservation_id", reservationID, "principal", p, "err", err)
		}
		return false
	}
	return res.OwnerID == p.AccountID
}
