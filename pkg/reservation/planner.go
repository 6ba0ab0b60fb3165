package reservation

import (
	"github.com/google/uuid"
	"github.com/tendant/simple-library/pkg/principal"
)

// OwnerFilter is the effective owner scope of a listing.
type OwnerFilter struct {
	All     bool
	OwnerID uuid.UUID
}

// AllOwners matches every reservation.
var AllOwners = OwnerFilter{All: true}

// Matches reports whether a reservation owned by ownerID is in scope.
func (f OwnerFilter) Matches(ownerID uuid.UUID) bool {
	return f.All || f.OwnerID == ownerID
}

// PlanListing decides whose reservations a listing may show. Standard
// principals always get their own, whatever they asked for. Elevated
// principals get what they asked for, or everything when they asked for
// nothing. A nil principal gets a filter that matches nobody.
func PlanListing(p *principal.Principal, requested *uuid.UUID) OwnerFilter {
	if p == nil {
		return OwnerFilter{OwnerID: uuid.Nil}
	}
	if !p.IsElevated() {
		return OwnerFilter{OwnerID: p.AccountID}
	}
	if requested == nil {
		return AllOwners
	}
	return OwnerFilter{OwnerID: *requested}
}
