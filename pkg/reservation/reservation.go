package reservation

import (
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle position of a reservation.
type State string

const (
	StateReserved  State = "Reserved"
	StateCancelled State = "Cancelled"
)

// Reservation ties one book to the account that reserved it. OwnerID is set
// at creation and never changes.
type Reservation struct {
	ID         uuid.UUID `json:"id"`
	BookID     uuid.UUID `json:"book_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	State      State     `json:"state"`
	ReservedAt time.Time `json:"reserved_at"`
}
