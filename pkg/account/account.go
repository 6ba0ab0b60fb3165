package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-library/pkg/principal"
	"github.com/tendant/simple-library/pkg/role"
)

// Account is the local record a federated identity resolves to. Email is the
// federation key and is stored lower-cased.
type Account struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      role.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Principal derives the authenticated view carried in the session token.
func (a Account) Principal() *principal.Principal {
	return principal.New(a.ID, a.Email, a.Name, a.Role)
}
