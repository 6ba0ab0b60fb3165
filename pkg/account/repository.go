package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("account email already in use")
)

// AccountRepository persists accounts. Save is an upsert keyed by ID; an
// email already bound to another ID yields ErrDuplicateEmail. The role is
// written on insert only.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (Account, error)
	Save(ctx context.Context, account Account) (Account, error)
}
