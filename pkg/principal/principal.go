// Package principal holds the authenticated view of an account that every
// gated operation receives as an explicit parameter.
package principal

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tendant/simple-library/pkg/role"
)

// Principal is built once per login from the resolved account and carried in
// the session token. Ownership and role checks only ever look at this value.
type Principal struct {
	AccountID   uuid.UUID
	Email       string
	Name        string
	Role        role.Role
	Authorities []string
}

// New builds a principal with one authority per role.
func New(accountID uuid.UUID, email, name string, r role.Role) *Principal {
	return &Principal{
		AccountID:   accountID,
		Email:       email,
		Name:        name,
		Role:        r,
		Authorities: []string{r.Authority()},
	}
}

// IsElevated reports whether the principal holds the elevated role.
func (p *Principal) IsElevated() bool {
	return p != nil && p.Role == role.Elevated
}

// Authorize applies the role authority's declarative rule for op.
// A nil principal is treated as anonymous.
func (p *Principal) Authorize(op role.Operation) error {
	if p == nil {
		return role.Authorize(nil, op)
	}
	r := p.Role
	return role.Authorize(&r, op)
}

// LogValue logs only the account id and role, never email or name.
func (p Principal) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("account_id", p.AccountID.String()),
		slog.String("role", p.Role.String()),
	)
}

type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "library context value " + k.name
}

var principalKey = &contextKey{"Principal"}

// WithContext attaches p to ctx. Only the transport layer should call this;
// services take the principal as a parameter.
func WithContext(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext returns the principal stored by WithContext, if any.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}
