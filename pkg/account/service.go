package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	liberrors "github.com/tendant/simple-library/pkg/errors"
	"github.com/tendant/simple-library/pkg/externalprovider"
	"github.com/tendant/simple-library/pkg/role"
)

// IdentityResolver maps a provider assertion to a local account.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, info externalprovider.ExternalUserInfo) (Account, error)
}

// AccountService resolves federated identities to local accounts.
type AccountService struct {
	repo AccountRepository
}

func NewAccountService(repo AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

// ResolveIdentity maps a verified provider assertion to exactly one local
// account. The first login for an email creates the account with the
// standard role; later logins only refresh the display name.
func (s *AccountService) ResolveIdentity(ctx context.Context, info externalprovider.ExternalUserInfo) (Account, error) {
	if err := info.Validate(); err != nil {
		return Account{}, err
	}

	email := strings.ToLower(strings.TrimSpace(info.Email))
	name := strings.TrimSpace(info.Name)

	account, err := s.upsert(ctx, email, name)
	if errors.Is(err, ErrDuplicateEmail) {
		// a concurrent first login created the account; update it instead
		slog.Info("Account created concurrently, retrying as update", "email", email)
		account, err = s.upsert(ctx, email, name)
	}
	if err != nil {
		return Account{}, err
	}
	return account, nil
}

func (s *AccountService) upsert(ctx context.Context, email, name string) (Account, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrAccountNotFound):
		created, err := s.repo.Save(ctx, Account{
			ID:    uuid.New(),
			Email: email,
			Name:  name,
			Role:  role.Default,
		})
		if err != nil {
			return Account{}, fmt.Errorf("failed to create account: %w", err)
		}
		slog.Info("Account created", "account_id", created.ID, "role", created.Role)
		return created, nil
	case err != nil:
		return Account{}, fmt.Errorf("failed to look up account: %w", err)
	}

	existing.Name = name
	updated, err := s.repo.Save(ctx, existing)
	if err != nil {
		return Account{}, fmt.Errorf("failed to update account: %w", err)
	}
	slog.Debug("Account name refreshed", "account_id", updated.ID)
	return updated, nil
}

// GetAccount returns the account with the given ID
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrAccountNotFound) {
		return Account{}, liberrors.Wrap(err, liberrors.ErrCodeNotFound, "account not found")
	}
	if err != nil {
		return Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}
