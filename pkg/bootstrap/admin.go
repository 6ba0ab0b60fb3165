package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/tendant/simple-library/pkg/account"
	"github.com/tendant/simple-library/pkg/role"
)

// AdminBootstrapConfig contains configuration for seeding the first elevated account
type AdminBootstrapConfig struct {
	// Admin email (from LIBRARY_ADMIN_EMAIL). Empty disables bootstrap.
	AdminEmail string
	// Display name used until the first login refreshes it
	AdminName string

	Accounts account.AccountRepository
}

// AdminBootstrapResult contains the result of admin bootstrap operation
type AdminBootstrapResult struct {
	AccountID uuid.UUID
	Email     string
	Role      role.Role
	Created   bool // true if created, false if the account already existed
}

// BootstrapAdminAccount makes sure an account exists for the admin email
// with the elevated role. The account is only created when absent: an
// existing account keeps whatever role it was given at creation.
func BootstrapAdminAccount(ctx context.Context, cfg AdminBootstrapConfig) (*AdminBootstrapResult, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid bootstrap configuration: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	existing, err := cfg.Accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != role.Elevated {
			slog.Warn("Admin email belongs to an account without the elevated role; leaving it unchanged",
				"account_id", existing.ID, "role", existing.Role)
		} else {
			slog.Info("Admin account already exists - skipping bootstrap", "account_id", existing.ID)
		}
		return &AdminBootstrapResult{
			AccountID: existing.ID,
			Email:     existing.Email,
			Role:      existing.Role,
			Created:   false,
		}, nil
	case !errors.Is(err, account.ErrAccountNotFound):
		return nil, fmt.Errorf("failed to look up admin account: %w", err)
	}

	name := strings.TrimSpace(cfg.AdminName)
	if name == "" {
		name = email
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		}
	}

	created, err := cfg.Accounts.Save(ctx, account.Account{
		ID:    uuid.New(),
		Email: email,
		Name:  name,
		Role:  role.Elevated,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create admin account: %w", err)
	}

	slog.Info("Admin account created",
		"account_id", created.ID,
		"role", created.Role)

	return &AdminBootstrapResult{
		AccountID: created.ID,
		Email:     created.Email,
		Role:      created.Role,
		Created:   true,
	}, nil
}

// validateConfig validates the bootstrap configuration
func validateConfig(cfg AdminBootstrapConfig) error {
	if strings.TrimSpace(cfg.AdminEmail) == "" {
		return fmt.Errorf("admin email is required")
	}
	if cfg.Accounts == nil {
		return fmt.Errorf("account repository is required")
	}
	return nil
}
