package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tendant/simple-library/pkg/role"
)

const uniqueViolation = "23505"

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresAccountRepository implements AccountRepository using PostgreSQL
type PostgresAccountRepository struct {
	db DBTX
}

// NewPostgresAccountRepository creates a new PostgreSQL account repository
func NewPostgresAccountRepository(db DBTX) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

const accountColumns = `id, email, name, role, created_at, last_modified_at`

func scanAccount(row pgx.Row) (Account, error) {
	var (
		a        Account
		roleName string
	)
	if err := row.Scan(&a.ID, &a.Email, &a.Name, &roleName, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, err
	}
	r, err := role.ParseRole(roleName)
	if err != nil {
		return Account{}, fmt.Errorf("account %s: %w", a.ID, err)
	}
	a.Role = r
	return a, nil
}

// FindByEmail looks up an account by case-insensitive email
func (r *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1)`
	a, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return Account{}, fmt.Errorf("failed to find account by email: %w", err)
	}
	return a, err
}

// FindByID looks up an account by ID
func (r *PostgresAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	a, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return Account{}, fmt.Errorf("failed to find account by id: %w", err)
	}
	return a, err
}

// Save inserts or updates an account. Role is written on insert only.
func (r *PostgresAccountRepository) Save(ctx context.Context, account Account) (Account, error) {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.Role == "" {
		account.Role = role.Default
	}

	query := `
		INSERT INTO accounts (id, email, name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
			name = EXCLUDED.name,
			last_modified_at = now() AT TIME ZONE 'utc'
		RETURNING ` + accountColumns

	saved, err := scanAccount(r.db.QueryRow(ctx, query,
		account.ID,
		strings.ToLower(account.Email),
		account.Name,
		account.Role.String(),
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Account{}, ErrDuplicateEmail
		}
		return Account{}, fmt.Errorf("failed to save account: %w", err)
	}
	return saved, nil
}
