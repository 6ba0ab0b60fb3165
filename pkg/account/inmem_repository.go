package account

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryAccountRepository implements AccountRepository using in-memory storage
type InMemoryAccountRepository struct {
	mutex    sync.RWMutex
	accounts map[uuid.UUID]Account
	byEmail  map[string]uuid.UUID
}

// NewInMemoryAccountRepository creates a new in-memory account repository
func NewInMemoryAccountRepository() *InMemoryAccountRepository {
	return &InMemoryAccountRepository{
		accounts: make(map[uuid.UUID]Account),
		byEmail:  make(map[string]uuid.UUID),
	}
}

// FindByEmail looks up an account by case-insensitive email
func (r *InMemoryAccountRepository) FindByEmail(_ context.Context, email string) (Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return r.accounts[id], nil
}

// FindByID looks up an account by ID
func (r *InMemoryAccountRepository) FindByID(_ context.Context, id uuid.UUID) (Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return account, nil
}

// Save inserts or updates an account
func (r *InMemoryAccountRepository) Save(_ context.Context, account Account) (Account, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	email := strings.ToLower(account.Email)
	if owner, taken := r.byEmail[email]; taken && owner != account.ID {
		return Account{}, ErrDuplicateEmail
	}

	now := time.Now().UTC()
	if existing, ok := r.accounts[account.ID]; ok {
		account.CreatedAt = existing.CreatedAt
		account.Role = existing.Role
		if existing.Email != email {
			delete(r.byEmail, existing.Email)
		}
	} else if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.Email = email
	account.UpdatedAt = now

	r.accounts[account.ID] = account
	r.byEmail[email] = account.ID
	return account, nil
}

// Count returns the number of stored accounts
func (r *InMemoryAccountRepository) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.accounts)
}
