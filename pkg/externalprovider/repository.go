package externalprovider

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultStateTTL bounds how long a login may stay pending at the provider.
const DefaultStateTTL = 10 * time.Minute

var (
	ErrStateNotFound = errors.New("oauth2 state not found")
	ErrStateExpired  = errors.New("oauth2 state expired")
)

// OAuth2State represents a pending authorization request
type OAuth2State struct {
	State        string    `json:"state"`
	Provider     string    `json:"provider"`
	RedirectURL  string    `json:"redirect_url,omitempty"`
	CodeVerifier string    `json:"code_verifier,omitempty"` // PKCE verifier sent with the token request
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// IsExpired reports whether the state can no longer be consumed.
func (s *OAuth2State) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// StateRepository stores pending authorization states. ConsumeState is
// single use: a state is removed as soon as it has been read.
type StateRepository interface {
	StoreState(ctx context.Context, state *OAuth2State) error
	ConsumeState(ctx context.Context, stateValue string) (*OAuth2State, error)
	CleanupExpiredStates(ctx context.Context) error
}

// InMemoryStateRepository implements StateRepository using in-memory storage
type InMemoryStateRepository struct {
	states map[string]*OAuth2State
	mutex  sync.RWMutex
	now    func() time.Time
}

// NewInMemoryStateRepository creates a new in-memory state repository
func NewInMemoryStateRepository() *InMemoryStateRepository {
	return &InMemoryStateRepository{
		states: make(map[string]*OAuth2State),
		now:    time.Now,
	}
}

// StoreState stores an OAuth2 state for later validation
func (r *InMemoryStateRepository) StoreState(_ context.Context, state *OAuth2State) error {
	if state == nil || state.State == "" {
		return errors.New("state value is required")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	stateCopy := *state
	r.states[state.State] = &stateCopy
	return nil
}

// ConsumeState returns and removes the stored state
func (r *InMemoryStateRepository) ConsumeState(_ context.Context, stateValue string) (*OAuth2State, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	state, exists := r.states[stateValue]
	if !exists {
		return nil, ErrStateNotFound
	}
	delete(r.states, stateValue)

	if state.IsExpired(r.now()) {
		return nil, ErrStateExpired
	}

	stateCopy := *state
	return &stateCopy, nil
}

// CleanupExpiredStates removes expired OAuth2 states
func (r *InMemoryStateRepository) CleanupExpiredStates(_ context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()
	for key, state := range r.states {
		if state.IsExpired(now) {
			delete(r.states, key)
		}
	}
	return nil
}

// StateCount returns the number of stored states
func (r *InMemoryStateRepository) StateCount() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.states)
}
