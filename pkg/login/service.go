package login

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-library/pkg/account"
	liberrors "github.com/tendant/simple-library/pkg/errors"
	"github.com/tendant/simple-library/pkg/externalprovider"
	"github.com/tendant/simple-library/pkg/pkce"
	"github.com/tendant/simple-library/pkg/principal"
)

// AccountGetter loads an account by ID
type AccountGetter interface {
	GetAccount(ctx context.Context, id uuid.UUID) (account.Account, error)
}

// LoginService drives the provider login round trip: a pending state is
// stored, the provider redirects back with a code, the code is exchanged for
// an identity and that identity is resolved to a local account.
type LoginService struct {
	providers *externalprovider.Registry
	states    externalprovider.StateRepository
	resolver  account.IdentityResolver
	accounts  AccountGetter
	stateTTL  time.Duration
}

type LoginServiceOption func(*LoginService)

func WithStateTTL(ttl time.Duration) LoginServiceOption {
	return func(s *LoginService) {
		if ttl > 0 {
			s.stateTTL = ttl
		}
	}
}

func NewLoginService(
	providers *externalprovider.Registry,
	states externalprovider.StateRepository,
	resolver account.IdentityResolver,
	accounts AccountGetter,
	opts ...LoginServiceOption,
) *LoginService {
	s := &LoginService{
		providers: providers,
		states:    states,
		resolver:  resolver,
		accounts:  accounts,
		stateTTL:  externalprovider.DefaultStateTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BeginLogin stores a fresh state and returns the provider's authorization URL.
func (s *LoginService) BeginLogin(ctx context.Context, providerName, redirectURL string) (string, error) {
	provider, err := s.providers.Get(providerName)
	if err != nil {
		return "", err
	}

	verifier, err := pkce.GenerateCodeVerifier()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	state := &externalprovider.OAuth2State{
		State:        uuid.NewString(),
		Provider:     providerName,
		RedirectURL:  redirectURL,
		CodeVerifier: verifier.Value,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.stateTTL),
	}
	if err := s.states.StoreState(ctx, state); err != nil {
		return "", fmt.Errorf("failed to store login state: %w", err)
	}
	return provider.AuthCodeURL(state.State, verifier.Challenge()), nil
}

// CompleteLogin consumes the state, exchanges the code and resolves the
// identity. Nothing is written to accounts when the exchange fails.
func (s *LoginService) CompleteLogin(ctx context.Context, providerName, code, stateValue string) (account.Account, *externalprovider.OAuth2State, error) {
	if code == "" {
		return account.Account{}, nil, liberrors.InvalidInput("code", "must not be empty")
	}

	state, err := s.states.ConsumeState(ctx, stateValue)
	if errors.Is(err, externalprovider.ErrStateNotFound) || errors.Is(err, externalprovider.ErrStateExpired) {
		return account.Account{}, nil, liberrors.Wrap(err, liberrors.ErrCodeStateInvalid, "login state is invalid or expired")
	}
	if err != nil {
		return account.Account{}, nil, fmt.Errorf("failed to load login state: %w", err)
	}
	if state.Provider != providerName {
		return account.Account{}, nil, liberrors.New(liberrors.ErrCodeStateInvalid, "login state was issued for another provider")
	}

	provider, err := s.providers.Get(providerName)
	if err != nil {
		return account.Account{}, nil, err
	}

	verifier, err := pkce.ParseCodeVerifier(state.CodeVerifier)
	if err != nil {
		return account.Account{}, nil, liberrors.Wrap(err, liberrors.ErrCodeStateInvalid, "login state is invalid or expired")
	}

	info, err := provider.Exchange(ctx, code, verifier)
	if err != nil {
		if !liberrors.IsCode(err, liberrors.ErrCodeUpstreamIdentity) {
			err = liberrors.UpstreamIdentity(err, fmt.Sprintf("%s exchange failed", providerName))
		}
		slog.Warn("Provider exchange failed", "provider", providerName, "err", err)
		return account.Account{}, nil, err
	}

	acct, err := s.resolver.ResolveIdentity(ctx, *info)
	if err != nil {
		return account.Account{}, nil, err
	}
	slog.Info("Login completed", "provider", providerName, "account_id", acct.ID, "role", acct.Role)
	return acct, state, nil
}

// Me returns the account behind p.
func (s *LoginService) Me(ctx context.Context, p *principal.Principal) (account.Account, error) {
	if p == nil {
		return account.Account{}, liberrors.Unauthorized("authentication required")
	}
	return s.accounts.GetAccount(ctx, p.AccountID)
}

// CleanupExpiredStates drops states that were never consumed.
func (s *LoginService) CleanupExpiredStates(ctx context.Context) error {
	return s.states.CleanupExpiredStates(ctx)
}
