package externalprovider

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	liberrors "github.com/tendant/simple-library/pkg/errors"
	"github.com/tendant/simple-library/pkg/pkce"
)

// ExternalProvider represents an OAuth2/OIDC identity provider configuration
type ExternalProvider struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"display_name"`
	IssuerURL    string   `json:"issuer_url"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	RedirectURL  string   `json:"redirect_url"`
	Scopes       []string `json:"scopes"`
	Enabled      bool     `json:"enabled"`
}

// ExternalUserInfo is the normalized identity assertion produced by every
// provider adapter. It carries facts only; account decisions happen in
// the account package.
type ExternalUserInfo struct {
	ProviderID    string `json:"provider_id"`
	ExternalID    string `json:"external_id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// Validate rejects assertions missing the fields account resolution needs,
// and assertions whose email the provider has not verified.
func (u *ExternalUserInfo) Validate() error {
	if u == nil {
		return liberrors.UpstreamIdentity(nil, "identity assertion is missing")
	}
	if strings.TrimSpace(u.Email) == "" {
		return liberrors.UpstreamIdentity(nil, "identity assertion has no email")
	}
	if strings.TrimSpace(u.Name) == "" {
		return liberrors.UpstreamIdentity(nil, "identity assertion has no name")
	}
	// Email is the federation key and must be verified.
	if !u.EmailVerified {
		return liberrors.UpstreamIdentity(nil, "identity assertion email is not verified")
	}
	return nil
}

// Provider is implemented by every identity provider adapter.
// Implementations return identity facts only and never touch accounts.
type Provider interface {
	// Name returns the provider identifier used in routes and the registry.
	Name() string

	// AuthCodeURL returns the authorization URL for the given state. A nil
	// challenge sends no PKCE parameters.
	AuthCodeURL(state string, challenge *pkce.CodeChallenge) string

	// Exchange trades an authorization code for a normalized identity.
	Exchange(ctx context.Context, code string, verifier *pkce.CodeVerifier) (*ExternalUserInfo, error)
}

// ValidateConfig validates the provider configuration
func (p *ExternalProvider) ValidateConfig() error {
	if p.ID == "" {
		return fmt.Errorf("provider ID is required")
	}
	if p.ClientID == "" {
		return fmt.Errorf("client ID is required")
	}
	if p.IssuerURL == "" {
		return fmt.Errorf("issuer URL is required")
	}
	if p.RedirectURL == "" {
		return fmt.Errorf("redirect URL is required")
	}
	if _, err := url.Parse(p.IssuerURL); err != nil {
		return fmt.Errorf("invalid issuer URL: %w", err)
	}
	if _, err := url.Parse(p.RedirectURL); err != nil {
		return fmt.Errorf("invalid redirect URL: %w", err)
	}
	return nil
}

// GetDefaultScopes returns the configured scopes or the OIDC defaults
func (p *ExternalProvider) GetDefaultScopes() []string {
	if len(p.Scopes) > 0 {
		return p.Scopes
	}
	return []string{"openid", "profile", "email"}
}
