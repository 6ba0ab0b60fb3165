package config

import (
	"github.com/tendant/simple-library/pkg/externalprovider"
)

// OIDCProviderConfig describes the single upstream OpenID Connect issuer.
// Leaving OIDC_ISSUER_URL empty disables external login.
type OIDCProviderConfig struct {
	ID           string   `env:"OIDC_PROVIDER_ID" env-default:"google"`
	DisplayName  string   `env:"OIDC_PROVIDER_NAME" env-default:"Google"`
	IssuerURL    string   `env:"OIDC_ISSUER_URL"`
	ClientID     string   `env:"OIDC_CLIENT_ID"`
	ClientSecret string   `env:"OIDC_CLIENT_SECRET"`
	RedirectURL  string   `env:"OIDC_REDIRECT_URL" env-default:"http://localhost:4000/api/auth/google/callback"`
	Scopes       []string `env:"OIDC_SCOPES" env-separator:"," env-default:"openid,profile,email"`
}

func (c OIDCProviderConfig) Enabled() bool {
	return c.IssuerURL != ""
}

// ToExternalProvider converts the env settings into the provider adapter config.
func (c OIDCProviderConfig) ToExternalProvider() externalprovider.ExternalProvider {
	return externalprovider.ExternalProvider{
		ID:           c.ID,
		DisplayName:  c.DisplayName,
		IssuerURL:    c.IssuerURL,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scopes:       c.Scopes,
		Enabled:      c.Enabled(),
	}
}

func (c OIDCProviderConfig) validate() ValidationErrors {
	if !c.Enabled() {
		return nil
	}
	return CollectErrors(
		RequireNonEmpty("OIDC_PROVIDER_ID", c.ID),
		RequireValidURL("OIDC_ISSUER_URL", c.IssuerURL),
		RequireNonEmpty("OIDC_CLIENT_ID", c.ClientID),
		RequireValidURL("OIDC_REDIRECT_URL", c.RedirectURL),
	)
}
