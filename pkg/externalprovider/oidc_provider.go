package externalprovider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coreos/go-oidc/v3/oidc"
	liberrors "github.com/tendant/simple-library/pkg/errors"
	"github.com/tendant/simple-library/pkg/pkce"
	"golang.org/x/oauth2"
)

// OIDCProvider exchanges authorization codes with an OpenID Connect issuer
// and maps the verified ID token to an ExternalUserInfo.
type OIDCProvider struct {
	id          string
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// NewOIDCProvider discovers the issuer's endpoints and keys.
func NewOIDCProvider(ctx context.Context, cfg ExternalProvider) (*OIDCProvider, error) {
	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid provider configuration: %w", err)
	}

	discovered, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init oidc provider %s: %w", cfg.ID, err)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     discovered.Endpoint(),
		Scopes:       cfg.GetDefaultScopes(),
	}

	return newOIDCProvider(cfg.ID, oauthCfg, discovered.Verifier(&oidc.Config{ClientID: cfg.ClientID})), nil
}

func newOIDCProvider(id string, oauthCfg *oauth2.Config, verifier *oidc.IDTokenVerifier) *OIDCProvider {
	return &OIDCProvider{
		id:          id,
		oauthConfig: oauthCfg,
		verifier:    verifier,
	}
}

// Name returns the provider identifier used by the registry.
func (p *OIDCProvider) Name() string {
	return p.id
}

// AuthCodeURL builds the authorization URL for state.
func (p *OIDCProvider) AuthCodeURL(state string, challenge *pkce.CodeChallenge) string {
	opts := append([]oauth2.AuthCodeOption{oauth2.AccessTypeOnline}, challenge.AuthCodeOptions()...)
	return p.oauthConfig.AuthCodeURL(state, opts...)
}

// Exchange trades code for tokens and verifies the returned id_token.
func (p *OIDCProvider) Exchange(ctx context.Context, code string, verifier *pkce.CodeVerifier) (*ExternalUserInfo, error) {
	token, err := p.oauthConfig.Exchange(ctx, code, verifier.ExchangeOptions()...)
	if err != nil {
		return nil, liberrors.UpstreamIdentity(err, fmt.Sprintf("%s token exchange failed", p.id))
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, liberrors.UpstreamIdentity(nil, fmt.Sprintf("%s did not return id_token", p.id))
	}

	return p.userInfoFromIDToken(ctx, rawIDToken)
}

func (p *OIDCProvider) userInfoFromIDToken(ctx context.Context, rawIDToken string) (*ExternalUserInfo, error) {
	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, liberrors.UpstreamIdentity(err, fmt.Sprintf("%s id_token verification failed", p.id))
	}

	var claims map[string]any
	if err := idToken.Claims(&claims); err != nil {
		return nil, liberrors.UpstreamIdentity(err, fmt.Sprintf("%s id_token claims parse failed", p.id))
	}

	info := FromClaims(p.id, claims)
	if err := info.Validate(); err != nil {
		return nil, err
	}

	slog.Info("oidc identity verified",
		"provider", p.id,
		"issuer", idToken.Issuer,
		"email_verified", info.EmailVerified,
		"expiry_unix", idToken.Expiry.Unix())

	return info, nil
}
