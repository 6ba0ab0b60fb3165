// Package externalprovider adapts third-party identity providers.
//
// Each adapter implements Provider: it builds the authorization URL,
// exchanges the returned code and hands back an ExternalUserInfo holding
// only identity facts (email, display name, subject). Deciding whether
// those facts map to a new or existing account belongs to the account
// package.
//
// # Providers
//
// OIDCProvider works with any OpenID Connect issuer (Google, Keycloak,
// Microsoft). Endpoints and signing keys are discovered from the issuer
// URL and the returned id_token is verified before its claims are used:
//
//	p, err := externalprovider.NewOIDCProvider(ctx, externalprovider.ExternalProvider{
//		ID:          "google",
//		IssuerURL:   "https://accounts.google.com",
//		ClientID:    clientID,
//		RedirectURL: "http://localhost:4000/api/auth/google/callback",
//	})
//	registry := externalprovider.NewRegistry(p)
//
// # State
//
// Pending authorization requests are tracked by a StateRepository.
// InMemoryStateRepository suits a single instance; RedisStateRepository
// lets any replica finish a login. States are single use and expire after
// DefaultStateTTL.
package externalprovider
