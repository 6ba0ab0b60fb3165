// Package config loads the library service configuration from the
// environment.
//
// Every setting is a cleanenv struct tag with a default, so an empty
// environment yields a runnable in-memory or local-Postgres setup:
//
//	cfg, err := config.Load()
//	if err != nil {
//		slog.Error("Invalid configuration", "err", err)
//		os.Exit(1)
//	}
//	pool, err := pgxpool.New(ctx, cfg.Database.ToDatabaseURL())
//
// Load validates the result and returns ValidationErrors listing every
// offending variable, not just the first one.
//
// # Variables
//
//   - LIBRARY_PERSISTENCE: postgres (default) or inmem
//   - LIBRARY_PG_HOST, LIBRARY_PG_PORT, LIBRARY_PG_DATABASE, LIBRARY_PG_USER, LIBRARY_PG_PASSWORD, LIBRARY_PG_SCHEMA
//   - JWT_SECRET, JWT_ISSUER, JWT_AUDIENCE, ACCESS_TOKEN_EXPIRY (Go duration, default 15m)
//   - COOKIE_HTTP_ONLY, COOKIE_SECURE
//   - OIDC_PROVIDER_ID, OIDC_ISSUER_URL, OIDC_CLIENT_ID, OIDC_CLIENT_SECRET, OIDC_REDIRECT_URL, OIDC_SCOPES
//   - REDIS_URL (empty keeps login states in memory), OAUTH2_STATE_TTL
//   - PAGINATION_DEFAULT_LIMIT, PAGINATION_MAX_LIMIT
//   - RATE_LIMIT_PER_IP_PER_MINUTE, RATE_LIMIT_PER_IP_BURST, RATE_LIMIT_PER_ACCOUNT_PER_MINUTE, RATE_LIMIT_PER_ACCOUNT_BURST, RATE_LIMIT_BUCKET_TTL
//   - CORS_ALLOWED_ORIGINS
//   - LIBRARY_ADMIN_EMAIL: seeds an elevated account at startup
package config
