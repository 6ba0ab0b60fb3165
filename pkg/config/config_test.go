package config

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, PersistencePostgres, cfg.Persistence)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 10*time.Minute, cfg.Redis.StateTTL)
	assert.Empty(t, cfg.Redis.URL)
	assert.False(t, cfg.OIDC.Enabled())
	assert.Equal(t, []string{"openid", "profile", "email"}, cfg.OIDC.Scopes)

	assert.True(t, cfg.RateLimit.Enabled())
	assert.Equal(t, 20, cfg.RateLimit.ToRateLimitConfig().PerIPBurst)

	d := cfg.Pagination.Defaults()
	assert.Equal(t, 20, d.Limit)
	assert.Equal(t, 100, d.MaxLimit)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LIBRARY_PERSISTENCE", "inmem")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "1h")
	t.Setenv("OIDC_ISSUER_URL", "https://accounts.google.com")
	t.Setenv("OIDC_CLIENT_ID", "client")
	t.Setenv("OIDC_SCOPES", "openid,email")
	t.Setenv("LIBRARY_ADMIN_EMAIL", "admin@library.org")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, PersistenceInMemory, cfg.Persistence)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpiry)

	provider := cfg.OIDC.ToExternalProvider()
	assert.True(t, provider.Enabled)
	assert.Equal(t, "google", provider.ID)
	assert.Equal(t, []string{"openid", "email"}, provider.Scopes)
	assert.NoError(t, provider.ValidateConfig())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown persistence", "LIBRARY_PERSISTENCE", "mongo"},
		{"short secret", "JWT_SECRET", "short"},
		{"default above max", "PAGINATION_DEFAULT_LIMIT", "500"},
		{"bad admin email", "LIBRARY_ADMIN_EMAIL", "not-an-email"},
		{"oidc without client", "OIDC_ISSUER_URL", "https://accounts.google.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)

			var verrs ValidationErrors
			assert.ErrorAs(t, err, &verrs)
		})
	}
}

func TestDatabaseURL(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, Database: "library_db", User: "u", Password: "p", Schema: "public"}
	assert.Equal(t, "postgres://u:p@db:5432/library_db?sslmode=disable&search_path=public,public", d.ToDatabaseURL())
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{{Field: "A", Message: "is required"}, {Field: "B", Message: "is required"}}
	assert.Contains(t, errs.Error(), "configuration validation failed:")
	assert.Contains(t, errs.Error(), "A: is required")
	assert.Equal(t, "A: is required", errs[:1].Error())
}

func TestCookieSameSite(t *testing.T) {
	assert.Equal(t, http.SameSiteStrictMode, JWTConfig{CookieSecure: true}.CookieSameSite())
	assert.Equal(t, http.SameSiteLaxMode, JWTConfig{}.CookieSameSite())
}
