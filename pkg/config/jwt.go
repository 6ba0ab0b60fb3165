package config

import (
	"net/http"
	"time"
)

// JWTConfig holds access token and cookie settings.
type JWTConfig struct {
	Secret            string        `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	Issuer            string        `env:"JWT_ISSUER" env-default:"simple-library"`
	Audience          string        `env:"JWT_AUDIENCE" env-default:"simple-library"`
	AccessTokenExpiry time.Duration `env:"ACCESS_TOKEN_EXPIRY" env-default:"15m"`
	CookieHttpOnly    bool          `env:"COOKIE_HTTP_ONLY" env-default:"true"`
	CookieSecure      bool          `env:"COOKIE_SECURE" env-default:"true"`
}

// CookieSameSite returns the appropriate SameSite setting based on CookieSecure
func (j JWTConfig) CookieSameSite() http.SameSite {
	if j.CookieSecure {
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}

func (j JWTConfig) validate() ValidationErrors {
	return CollectErrors(
		RequireMinLength("JWT_SECRET", j.Secret, 16),
		RequireNonEmpty("JWT_ISSUER", j.Issuer),
		RequireNonEmpty("JWT_AUDIENCE", j.Audience),
		RequirePositiveDuration("ACCESS_TOKEN_EXPIRY", j.AccessTokenExpiry),
	)
}
