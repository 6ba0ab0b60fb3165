package tokengenerator

import (
	"net/http"
	"time"
)

// CookieSetter writes and clears the session cookie carrying the access token.
type CookieSetter interface {
	SetCookie(w http.ResponseWriter, name, value string, expire time.Time) error
	ClearCookie(w http.ResponseWriter, name string) error
}

// SessionCookie scopes the token cookie to the whole site.
type SessionCookie struct {
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
}

// NewCookieSetter returns a SessionCookie. A zero sameSite means Lax.
func NewCookieSetter(httpOnly, secure bool, sameSite http.SameSite) CookieSetter {
	if sameSite == 0 {
		sameSite = http.SameSiteLaxMode
	}
	return SessionCookie{HttpOnly: httpOnly, Secure: secure, SameSite: sameSite}
}

func (c SessionCookie) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: c.HttpOnly,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}

func (c SessionCookie) SetCookie(w http.ResponseWriter, name, value string, expire time.Time) error {
	ck := c.cookie(name, value)
	ck.Expires = expire
	http.SetCookie(w, ck)
	return nil
}

// ClearCookie expires the cookie immediately.
func (c SessionCookie) ClearCookie(w http.ResponseWriter, name string) error {
	ck := c.cookie(name, "")
	ck.MaxAge = -1
	http.SetCookie(w, ck)
	return nil
}
