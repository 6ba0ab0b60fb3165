package client

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	liberrors "github.com/tendant/simple-library/pkg/errors"
	"github.com/tendant/simple-library/pkg/principal"
	"github.com/tendant/simple-library/pkg/response"
	"github.com/tendant/simple-library/pkg/tokengenerator"
)

func LoadFromMap[T any](m map[string]interface{}, c *T) error {
	data, err := json.Marshal(m)
	if err == nil {
		err = json.Unmarshal(data, c)
	}
	return err
}

// NewTokenAuth verifies HS256 access tokens. Tokens whose iss or aud differ
// from the configured values are rejected; an empty value skips that check.
func NewTokenAuth(secret, issuer, audience string) *jwtauth.JWTAuth {
	var opts []jwt.ValidateOption
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return jwtauth.New("HS256", []byte(secret), nil, opts...)
}

// Verifier looks for a token in the Authorization header first, then in the
// access_token cookie.
func Verifier(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return jwtauth.Verify(ja, jwtauth.TokenFromHeader, TokenFromCookie)
}

func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(tokengenerator.ACCESS_TOKEN_NAME)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// PrincipalFromClaims rebuilds the principal from verified token claims.
func PrincipalFromClaims(claims map[string]interface{}) (*principal.Principal, error) {
	subject, _ := claims["sub"].(string)

	var extra tokengenerator.ExtraClaims
	if raw, ok := claims["extra_claims"]; ok {
		extraMap, ok := raw.(map[string]interface{})
		if !ok {
			return nil, liberrors.New(liberrors.ErrCodeTokenInvalid, "invalid extra claims format")
		}
		if err := LoadFromMap(extraMap, &extra); err != nil {
			return nil, liberrors.Wrap(err, liberrors.ErrCodeTokenInvalid, "invalid extra claims data")
		}
	}

	c := tokengenerator.Claims{ExtraClaims: extra}
	c.Subject = subject
	return c.Principal()
}

// PrincipalMiddleware attaches the principal of a verified token to the
// request. Requests without a token pass through anonymously; a token that
// is present but invalid is rejected with 401. Must be used after Verifier.
func PrincipalMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if errors.Is(err, jwtauth.ErrNoTokenFound) || (err == nil && token == nil) {
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			response.Error(w, r, liberrors.Wrap(err, liberrors.ErrCodeUnauthorized, "missing or invalid JWT"))
			return
		}

		p, err := PrincipalFromClaims(claims)
		if err != nil {
			slog.Warn("Rejected token claims", "err", err)
			response.Error(w, r, liberrors.Wrap(err, liberrors.ErrCodeUnauthorized, "invalid token claims"))
			return
		}

		slog.Debug("authenticated principal", "principal", p)
		next.ServeHTTP(w, r.WithContext(principal.WithContext(r.Context(), p)))
	})
}
