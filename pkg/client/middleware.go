package client

import (
	"log/slog"
	"net/http"

	liberrors "github.com/tendant/simple-library/pkg/errors"
	"github.com/tendant/simple-library/pkg/principal"
	"github.com/tendant/simple-library/pkg/response"
	"github.com/tendant/simple-library/pkg/role"
)

// RequireAuth rejects requests without a principal with 401.
// Must be used after PrincipalMiddleware.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := principal.FromContext(r.Context()); !ok {
			slog.Debug("Unauthenticated request to protected resource", "path", r.URL.Path)
			response.Error(w, r, liberrors.Unauthorized("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOperation gates a route on the declarative rule for op.
// Returns 401 without a principal and 403 when the role is insufficient.
func RequireOperation(op role.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := principal.FromContext(r.Context())
			if err := p.Authorize(op); err != nil {
				if p != nil {
					slog.Warn("Principal lacks required role", "principal", p, "operation", op)
				}
				response.Error(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
