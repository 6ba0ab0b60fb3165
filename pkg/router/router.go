package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	bookapi "github.com/tendant/simple-library/pkg/book/api"
	"github.com/tendant/simple-library/pkg/client"
	"github.com/tendant/simple-library/pkg/login"
	"github.com/tendant/simple-library/pkg/ratelimit"
	reservationapi "github.com/tendant/simple-library/pkg/reservation/api"
	"github.com/tendant/simple-library/pkg/role"
)

// Config holds all the dependencies and handlers needed to setup routes
type Config struct {
	BookHandle        *bookapi.BookHandler
	ReservationHandle *reservationapi.ReservationHandler
	// Optional: provider login routes are skipped when nil
	LoginHandle *login.Handle

	// JWT authentication
	TokenAuth *jwtauth.JWTAuth

	// Optional: no request limits when nil
	RateLimit *ratelimit.Middleware

	AllowedOrigins []string
}

// SetupRoutes mounts all library routes on the provided router. It adds
// middleware to router, so call it before registering other routes.
func SetupRoutes(router chi.Router, cfg Config) {
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
			ExposedHeaders:   []string{"Link", "Location"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Every route sees the principal when a valid token is present;
	// anonymous requests pass through to the public endpoints.
	router.Group(func(r chi.Router) {
		r.Use(client.Verifier(cfg.TokenAuth))
		r.Use(client.PrincipalMiddleware)
		if cfg.RateLimit != nil {
			r.Use(cfg.RateLimit.Handler)
		}

		if cfg.LoginHandle != nil {
			r.Route("/api/auth", func(r chi.Router) {
				login.Routes(r, *cfg.LoginHandle)
			})
		}

		r.Route("/api/books", func(r chi.Router) {
			bookapi.Routes(r, cfg.BookHandle)

			r.Route("/{bookID}/reservations", func(r chi.Router) {
				r.Use(client.RequireAuth)
				reservationapi.BookRoutes(r, cfg.ReservationHandle)
			})
		})

		r.Route("/api/reservations", func(r chi.Router) {
			r.Use(client.RequireOperation(role.ListOwnReservations))
			reservationapi.Routes(r, cfg.ReservationHandle)
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(client.RequireAuth)

			if cfg.LoginHandle != nil {
				r.Get("/me", cfg.LoginHandle.GetMe)
			}

			// Private endpoint for testing authentication
			r.Get("/private", func(w http.ResponseWriter, r *http.Request) {
				render.PlainText(w, r, http.StatusText(http.StatusOK))
			})
		})
	})
}
