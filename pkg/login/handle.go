package login

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/simple-library/pkg/account"
	"github.com/tendant/simple-library/pkg/principal"
	"github.com/tendant/simple-library/pkg/response"
	"github.com/tendant/simple-library/pkg/tokengenerator"
	"golang.org/x/exp/slog"
)

// AccountResponse is the public view of an account
type AccountResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  string    `json:"role"`
}

// LoginResponse is returned by the provider callback
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresAt   time.Time       `json:"expires_at"`
	RedirectURL string          `json:"redirect_url,omitempty"`
	User        AccountResponse `json:"user"`
}

func toAccountResponse(a account.Account) AccountResponse {
	return AccountResponse{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
		Role:  a.Role.String(),
	}
}

type Handle struct {
	loginService *LoginService
	jwtService   *tokengenerator.JwtService
}

func NewHandle(loginService *LoginService, jwtService *tokengenerator.JwtService) Handle {
	return Handle{
		loginService: loginService,
		jwtService:   jwtService,
	}
}

// Routes mounts the provider login endpoints under /api/auth
func Routes(r chi.Router, h Handle) {
	r.Get("/{provider}/login", h.GetLogin)
	r.Get("/{provider}/callback", h.GetCallback)
	r.Post("/logout", h.PostLogout)
}

// Start a provider login
// (GET /api/auth/{provider}/login)
func (h Handle) GetLogin(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.loginService.BeginLogin(r.Context(), chi.URLParam(r, "provider"), r.URL.Query().Get("redirect_url"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Finish a provider login
// (GET /api/auth/{provider}/callback)
func (h Handle) GetCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if providerErr := q.Get("error"); providerErr != "" {
		slog.Warn("Provider returned an error", "provider", chi.URLParam(r, "provider"), "error", providerErr)
		response.BadRequest(w, r, "provider denied the login: "+providerErr)
		return
	}

	acct, state, err := h.loginService.CompleteLogin(r.Context(), chi.URLParam(r, "provider"), q.Get("code"), q.Get("state"))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	token, err := h.jwtService.IssueAccessToken(w, acct.Principal())
	if err != nil {
		slog.Error("Failed to issue access token", "account_id", acct.ID, "err", err)
		response.Error(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		RedirectURL: state.RedirectURL,
		User:        toAccountResponse(acct),
	})
}

// Log out
// (POST /api/auth/logout)
func (h Handle) PostLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.jwtService.ClearAccessToken(w); err != nil {
		response.Error(w, r, err)
		return
	}
	response.NoContent(w, r)
}

// Current account
// (GET /me)
func (h Handle) GetMe(w http.ResponseWriter, r *http.Request) {
	p, _ := principal.FromContext(r.Context())
	acct, err := h.loginService.Me(r.Context(), p)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toAccountResponse(acct))
}
