package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-library/pkg/account"
	"github.com/tendant/simple-library/pkg/book"
	bookapi "github.com/tendant/simple-library/pkg/book/api"
	"github.com/tendant/simple-library/pkg/client"
	"github.com/tendant/simple-library/pkg/externalprovider"
	"github.com/tendant/simple-library/pkg/login"
	"github.com/tendant/simple-library/pkg/pagination"
	"github.com/tendant/simple-library/pkg/pkce"
	"github.com/tendant/simple-library/pkg/principal"
	"github.com/tendant/simple-library/pkg/ratelimit"
	"github.com/tendant/simple-library/pkg/reservation"
	reservationapi "github.com/tendant/simple-library/pkg/reservation/api"
	"github.com/tendant/simple-library/pkg/response"
	"github.com/tendant/simple-library/pkg/role"
	"github.com/tendant/simple-library/pkg/tokengenerator"
)

const jwtSecret = "test-secret-key-for-testing-only"

type stubProvider struct{}

func (stubProvider) Name() string { return "stub" }

func (stubProvider) AuthCodeURL(state string, _ *pkce.CodeChallenge) string {
	return "https://idp.example.com/authorize?state=" + url.QueryEscape(state)
}

func (stubProvider) Exchange(context.Context, string, *pkce.CodeVerifier) (*externalprovider.ExternalUserInfo, error) {
	return &externalprovider.ExternalUserInfo{ProviderID: "stub", Email: "new@x.com", EmailVerified: true, Name: "Newcomer"}, nil
}

type testEnv struct {
	router    *chi.Mux
	books     *book.BookService
	generator *tokengenerator.JwtTokenGenerator
	admin     *principal.Principal
	alice     *principal.Principal
	bob       *principal.Principal
}

// newTestEnv wires the full route tree over in-memory stores
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	accounts := account.NewInMemoryAccountRepository()
	accountService := account.NewAccountService(accounts)
	seed := func(email, name string, r role.Role) *principal.Principal {
		acct, err := accounts.Save(ctx, account.Account{ID: uuid.New(), Email: email, Name: name, Role: r})
		require.NoError(t, err)
		return acct.Principal()
	}

	books := book.NewBookService(book.NewInMemoryBookRepository())
	reservations := reservation.NewReservationService(reservation.NewInMemoryReservationRepository(), books)
	books.OnDelete(reservations.ReleaseBook)
	defaults := pagination.Defaults{Limit: 20, MaxLimit: 100}

	generator := tokengenerator.NewJwtTokenGenerator(jwtSecret, "library", "library-api")
	jwtService := tokengenerator.NewJwtService(generator, tokengenerator.NewCookieSetter(true, false, 0), time.Hour)
	loginService := login.NewLoginService(
		externalprovider.NewRegistry(stubProvider{}),
		externalprovider.NewInMemoryStateRepository(),
		accountService,
		accountService,
	)
	loginHandle := login.NewHandle(loginService, jwtService)

	r := chi.NewRouter()
	SetupRoutes(r, Config{
		BookHandle:        bookapi.NewBookHandler(books, defaults),
		ReservationHandle: reservationapi.NewReservationHandler(reservations, defaults),
		LoginHandle:       &loginHandle,
		TokenAuth:         client.NewTokenAuth(jwtSecret, "library", "library-api"),
		AllowedOrigins:    []string{"http://localhost:3000"},
	})

	return &testEnv{
		router:    r,
		books:     books,
		generator: generator,
		admin:     seed("admin@x.com", "Admin", role.Elevated),
		alice:     seed("alice@x.com", "Alice", role.Standard),
		bob:       seed("bob@x.com", "Bob", role.Standard),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, as *principal.Principal, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if as != nil {
		token, _, err := e.generator.GenerateToken(as, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createBook(t *testing.T) bookapi.BookResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/books", e.admin, `{"title":"Dune","author":"Frank Herbert"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var b bookapi.BookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	return b
}

func (e *testEnv) reserve(t *testing.T, bookID uuid.UUID, as *principal.Principal) reservationapi.ReservationResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/books/"+bookID.String()+"/reservations", as, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res reservationapi.ReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestPublicCatalogRoutes(t *testing.T) {
	e := newTestEnv(t)
	b := e.createBook(t)

	rec := e.do(t, http.MethodGet, "/api/books", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page pagination.Page[bookapi.BookResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.TotalCount)

	rec = e.do(t, http.MethodGet, "/api/books/"+b.ID.String(), nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBookWritesRequireElevatedRole(t *testing.T) {
	e := newTestEnv(t)
	body := `{"title":"Dune","author":"Frank Herbert"}`

	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodPost, "/api/books", nil, body).Code)
	assert.Equal(t, http.StatusForbidden, e.do(t, http.MethodPost, "/api/books", e.alice, body).Code)
	assert.Equal(t, http.StatusCreated, e.do(t, http.MethodPost, "/api/books", e.admin, body).Code)
}

func TestReservationOwnership(t *testing.T) {
	e := newTestEnv(t)
	b := e.createBook(t)
	res := e.reserve(t, b.ID, e.alice)
	assert.Equal(t, e.alice.AccountID, res.OwnerID)
	assert.Equal(t, "Reserved", res.State)

	path := "/api/books/" + b.ID.String() + "/reservations/" + res.ID.String()

	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, path, e.alice, "").Code)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, path, e.admin, "").Code)

	rec := e.do(t, http.MethodGet, path, e.bob, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodDelete, path, e.bob, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodDelete, path, e.alice, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cancelled reservationapi.ReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cancelled))
	assert.Equal(t, "Cancelled", cancelled.State)

	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, path, e.alice, "").Code)
}

func TestDeletingBookDropsItsReservations(t *testing.T) {
	e := newTestEnv(t)
	b := e.createBook(t)
	res := e.reserve(t, b.ID, e.alice)

	rec := e.do(t, http.MethodDelete, "/api/books/"+b.ID.String(), e.admin, "")
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	path := "/api/books/" + b.ID.String() + "/reservations/" + res.ID.String()
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, path, e.alice, "").Code)

	rec = e.do(t, http.MethodGet, "/api/reservations", e.admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page pagination.Page[reservationapi.ReservationResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(0), page.TotalCount)
}

func TestReservationRoutesRequireAuthentication(t *testing.T) {
	e := newTestEnv(t)
	b := e.createBook(t)

	rec := e.do(t, http.MethodPost, "/api/books/"+b.ID.String()+"/reservations", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UNAUTHORIZED", body.Code)

	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/api/reservations", nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/me", nil, "").Code)
}

func TestReservationListingScopes(t *testing.T) {
	e := newTestEnv(t)
	b := e.createBook(t)
	e.reserve(t, b.ID, e.alice)
	e.reserve(t, b.ID, e.alice)
	e.reserve(t, b.ID, e.bob)

	list := func(as *principal.Principal, query string) pagination.Page[reservationapi.ReservationResponse] {
		rec := e.do(t, http.MethodGet, "/api/reservations"+query, as, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var page pagination.Page[reservationapi.ReservationResponse]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		return page
	}

	// a standard user's filter is replaced by their own id
	page := list(e.bob, "?user_id="+e.alice.AccountID.String())
	assert.Equal(t, int64(1), page.TotalCount)
	assert.Equal(t, e.bob.AccountID, page.Items[0].OwnerID)

	assert.Equal(t, int64(3), list(e.admin, "").TotalCount)

	page = list(e.admin, "?user_id="+e.alice.AccountID.String()+"&limit=1")
	assert.Equal(t, int64(2), page.TotalCount)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Limit)

	rec := e.do(t, http.MethodGet, "/api/reservations?limit=0", e.admin, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvalidTokenIsRejected(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenForAnotherServiceIsRejected(t *testing.T) {
	e := newTestEnv(t)
	foreign := tokengenerator.NewJwtTokenGenerator(jwtSecret, "some-other-issuer", "some-other-api")
	token, _, err := foreign.GenerateToken(e.alice, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	wrongAud := tokengenerator.NewJwtTokenGenerator(jwtSecret, "library", "some-other-api")
	token, _, err = wrongAud.GenerateToken(e.alice, time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRoutes(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/auth/stub/login", nil, "")
	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)

	rec = e.do(t, http.MethodGet, "/api/auth/stub/callback?code=abc&state="+url.QueryEscape(state), nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var loginResp login.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.AccessToken)

	// the issued token authenticates /me
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+loginResp.AccessToken)
	me := httptest.NewRecorder()
	e.router.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "new@x.com")

	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/api/auth/missing/login", nil, "").Code)
}

func TestCORSPreflight(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/books", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPrivateEndpoint(t *testing.T) {
	e := newTestEnv(t)
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/private", nil, "").Code)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/private", e.alice, "").Code)
}

func TestRateLimitMiddlewareIsApplied(t *testing.T) {
	books := book.NewBookService(book.NewInMemoryBookRepository())
	defaults := pagination.Defaults{Limit: 20, MaxLimit: 100}

	r := chi.NewRouter()
	SetupRoutes(r, Config{
		BookHandle:        bookapi.NewBookHandler(books, defaults),
		ReservationHandle: reservationapi.NewReservationHandler(reservation.NewReservationService(reservation.NewInMemoryReservationRepository(), books), defaults),
		TokenAuth:         client.NewTokenAuth(jwtSecret, "library", "library-api"),
		RateLimit: ratelimit.NewMiddleware(ratelimit.Config{
			PerIPPerMinute:      1,
			PerIPBurst:          1,
			PerAccountPerMinute: 1,
			PerAccountBurst:     1,
			BucketTTL:           time.Minute,
		}),
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/books", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/books", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// login routes are not mounted without a handle
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/stub/login", nil)
	req.RemoteAddr = "192.0.2.99:1234"
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
