package tokengenerator

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	liberrors "github.com/tendant/simple-library/pkg/errors"
	"github.com/tendant/simple-library/pkg/principal"
	"github.com/tendant/simple-library/pkg/role"
)

func TestGenerateAndParseToken(t *testing.T) {
	g := NewJwtTokenGenerator("very-secret", "library", "library-api")
	p := principal.New(uuid.New(), "a@x.com", "Alice", role.Standard)

	token, expiresAt, err := g.GenerateToken(p, time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 5*time.Second)

	claims, err := g.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, p.AccountID.String(), claims.Subject)
	assert.Equal(t, "standard", claims.ExtraClaims.Role)

	got, err := claims.Principal()
	require.NoError(t, err)
	assert.Equal(t, p.AccountID, got.AccountID)
	assert.Equal(t, p.Email, got.Email)
	assert.Equal(t, role.Standard, got.Role)
	assert.Equal(t, []string{role.AuthorityUser}, got.Authorities)
}

func TestParseTokenRejects(t *testing.T) {
	g := NewJwtTokenGenerator("very-secret", "library", "library-api")
	p := principal.New(uuid.New(), "a@x.com", "Alice", role.Elevated)

	t.Run("expired", func(t *testing.T) {
		token, _, err := g.GenerateToken(p, -time.Minute)
		require.NoError(t, err)
		_, err = g.ParseToken(token)
		assert.True(t, liberrors.IsCode(err, liberrors.ErrCodeTokenInvalid))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJwtTokenGenerator("another-secret", "library", "library-api")
		token, _, err := other.GenerateToken(p, time.Minute)
		require.NoError(t, err)
		_, err = g.ParseToken(token)
		assert.True(t, liberrors.IsCode(err, liberrors.ErrCodeTokenInvalid))
	})

	t.Run("wrong audience", func(t *testing.T) {
		other := NewJwtTokenGenerator("very-secret", "library", "someone-else")
		token, _, err := other.GenerateToken(p, time.Minute)
		require.NoError(t, err)
		_, err = g.ParseToken(token)
		assert.True(t, liberrors.IsCode(err, liberrors.ErrCodeTokenInvalid))
	})
}

func TestClaimsPrincipalRejectsUnknownRole(t *testing.T) {
	claims := &Claims{
		ExtraClaims:      ExtraClaims{Email: "a@x.com", Role: "superuser"},
		RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.New().String()},
	}
	_, err := claims.Principal()
	assert.True(t, liberrors.IsCode(err, liberrors.ErrCodeTokenInvalid))

	claims.ExtraClaims.Role = "ROLE_ADMIN"
	p, err := claims.Principal()
	require.NoError(t, err)
	assert.Equal(t, role.Elevated, p.Role)

	claims.Subject = "not-a-uuid"
	_, err = claims.Principal()
	assert.True(t, liberrors.IsCode(err, liberrors.ErrCodeTokenInvalid))
}

func TestJwtServiceSetsAndClearsCookie(t *testing.T) {
	svc := NewJwtService(NewJwtTokenGenerator("very-secret", "library", "library-api"), NewCookieSetter(true, false, 0), 0)
	assert.Equal(t, DefaultAccessTokenExpiry, svc.AccessTokenExpiry)

	rec := httptest.NewRecorder()
	resp, err := svc.IssueAccessToken(rec, principal.New(uuid.New(), "a@x.com", "Alice", role.Standard))
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, ACCESS_TOKEN_NAME, cookies[0].Name)
	assert.Equal(t, resp.AccessToken, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	rec = httptest.NewRecorder()
	require.NoError(t, svc.ClearAccessToken(rec))
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
