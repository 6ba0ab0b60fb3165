package tokengenerator

import (
	"net/http"
	"time"

	"github.com/tendant/simple-library/pkg/principal"
)

// TokenResponse is returned to the client after a successful login
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// JwtService issues access tokens and keeps the access cookie in step
type JwtService struct {
	Generator         TokenGenerator
	CookieSetter      CookieSetter
	AccessTokenExpiry time.Duration
}

// NewJwtService creates a JwtService; a non-positive expiry falls back to
// DefaultAccessTokenExpiry.
func NewJwtService(generator TokenGenerator, cookieSetter CookieSetter, accessTokenExpiry time.Duration) *JwtService {
	if accessTokenExpiry <= 0 {
		accessTokenExpiry = DefaultAccessTokenExpiry
	}
	return &JwtService{
		Generator:         generator,
		CookieSetter:      cookieSetter,
		AccessTokenExpiry: accessTokenExpiry,
	}
}

// IssueAccessToken signs a token for p and sets it as the access cookie
func (s *JwtService) IssueAccessToken(w http.ResponseWriter, p *principal.Principal) (TokenResponse, error) {
	token, expiresAt, err := s.Generator.GenerateToken(p, s.AccessTokenExpiry)
	if err != nil {
		return TokenResponse{}, err
	}
	if s.CookieSetter != nil {
		if err := s.CookieSetter.SetCookie(w, ACCESS_TOKEN_NAME, token, expiresAt); err != nil {
			return TokenResponse{}, err
		}
	}
	return TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// ClearAccessToken expires the access cookie
func (s *JwtService) ClearAccessToken(w http.ResponseWriter) error {
	if s.CookieSetter == nil {
		return nil
	}
	return s.CookieSetter.ClearCookie(w, ACCESS_TOKEN_NAME)
}
