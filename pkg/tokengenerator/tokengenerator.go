package tokengenerator

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	liberrors "github.com/tendant/simple-library/pkg/errors"
	"github.com/tendant/simple-library/pkg/principal"
	"github.com/tendant/simple-library/pkg/role"
)

const ACCESS_TOKEN_NAME = "access_token"

const DefaultAccessTokenExpiry = 15 * time.Minute

// TokenGenerator issues and parses session tokens for a principal
type TokenGenerator interface {
	GenerateToken(p *principal.Principal, expiry time.Duration) (string, time.Time, error)
	ParseToken(tokenStr string) (*Claims, error)
}

// ExtraClaims carries the principal facts next to the registered claims
type ExtraClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Claims struct for JWT claims
type Claims struct {
	ExtraClaims ExtraClaims `json:"extra_claims"`
	jwt.RegisteredClaims
}

// Principal rebuilds the principal from the claims alone. An unknown role
// or a malformed subject invalidates the token.
func (c *Claims) Principal() (*principal.Principal, error) {
	accountID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, liberrors.Wrap(err, liberrors.ErrCodeTokenInvalid, "token subject is not an account id")
	}
	r, err := role.ParseRole(c.ExtraClaims.Role)
	if err != nil {
		return nil, liberrors.Wrap(err, liberrors.ErrCodeTokenInvalid, "token carries an unknown role")
	}
	return principal.New(accountID, c.ExtraClaims.Email, c.ExtraClaims.Name, r), nil
}

// JwtTokenGenerator implements the TokenGenerator interface with HS256
type JwtTokenGenerator struct {
	Secret   string
	Issuer   string
	Audience string
}

// NewJwtTokenGenerator creates a new JwtTokenGenerator
func NewJwtTokenGenerator(secret, issuer, audience string) *JwtTokenGenerator {
	return &JwtTokenGenerator{
		Secret:   secret,
		Issuer:   issuer,
		Audience: audience,
	}
}

// GenerateToken creates a signed token for p
func (g *JwtTokenGenerator) GenerateToken(p *principal.Principal, expiry time.Duration) (string, time.Time, error) {
	if p == nil {
		return "", time.Time{}, fmt.Errorf("principal is required")
	}
	now := time.Now().UTC()
	claims := Claims{
		ExtraClaims: ExtraClaims{
			Email: p.Email,
			Name:  p.Name,
			Role:  p.Role.String(),
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Minute)),
			Issuer:    g.Issuer,
			Subject:   p.AccountID.String(),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{g.Audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(g.Secret))
	if err != nil {
		slog.Error("Failed sign JWT Claim string!", "err", err)
		return "", time.Time{}, err
	}
	return ss, claims.ExpiresAt.Time, nil
}

// ParseToken parses and validates a token string
func (g *JwtTokenGenerator) ParseToken(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if g.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(g.Issuer))
	}
	if g.Audience != "" {
		opts = append(opts, jwt.WithAudience(g.Audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(g.Secret), nil
	}, opts...)
	if err != nil {
		slog.Debug("Failed parse JWT string!", "err", err)
		return nil, liberrors.Wrap(err, liberrors.ErrCodeTokenInvalid, "invalid token")
	}
	if !token.Valid {
		return nil, liberrors.New(liberrors.ErrCodeTokenInvalid, "invalid token")
	}
	return claims, nil
}
