package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

// ChallengeMethod represents the PKCE challenge method
type ChallengeMethod string

// ChallengeS256 is the only method sent to providers; plain is never used.
const ChallengeS256 ChallengeMethod = "S256"

// CodeVerifier represents a PKCE code verifier
type CodeVerifier struct {
	Value string
}

// CodeChallenge represents a PKCE code challenge
type CodeChallenge struct {
	Value  string
	Method ChallengeMethod
}

// GenerateCodeVerifier generates a cryptographically random code verifier.
// 32 random bytes encode to 43 base64url characters, the minimum length.
func GenerateCodeVerifier() (*CodeVerifier, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return &CodeVerifier{Value: base64.RawURLEncoding.EncodeToString(bytes)}, nil
}

// ParseCodeVerifier checks a verifier read back from the state store.
func ParseCodeVerifier(value string) (*CodeVerifier, error) {
	if len(value) < 43 || len(value) > 128 {
		return nil, fmt.Errorf("code verifier must be between 43 and 128 characters")
	}
	if !isValidCodeVerifier(value) {
		return nil, fmt.Errorf("code verifier contains invalid characters")
	}
	return &CodeVerifier{Value: value}, nil
}

// Challenge derives the S256 challenge for the verifier
func (cv *CodeVerifier) Challenge() *CodeChallenge {
	hash := sha256.Sum256([]byte(cv.Value))
	return &CodeChallenge{
		Value:  base64.RawURLEncoding.EncodeToString(hash[:]),
		Method: ChallengeS256,
	}
}

// AuthCodeOptions adds the challenge to an authorization URL. A nil
// challenge adds nothing.
func (c *CodeChallenge) AuthCodeOptions() []oauth2.AuthCodeOption {
	if c == nil {
		return nil
	}
	return []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_challenge", c.Value),
		oauth2.SetAuthURLParam("code_challenge_method", string(c.Method)),
	}
}

// ExchangeOptions adds the verifier to a token request. A nil verifier adds
// nothing.
func (cv *CodeVerifier) ExchangeOptions() []oauth2.AuthCodeOption {
	if cv == nil {
		return nil
	}
	return []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("code_verifier", cv.Value)}
}

// isValidCodeVerifier checks if the code verifier contains only allowed characters
func isValidCodeVerifier(verifier string) bool {
	allowedChars := "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"
	for _, char := range verifier {
		if !strings.ContainsRune(allowedChars, char) {
			return false
		}
	}
	return true
}
