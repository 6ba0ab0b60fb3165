package pkce

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestGenerateCodeVerifier(t *testing.T) {
	v1, err := GenerateCodeVerifier()
	require.NoError(t, err)
	v2, err := GenerateCodeVerifier()
	require.NoError(t, err)

	assert.Len(t, v1.Value, 43)
	assert.NotEqual(t, v1.Value, v2.Value)
	assert.True(t, isValidCodeVerifier(v1.Value))
}

func TestChallengeS256(t *testing.T) {
	// RFC 7636 appendix B
	v := &CodeVerifier{Value: "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"}
	c := v.Challenge()
	assert.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", c.Value)
	assert.Equal(t, ChallengeS256, c.Method)
}

func TestParseCodeVerifier(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid", "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk", false},
		{"too short", "abc", true},
		{"too long", strings.Repeat("a", 129), true},
		{"invalid characters", strings.Repeat("a", 42) + "!", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseCodeVerifier(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, v.Value)
		})
	}
}

func TestAuthCodeOptions(t *testing.T) {
	cfg := &oauth2.Config{
		ClientID: "client",
		Endpoint: oauth2.Endpoint{AuthURL: "https://idp.example.com/authorize"},
	}
	v, err := GenerateCodeVerifier()
	require.NoError(t, err)
	challenge := v.Challenge()

	u, err := url.Parse(cfg.AuthCodeURL("state", challenge.AuthCodeOptions()...))
	require.NoError(t, err)
	assert.Equal(t, challenge.Value, u.Query().Get("code_challenge"))
	assert.Equal(t, "S256", u.Query().Get("code_challenge_method"))

	var none *CodeChallenge
	assert.Empty(t, none.AuthCodeOptions())
	var noVerifier *CodeVerifier
	assert.Empty(t, noVerifier.ExchangeOptions())
	assert.Len(t, v.ExchangeOptions(), 1)
}
