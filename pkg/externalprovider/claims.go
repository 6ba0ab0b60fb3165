package externalprovider

import "strings"

// FromClaims normalizes a provider claim set into an ExternalUserInfo.
// It understands both plain OAuth2 user-info attributes and OIDC ID token
// claims: the display name falls back from "name" to given/family name and
// then to "preferred_username".
func FromClaims(providerID string, claims map[string]any) *ExternalUserInfo {
	info := &ExternalUserInfo{
		ProviderID:    providerID,
		ExternalID:    getStringValue(claims, "sub"),
		Email:         getStringValue(claims, "email"),
		EmailVerified: getBoolValue(claims, "email_verified"),
		Name:          getStringValue(claims, "name"),
	}

	if info.ExternalID == "" {
		info.ExternalID = getStringValue(claims, "id")
	}

	if info.Name == "" {
		given := getStringValue(claims, "given_name")
		family := getStringValue(claims, "family_name")
		info.Name = strings.TrimSpace(given + " " + family)
	}
	if info.Name == "" {
		info.Name = getStringValue(claims, "preferred_username")
	}

	return info
}

func getStringValue(data map[string]any, key string) string {
	if value, ok := data[key]; ok {
		if str, ok := value.(string); ok {
			return strings.TrimSpace(str)
		}
	}
	return ""
}

func getBoolValue(data map[string]any, key string) bool {
	switch v := data[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
