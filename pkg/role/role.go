package role

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the closed set of roles an account can hold.
type Role string

const (
	Standard Role = "standard"
	Elevated Role = "elevated"
)

// Default is assigned to every account created by identity resolution.
const Default = Standard

// Authority strings exposed to the token and the authorization layer.
const (
	AuthorityUser  = "ROLE_USER"
	AuthorityAdmin = "ROLE_ADMIN"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole maps a stored or token-carried role string to a Role.
// It accepts the role names and the legacy authority strings, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Standard), strings.ToLower(AuthorityUser):
		return Standard, nil
	case string(Elevated), strings.ToLower(AuthorityAdmin):
		return Elevated, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// Authority returns the single authority derived from the role.
func (r Role) Authority() string {
	switch r {
	case Elevated:
		return AuthorityAdmin
	case Standard:
		return AuthorityUser
	default:
		return ""
	}
}

// Includes reports whether r carries every capability of other.
// Elevated is a strict superset of Standard.
func (r Role) Includes(other Role) bool {
	switch r {
	case Elevated:
		return other == Elevated || other == Standard
	case Standard:
		return other == Standard
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
