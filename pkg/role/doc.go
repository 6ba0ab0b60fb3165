// Package role is the role authority for simple-library.
//
// Accounts hold exactly one of two roles. Standard is assigned on first login;
// Elevated is a strict superset of Standard and adds catalog mutation and
// cross-account reservation access. Promotion happens outside this service.
//
// # Roles
//
//	r, err := role.ParseRole("ROLE_ADMIN") // role.Elevated
//	r.Authority()                          // "ROLE_ADMIN"
//	r.Includes(role.Standard)              // true
//
// ParseRole is exhaustive: a typo in a stored role is an error, never a
// silently powerless account.
//
// # Operations
//
// Every gated request maps to an Operation. RoleRequirementFor returns the
// declarative rule and Authorize applies it:
//
//	if err := role.Authorize(&p.Role, role.CreateBook); err != nil {
//		return err // UNAUTHORIZED or FORBIDDEN
//	}
//
// Fine-grained, data-dependent checks (reservation ownership) live next to
// the data in pkg/reservation.
package role
