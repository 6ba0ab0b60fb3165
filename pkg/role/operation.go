package role

import (
	"fmt"

	liberrors "github.com/tendant/simple-library/pkg/errors"
)

// Operation names a class of request the authorization layer gates.
type Operation string

const (
	ReadBook   Operation = "book:read"
	ListBooks  Operation = "book:list"
	CreateBook Operation = "book:create"
	UpdateBook Operation = "book:update"
	DeleteBook Operation = "book:delete"

	CreateReservation     Operation = "reservation:create"
	ReadOwnReservation    Operation = "reservation:read:own"
	CancelOwnReservation  Operation = "reservation:cancel:own"
	ListOwnReservations   Operation = "reservation:list:own"
	ReadAnyReservation    Operation = "reservation:read:any"
	CancelAnyReservation  Operation = "reservation:cancel:any"
	ListAllReservations   Operation = "reservation:list:all"
	ListOtherReservations Operation = "reservation:list:other"
)

// Requirement is the declarative rule attached to an operation.
// Public operations need no principal; otherwise the principal's role must
// include Role.
type Requirement struct {
	Public bool
	Role   Role
}

// RoleRequirementFor returns the requirement for op.
func RoleRequirementFor(op Operation) (Requirement, error) {
	switch op {
	case ReadBook, ListBooks:
		return Requirement{Public: true}, nil
	case CreateBook, UpdateBook, DeleteBook:
		return Requirement{Role: Elevated}, nil
	case CreateReservation, ReadOwnReservation, CancelOwnReservation, ListOwnReservations:
		return Requirement{Role: Standard}, nil
	case ReadAnyReservation, CancelAnyReservation, ListAllReservations, ListOtherReservations:
		return Requirement{Role: Elevated}, nil
	default:
		return Requirement{}, fmt.Errorf("no requirement for operation %q", op)
	}
}

// Authorize checks op against the requirement table. Unknown operations
// fail closed with FORBIDDEN.
func Authorize(r *Role, op Operation) error {
	req, err := RoleRequirementFor(op)
	if err != nil {
		return liberrors.Wrap(err, liberrors.ErrCodeForbidden, "operation not permitted")
	}
	if req.Public {
		return nil
	}
	if r == nil {
		return liberrors.Unauthorized("authentication required")
	}
	if !r.Includes(req.Role) {
		return liberrors.Forbidden(fmt.Sprintf("role %s may not perform %s", *r, op)).
			WithDetail("required_role", req.Role.String())
	}
	return nil
}
