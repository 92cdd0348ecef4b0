package auth

import (
	"fmt"

	"github.com/dmitrijs2005/backoffice/internal/common"
)

// Role is an authorization level. The set is closed: see KnownRole.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleViewer Role = "viewer"
)

// KnownRole reports whether r belongs to the closed role set.
func KnownRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleViewer:
		return true
	}
	return false
}

// Identity is the authenticated subject of a request. It is built once at
// login from a verified user record and never mutated afterwards.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Validate requires every field to be present and the role to be known.
func (i Identity) Validate() error {
	switch {
	case i.ID <= 0:
		return fmt.Errorf("%w: missing id", common.ErrInvalidClaim)
	case i.Username == "":
		return fmt.Errorf("%w: missing username", common.ErrInvalidClaim)
	case i.Email == "":
		return fmt.Errorf("%w: missing email", common.ErrInvalidClaim)
	case i.Role == "":
		return fmt.Errorf("%w: missing role", common.ErrInvalidClaim)
	case !KnownRole(i.Role):
		return fmt.Errorf("%w: unknown role %q", common.ErrInvalidClaim, i.Role)
	}
	return nil
}
