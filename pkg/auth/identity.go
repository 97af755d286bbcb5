package auth

import (
	"strings"

	"github.com/angelmondragon/plantnet-backend/pkg/enums"
)

// Identity is the authenticated caller: the token email plus the role stored
// for that email at request time. An unknown email carries an empty role.
type Identity struct {
	Email string
	Role  enums.UserRole
}

// HasRole reports whether the caller holds role.
func (i Identity) HasRole(role enums.UserRole) bool {
	return role != "" && i.Role == role
}

// IsAdmin is shorthand for HasRole(enums.UserRoleAdmin).
func (i Identity) IsAdmin() bool {
	return i.HasRole(enums.UserRoleAdmin)
}

// IsOwner reports whether email belongs to the caller. Emails compare
// case-sensitively, matching how they are stored.
func (i Identity) IsOwner(email string) bool {
	return i.Email != "" && strings.TrimSpace(email) == i.Email
}
