// Package access models the caller of a service operation and the single
// ownership rule every protected entity goes through.
package access

import (
	"coderr/models"
	"coderr/services/errs"
)

// Role of an authenticated caller
type Role string

const (
	RoleBusiness Role = "business"
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
)

// Principal is the identity a request runs as
type Principal struct {
	UserID        uint
	Role          Role
	Authenticated bool
}

// Anonymous is the principal of an unauthenticated request
func Anonymous() Principal {
	return Principal{}
}

// User builds the principal for a stored user
func User(u models.User) Principal {
	return Principal{UserID: u.ID, Role: RoleOf(u), Authenticated: true}
}

// RoleOf resolves the role of a stored user. Staff wins over the account type.
func RoleOf(u models.User) Role {
	if u.IsStaff {
		return RoleStaff
	}
	return Role(u.Type)
}

func (p Principal) IsStaff() bool {
	return p.Authenticated && p.Role == RoleStaff
}

// Owned is implemented by every entity that has one owning user
type Owned interface {
	OwnerID() uint
}

// RequireAuthenticated fails for anonymous callers
func RequireAuthenticated(p Principal) error {
	if !p.Authenticated {
		return errs.Unauthorized("Authentication credentials were not provided.")
	}
	return nil
}

// RequireRole passes when the caller holds one of roles
func RequireRole(p Principal, roles ...Role) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	for _, r := range roles {
		if p.Role == r {
			return nil
		}
	}
	return errs.Forbidden("You do not have permission to perform this action.")
}

// RequireOwner passes for staff and for the owner of o
func RequireOwner(p Principal, o Owned) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if p.IsStaff() || o.OwnerID() == p.UserID {
		return nil
	}
	return errs.Forbidden("You do not have permission to perform this action.")
}
