package domain

import "time"

// UserRole enumerates the roles a user account can hold.
type UserRole string

const (
	RoleCustomer UserRole = "CUSTOMER"
	RoleSeller   UserRole = "SELLER"
	RoleAdmin    UserRole = "ADMIN"
)

// Valid reports whether the role is a known value.
func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// User is the persisted account record. Password holds the opaque string
// received at registration; response shapes never include it.
type User struct {
	ID        int64
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Active    bool
	Role      UserRole
	CreatedAt time.Time
	UpdatedAt time.Time
}
