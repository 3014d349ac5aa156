package domain

import "time"

// RoleSuperAdmin is the literal role name satisfied by the super-admin flag
// even when no assignment row exists.
const RoleSuperAdmin = "SUPERADMIN"

// User models an authenticated actor in the back office.
//
// Phone is globally unique; Email is unique when set. A staff user's effective
// tenant is its parent (owning) account, referenced by ParentID.
type User struct {
	ID           string    `json:"id"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	SuperAdmin   bool      `json:"super_admin"`
	ParentID     string    `json:"parent_id,omitempty"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the user holds the named role. The super-admin flag
// is an implicit grant of every role, including RoleSuperAdmin itself; other
// names must match an assigned role exactly (case-sensitive, no hierarchy).
func (u *User) HasRole(name string) bool {
	if u.SuperAdmin {
		return true
	}
	for _, r := range u.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// Role is a named capability bucket (e.g. SUPERADMIN, SALES_EXECUTIVE).
// Users are linked to roles through assignment rows, unique per (user, role).
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
