package entity

import (
	"time"
)

// User is the aggregate root for the identity domain.
// Passwords are stored as bcrypt hashes in Password field.
//
// Roles is an unordered set: membership is tested by role ID, and
// add/remove go through explicit join operations on the repository
// rather than cascading saves.
type User struct {
	ID                     string
	Username               string
	Email                  string
	Password               string
	Enabled                bool
	PasswordMustBeModified bool
	Roles                  []Role
	Profile                *Profile
	CreatedAt              time.Time
	CreatedBy              string
	UpdatedAt              time.Time
	UpdatedBy              string
}

// RoleNames returns the names of the user's roles. It always returns a
// non-nil slice so token claims serialize as an empty array, never null.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// HasRole reports whether the user's role set contains the given role ID.
func (u *User) HasRole(roleID string) bool {
	for _, r := range u.Roles {
		if r.ID == roleID {
			return true
		}
	}
	return false
}

// FullName returns the profile's composed name, or "" when the user has
// no profile.
func (u *User) FullName() string {
	if u.Profile == nil {
		return ""
	}
	return u.Profile.FullName()
}
