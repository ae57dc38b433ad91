package entity

import "time"

// Role represents an authorization role with a globally unique name.
// Many-to-many with User via user_roles; independent lifecycle.
type Role struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	CreatedBy   string
	UpdatedAt   time.Time
	UpdatedBy   string
}
