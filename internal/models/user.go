package models

import (
	"time"

	"github.com/google/uuid"
)

// Role constants, ordered user < moderator < admin.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// RoleRank returns the capability level of a role. Unknown roles rank below user.
func RoleRank(role string) int {
	switch role {
	case RoleUser:
		return 1
	case RoleModerator:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	return RoleRank(role) > 0
}

// User represents a user authenticated via OIDC.
type User struct {
	ID        uuid.UUID `json:"id"`
	Sub       string    `json:"sub"` // OIDC subject identifier
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Resolved from the identity provider on every request, never stored.
	Role string `json:"role"`
}

// HasRole returns true if the user's role satisfies the required level.
func (u *User) HasRole(level string) bool {
	required := RoleRank(level)
	return required > 0 && RoleRank(u.Role) >= required
}

// IsAdmin returns true if the user is an admin.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsModerator returns true if the user can review submissions.
func (u *User) IsModerator() bool {
	return u.HasRole(RoleModerator)
}

// Owns returns true if the user created the record.
func (u *User) Owns(createdBy uuid.UUID) bool {
	return createdBy != uuid.Nil && u.ID == createdBy
}
