// Package model - Admin users allowed to manage the registry.
package model

// Roles
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// User represents an operator loaded from the users file or the bootstrap settings
type User struct {
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"` // admin, viewer
	IsActive     bool   `json:"is_active"`
}

// NewUser creates an active user with the given role
func NewUser(username, role string) *User {
	return &User{
		Username: username,
		Role:     role,
		IsActive: true,
	}
}

// IsAdmin returns true if user is admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one the service knows about.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleViewer
}
