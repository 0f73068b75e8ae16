// Package auth provides authentication and authorization types for the REST API.
package auth

import "github.com/quantumx/qvr-backend/model"

// LoginRequest defines the body for login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse defines the session info returned to the frontend
type UserResponse struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"is_admin"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		IsAdmin:  u.IsAdmin(),
	}
}

// LoginResponse is returned by a successful login. The token is also set as a cookie.
type LoginResponse struct {
	Message   string `json:"message"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	UserResponse
}
