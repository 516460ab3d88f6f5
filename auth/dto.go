// This file, `dto.go`, defines the request and response bodies of the auth endpoints.
package auth

import "github.com/user/taskmanager-go/users"

// maxPasswordBytes is the longest input bcrypt will hash.
const maxPasswordBytes = 72

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username" example:"alice" validate:"required,max=80"`
	Email    string `json:"email" example:"alice@example.com" validate:"required,max=120,email"`
	// bcrypt only looks at the first 72 bytes, longer passwords are rejected.
	Password string `json:"password" example:"pw123" validate:"required,max=72"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"pw123"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string      `json:"message" example:"Login successful"`
	User    *users.User `json:"user"`
	Token   string      `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}
