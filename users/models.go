// Package users owns the User record and its persistence.
// Authentication logic (password checks, tokens) lives in package auth and
// builds on the Store defined here.
package users

import "time"

// User is a registered account. The password hash never leaves the service.
type User struct {
	ID           int64     `json:"id" example:"1"`
	Username     string    `json:"username" example:"alice"`
	Email        string    `json:"email" example:"alice@example.com"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
