// This file, `service.go`, holds the registration and login business logic.
// It acts as the "Service" layer, analogous to an AuthService in Nest.js.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/users"
)

// AuthService ties the user store to the token service.
type AuthService struct {
	users  users.Store
	tokens *TokenService
	now    func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(store users.Store, tokens *TokenService) *AuthService {
	return &AuthService{users: store, tokens: tokens, now: time.Now}
}

// Register creates a user and returns it together with a fresh token.
//
// Username and email are checked before the insert so the client gets a
// specific message. The check and the insert are not atomic, so a unique
// violation at insert time is mapped to the same conflict.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*users.User, string, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, "", apperror.NewInternalError("internal server error", err)
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	user := &users.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.users.WithTx(ctx, func(repo users.Repository) error {
		taken, err := repo.UsernameExists(ctx, req.Username)
		if err != nil {
			return err
		}
		if taken {
			return users.ErrDuplicateUsername
		}
		taken, err = repo.EmailExists(ctx, req.Email)
		if err != nil {
			return err
		}
		if taken {
			return users.ErrDuplicateEmail
		}
		return repo.Create(ctx, user)
	})
	switch {
	case errors.Is(err, users.ErrDuplicateUsername):
		return nil, "", apperror.NewConflictError("Username already exists", nil)
	case errors.Is(err, users.ErrDuplicateEmail):
		return nil, "", apperror.NewConflictError("Email already exists", nil)
	case err != nil:
		return nil, "", err
	}

	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", apperror.NewInternalError("internal server error", err)
	}
	return user, token, nil
}

// Login checks the credentials and returns the user with a fresh token.
// Unknown usernames and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*users.User, string, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, "", apperror.NewAuthError("Invalid credentials", nil)
		}
		return nil, "", err
	}
	if !CheckPassword(req.Password, user.PasswordHash) {
		return nil, "", apperror.NewAuthError("Invalid credentials", nil)
	}

	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", apperror.NewInternalError("internal server error", err)
	}
	return user, token, nil
}
