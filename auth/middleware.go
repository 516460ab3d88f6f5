// This file, `middleware.go`, guards protected routes.
// In Nest.js this would be a Guard implementing `CanActivate`.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/respond"
	"github.com/user/taskmanager-go/users"
)

// Messages returned by JWTMiddleware, all with 401.
const (
	msgMissingToken = "Authentication token is missing"
	msgBadFormat    = "Invalid token format"
	msgBadToken     = "Invalid or expired token"
	msgUserNotFound = "User not found"
)

// TokenVerifier resolves a token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// UserFinder loads a user by id; it returns users.ErrNotFound for unknown ids.
type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*users.User, error)
}

// JWTMiddleware authenticates the request and stores the caller in the context.
// Checks run in a fixed order: header present, `Bearer <token>` format, token
// valid, user still exists. Every failure stops the chain with 401 and has no
// side effects.
func JWTMiddleware(tokens TokenVerifier, finder UserFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Authorization")

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respond.Error(w, r, apperror.NewAuthError(msgMissingToken, nil))
				return
			}

			scheme, tokenString, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") {
				respond.Error(w, r, apperror.NewAuthError(msgBadFormat, nil))
				return
			}
			tokenString = strings.TrimSpace(tokenString)
			if tokenString == "" {
				respond.Error(w, r, apperror.NewAuthError(msgMissingToken, nil))
				return
			}

			userID, err := tokens.Verify(tokenString)
			if err != nil {
				respond.Error(w, r, apperror.NewAuthError(msgBadToken, nil))
				return
			}

			// The user may have been deleted after the token was issued.
			user, err := finder.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, users.ErrNotFound) {
					respond.Error(w, r, apperror.NewAuthError(msgUserNotFound, nil))
					return
				}
				respond.Error(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContextWithUser(r.Context(), user)))
		})
	}
}

// CurrentUser returns the authenticated caller or an AuthError when a handler is
// mounted without JWTMiddleware.
func CurrentUser(r *http.Request) (*users.User, error) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		return nil, apperror.NewAuthError(msgMissingToken, nil)
	}
	return u, nil
}
