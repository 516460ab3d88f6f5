// This file, `context.go`, carries the authenticated caller through the request
// `context.Context`. The middleware stores the resolved *users.User once;
// handlers read it back and never derive the caller from request input.
package auth

import (
	"context"

	"github.com/user/taskmanager-go/users"
)

// contextKey is unexported so no other package can collide with or forge the key.
type contextKey string

const userContextKey contextKey = "auth_user"

// NewContextWithUser returns a copy of ctx carrying the authenticated user.
func NewContextWithUser(ctx context.Context, u *users.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// UserFromContext returns the authenticated user stored by JWTMiddleware.
func UserFromContext(ctx context.Context) (*users.User, bool) {
	u, ok := ctx.Value(userContextKey).(*users.User)
	return u, ok && u != nil
}
