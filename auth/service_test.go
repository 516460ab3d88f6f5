package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/auth"
	"github.com/user/taskmanager-go/config"
	"github.com/user/taskmanager-go/memstore"
)

func newService(t *testing.T) (*auth.AuthService, *auth.TokenService) {
	t.Helper()
	tokens := auth.NewTokenService(&config.AuthConfig{JWTSecret: "secret", AccessTokenDuration: time.Hour})
	return auth.NewAuthService(memstore.New().Users(), tokens), tokens
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newService(t)

	user, token, err := svc.Register(ctx, auth.RegisterRequest{Username: "alice", Email: "a@x.io", Password: "pw"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == 0 || user.PasswordHash == "pw" || user.PasswordHash == "" {
		t.Errorf("Expected stored user with hashed password, got %+v", user)
	}
	if id, err := tokens.Verify(token); err != nil || id != user.ID {
		t.Errorf("Expected registration token for user %d, got %d (%v)", user.ID, id, err)
	}

	loggedIn, token, err := svc.Login(ctx, auth.LoginRequest{Username: "alice", Password: "pw"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("Expected user %d, got %d", user.ID, loggedIn.ID)
	}
	if id, _ := tokens.Verify(token); id != user.ID {
		t.Errorf("Expected login token for user %d, got %d", user.ID, id)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	if _, _, err := svc.Register(ctx, auth.RegisterRequest{Username: "alice", Email: "a@x.io", Password: "pw"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name string
		req  auth.RegisterRequest
		want string
	}{
		{"username", auth.RegisterRequest{Username: "alice", Email: "other@x.io", Password: "pw"}, "Username already exists"},
		{"email", auth.RegisterRequest{Username: "bob", Email: "a@x.io", Password: "pw"}, "Email already exists"},
		{"both", auth.RegisterRequest{Username: "alice", Email: "a@x.io", Password: "pw"}, "Username already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.req)
			appErr, ok := apperror.FromError(err)
			if !ok || appErr.StatusCode() != 400 || appErr.Message != tt.want {
				t.Errorf("Expected 400 %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoginFailuresLookAlike(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	if _, _, err := svc.Register(ctx, auth.RegisterRequest{Username: "alice", Email: "a@x.io", Password: "pw"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	for _, req := range []auth.LoginRequest{
		{Username: "alice", Password: "wrong"},
		{Username: "nobody", Password: "pw"},
	} {
		_, _, err := svc.Login(ctx, req)
		appErr, ok := apperror.FromError(err)
		if !ok || appErr.StatusCode() != 401 || appErr.Message != "Invalid credentials" {
			t.Errorf("Login(%s): expected 401 Invalid credentials, got %v", req.Username, err)
		}
	}
}
