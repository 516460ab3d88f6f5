package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/user/taskmanager-go/users"
)

type fakeFinder map[int64]*users.User

func (f fakeFinder) GetByID(_ context.Context, id int64) (*users.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, users.ErrNotFound
}

type failingFinder struct{}

func (failingFinder) GetByID(context.Context, int64) (*users.User, error) {
	return nil, errors.New("connection refused")
}

func protected(tokens TokenVerifier, finder UserFinder) http.Handler {
	return JWTMiddleware(tokens, finder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := CurrentUser(r)
		if err != nil {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(u.Username))
	}))
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Expected JSON error body, got %q", rec.Body.String())
	}
	return body.Error
}

func TestJWTMiddlewareRejections(t *testing.T) {
	tokens := newTestTokenService("secret", time.Hour)
	orphan, _, err := tokens.Issue(99)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	foreign, _, err := newTestTokenService("other-secret", time.Hour).Issue(1)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	finder := fakeFinder{1: {ID: 1, Username: "alice"}}

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing header", "", msgMissingToken},
		{"no scheme", "abc.def.ghi", msgBadFormat},
		{"wrong scheme", "Basic dXNlcjpwYXNz", msgBadFormat},
		{"empty token", "Bearer ", msgMissingToken},
		{"garbage token", "Bearer not-a-jwt", msgBadToken},
		{"foreign signature", "Bearer " + foreign, msgBadToken},
		{"deleted user", "Bearer " + orphan, msgUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected(tokens, finder).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("Expected 401, got %d", rec.Code)
			}
			if got := errorMessage(t, rec); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestJWTMiddlewareAcceptsValidToken(t *testing.T) {
	tokens := newTestTokenService("secret", time.Hour)
	token, _, err := tokens.Issue(1)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected(tokens, fakeFinder{1: {ID: 1, Username: "alice"}}).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "alice" {
		t.Errorf("Expected handler to see alice, got %q", rec.Body.String())
	}
}

func TestJWTMiddlewareStorageFailureIs500(t *testing.T) {
	tokens := newTestTokenService("secret", time.Hour)
	token, _, _ := tokens.Issue(1)
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected(tokens, failingFinder{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
}

func TestCurrentUserWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := CurrentUser(req); err == nil {
		t.Error("Expected an error without an authenticated user")
	}
}
