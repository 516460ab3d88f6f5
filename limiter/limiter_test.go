package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/user/taskmanager-go/config"
)

func TestAllowPerClient(t *testing.T) {
	l := New(&config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 2})
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("Expected the burst to be allowed")
	}
	if l.Allow("a") {
		t.Error("Expected third request in the same instant to be rejected")
	}
	if !l.Allow("b") {
		t.Error("Expected another client to have its own bucket")
	}

	fixed = fixed.Add(time.Second)
	if !l.Allow("a") {
		t.Error("Expected a token to be refilled after one second")
	}
}

func TestSweepDropsIdleClients(t *testing.T) {
	l := New(&config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1})
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	l.Allow("idle")
	fixed = fixed.Add(idleTTL + time.Minute)
	l.Allow("active")

	if _, ok := l.clients["idle"]; ok {
		t.Error("Expected idle client to be swept")
	}
	if _, ok := l.clients["active"]; !ok {
		t.Error("Expected active client to be tracked")
	}
}

func TestMiddlewareReturns429(t *testing.T) {
	l := New(&config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1})
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("request %d: expected %d, got %d", i, want, rec.Code)
		}
	}
}
