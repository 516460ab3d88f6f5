// Package limiter throttles requests per client IP with token buckets from
// golang.org/x/time/rate.
package limiter

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/config"
	"github.com/user/taskmanager-go/respond"
)

// idleTTL is how long a client may stay silent before its bucket is dropped.
const idleTTL = 3 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter holds one token bucket per client. Stale buckets are swept while
// handling requests, at most once per minute.
type Limiter struct {
	rps   rate.Limit
	burst int
	now   func() time.Time

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

// New creates a Limiter allowing cfg.RPS requests per second with bursts of cfg.Burst.
func New(cfg *config.RateLimitConfig) *Limiter {
	return &Limiter{
		rps:     rate.Limit(cfg.RPS),
		burst:   cfg.Burst,
		now:     time.Now,
		clients: make(map[string]*client),
	}
}

// Allow reports whether one more request from key fits in its bucket.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= time.Minute {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) >= idleTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Middleware rejects requests over the limit with 429. It keys on RemoteAddr,
// so mount it after middleware.RealIP when running behind a proxy.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			respond.Error(w, r, apperror.NewRateLimitError("rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
