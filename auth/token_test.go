package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/taskmanager-go/config"
)

func newTestTokenService(secret string, ttl time.Duration) *TokenService {
	return NewTokenService(&config.AuthConfig{JWTSecret: secret, AccessTokenDuration: ttl, Issuer: "test"})
}

func TestIssueAndVerify(t *testing.T) {
	s := newTestTokenService("secret", time.Hour)

	tokenA, expiresAt, err := s.Issue(1)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	tokenB, _, err := s.Issue(2)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if time.Until(expiresAt) > time.Hour || time.Until(expiresAt) < 59*time.Minute {
		t.Errorf("Expected expiry about an hour away, got %s", expiresAt)
	}

	idA, err := s.Verify(tokenA)
	if err != nil || idA != 1 {
		t.Errorf("Expected token A to verify as user 1, got %d (%v)", idA, err)
	}
	idB, err := s.Verify(tokenB)
	if err != nil || idB != 2 {
		t.Errorf("Expected token B to verify as user 2, got %d (%v)", idB, err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	s := newTestTokenService("secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	s.now = func() time.Time { return issued }
	token, _, err := s.Issue(1)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	s.now = time.Now
	if _, err := s.Verify(token); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	s := newTestTokenService("secret", time.Hour)
	other := newTestTokenService("other-secret", time.Hour)
	good, _, _ := s.Issue(1)
	foreign, _, _ := other.Issue(1)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	none, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "test"},
	})
	noExp, _ := noExpiry.SignedString([]byte("secret"))

	for name, token := range map[string]string{
		"garbage":        "not.a.token",
		"empty":          "",
		"other secret":   foreign,
		"tampered":       tampered,
		"alg none":       none,
		"missing expiry": noExp,
	} {
		if id, err := s.Verify(token); err != ErrInvalidToken {
			t.Errorf("%s: expected ErrInvalidToken, got id=%d err=%v", name, id, err)
		}
	}
}
