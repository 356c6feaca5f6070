package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueAndVerify(t *testing.T) {
	ta, err := NewTokenAuthority("secret")
	if err != nil {
		t.Fatalf("new authority: %v", err)
	}

	token, expiresAt, err := ta.Issue("sub-1", "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("token has %d segments", len(parts))
	}
	if d := time.Until(expiresAt); d < TokenTTL-time.Minute || d > TokenTTL {
		t.Fatalf("unexpected expiry distance %s", d)
	}

	claims, err := ta.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "sub-1" || claims.Username != "alice" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestNewTokenAuthorityRejectsEmptySecret(t *testing.T) {
	if _, err := NewTokenAuthority(""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestVerifyExpired(t *testing.T) {
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer, _ := NewTokenAuthority("secret", WithClock(fixedClock(issued)))
	token, expiresAt, err := issuer.Issue("sub-1", "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	justBefore, _ := NewTokenAuthority("secret", WithClock(fixedClock(expiresAt.Add(-time.Second))))
	if _, err := justBefore.Verify(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	after, _ := NewTokenAuthority("secret", WithClock(fixedClock(expiresAt.Add(time.Second))))
	if _, err := after.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	ta, _ := NewTokenAuthority("secret")
	token, _, _ := ta.Issue("sub-1", "alice")

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	mid := len(sig) / 2
	if sig[mid] == 'A' {
		sig[mid] = 'B'
	} else {
		sig[mid] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := ta.Verify(tampered); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestVerifyBadSignatureBeatsExpiry(t *testing.T) {
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	other, _ := NewTokenAuthority("other-secret", WithClock(fixedClock(issued)))
	token, _, _ := other.Issue("sub-1", "alice")

	late, _ := NewTokenAuthority("secret", WithClock(fixedClock(issued.Add(48*time.Hour))))
	if _, err := late.Verify(token); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	ta, _ := NewTokenAuthority("secret")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "sub-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noneToken, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "sub-1"}).
		SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign without exp: %v", err)
	}

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign without sub: %v", err)
	}

	cases := map[string]string{
		"empty":      "",
		"garbage":    "not-a-token",
		"alg none":   noneToken,
		"no expiry":  noExp,
		"no subject": noSub,
	}
	for name, token := range cases {
		if _, err := ta.Verify(token); !errors.Is(err, ErrMalformedToken) {
			t.Errorf("%s: expected ErrMalformedToken, got %v", name, err)
		}
	}
}
