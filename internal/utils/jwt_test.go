package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jchiwaii/blood-donations-sub000/internal/model"
)

const testSecret = "test-secret"

func testUser() model.User {
	return model.User{ID: 42, Name: "Jane Doe", Email: "jane@example.com", Role: model.RoleDonor}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken(testSecret, testUser(), 7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if tok.ID == "" {
		t.Fatal("expected non-empty token id")
	}

	claims, err := ParseSessionToken(testSecret, tok.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Name != "Jane Doe" || claims.Email != "jane@example.com" || claims.Role != model.RoleDonor {
		t.Fatalf("claims drifted from issued identity: %+v", claims)
	}
	if claims.TokenID != tok.ID {
		t.Fatalf("jti mismatch: issued %q parsed %q", tok.ID, claims.TokenID)
	}
	if d := claims.Exp.Sub(time.Now().UTC()); d < 6*24*time.Hour || d > 7*24*time.Hour {
		t.Fatalf("expiry not ~7 days out: %v", d)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	tok, err := NewSessionToken(testSecret, testUser(), -1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := ParseSessionToken(testSecret, tok.Token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	tok, err := NewSessionToken(testSecret, testUser(), 7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := ParseSessionToken("other-secret", tok.Token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
	if _, err := ParseSessionToken(testSecret, tok.Token+"x"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for mangled token, got %v", err)
	}
}

func TestMalformedInputRejected(t *testing.T) {
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := ParseSessionToken(testSecret, raw); err != ErrInvalidToken {
			t.Fatalf("input %q: expected ErrInvalidToken, got %v", raw, err)
		}
	}
}

func TestNoneAlgorithmRejected(t *testing.T) {
	// A token declaring alg=none must not verify even with a matching
	// payload shape.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": 42, "role": model.RoleAdmin, "jti": "x",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseSessionToken(testSecret, raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}
