package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestVerifyRoundTrip(t *testing.T) {
	issuer := NewIssuer("secreto", 24*time.Hour)
	verifier := NewVerifier("secreto")

	now := time.Now().UTC()
	token, err := issuer.Issue("maria", RoleCashier, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "maria" {
		t.Errorf("subject = %q, want %q", claims.Subject, "maria")
	}
	if claims.Role != RoleCashier {
		t.Errorf("role = %q, want %q", claims.Role, RoleCashier)
	}
	wantExp := now.Add(24 * time.Hour)
	if d := claims.Expiry.Sub(wantExp); d > time.Second || d < -time.Second {
		t.Errorf("expiry = %v, want ~%v", claims.Expiry, wantExp)
	}
}

func TestVerifyFailures(t *testing.T) {
	issuer := NewIssuer("secreto", 24*time.Hour)
	verifier := NewVerifier("secreto")

	valid, err := issuer.Issue("admin", RoleAdmin, time.Now().UTC())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	expired, err := issuer.Issue("admin", RoleAdmin, time.Now().UTC().Add(-48*time.Hour))
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}
	otherSecret, err := NewIssuer("otro", 24*time.Hour).Issue("admin", RoleAdmin, time.Now().UTC())
	if err != nil {
		t.Fatalf("issue other secret: %v", err)
	}

	// A tampered payload keeps the original signature.
	parts := strings.Split(valid, ".")
	tampered := parts[0] + ".eyJzdWIiOiJvdHJvIn0." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "no-es-un-jwt"},
		{name: "expired token", token: expired},
		{name: "wrong secret", token: otherSecret},
		{name: "tampered payload", token: tampered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(tt.token)
			if !errors.Is(err, ErrUnauthorized) {
				t.Errorf("Verify(%q) error = %v, want ErrUnauthorized", tt.token, err)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword("hunter2", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong", hash) {
		t.Error("wrong password accepted")
	}
}
