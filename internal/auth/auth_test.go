package auth

import (
	"testing"
	"time"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Error("VerifyPassword should accept the correct password")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("VerifyPassword should reject an incorrect password")
	}
}

func TestIssueAndVerifyToken(t *testing.T) {
	issuer := NewIssuer("test-signing-secret", time.Minute)
	token, err := issuer.IssueToken("alice")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	subject, err := issuer.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if subject != "alice" {
		t.Errorf("subject = %q, want alice", subject)
	}
}

func TestVerifyTokenRejectsBadSecret(t *testing.T) {
	issuer := NewIssuer("secret-a", time.Minute)
	token, err := issuer.IssueToken("bob")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	other := NewIssuer("secret-b", time.Minute)
	if _, err := other.VerifyToken(token); err != ErrInvalidToken {
		t.Errorf("VerifyToken with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)
	if _, err := issuer.VerifyToken("not-a-jwt"); err != ErrInvalidToken {
		t.Errorf("VerifyToken(garbage) = %v, want ErrInvalidToken", err)
	}
}
