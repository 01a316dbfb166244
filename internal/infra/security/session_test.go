package security

import (
	"errors"
	"testing"
	"time"
)

func TestSessionTokenIssuer_RequiresSecret(t *testing.T) {
	if _, err := NewSessionTokenIssuer("", "account-service", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewSessionTokenIssuer("   ", "account-service", time.Hour); err == nil {
		t.Fatalf("expected error for blank secret")
	}
}

func TestSessionTokenIssuer_IssueAndParse(t *testing.T) {
	issuer, err := NewSessionTokenIssuer("unit-test-secret", "account-service", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionTokenIssuer: %v", err)
	}

	token, err := issuer.Issue("user-1", "alice@example.com", "alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected uid user-1, got %s", claims.UserID)
	}
	if claims.Email != "alice@example.com" || claims.Username != "alice" {
		t.Fatalf("unexpected identity claims: %+v", claims)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject to mirror user id")
	}

	exp := claims.ExpiresAt.Time
	iat := claims.IssuedAt.Time
	if got := exp.Sub(iat); got != time.Hour {
		t.Fatalf("expected one hour lifetime, got %s", got)
	}
}

func TestSessionTokenIssuer_RejectsTampering(t *testing.T) {
	issuer, err := NewSessionTokenIssuer("unit-test-secret", "account-service", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionTokenIssuer: %v", err)
	}

	token, err := issuer.Issue("user-1", "alice@example.com", "alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := issuer.Parse(token + "x"); !errors.Is(err, ErrInvalidSessionToken) {
		t.Fatalf("expected ErrInvalidSessionToken, got %v", err)
	}
	if _, err := issuer.Parse("not-a-token"); !errors.Is(err, ErrInvalidSessionToken) {
		t.Fatalf("expected ErrInvalidSessionToken, got %v", err)
	}
	if _, err := issuer.Parse(""); !errors.Is(err, ErrInvalidSessionToken) {
		t.Fatalf("expected ErrInvalidSessionToken, got %v", err)
	}

	other, err := NewSessionTokenIssuer("different-secret", "account-service", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionTokenIssuer: %v", err)
	}
	foreign, err := other.Issue("user-1", "alice@example.com", "alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := issuer.Parse(foreign); !errors.Is(err, ErrInvalidSessionToken) {
		t.Fatalf("expected ErrInvalidSessionToken for foreign signature, got %v", err)
	}
}

func TestSessionTokenIssuer_Expiry(t *testing.T) {
	issuer, err := NewSessionTokenIssuer("unit-test-secret", "account-service", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionTokenIssuer: %v", err)
	}

	base := time.Now().UTC()
	clock := base
	issuer.WithClock(func() time.Time { return clock })

	token, err := issuer.Issue("user-1", "alice@example.com", "alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	clock = base.Add(59 * time.Minute)
	if _, err := issuer.Parse(token); err != nil {
		t.Fatalf("expected token valid before expiry, got %v", err)
	}

	clock = base.Add(61 * time.Minute)
	if _, err := issuer.Parse(token); !errors.Is(err, ErrExpiredSessionToken) {
		t.Fatalf("expected ErrExpiredSessionToken, got %v", err)
	}
}
