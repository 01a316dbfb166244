package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soclink/account-service/internal/infra/security"
)

func TestPasswordReset_Flow(t *testing.T) {
	users := newMockUserRepository()
	registered := registerTestUser(t, users, "alice@example.com", "secret1")
	tokens := newMockTokenRepository()
	events := &capturingPublisher{}
	svc := NewPasswordResetService(users, tokens, events, testPasswordValidator(), nil)

	request, err := svc.RequestReset(context.Background(), "alice@example.com", nil)
	if err != nil {
		t.Fatalf("RequestReset returned error: %v", err)
	}
	if request.Token == "" {
		t.Fatalf("expected a reset token")
	}
	if len(events.resetRequested) != 1 {
		t.Fatalf("expected a reset requested event")
	}

	if err := svc.ConfirmReset(context.Background(), request.Token, "newsecret1"); err != nil {
		t.Fatalf("ConfirmReset returned error: %v", err)
	}
	if len(events.passwordChanged) != 1 {
		t.Fatalf("expected a password changed event")
	}

	stored := users.users[registered.ID]
	if ok, err := security.VerifyPassword("newsecret1", stored.PasswordHash); err != nil || !ok {
		t.Fatalf("expected new password to verify, ok=%v err=%v", ok, err)
	}
	if ok, _ := security.VerifyPassword("secret1", stored.PasswordHash); ok {
		t.Fatalf("expected old password to stop working")
	}

	// The token is single use.
	if err := svc.ConfirmReset(context.Background(), request.Token, "anothersecret"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on reuse, got %v", err)
	}
}

func TestRequestReset_UnknownEmail(t *testing.T) {
	svc := NewPasswordResetService(newMockUserRepository(), newMockTokenRepository(), nil, testPasswordValidator(), nil)

	if _, err := svc.RequestReset(context.Background(), "ghost@example.com", nil); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRequestReset_InvalidatesPrevious(t *testing.T) {
	users := newMockUserRepository()
	registerTestUser(t, users, "alice@example.com", "secret1")
	tokens := newMockTokenRepository()
	svc := NewPasswordResetService(users, tokens, nil, testPasswordValidator(), nil)

	first, err := svc.RequestReset(context.Background(), "alice@example.com", nil)
	if err != nil {
		t.Fatalf("RequestReset returned error: %v", err)
	}
	second, err := svc.RequestReset(context.Background(), "alice@example.com", nil)
	if err != nil {
		t.Fatalf("RequestReset returned error: %v", err)
	}

	if err := svc.ConfirmReset(context.Background(), first.Token, "newsecret1"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for superseded token, got %v", err)
	}
	if err := svc.ConfirmReset(context.Background(), second.Token, "newsecret1"); err != nil {
		t.Fatalf("ConfirmReset returned error: %v", err)
	}
}

func TestConfirmReset_Expired(t *testing.T) {
	users := newMockUserRepository()
	registerTestUser(t, users, "alice@example.com", "secret1")
	tokens := newMockTokenRepository()
	svc := NewPasswordResetService(users, tokens, nil, testPasswordValidator(), nil)

	request, err := svc.RequestReset(context.Background(), "alice@example.com", nil)
	if err != nil {
		t.Fatalf("RequestReset returned error: %v", err)
	}

	for id, token := range tokens.tokens {
		token.ExpiresAt = time.Now().UTC().Add(-time.Minute)
		tokens.tokens[id] = token
	}

	if err := svc.ConfirmReset(context.Background(), request.Token, "newsecret1"); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestConfirmReset_WeakPassword(t *testing.T) {
	users := newMockUserRepository()
	registerTestUser(t, users, "alice@example.com", "secret1")
	tokens := newMockTokenRepository()
	svc := NewPasswordResetService(users, tokens, nil, testPasswordValidator(), nil)

	request, err := svc.RequestReset(context.Background(), "alice@example.com", nil)
	if err != nil {
		t.Fatalf("RequestReset returned error: %v", err)
	}

	if err := svc.ConfirmReset(context.Background(), request.Token, "tiny"); !errors.Is(err, ErrPasswordPolicyViolation) {
		t.Fatalf("expected ErrPasswordPolicyViolation, got %v", err)
	}
}
