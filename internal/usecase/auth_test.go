package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soclink/account-service/internal/core/domain"
	"github.com/soclink/account-service/internal/infra/security"
)

func testIssuer(t *testing.T) *security.SessionTokenIssuer {
	t.Helper()

	issuer, err := security.NewSessionTokenIssuer("test-secret-key", "account-service", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionTokenIssuer: %v", err)
	}
	return issuer
}

func registerTestUser(t *testing.T, users *mockUserRepository, email, password string) domain.User {
	t.Helper()

	svc := NewRegistrationService(users, newMockTokenRepository(), nil, testPasswordValidator(), nil)
	result, err := svc.RegisterUser(context.Background(), RegisterInput{Username: "alice", Email: email, Password: password})
	if err != nil {
		t.Fatalf("RegisterUser returned error: %v", err)
	}
	return result.User
}

func TestAuthenticate_Success(t *testing.T) {
	users := newMockUserRepository()
	registered := registerTestUser(t, users, "alice@example.com", "secret1")
	events := &capturingPublisher{}
	svc := NewAuthService(users, testIssuer(t), events, nil)

	result, err := svc.Authenticate(context.Background(), "Alice@Example.com", "secret1", nil)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	if result.Token == "" {
		t.Fatalf("expected a session token")
	}
	if result.User.ID != registered.ID {
		t.Fatalf("expected user %s, got %s", registered.ID, result.User.ID)
	}
	if result.User.PasswordHash != "" {
		t.Fatalf("expected password hash stripped")
	}
	if result.User.Status != domain.UserStatusOnline {
		t.Fatalf("expected login to flip status online, got %s", result.User.Status)
	}
	if result.ExpiresIn != time.Hour {
		t.Fatalf("expected one hour expiry, got %s", result.ExpiresIn)
	}
	if len(events.loggedIn) != 1 {
		t.Fatalf("expected a login event")
	}

	claims, err := svc.ParseSessionToken(result.Token)
	if err != nil {
		t.Fatalf("ParseSessionToken returned error: %v", err)
	}
	if claims.UserID != registered.ID || claims.Email != "alice@example.com" || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newMockUserRepository(), testIssuer(t), nil, nil)

	if _, err := svc.Authenticate(context.Background(), "ghost@example.com", "secret1", nil); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	users := newMockUserRepository()
	registerTestUser(t, users, "alice@example.com", "secret1")
	svc := NewAuthService(users, testIssuer(t), nil, nil)

	if _, err := svc.Authenticate(context.Background(), "alice@example.com", "wrongpass", nil); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestParseSessionToken_Tampered(t *testing.T) {
	users := newMockUserRepository()
	registerTestUser(t, users, "alice@example.com", "secret1")
	svc := NewAuthService(users, testIssuer(t), nil, nil)

	result, err := svc.Authenticate(context.Background(), "alice@example.com", "secret1", nil)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	tampered := result.Token[:len(result.Token)-2] + "xx"
	if _, err := svc.ParseSessionToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	// A token signed with a different secret must not validate either.
	other, err := security.NewSessionTokenIssuer("another-secret", "account-service", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionTokenIssuer: %v", err)
	}
	foreign, err := other.Issue("user-1", "alice@example.com", "alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := svc.ParseSessionToken(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
}

func TestParseSessionToken_Expired(t *testing.T) {
	issuer := testIssuer(t)

	// Issue at a frozen past instant, then parse with the real clock so the
	// token is two hours past its one-hour lifetime.
	clock := func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := issuer.WithClock(clock).Issue("user-1", "alice@example.com", "alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	issuer.WithClock(time.Now)

	svc := NewAuthService(newMockUserRepository(), issuer, nil, nil)
	if _, err := svc.ParseSessionToken(expired); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestCurrentUser(t *testing.T) {
	users := newMockUserRepository()
	registered := registerTestUser(t, users, "alice@example.com", "secret1")
	svc := NewAuthService(users, testIssuer(t), nil, nil)

	result, err := svc.Authenticate(context.Background(), "alice@example.com", "secret1", nil)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	user, err := svc.CurrentUser(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("CurrentUser returned error: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %s, got %s", registered.ID, user.ID)
	}
	if user.PasswordHash != "" {
		t.Fatalf("expected password hash stripped")
	}
}

func TestLogout(t *testing.T) {
	users := newMockUserRepository()
	registered := registerTestUser(t, users, "alice@example.com", "secret1")
	events := &capturingPublisher{}
	svc := NewAuthService(users, testIssuer(t), events, nil)

	if _, err := svc.Authenticate(context.Background(), "alice@example.com", "secret1", nil); err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	if err := svc.Logout(context.Background(), registered.ID); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if users.users[registered.ID].Status != domain.UserStatusOffline {
		t.Fatalf("expected logout to flip status offline")
	}
	if len(events.loggedOut) != 1 {
		t.Fatalf("expected a logout event")
	}

	if err := svc.Logout(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
