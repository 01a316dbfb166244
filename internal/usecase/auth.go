package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/soclink/account-service/internal/core/domain"
	"github.com/soclink/account-service/internal/core/port"
	"github.com/soclink/account-service/internal/infra/security"
	"github.com/soclink/account-service/internal/repository"
)

// AuthService coordinates credential checks and session token issuance.
type AuthService struct {
	users  port.UserRepository
	issuer *security.SessionTokenIssuer
	events port.EventPublisher
	log    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users port.UserRepository, issuer *security.SessionTokenIssuer, events port.EventPublisher, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, issuer: issuer, events: events, log: log}
}

// AuthResult carries a freshly issued session token and the authenticated user.
type AuthResult struct {
	Token     string
	ExpiresIn time.Duration
	User      domain.User
}

// Authenticate validates credentials and issues a signed session token.
// An unknown email reports ErrUserNotFound while a wrong password reports
// ErrInvalidCredentials; the two stay distinguishable deliberately so the
// transport layer can keep its documented status codes.
func (s *AuthService) Authenticate(ctx context.Context, email, password string, ip *string) (AuthResult, error) {
	var zero AuthResult

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return zero, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if password == "" {
		return zero, fmt.Errorf("%w: password is required", ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, ErrUserNotFound
		}
		return zero, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return zero, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return zero, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID, user.Email, user.Username)
	if err != nil {
		return zero, fmt.Errorf("issue session token: %w", err)
	}

	if err := s.users.UpdateStatus(ctx, user.ID, domain.UserStatusOnline); err != nil {
		s.log.Warn("update status on login failed", zap.Error(err), zap.String("user_id", user.ID))
	} else {
		user.Status = domain.UserStatusOnline
	}

	s.publishLoggedIn(ctx, user.ID, user.Email, ip)

	sanitized := *user
	sanitized.PasswordHash = ""

	return AuthResult{Token: token, ExpiresIn: s.issuer.TTL(), User: sanitized}, nil
}

// ParseSessionToken validates a session token's signature and expiry and
// returns its claims. No storage lookup happens here; a token stays valid
// until it expires.
func (s *AuthService) ParseSessionToken(token string) (*security.SessionClaims, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		if errors.Is(err, security.ErrExpiredSessionToken) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CurrentUser resolves the account behind a session token, reading a fresh
// snapshot so revoked or mutated accounts are reflected immediately.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	claims, err := s.ParseSessionToken(token)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return sanitized, nil
}

// Logout marks the account offline. Session tokens remain formally valid
// until expiry; logout only clears the browser cookie and presence state.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}

	if err := s.users.UpdateStatus(ctx, userID, domain.UserStatusOffline); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update status on logout: %w", err)
	}

	s.publishLoggedOut(ctx, userID)
	return nil
}

func (s *AuthService) publishLoggedIn(ctx context.Context, userID, email string, ip *string) {
	if s.events == nil {
		return
	}
	event := domain.UserLoggedInEvent{
		EventID:    uuid.NewString(),
		UserID:     userID,
		Email:      email,
		LoggedInAt: time.Now().UTC(),
		IP:         ip,
	}
	if err := s.events.PublishUserLoggedIn(ctx, event); err != nil {
		s.log.Warn("publish login event failed", zap.Error(err), zap.String("user_id", userID))
	}
}

func (s *AuthService) publishLoggedOut(ctx context.Context, userID string) {
	if s.events == nil {
		return
	}
	event := domain.UserLoggedOutEvent{
		EventID:     uuid.NewString(),
		UserID:      userID,
		LoggedOutAt: time.Now().UTC(),
	}
	if err := s.events.PublishUserLoggedOut(ctx, event); err != nil {
		s.log.Warn("publish logout event failed", zap.Error(err), zap.String("user_id", userID))
	}
}
