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

const resetTokenTTL = time.Hour

// PasswordResetService manages the reset-token lifecycle.
type PasswordResetService struct {
	users             port.UserRepository
	tokens            port.TokenRepository
	events            port.EventPublisher
	passwordValidator *security.PasswordValidator
	log               *zap.Logger
}

// NewPasswordResetService constructs a password reset service.
func NewPasswordResetService(
	users port.UserRepository,
	tokens port.TokenRepository,
	events port.EventPublisher,
	validator *security.PasswordValidator,
	log *zap.Logger,
) *PasswordResetService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PasswordResetService{
		users:             users,
		tokens:            tokens,
		events:            events,
		passwordValidator: validator,
		log:               log,
	}
}

// ResetRequest is the outcome of a reset request. The raw token is returned
// once for delivery; only its hash is stored.
type ResetRequest struct {
	Token     string
	ExpiresAt time.Time
}

// RequestReset issues a single-use reset token for the account behind the
// email. Earlier unredeemed reset tokens are invalidated so only the newest
// one works.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string, ip *string) (ResetRequest, error) {
	var zero ResetRequest

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return zero, fmt.Errorf("%w: email is required", ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, ErrUserNotFound
		}
		return zero, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.tokens.InvalidateActive(ctx, user.ID, domain.TokenPurposePasswordReset); err != nil {
		return zero, fmt.Errorf("invalidate previous reset tokens: %w", err)
	}

	rawToken, err := security.GenerateSecureToken(32)
	if err != nil {
		return zero, fmt.Errorf("generate reset token: %w", err)
	}

	now := time.Now().UTC()
	expiresAt := now.Add(resetTokenTTL)
	token := domain.AccountToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: security.HashToken(rawToken),
		Purpose:   domain.TokenPurposePasswordReset,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return zero, fmt.Errorf("store reset token: %w", err)
	}

	s.publishResetRequested(ctx, user.ID, now, expiresAt, ip)

	return ResetRequest{Token: rawToken, ExpiresAt: expiresAt}, nil
}

// ConfirmReset redeems a reset token and replaces the account password.
func (s *PasswordResetService) ConfirmReset(ctx context.Context, rawToken, newPassword string) error {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return fmt.Errorf("%w: token is required", ErrValidation)
	}

	token, err := s.tokens.GetByHash(ctx, security.HashToken(rawToken), domain.TokenPurposePasswordReset)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("lookup reset token: %w", err)
	}

	if token.Consumed() {
		return ErrInvalidToken
	}
	if token.Expired(time.Now().UTC()) {
		return ErrExpiredToken
	}

	if err := s.passwordValidator.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrPasswordPolicyViolation, err)
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	changedAt := time.Now().UTC()
	if err := s.users.UpdatePassword(ctx, token.UserID, passwordHash, changedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.tokens.Consume(ctx, token.ID); err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}

	s.publishPasswordChanged(ctx, token.UserID, changedAt)

	return nil
}

func (s *PasswordResetService) publishResetRequested(ctx context.Context, userID string, at, expiresAt time.Time, ip *string) {
	if s.events == nil {
		return
	}
	event := domain.PasswordResetRequestedEvent{
		EventID:     uuid.NewString(),
		UserID:      userID,
		RequestedAt: at,
		ExpiresAt:   expiresAt,
		IP:          ip,
	}
	if err := s.events.PublishPasswordResetRequested(ctx, event); err != nil {
		s.log.Warn("publish reset requested event failed", zap.Error(err), zap.String("user_id", userID))
	}
}

func (s *PasswordResetService) publishPasswordChanged(ctx context.Context, userID string, at time.Time) {
	if s.events == nil {
		return
	}
	event := domain.PasswordChangedEvent{
		EventID:   uuid.NewString(),
		UserID:    userID,
		ChangedAt: at,
	}
	if err := s.events.PublishPasswordChanged(ctx, event); err != nil {
		s.log.Warn("publish password changed event failed", zap.Error(err), zap.String("user_id", userID))
	}
}
