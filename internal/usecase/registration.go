package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/soclink/account-service/internal/core/domain"
	"github.com/soclink/account-service/internal/core/port"
	"github.com/soclink/account-service/internal/infra/security"
	"github.com/soclink/account-service/internal/repository"
)

const verificationTokenTTL = 24 * time.Hour

// RegistrationService handles new account onboarding.
type RegistrationService struct {
	users             port.UserRepository
	tokens            port.TokenRepository
	events            port.EventPublisher
	passwordValidator *security.PasswordValidator
	log               *zap.Logger
}

// NewRegistrationService constructs a registration service.
func NewRegistrationService(
	users port.UserRepository,
	tokens port.TokenRepository,
	events port.EventPublisher,
	validator *security.PasswordValidator,
	log *zap.Logger,
) *RegistrationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RegistrationService{
		users:             users,
		tokens:            tokens,
		events:            events,
		passwordValidator: validator,
		log:               log,
	}
}

// RegisterInput carries the signup request fields.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// RegistrationResult is the outcome of a successful signup. The raw
// verification token is returned once; only its hash is stored.
type RegistrationResult struct {
	User                     domain.User
	VerificationToken        string
	VerificationTokenExpires time.Time
}

// RegisterUser validates the signup fields, creates the account and issues
// an email verification token. Username and email collisions surface as
// ErrDuplicateUser regardless of which unique index rejected the insert.
func (s *RegistrationService) RegisterUser(ctx context.Context, input RegisterInput) (RegistrationResult, error) {
	var zero RegistrationResult

	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	fullName := strings.TrimSpace(input.FullName)

	if n := utf8.RuneCountInString(username); n < domain.UsernameMinLength || n > domain.UsernameMaxLength {
		return zero, fmt.Errorf("%w: username must be between %d and %d characters", ErrValidation, domain.UsernameMinLength, domain.UsernameMaxLength)
	}
	if email == "" {
		return zero, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if utf8.RuneCountInString(fullName) > domain.FullNameMaxLength {
		return zero, fmt.Errorf("%w: full name must be at most %d characters", ErrValidation, domain.FullNameMaxLength)
	}

	if err := s.passwordValidator.Validate(input.Password); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrPasswordPolicyViolation, err)
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return zero, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Status:       domain.UserStatusOffline,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if fullName != "" {
		user.FullName = &fullName
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return zero, ErrDuplicateUser
		}
		return zero, fmt.Errorf("create user: %w", err)
	}

	rawToken, err := security.GenerateSecureToken(32)
	if err != nil {
		return zero, fmt.Errorf("generate verification token: %w", err)
	}

	expiresAt := now.Add(verificationTokenTTL)
	token := domain.AccountToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: security.HashToken(rawToken),
		Purpose:   domain.TokenPurposeEmailVerification,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return zero, fmt.Errorf("store verification token: %w", err)
	}

	s.publishRegistered(ctx, user)

	user.PasswordHash = ""
	return RegistrationResult{
		User:                     user,
		VerificationToken:        rawToken,
		VerificationTokenExpires: expiresAt,
	}, nil
}

// VerifyEmail redeems a verification token and marks the account verified.
func (s *RegistrationService) VerifyEmail(ctx context.Context, rawToken string) (domain.User, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return domain.User{}, fmt.Errorf("%w: token is required", ErrValidation)
	}

	token, err := s.tokens.GetByHash(ctx, security.HashToken(rawToken), domain.TokenPurposeEmailVerification)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrInvalidToken
		}
		return domain.User{}, fmt.Errorf("lookup verification token: %w", err)
	}

	if token.Consumed() {
		return domain.User{}, ErrInvalidToken
	}
	if token.Expired(time.Now().UTC()) {
		return domain.User{}, ErrExpiredToken
	}

	if err := s.users.SetVerified(ctx, token.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrInvalidToken
		}
		return domain.User{}, fmt.Errorf("mark user verified: %w", err)
	}

	if err := s.tokens.Consume(ctx, token.ID); err != nil {
		return domain.User{}, fmt.Errorf("consume verification token: %w", err)
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return sanitized, nil
}

func (s *RegistrationService) publishRegistered(ctx context.Context, user domain.User) {
	if s.events == nil {
		return
	}
	event := domain.UserRegisteredEvent{
		EventID:      uuid.NewString(),
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		RegisteredAt: user.CreatedAt,
	}
	if err := s.events.PublishUserRegistered(ctx, event); err != nil {
		s.log.Warn("publish user registered event failed", zap.Error(err), zap.String("user_id", user.ID))
	}
}
