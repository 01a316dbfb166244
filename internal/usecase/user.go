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
	"github.com/soclink/account-service/internal/repository"
)

// UserService exposes profile, presence and friends operations.
type UserService struct {
	users  port.UserRepository
	events port.EventPublisher
	log    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(users port.UserRepository, events port.EventPublisher, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, events: events, log: log}
}

// Profile pairs a user record with derived counts for display.
type Profile struct {
	User         domain.User
	FriendsCount int
}

// GetProfile loads a user's profile by id.
func (s *UserService) GetProfile(ctx context.Context, userID string) (Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Profile{}, ErrUserNotFound
		}
		return Profile{}, fmt.Errorf("lookup user: %w", err)
	}

	count, err := s.users.CountFriends(ctx, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("count friends: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return Profile{User: sanitized, FriendsCount: count}, nil
}

// UpdateProfile applies partial changes to the mutable profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update port.ProfileUpdate) (domain.User, error) {
	var fields []string

	if update.FullName != nil {
		trimmed := strings.TrimSpace(*update.FullName)
		if utf8.RuneCountInString(trimmed) > domain.FullNameMaxLength {
			return domain.User{}, fmt.Errorf("%w: full name must be at most %d characters", ErrValidation, domain.FullNameMaxLength)
		}
		update.FullName = &trimmed
		fields = append(fields, "full_name")
	}
	if update.Bio != nil {
		if utf8.RuneCountInString(*update.Bio) > domain.BioMaxLength {
			return domain.User{}, fmt.Errorf("%w: bio must be at most %d characters", ErrValidation, domain.BioMaxLength)
		}
		fields = append(fields, "bio")
	}

	user, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}

	if len(fields) > 0 {
		s.publishProfileUpdated(ctx, userID, fields)
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return sanitized, nil
}

// UpdateStatus sets the presence status shown on the profile.
func (s *UserService) UpdateStatus(ctx context.Context, userID string, status domain.UserStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	if err := s.users.UpdateStatus(ctx, userID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update status: %w", err)
	}

	return nil
}

// AddFriend links another account into the user's friends set. Adding an
// existing friend is a no-op.
func (s *UserService) AddFriend(ctx context.Context, userID, friendID string) error {
	if _, err := s.users.GetByID(ctx, friendID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup friend: %w", err)
	}

	if err := s.users.AddFriend(ctx, userID, friendID); err != nil {
		return fmt.Errorf("add friend: %w", err)
	}

	return nil
}

// RemoveFriend removes an account from the user's friends set.
func (s *UserService) RemoveFriend(ctx context.Context, userID, friendID string) error {
	if err := s.users.RemoveFriend(ctx, userID, friendID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("remove friend: %w", err)
	}
	return nil
}

// ListFriends returns the user's friends set, oldest link first.
func (s *UserService) ListFriends(ctx context.Context, userID string) ([]domain.Friend, error) {
	friends, err := s.users.ListFriends(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return friends, nil
}

func (s *UserService) publishProfileUpdated(ctx context.Context, userID string, fields []string) {
	if s.events == nil {
		return
	}
	event := domain.ProfileUpdatedEvent{
		EventID:   uuid.NewString(),
		UserID:    userID,
		Fields:    fields,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.events.PublishProfileUpdated(ctx, event); err != nil {
		s.log.Warn("publish profile updated event failed", zap.Error(err), zap.String("user_id", userID))
	}
}
