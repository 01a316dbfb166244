package port

import (
	"context"
	"time"

	"github.com/soclink/account-service/internal/core/domain"
)

// ProfileUpdate carries the mutable profile fields; nil means "leave as is".
type ProfileUpdate struct {
	FullName *string
	Bio      *string
}

// UserRepository persists user records. Uniqueness of username and email is
// enforced by the store itself so concurrent duplicate signups cannot both
// succeed; violations surface as repository.ErrDuplicate.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error)
	UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error
	UpdatePassword(ctx context.Context, id string, passwordHash string, changedAt time.Time) error
	SetVerified(ctx context.Context, id string) error

	AddFriend(ctx context.Context, userID, friendID string) error
	RemoveFriend(ctx context.Context, userID, friendID string) error
	ListFriends(ctx context.Context, userID string) ([]domain.Friend, error)
	CountFriends(ctx context.Context, userID string) (int, error)
}
