package domain

import "time"

// UserStatus enumerates presence states shown on a profile.
type UserStatus string

const (
	UserStatusOnline  UserStatus = "online"
	UserStatusOffline UserStatus = "offline"
	UserStatusAway    UserStatus = "away"
)

// Valid reports whether the status is one of the known presence states.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusOnline, UserStatusOffline, UserStatusAway:
		return true
	}
	return false
}

const (
	UsernameMinLength = 3
	UsernameMaxLength = 30
	FullNameMaxLength = 50
	BioMaxLength      = 150
)

// User mirrors the persisted representation in the users table.
// Optional fields are pointers so absence is distinguishable from empty.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FullName     *string
	Bio          string
	Status       UserStatus
	IsVerified   bool
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Friend is a single entry in a user's friends set.
type Friend struct {
	UserID   string
	FriendID string
	AddedAt  time.Time
}
