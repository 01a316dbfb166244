package domain

import "time"

// UserRegisteredEvent is emitted after a signup commits.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Username     string
	Email        string
	RegisteredAt time.Time
}

// UserLoggedInEvent is emitted after a successful credential check.
type UserLoggedInEvent struct {
	EventID    string
	UserID     string
	Email      string
	LoggedInAt time.Time
	IP         *string
}

// UserLoggedOutEvent is emitted when a user explicitly ends a session.
type UserLoggedOutEvent struct {
	EventID     string
	UserID      string
	LoggedOutAt time.Time
}

// ProfileUpdatedEvent is emitted after profile fields change.
type ProfileUpdatedEvent struct {
	EventID   string
	UserID    string
	Fields    []string
	UpdatedAt time.Time
}

// PasswordResetRequestedEvent is emitted when a reset token is issued.
type PasswordResetRequestedEvent struct {
	EventID     string
	UserID      string
	RequestedAt time.Time
	ExpiresAt   time.Time
	IP          *string
}

// PasswordChangedEvent is emitted after a reset token is consumed.
type PasswordChangedEvent struct {
	EventID   string
	UserID    string
	ChangedAt time.Time
}
