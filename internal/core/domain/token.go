package domain

import "time"

// Token purposes accepted by the token repository.
const (
	TokenPurposeEmailVerification = "email_verification"
	TokenPurposePasswordReset     = "password_reset"
)

// AccountToken is a single-use credential artifact (email verification or
// password reset), stored as a SHA-256 hash of the raw value.
type AccountToken struct {
	ID        string
	UserID    string
	TokenHash string
	Purpose   string
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// Expired reports whether the token's validity window has elapsed at ref.
func (t AccountToken) Expired(ref time.Time) bool {
	return ref.After(t.ExpiresAt)
}

// Consumed reports whether the token was already used.
func (t AccountToken) Consumed() bool {
	return t.UsedAt != nil
}
