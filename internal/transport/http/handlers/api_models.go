package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soclink/account-service/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserSummary is the public projection of a user returned by the API.
// Password hashes never appear here.
type UserSummary struct {
	ID         string            `json:"id"`
	Username   string            `json:"username"`
	Email      string            `json:"email"`
	FullName   *string           `json:"full_name,omitempty"`
	Bio        string            `json:"bio"`
	Status     domain.UserStatus `json:"status"`
	IsVerified bool              `json:"is_verified"`
	CreatedAt  time.Time         `json:"created_at"`
}

func newUserSummary(user domain.User) UserSummary {
	return UserSummary{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FullName:   user.FullName,
		Bio:        user.Bio,
		Status:     user.Status,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}

// SignupRequest defines the account registration payload.
type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName"`
}

// SignupResponse is returned after a successful registration.
type SignupResponse struct {
	Success bool        `json:"success"`
	User    UserSummary `json:"user"`
	Message string      `json:"message,omitempty"`
	// DevVerificationToken is only populated in development mode; in
	// production the token travels through the notification dispatcher.
	DevVerificationToken *string `json:"dev_verification_token,omitempty"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginUser is the compact user view embedded in login responses.
type LoginUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResponse describes the response returned for a successful login.
// The session token itself travels in the cookie, not the body.
type LoginResponse struct {
	Success bool      `json:"success"`
	User    LoginUser `json:"user"`
}

// ProfileResponse returns the authenticated user's profile.
type ProfileResponse struct {
	User         UserSummary `json:"user"`
	FriendsCount int         `json:"friends_count"`
}

// ProfileUpdateRequest carries partial profile changes; absent fields are
// left untouched.
type ProfileUpdateRequest struct {
	FullName *string `json:"fullName"`
	Bio      *string `json:"bio"`
}

// StatusUpdateRequest sets the presence status.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// VerifyRequest holds the email verification payload.
type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

// VerifyResponse is returned after a successful verification.
type VerifyResponse struct {
	Success bool        `json:"success"`
	User    UserSummary `json:"user"`
}

// PasswordResetRequest asks for a reset token to be issued.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetResponse acknowledges a reset request.
type PasswordResetResponse struct {
	Message   string  `json:"message"`
	ExpiresAt string  `json:"expires_at,omitempty"`
	DevToken  *string `json:"dev_token,omitempty"` // Development only
}

// PasswordResetConfirmRequest redeems a reset token.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// FriendPayload describes one friends-set entry.
type FriendPayload struct {
	FriendID string    `json:"friend_id"`
	AddedAt  time.Time `json:"added_at"`
}

// FriendsListResponse wraps the friends set.
type FriendsListResponse struct {
	Friends []FriendPayload `json:"friends"`
	Total   int             `json:"total"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports dependency readiness.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
