package usecase

import "errors"

var (
	// ErrDuplicateUser indicates the username or email is already taken.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrUserNotFound indicates no account matches the given identifier.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials indicates the password does not match the account.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPasswordPolicyViolation indicates the password does not satisfy the configured rules.
	ErrPasswordPolicyViolation = errors.New("password does not meet requirements")
	// ErrInvalidToken indicates a verification or reset token is unknown or already used.
	ErrInvalidToken = errors.New("token invalid")
	// ErrExpiredToken indicates the token exists but its validity window has elapsed.
	ErrExpiredToken = errors.New("token expired")
	// ErrValidation indicates a request field failed validation.
	ErrValidation = errors.New("validation failed")
)
