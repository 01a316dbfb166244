package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	uuid "github.com/google/uuid"
)

// ErrInvalidSessionToken indicates the token is malformed or its signature
// does not verify.
var ErrInvalidSessionToken = errors.New("session token invalid")

// ErrExpiredSessionToken indicates the token's validity window has elapsed.
var ErrExpiredSessionToken = errors.New("session token expired")

// SessionClaims are the identity claims embedded in a session token.
type SessionClaims struct {
	UserID   string `json:"uid"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionTokenIssuer mints and validates stateless HMAC-signed session
// tokens. Possession of a valid, unexpired token is the sole authorization
// proof; no server-side session record exists.
type SessionTokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

const defaultSessionTTL = time.Hour

// NewSessionTokenIssuer constructs an issuer from the server-held secret.
func NewSessionTokenIssuer(secret, issuer string, ttl time.Duration) (*SessionTokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("session token secret is required")
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	return &SessionTokenIssuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock injects a custom clock, primarily for tests.
func (i *SessionTokenIssuer) WithClock(now func() time.Time) *SessionTokenIssuer {
	if now != nil {
		i.now = now
	}
	return i
}

// TTL returns the validity window applied to minted tokens.
func (i *SessionTokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue mints a signed session token embedding the user's identity claims.
func (i *SessionTokenIssuer) Issue(userID, email, username string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("user id is required")
	}

	now := i.now().UTC()
	claims := SessionClaims{
		UserID:   userID,
		Email:    email,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return signed, nil
}

// Parse validates the signature and expiry and returns the embedded claims.
// No store round-trip happens here.
func (i *SessionTokenIssuer) Parse(token string) (*SessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidSessionToken
	}

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithIssuer(i.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSessionToken
		}
		return nil, ErrInvalidSessionToken
	}

	if parsed == nil || !parsed.Valid {
		return nil, ErrInvalidSessionToken
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return nil, ErrInvalidSessionToken
	}

	return claims, nil
}
