package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/soclink/account-service/internal/infra/logger"
)

// NotificationDispatcher delivers credential artifacts to account owners.
// The service itself never sends email; it hands the raw token to whatever
// delivery channel is wired in.
type NotificationDispatcher interface {
	SendEmailVerification(ctx context.Context, payload VerificationNotification) error
	SendPasswordReset(ctx context.Context, payload PasswordResetNotification) error
}

// VerificationNotification carries an email verification token for delivery.
type VerificationNotification struct {
	Email    string
	Username string
	Token    string
	Expires  time.Time
}

// PasswordResetNotification carries a password reset token for delivery.
type PasswordResetNotification struct {
	Email   string
	Token   string
	Expires time.Time
}

type noopDispatcher struct{}

func (noopDispatcher) SendEmailVerification(context.Context, VerificationNotification) error {
	return nil
}

func (noopDispatcher) SendPasswordReset(context.Context, PasswordResetNotification) error {
	return nil
}

// LoggingNotificationDispatcher records dispatch events for observability
// without delivering them. Raw tokens are never logged.
type LoggingNotificationDispatcher struct {
	logger *zap.Logger
}

// NewLoggingNotificationDispatcher constructs a notification dispatcher backed by structured logging.
func NewLoggingNotificationDispatcher(log *zap.Logger) NotificationDispatcher {
	if log == nil {
		return noopDispatcher{}
	}
	return &LoggingNotificationDispatcher{logger: log}
}

func (d *LoggingNotificationDispatcher) SendEmailVerification(_ context.Context, payload VerificationNotification) error {
	d.logger.Info("dispatch email verification",
		zap.String("email", logger.MaskEmail(payload.Email)),
		zap.String("username", payload.Username),
		zap.Time("expires_at", payload.Expires),
	)
	return nil
}

func (d *LoggingNotificationDispatcher) SendPasswordReset(_ context.Context, payload PasswordResetNotification) error {
	d.logger.Info("dispatch password reset",
		zap.String("email", logger.MaskEmail(payload.Email)),
		zap.Time("expires_at", payload.Expires),
	)
	return nil
}
