package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/soclink/account-service/internal/core/domain"
	"github.com/soclink/account-service/internal/core/port"
	"github.com/soclink/account-service/internal/infra/logger"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(log *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: log}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	p.logEvent("user.registered", event.UserID, event.RegisteredAt, map[string]any{
		"username": event.Username,
		"email":    logger.MaskEmail(event.Email),
	})
	return nil
}

func (p *StubPublisher) PublishUserLoggedIn(_ context.Context, event domain.UserLoggedInEvent) error {
	p.logEvent("user.logged_in", event.UserID, event.LoggedInAt, map[string]any{
		"email": logger.MaskEmail(event.Email),
	})
	return nil
}

func (p *StubPublisher) PublishUserLoggedOut(_ context.Context, event domain.UserLoggedOutEvent) error {
	p.logEvent("user.logged_out", event.UserID, event.LoggedOutAt, nil)
	return nil
}

func (p *StubPublisher) PublishProfileUpdated(_ context.Context, event domain.ProfileUpdatedEvent) error {
	p.logEvent("user.profile_updated", event.UserID, event.UpdatedAt, map[string]any{
		"fields": event.Fields,
	})
	return nil
}

func (p *StubPublisher) PublishPasswordResetRequested(_ context.Context, event domain.PasswordResetRequestedEvent) error {
	p.logEvent("user.password.reset_requested", event.UserID, event.RequestedAt, map[string]any{
		"expires_at": event.ExpiresAt,
	})
	return nil
}

func (p *StubPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	p.logEvent("user.password.changed", event.UserID, event.ChangedAt, nil)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
