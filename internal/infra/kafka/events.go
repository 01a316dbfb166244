package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/soclink/account-service/internal/core/domain"
	"github.com/soclink/account-service/internal/core/port"
	"github.com/soclink/account-service/internal/infra/config"
	"github.com/soclink/account-service/internal/infra/logger"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, log *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: log}
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, userID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: map[string]string{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Key:   sarama.StringEncoder(userID),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes accounts.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string    `json:"user_id"`
		Username     string    `json:"username"`
		Email        string    `json:"email"`
		RegisteredAt time.Time `json:"registered_at"`
	}{
		UserID:       event.UserID,
		Username:     event.Username,
		Email:        logger.MaskEmail(event.Email),
		RegisteredAt: event.RegisteredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "user.registered", event.UserID, event.RegisteredAt, payload)
}

// PublishUserLoggedIn publishes accounts.user.logged_in events.
func (p *EventPublisher) PublishUserLoggedIn(ctx context.Context, event domain.UserLoggedInEvent) error {
	payload := struct {
		UserID     string    `json:"user_id"`
		Email      string    `json:"email"`
		LoggedInAt time.Time `json:"logged_in_at"`
		IP         *string   `json:"ip,omitempty"`
	}{
		UserID:     event.UserID,
		Email:      logger.MaskEmail(event.Email),
		LoggedInAt: event.LoggedInAt.UTC(),
		IP:         event.IP,
	}

	return p.publish(ctx, event.EventID, "user.logged_in", event.UserID, event.LoggedInAt, payload)
}

// PublishUserLoggedOut publishes accounts.user.logged_out events.
func (p *EventPublisher) PublishUserLoggedOut(ctx context.Context, event domain.UserLoggedOutEvent) error {
	payload := struct {
		UserID      string    `json:"user_id"`
		LoggedOutAt time.Time `json:"logged_out_at"`
	}{
		UserID:      event.UserID,
		LoggedOutAt: event.LoggedOutAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "user.logged_out", event.UserID, event.LoggedOutAt, payload)
}

// PublishProfileUpdated publishes accounts.user.profile_updated events.
func (p *EventPublisher) PublishProfileUpdated(ctx context.Context, event domain.ProfileUpdatedEvent) error {
	payload := struct {
		UserID    string    `json:"user_id"`
		Fields    []string  `json:"fields"`
		UpdatedAt time.Time `json:"updated_at"`
	}{
		UserID:    event.UserID,
		Fields:    event.Fields,
		UpdatedAt: event.UpdatedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "user.profile_updated", event.UserID, event.UpdatedAt, payload)
}

// PublishPasswordResetRequested publishes accounts.user.password.reset_requested events.
func (p *EventPublisher) PublishPasswordResetRequested(ctx context.Context, event domain.PasswordResetRequestedEvent) error {
	payload := struct {
		UserID      string    `json:"user_id"`
		RequestedAt time.Time `json:"requested_at"`
		ExpiresAt   time.Time `json:"expires_at"`
		IP          *string   `json:"ip,omitempty"`
	}{
		UserID:      event.UserID,
		RequestedAt: event.RequestedAt.UTC(),
		ExpiresAt:   event.ExpiresAt.UTC(),
		IP:          event.IP,
	}

	return p.publish(ctx, event.EventID, "user.password.reset_requested", event.UserID, event.RequestedAt, payload)
}

// PublishPasswordChanged publishes accounts.user.password.changed events.
func (p *EventPublisher) PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error {
	payload := struct {
		UserID    string    `json:"user_id"`
		ChangedAt time.Time `json:"changed_at"`
	}{
		UserID:    event.UserID,
		ChangedAt: event.ChangedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "user.password.changed", event.UserID, event.ChangedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
