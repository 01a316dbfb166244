package port

import (
	"context"

	"github.com/soclink/account-service/internal/core/domain"
)

// EventPublisher fans account lifecycle events out to interested consumers.
// Publishing is best-effort; callers must not fail the request on publish
// errors.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishUserLoggedIn(ctx context.Context, event domain.UserLoggedInEvent) error
	PublishUserLoggedOut(ctx context.Context, event domain.UserLoggedOutEvent) error
	PublishProfileUpdated(ctx context.Context, event domain.ProfileUpdatedEvent) error
	PublishPasswordResetRequested(ctx context.Context, event domain.PasswordResetRequestedEvent) error
	PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error
}
