package port

import (
	"context"

	"github.com/soclink/account-service/internal/core/domain"
)

// TokenRepository stores single-use account tokens keyed by value hash.
type TokenRepository interface {
	Create(ctx context.Context, token domain.AccountToken) error
	GetByHash(ctx context.Context, hash, purpose string) (*domain.AccountToken, error)
	Consume(ctx context.Context, id string) error
	// InvalidateActive marks all unconsumed tokens of the given purpose as
	// used, so only the most recently issued artifact stays redeemable.
	InvalidateActive(ctx context.Context, userID, purpose string) error
}
