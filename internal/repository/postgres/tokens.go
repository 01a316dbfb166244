package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/soclink/account-service/internal/core/domain"
	"github.com/soclink/account-service/internal/core/port"
	"github.com/soclink/account-service/internal/repository"
)

var tokenColumns = []string{
	"id",
	"user_id",
	"token_hash",
	"purpose",
	"expires_at",
	"created_at",
	"used_at",
}

// TokenRepository stores single-use account tokens (email verification and
// password reset) in PostgreSQL.
type TokenRepository struct {
	exec    Executor
	builder squirrel.StatementBuilderType
}

func NewTokenRepository(exec Executor) *TokenRepository {
	return &TokenRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create persists a new account token.
func (r *TokenRepository) Create(ctx context.Context, token domain.AccountToken) error {
	var usedAt any
	if token.UsedAt != nil {
		usedAt = *token.UsedAt
	}

	stmt, args, err := r.builder.Insert("accounts.account_tokens").
		Columns(tokenColumns...).
		Values(
			token.ID,
			token.UserID,
			token.TokenHash,
			token.Purpose,
			token.ExpiresAt,
			token.CreatedAt,
			usedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert token sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if translated := translateError(err); translated == repository.ErrDuplicate {
			return translated
		}
		return fmt.Errorf("insert token: %w", err)
	}

	return nil
}

// GetByHash retrieves a token by its hash and purpose.
func (r *TokenRepository) GetByHash(ctx context.Context, tokenHash string, purpose string) (*domain.AccountToken, error) {
	stmt, args, err := r.builder.Select(tokenColumns...).
		From("accounts.account_tokens").
		Where(squirrel.Eq{"token_hash": tokenHash}).
		Where(squirrel.Eq{"purpose": purpose}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select token sql: %w", err)
	}

	var (
		token  domain.AccountToken
		usedAt *time.Time
	)
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.Purpose,
		&token.ExpiresAt,
		&token.CreatedAt,
		&usedAt,
	); err != nil {
		if translated := translateError(err); translated == repository.ErrNotFound {
			return nil, translated
		}
		return nil, fmt.Errorf("scan token: %w", err)
	}

	token.UsedAt = usedAt
	return &token, nil
}

// Consume marks a token as used. A token that is already consumed is left
// untouched and the call reports ErrNotFound.
func (r *TokenRepository) Consume(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("accounts.account_tokens").
		Set("used_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"used_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build consume token sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("consume token: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// InvalidateActive consumes every outstanding token a user holds for the
// given purpose, so only the newest requested token stays redeemable.
func (r *TokenRepository) InvalidateActive(ctx context.Context, userID string, purpose string) error {
	stmt, args, err := r.builder.Update("accounts.account_tokens").
		Set("used_at", time.Now().UTC()).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"purpose": purpose}).
		Where(squirrel.Eq{"used_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build invalidate tokens sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("invalidate tokens: %w", err)
	}

	return nil
}

var _ port.TokenRepository = (*TokenRepository)(nil)
