package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/soclink/account-service/internal/repository"
)

// Executor is the subset of pgxpool.Pool the repositories rely on. pgxmock
// pools satisfy it as well, which keeps the repositories testable without a
// live database.
type Executor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const uniqueViolationCode = "23505"

// translateError maps driver-level failures onto repository sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return repository.ErrDuplicate
	}

	return err
}

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Users  *UserRepository
	Tokens *TokenRepository
}

// NewRepositories wires all repositories backed by the provided executor.
func NewRepositories(exec Executor) *Repositories {
	return &Repositories{
		Users:  NewUserRepository(exec),
		Tokens: NewTokenRepository(exec),
	}
}
