package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/soclink/account-service/internal/core/domain"
	"github.com/soclink/account-service/internal/core/port"
	"github.com/soclink/account-service/internal/repository"
)

var userColumns = []string{
	"id",
	"username",
	"email",
	"password_hash",
	"full_name",
	"bio",
	"status",
	"is_verified",
	"is_admin",
	"created_at",
	"updated_at",
}

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	exec    Executor
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a PostgreSQL-backed user repository.
func NewUserRepository(exec Executor) *UserRepository {
	return &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new user row. Unique-index violations on username or
// email surface as repository.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	var fullNameValue any
	if user.FullName != nil && *user.FullName != "" {
		fullNameValue = *user.FullName
	}

	query := r.builder.Insert("accounts.users").
		Columns(userColumns...).
		Values(
			user.ID,
			user.Username,
			user.Email,
			user.PasswordHash,
			fullNameValue,
			user.Bio,
			user.Status,
			user.IsVerified,
			user.IsAdmin,
			user.CreatedAt,
			user.UpdatedAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if translated := translateError(err); translated == repository.ErrDuplicate {
			return translated
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("accounts.users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByEmail retrieves a user by email, matching case-insensitively since
// emails are stored lowercased.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("accounts.users").
		Where(squirrel.Expr("lower(email) = lower(?)", email)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by email sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanUser(row rowScanner) (*domain.User, error) {
	var (
		user     domain.User
		fullName sql.NullString
	)

	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&fullName,
		&user.Bio,
		&user.Status,
		&user.IsVerified,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if translated := translateError(err); translated == repository.ErrNotFound {
			return nil, translated
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if fullName.Valid {
		val := fullName.String
		user.FullName = &val
	}

	return &user, nil
}

// UpdateProfile modifies the mutable profile fields and returns the updated record.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update port.ProfileUpdate) (*domain.User, error) {
	builder := r.builder.Update("accounts.users").
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})

	changed := false
	if update.FullName != nil {
		var value any
		if *update.FullName != "" {
			value = *update.FullName
		}
		builder = builder.Set("full_name", value)
		changed = true
	}
	if update.Bio != nil {
		builder = builder.Set("bio", *update.Bio)
		changed = true
	}

	if !changed {
		return r.GetByID(ctx, id)
	}

	stmt, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update profile sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// UpdateStatus updates the presence status for a user.
func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error {
	stmt, args, err := r.builder.Update("accounts.users").
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user status sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string, changedAt time.Time) error {
	stmt, args, err := r.builder.Update("accounts.users").
		Set("password_hash", passwordHash).
		Set("updated_at", changedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update password sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SetVerified marks the account's email as verified.
func (r *UserRepository) SetVerified(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("accounts.users").
		Set("is_verified", true).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set verified sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("set verified: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// AddFriend links friendID into userID's friends set. Adding an existing
// friend is a no-op (set semantics).
func (r *UserRepository) AddFriend(ctx context.Context, userID, friendID string) error {
	stmt, args, err := r.builder.Insert("accounts.user_friends").
		Columns("user_id", "friend_id", "added_at").
		Values(userID, friendID, time.Now().UTC()).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build add friend sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("add friend: %w", err)
	}

	return nil
}

// RemoveFriend removes friendID from userID's friends set.
func (r *UserRepository) RemoveFriend(ctx context.Context, userID, friendID string) error {
	stmt, args, err := r.builder.Delete("accounts.user_friends").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"friend_id": friendID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build remove friend sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("remove friend: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListFriends returns the friends set for a user, oldest first.
func (r *UserRepository) ListFriends(ctx context.Context, userID string) ([]domain.Friend, error) {
	stmt, args, err := r.builder.Select("user_id", "friend_id", "added_at").
		From("accounts.user_friends").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("added_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list friends sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query friends: %w", err)
	}
	defer rows.Close()

	friends := make([]domain.Friend, 0)
	for rows.Next() {
		var friend domain.Friend
		if err := rows.Scan(&friend.UserID, &friend.FriendID, &friend.AddedAt); err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		friends = append(friends, friend)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friends: %w", err)
	}

	return friends, nil
}

// CountFriends returns the size of a user's friends set.
func (r *UserRepository) CountFriends(ctx context.Context, userID string) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("accounts.user_friends").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count friends sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan friends count: %w", err)
	}

	return int(count), nil
}

var _ port.UserRepository = (*UserRepository)(nil)
