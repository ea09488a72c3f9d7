package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reelmate/reelmate/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, firstname, lastname, password_hash, movies_count, watch_later_count, created_at)
		 VALUES (?, ?, ?, ?, ?, 0, 0, ?)`,
		id, user.Username, user.Firstname, user.Lastname, user.PasswordHash, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateUsername
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.ID = id
	user.MoviesCount = 0
	user.WatchLaterCount = 0
	user.CreatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, firstname, lastname, password_hash, movies_count, watch_later_count, created_at
		 FROM users WHERE `+column+` = ?`, value,
	).Scan(&user.ID, &user.Username, &user.Firstname, &user.Lastname,
		&user.PasswordHash, &user.MoviesCount, &user.WatchLaterCount, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by %s: %w", column, err)
	}
	return user, nil
}

// AdjustCounter applies delta to the named counter in a single atomic
// UPDATE. The result never drops below zero: decrements against an
// already-zero counter are absorbed rather than producing negative
// drift.
func (r *UserRepository) AdjustCounter(ctx context.Context, id string, counter domain.Counter, delta int64) error {
	if !counter.Valid() {
		return fmt.Errorf("%w: unknown counter %q", domain.ErrInvalidInput, counter)
	}

	column := string(counter)
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET `+column+` = MAX(0, `+column+` + ?) WHERE id = ?`,
		delta, id,
	)
	if err != nil {
		return fmt.Errorf("adjust %s: %w", column, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust %s rows affected: %w", column, err)
	}
	if affected == 0 {
		return fmt.Errorf("adjust %s for user %s: %w", column, id, domain.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) SetCounters(ctx context.Context, id string, movies, watchLater int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET movies_count = ?, watch_later_count = ? WHERE id = ?`,
		movies, watchLater, id,
	)
	if err != nil {
		return fmt.Errorf("set counters: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set counters rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set counters for user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// isUniqueConstraintError checks if the error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	return err != nil &&
		(strings.Contains(err.Error(), "UNIQUE constraint failed") ||
			strings.Contains(err.Error(), "unique constraint"))
}
