package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/reelmate/reelmate/internal/domain"
)

// FollowRepository implements domain.FollowRepository using SQLite.
// The graph is stored denormalized on both sides: a user_following row
// at the follower and a user_followers row at the target, written in
// the same transaction so the two views cannot diverge.
type FollowRepository struct {
	db *sql.DB
}

// NewFollowRepository creates a new SQLite-backed FollowRepository.
func NewFollowRepository(db *DB) *FollowRepository {
	return &FollowRepository{db: db.SqlDB}
}

func (r *FollowRepository) AddEdge(ctx context.Context, follower, target *domain.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_following (owner_id, userid, username, firstname, lastname, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		follower.ID, target.ID, target.Username, target.Firstname, target.Lastname, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrAlreadyFollowing
		}
		return fmt.Errorf("insert following edge: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_followers (owner_id, userid, username, firstname, lastname, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		target.ID, follower.ID, follower.Username, follower.Firstname, follower.Lastname, now,
	)
	if err != nil {
		return fmt.Errorf("insert followers edge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *FollowRepository) IsFollowing(ctx context.Context, ownerID, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_following WHERE owner_id = ? AND username = ?)`,
		ownerID, username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query following edge: %w", err)
	}
	return exists, nil
}

func (r *FollowRepository) Followers(ctx context.Context, ownerID string) ([]domain.FollowEdge, error) {
	return r.listEdges(ctx, "user_followers", ownerID)
}

func (r *FollowRepository) Following(ctx context.Context, ownerID string) ([]domain.FollowEdge, error) {
	return r.listEdges(ctx, "user_following", ownerID)
}

func (r *FollowRepository) CountFollowers(ctx context.Context, ownerID string) (int64, error) {
	return r.countEdges(ctx, "user_followers", ownerID)
}

func (r *FollowRepository) CountFollowing(ctx context.Context, ownerID string) (int64, error) {
	return r.countEdges(ctx, "user_following", ownerID)
}

func (r *FollowRepository) listEdges(ctx context.Context, table, ownerID string) ([]domain.FollowEdge, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT userid, username, firstname, lastname, created_at
		 FROM `+table+` WHERE owner_id = ? ORDER BY created_at, username`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var edges []domain.FollowEdge
	for rows.Next() {
		var e domain.FollowEdge
		if err := rows.Scan(&e.UserID, &e.Username, &e.Firstname, &e.Lastname, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

func (r *FollowRepository) countEdges(ctx context.Context, table, ownerID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+table+` WHERE owner_id = ?`, ownerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}
