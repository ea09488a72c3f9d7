package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/reelmate/reelmate/internal/domain"
)

// WatchEntryRepository implements domain.WatchEntryRepository using SQLite.
type WatchEntryRepository struct {
	db *sql.DB
}

// NewWatchEntryRepository creates a new SQLite-backed WatchEntryRepository.
func NewWatchEntryRepository(db *DB) *WatchEntryRepository {
	return &WatchEntryRepository{db: db.SqlDB}
}

func (r *WatchEntryRepository) Insert(ctx context.Context, entry *domain.WatchEntry) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO watch_entries (username, movie_id, watch_later, score, review, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Username, entry.MovieID, entry.WatchLater, entry.Score, entry.Review, now,
	)
	if err != nil {
		return fmt.Errorf("insert watch entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get watch entry id: %w", err)
	}

	entry.ID = id
	entry.CreatedAt = now
	return nil
}

// UpdateMany patches every entry for (username, movieID). When the patch
// toggles watch_later it first counts the rows whose state differs from
// the target, so the caller knows how many entries moved between lists.
// Both statements run in one transaction.
func (r *WatchEntryRepository) UpdateMany(ctx context.Context, username, movieID string, patch domain.WatchPatch) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var flipped int64
	if patch.WatchLater != nil {
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM watch_entries WHERE username = ? AND movie_id = ? AND watch_later != ?`,
			username, movieID, *patch.WatchLater,
		).Scan(&flipped)
		if err != nil {
			return 0, fmt.Errorf("count flipping entries: %w", err)
		}
	}

	set := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if patch.Score != nil {
		set = append(set, "score = ?")
		args = append(args, *patch.Score)
	}
	if patch.Review != nil {
		set = append(set, "review = ?")
		args = append(args, *patch.Review)
	}
	if patch.WatchLater != nil {
		set = append(set, "watch_later = ?")
		args = append(args, *patch.WatchLater)
	}
	if len(set) == 0 {
		return 0, nil
	}

	query := "UPDATE watch_entries SET " + strings.Join(set, ", ") + " WHERE username = ? AND movie_id = ?"
	args = append(args, username, movieID)

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("update watch entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return flipped, nil
}

// DeleteOne removes at most one entry matching the triple, preferring
// the oldest row when duplicates exist.
func (r *WatchEntryRepository) DeleteOne(ctx context.Context, username, movieID string, watchLater bool) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM watch_entries WHERE id = (
			SELECT id FROM watch_entries
			WHERE username = ? AND movie_id = ? AND watch_later = ?
			ORDER BY id LIMIT 1
		)`,
		username, movieID, watchLater,
	)
	if err != nil {
		return false, fmt.Errorf("delete watch entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete watch entry rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *WatchEntryRepository) List(ctx context.Context, filter domain.WatchListFilter) ([]domain.WatchEntry, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		return nil, fmt.Errorf("%w: page size must be positive", domain.ErrInvalidInput)
	}

	// id breaks score ties so pagination stays stable across pages.
	order := "id ASC"
	if filter.SortByScore {
		order = "score DESC, id ASC"
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, movie_id, watch_later, score, review, created_at
		 FROM watch_entries
		 WHERE username = ? AND watch_later = ?
		 ORDER BY `+order+`
		 LIMIT ? OFFSET ?`,
		filter.Username, filter.WatchLater, pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, fmt.Errorf("list watch entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.WatchEntry
	for rows.Next() {
		var e domain.WatchEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.MovieID, &e.WatchLater, &e.Score, &e.Review, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan watch entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *WatchEntryRepository) CountByUser(ctx context.Context, username string) (int64, int64, error) {
	var movies, watchLater int64
	err := r.db.QueryRowContext(ctx,
		`SELECT
			COUNT(*) FILTER (WHERE watch_later = 0),
			COUNT(*) FILTER (WHERE watch_later = 1)
		 FROM watch_entries WHERE username = ?`,
		username,
	).Scan(&movies, &watchLater)
	if err != nil {
		return 0, 0, fmt.Errorf("count watch entries: %w", err)
	}
	return movies, watchLater, nil
}
