package domain

import (
	"context"
	"time"
)

// WatchEntry is one user's record for one movie: either a completed
// watch carrying a score and review, or a queued watch-later item
// carrying neither.
type WatchEntry struct {
	ID         int64
	Username   string
	MovieID    string
	WatchLater bool
	Score      *int
	Review     *string
	CreatedAt  time.Time
}

// WatchPatch describes a partial update to a user's entries for one
// movie. Nil fields are left untouched. WatchLater is tri-state:
// nil means the flag is not toggled.
type WatchPatch struct {
	Score      *int
	Review     *string
	WatchLater *bool
}

// WatchListFilter selects and orders a page of watch entries.
type WatchListFilter struct {
	Username   string
	WatchLater bool
	// Page is 1-based. Values below 1 are treated as 1.
	Page int
	// SortByScore orders by score descending. The default order is
	// insertion order (row id ascending).
	SortByScore bool
	PageSize    int
}

// WatchEntryRepository defines persistence operations for watch entries.
type WatchEntryRepository interface {
	Insert(ctx context.Context, entry *WatchEntry) error
	// UpdateMany applies patch to every entry matching (username,
	// movieID), mirroring the original update-in-place contract for a
	// user+movie pair regardless of row count. It returns the number of
	// rows whose watch_later state actually changed, so callers can move
	// counters accordingly. Matching zero rows is not an error.
	UpdateMany(ctx context.Context, username, movieID string, patch WatchPatch) (flipped int64, err error)
	// DeleteOne removes at most one entry matching the full triple and
	// reports whether a row was deleted.
	DeleteOne(ctx context.Context, username, movieID string, watchLater bool) (bool, error)
	List(ctx context.Context, filter WatchListFilter) ([]WatchEntry, error)
	// CountByUser returns the true cardinalities of a user's watched and
	// watch-later subsets.
	CountByUser(ctx context.Context, username string) (movies, watchLater int64, err error)
}
