package domain

import (
	"context"
	"time"
)

// Counter names a denormalized per-user counter column.
type Counter string

const (
	CounterMovies     Counter = "movies_count"
	CounterWatchLater Counter = "watch_later_count"
)

// Valid reports whether c names a known counter column.
func (c Counter) Valid() bool {
	return c == CounterMovies || c == CounterWatchLater
}

// User represents a registered user of the application.
// MoviesCount and WatchLaterCount are denormalized aggregates over the
// user's watch entries; they track the true cardinalities eventually,
// not transactionally.
type User struct {
	ID              string
	Username        string
	Firstname       string
	Lastname        string
	PasswordHash    string
	MoviesCount     int64
	WatchLaterCount int64
	CreatedAt       time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	// AdjustCounter applies an atomic delta to the named counter,
	// clamping the result at zero. Returns ErrNotFound if no user row
	// matches id.
	AdjustCounter(ctx context.Context, id string, counter Counter, delta int64) error
	// SetCounters overwrites both movie counters for a user. Used by
	// the reconciler only.
	SetCounters(ctx context.Context, id string, movies, watchLater int64) error
	// ListIDs returns the ids of all users.
	ListIDs(ctx context.Context) ([]string, error)
}
