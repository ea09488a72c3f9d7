package domain

import (
	"context"
	"time"
)

// Movie is a cached metadata row for a movie referenced by at least one
// watch entry. It exists so list queries can join entries to titles
// without consulting any external catalog.
type Movie struct {
	MovieID     string
	Title       string
	Overview    string
	ReleaseDate string
	PosterPath  string
	CreatedAt   time.Time
}

// MovieRepository defines persistence operations for the movie cache.
type MovieRepository interface {
	Get(ctx context.Context, movieID string) (*Movie, error)
	Upsert(ctx context.Context, movie *Movie) error
}

// MovieSource resolves movie metadata that is not yet cached. The
// production binary may run without one, in which case unknown movie ids
// cannot be added.
type MovieSource interface {
	Lookup(ctx context.Context, movieID string) (*Movie, error)
}
