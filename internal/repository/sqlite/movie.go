package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/reelmate/reelmate/internal/domain"
)

// MovieRepository implements domain.MovieRepository using SQLite.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new SQLite-backed MovieRepository.
func NewMovieRepository(db *DB) *MovieRepository {
	return &MovieRepository{db: db.SqlDB}
}

func (r *MovieRepository) Get(ctx context.Context, movieID string) (*domain.Movie, error) {
	movie := &domain.Movie{}
	err := r.db.QueryRowContext(ctx,
		`SELECT movie_id, title, overview, release_date, poster_path, created_at
		 FROM movies WHERE movie_id = ?`, movieID,
	).Scan(&movie.MovieID, &movie.Title, &movie.Overview, &movie.ReleaseDate, &movie.PosterPath, &movie.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query movie: %w", err)
	}
	return movie, nil
}

func (r *MovieRepository) Upsert(ctx context.Context, movie *domain.Movie) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO movies (movie_id, title, overview, release_date, poster_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (movie_id) DO UPDATE SET
			title = excluded.title,
			overview = excluded.overview,
			release_date = excluded.release_date,
			poster_path = excluded.poster_path`,
		movie.MovieID, movie.Title, movie.Overview, movie.ReleaseDate, movie.PosterPath, now,
	)
	if err != nil {
		return fmt.Errorf("upsert movie: %w", err)
	}
	if movie.CreatedAt.IsZero() {
		movie.CreatedAt = now
	}
	return nil
}
