package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/reelmate/reelmate/internal/domain"
)

// MovieService guarantees that a movie row exists and is joinable before
// a watch entry references it. Metadata fetching lives behind
// domain.MovieSource; the service itself only orchestrates the cache.
type MovieService struct {
	movies domain.MovieRepository
	source domain.MovieSource
}

// NewMovieService creates a new MovieService. source may be nil, in
// which case only movies already present in the cache can be resolved.
func NewMovieService(movies domain.MovieRepository, source domain.MovieSource) *MovieService {
	return &MovieService{movies: movies, source: source}
}

// Ensure returns the cached movie for movieID, consulting the source
// and populating the cache on a miss. A movie that cannot be resolved
// yields ErrMovieUnresolved.
func (s *MovieService) Ensure(ctx context.Context, movieID string) (*domain.Movie, error) {
	movie, err := s.movies.Get(ctx, movieID)
	if err == nil {
		return movie, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get movie %s: %w", movieID, err)
	}

	if s.source == nil {
		return nil, fmt.Errorf("movie %s not in catalog: %w", movieID, domain.ErrMovieUnresolved)
	}

	movie, err = s.source.Lookup(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("lookup movie %s: %w", movieID, domain.ErrMovieUnresolved)
	}

	if err := s.movies.Upsert(ctx, movie); err != nil {
		return nil, fmt.Errorf("cache movie %s: %w", movieID, err)
	}
	return movie, nil
}

// Get returns a cached movie without consulting the source.
func (s *MovieService) Get(ctx context.Context, movieID string) (*domain.Movie, error) {
	return s.movies.Get(ctx, movieID)
}
