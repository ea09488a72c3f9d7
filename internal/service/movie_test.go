package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/reelmate/reelmate/internal/domain"
	"github.com/reelmate/reelmate/internal/service"
)

func TestMovieService_Ensure_CachesLookup(t *testing.T) {
	env := newTestEnv(t, "550")
	ctx := context.Background()

	movie, err := env.movies.Ensure(ctx, "550")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if movie.Title != "Movie 550" {
		t.Fatalf("unexpected movie: %+v", movie)
	}
	if env.source.lookups != 1 {
		t.Fatalf("expected 1 source lookup, got %d", env.source.lookups)
	}

	// Second resolution must be served from the cache.
	if _, err := env.movies.Ensure(ctx, "550"); err != nil {
		t.Fatalf("Ensure second time: %v", err)
	}
	if env.source.lookups != 1 {
		t.Fatalf("cache miss on second Ensure, lookups = %d", env.source.lookups)
	}
}

func TestMovieService_Ensure_SourceMiss(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.movies.Ensure(context.Background(), "999")
	if !errors.Is(err, domain.ErrMovieUnresolved) {
		t.Fatalf("expected ErrMovieUnresolved, got %v", err)
	}
}

func TestMovieService_Ensure_NilSource(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	seeded := &domain.Movie{MovieID: "42", Title: "Seeded"}
	if err := env.db.Movies().Upsert(ctx, seeded); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	catalogOnly := service.NewMovieService(env.db.Movies(), nil)

	movie, err := catalogOnly.Ensure(ctx, "42")
	if err != nil {
		t.Fatalf("Ensure from catalog: %v", err)
	}
	if movie.Title != "Seeded" {
		t.Fatalf("unexpected movie: %+v", movie)
	}

	_, err = catalogOnly.Ensure(ctx, "43")
	if !errors.Is(err, domain.ErrMovieUnresolved) {
		t.Fatalf("expected ErrMovieUnresolved without a source, got %v", err)
	}
}
