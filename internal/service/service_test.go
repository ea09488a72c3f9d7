package service_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/reelmate/reelmate/internal/domain"
	"github.com/reelmate/reelmate/internal/repository/sqlite"
	"github.com/reelmate/reelmate/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests"

// fakeSource is a MovieSource backed by a map. A lookup for an unknown
// id fails, mimicking an unresolvable movie.
type fakeSource struct {
	movies  map[string]*domain.Movie
	lookups int
}

func (f *fakeSource) Lookup(_ context.Context, movieID string) (*domain.Movie, error) {
	f.lookups++
	movie, ok := f.movies[movieID]
	if !ok {
		return nil, fmt.Errorf("movie %s unknown to source", movieID)
	}
	return movie, nil
}

func newFakeSource(ids ...string) *fakeSource {
	movies := make(map[string]*domain.Movie, len(ids))
	for _, id := range ids {
		movies[id] = &domain.Movie{MovieID: id, Title: "Movie " + id}
	}
	return &fakeSource{movies: movies}
}

// testEnv bundles a migrated temp database with every service under test.
type testEnv struct {
	db        *sqlite.DB
	auth      *service.AuthService
	movies    *service.MovieService
	counters  *service.CounterService
	watchlist *service.WatchlistService
	follows   *service.FollowService
	source    *fakeSource
}

func newTestEnv(t *testing.T, sourceIDs ...string) *testEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	source := newFakeSource(sourceIDs...)
	movies := service.NewMovieService(db.Movies(), source)
	counters := service.NewCounterService(db.Users(), db.Watches())

	return &testEnv{
		db: db,
		// Use cost 4 for fast tests.
		auth:      service.NewAuthService(db.Users(), testJWTSecret, 4),
		movies:    movies,
		counters:  counters,
		watchlist: service.NewWatchlistService(db.Watches(), movies, counters),
		follows:   service.NewFollowService(db.Users(), db.Follows()),
		source:    source,
	}
}

func (e *testEnv) registerUser(t *testing.T, username string) *domain.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), username, "Test", "User", "password123")
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func (e *testEnv) mustGetUser(t *testing.T, id string) *domain.User {
	t.Helper()
	user, err := e.auth.GetUserByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get user %s: %v", id, err)
	}
	return user
}

func intp(n int) *int { return &n }

func strp(s string) *string { return &s }

func boolp(b bool) *bool { return &b }
