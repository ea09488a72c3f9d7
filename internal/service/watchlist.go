package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reelmate/reelmate/internal/domain"
	"github.com/reelmate/reelmate/internal/validate"
)

// PageSize is the fixed number of entries per watch list page.
const PageSize = 10

// movieJoinConcurrency bounds the fan-out of per-entry movie lookups in
// the listing path.
const movieJoinConcurrency = 8

// SortKeyScore orders a fetched list by score descending. Any other
// sort key falls back to insertion order.
const SortKeyScore = "score"

// WatchlistService owns the add/update/delete/list operations on a
// user's watch entries, and keeps the denormalized counters on the
// identity record in step with those mutations.
type WatchlistService struct {
	watches  domain.WatchEntryRepository
	movies   *MovieService
	counters *CounterService
}

// NewWatchlistService creates a new WatchlistService.
func NewWatchlistService(watches domain.WatchEntryRepository, movies *MovieService, counters *CounterService) *WatchlistService {
	return &WatchlistService{watches: watches, movies: movies, counters: counters}
}

// AddInput describes a new watch entry. Score and Review are required
// exactly when WatchLater is false.
type AddInput struct {
	MovieID    string
	WatchLater bool
	Score      *int
	Review     *string
}

// Add validates the input, makes sure the movie is joinable, inserts
// the entry and bumps the owning user's counter.
//
// The insert and the counter bump are two store writes with no shared
// transaction; a crash between them leaves the counter stale until the
// reconciler catches it. A failed bump is logged and does not undo the
// insert.
func (s *WatchlistService) Add(ctx context.Context, owner *domain.User, in AddInput) error {
	if msg := validate.MovieID(in.MovieID); msg != "" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
	}

	entry := &domain.WatchEntry{
		Username:   owner.Username,
		MovieID:    in.MovieID,
		WatchLater: in.WatchLater,
	}
	if !in.WatchLater {
		if msg := validate.Score(in.Score); msg != "" {
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
		}
		if msg := validate.Review(in.Review); msg != "" {
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
		}
		entry.Score = in.Score
		entry.Review = in.Review
	}

	if _, err := s.movies.Ensure(ctx, in.MovieID); err != nil {
		return err
	}

	if err := s.watches.Insert(ctx, entry); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	if err := s.counters.Adjust(ctx, owner.ID, counterFor(in.WatchLater), 1); err != nil {
		slog.Error("counter increment failed after add",
			"user", owner.Username, "movie_id", in.MovieID, "error", err)
	}
	return nil
}

// UpdateInput describes a partial update of a user's entries for one
// movie. WatchLater is tri-state; when explicitly false, Score and
// Review become mandatory.
type UpdateInput struct {
	MovieID    string
	Score      *int
	Review     *string
	WatchLater *bool
}

// Update patches every entry matching (owner, movie id). When the
// patch flips the watch-later state the affected rows are moved between
// the two counters as well. Patching a movie the user has no entries
// for is a no-op success.
func (s *WatchlistService) Update(ctx context.Context, owner *domain.User, in UpdateInput) error {
	if msg := validate.MovieID(in.MovieID); msg != "" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
	}

	patch := domain.WatchPatch{
		Score:      in.Score,
		Review:     in.Review,
		WatchLater: in.WatchLater,
	}
	if in.WatchLater != nil && !*in.WatchLater {
		if msg := validate.Score(in.Score); msg != "" {
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
		}
		if msg := validate.Review(in.Review); msg != "" {
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
		}
	}

	flipped, err := s.watches.UpdateMany(ctx, owner.Username, in.MovieID, patch)
	if err != nil {
		return fmt.Errorf("update entries: %w", err)
	}

	if flipped > 0 && in.WatchLater != nil {
		from, to := domain.CounterMovies, domain.CounterWatchLater
		if !*in.WatchLater {
			from, to = to, from
		}
		if err := s.counters.Move(ctx, owner.ID, from, to, flipped); err != nil {
			slog.Error("counter move failed after update",
				"user", owner.Username, "movie_id", in.MovieID, "flipped", flipped, "error", err)
		}
	}
	return nil
}

// Delete removes at most one entry matching (owner, movie id,
// watch-later) and decrements the corresponding counter. The decrement
// happens even when no row matched, preserving the delete-then-decrement
// order of the original system; the zero clamp and the reconciler bound
// the drift that can introduce.
func (s *WatchlistService) Delete(ctx context.Context, owner *domain.User, movieID string, watchLater bool) error {
	if _, err := s.watches.DeleteOne(ctx, owner.Username, movieID, watchLater); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	if err := s.counters.Adjust(ctx, owner.ID, counterFor(watchLater), -1); err != nil {
		slog.Error("counter decrement failed after delete",
			"user", owner.Username, "movie_id", movieID, "error", err)
	}
	return nil
}

// ListedEntry is one row of a fetched watch list: the entry joined with
// its movie metadata. Row ids and owner ids are deliberately absent.
type ListedEntry struct {
	MovieID    string
	WatchLater bool
	Score      *int
	Review     *string
	CreatedAt  time.Time
	Movie      domain.Movie
}

// FetchList returns one page of a user's watch list, enriched with
// movie metadata. Sorting is by score descending for SortKeyScore,
// insertion order otherwise. Entries whose movie row is missing are
// dropped from the page rather than failing it. An empty page is not an
// error.
func (s *WatchlistService) FetchList(ctx context.Context, username string, watchLater bool, page int, sortKey string) ([]ListedEntry, error) {
	if msg := validate.Username(username); msg != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
	}
	if page < 1 {
		page = 1
	}

	entries, err := s.watches.List(ctx, domain.WatchListFilter{
		Username:    username,
		WatchLater:  watchLater,
		Page:        page,
		SortByScore: sortKey == SortKeyScore,
		PageSize:    PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	if len(entries) == 0 {
		return []ListedEntry{}, nil
	}

	// Join each entry with its movie row. Lookups fan out with bounded
	// concurrency and the barrier waits for the whole page before
	// responding; order is preserved by index.
	joined := make([]*ListedEntry, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(movieJoinConcurrency)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			movie, err := s.movies.Get(gctx, entry.MovieID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Inner-join semantics: a missing movie drops the
					// row, not the page.
					return nil
				}
				return err
			}
			joined[i] = &ListedEntry{
				MovieID:    entry.MovieID,
				WatchLater: entry.WatchLater,
				Score:      entry.Score,
				Review:     entry.Review,
				CreatedAt:  entry.CreatedAt,
				Movie:      *movie,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("join movie details: %w", err)
	}

	result := make([]ListedEntry, 0, len(joined))
	for _, e := range joined {
		if e != nil {
			result = append(result, *e)
		}
	}
	return result, nil
}

func counterFor(watchLater bool) domain.Counter {
	if watchLater {
		return domain.CounterWatchLater
	}
	return domain.CounterMovies
}
