package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/reelmate/reelmate/internal/domain"
)

// CounterService keeps the denormalized per-user counters on the users
// table in step with the watch entry rows. Adjust is called inline by
// mutations; Reconcile repairs whatever drift the non-atomic mutation
// paths leave behind.
type CounterService struct {
	users   domain.UserRepository
	watches domain.WatchEntryRepository
}

// NewCounterService creates a new CounterService.
func NewCounterService(users domain.UserRepository, watches domain.WatchEntryRepository) *CounterService {
	return &CounterService{users: users, watches: watches}
}

// Adjust applies an atomic delta to the named counter for userID.
// A missing identity row is a data-integrity problem: it is returned as
// ErrNotFound so callers can log it, never silently absorbed.
func (s *CounterService) Adjust(ctx context.Context, userID string, counter domain.Counter, delta int64) error {
	if !counter.Valid() {
		return fmt.Errorf("%w: unknown counter %q", domain.ErrInvalidInput, counter)
	}
	if delta != 1 && delta != -1 {
		return fmt.Errorf("%w: counter delta must be +1 or -1, got %d", domain.ErrInvalidInput, delta)
	}
	return s.users.AdjustCounter(ctx, userID, counter, delta)
}

// Move shifts n entries' worth of count from one counter to the other,
// for update paths that flip the watch-later state of existing rows.
// Both sides clamp at zero independently.
func (s *CounterService) Move(ctx context.Context, userID string, from, to domain.Counter, n int64) error {
	if !from.Valid() || !to.Valid() || from == to {
		return fmt.Errorf("%w: invalid counter move %q -> %q", domain.ErrInvalidInput, from, to)
	}
	if n <= 0 {
		return fmt.Errorf("%w: counter move requires a positive count, got %d", domain.ErrInvalidInput, n)
	}
	if err := s.users.AdjustCounter(ctx, userID, from, -n); err != nil {
		return err
	}
	return s.users.AdjustCounter(ctx, userID, to, n)
}

// Reconcile recomputes both movie counters for every user from the
// watch entry rows and repairs any drift, logging each correction. It
// returns the number of users whose counters were corrected.
func (s *CounterService) Reconcile(ctx context.Context) (int, error) {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	corrected := 0
	for _, id := range ids {
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return corrected, fmt.Errorf("get user %s: %w", id, err)
		}

		movies, watchLater, err := s.watches.CountByUser(ctx, user.Username)
		if err != nil {
			return corrected, fmt.Errorf("count entries for %s: %w", user.Username, err)
		}

		if movies == user.MoviesCount && watchLater == user.WatchLaterCount {
			continue
		}

		slog.Warn("counter drift detected",
			"user", user.Username,
			"stored_movies", user.MoviesCount, "actual_movies", movies,
			"stored_watch_later", user.WatchLaterCount, "actual_watch_later", watchLater,
		)
		if err := s.users.SetCounters(ctx, id, movies, watchLater); err != nil {
			return corrected, fmt.Errorf("repair counters for %s: %w", user.Username, err)
		}
		corrected++
	}
	return corrected, nil
}

// RunReconcileLoop reconciles on every tick until ctx is done.
func (s *CounterService) RunReconcileLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			corrected, err := s.Reconcile(ctx)
			if err != nil {
				slog.Error("counter reconciliation failed", "error", err)
				continue
			}
			if corrected > 0 {
				slog.Info("counter reconciliation repaired drift", "users", corrected)
			}
		}
	}
}
