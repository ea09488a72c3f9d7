package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/reelmate/reelmate/internal/domain"
)

// FollowService maintains the denormalized follow graph: duplicate and
// self-follow rejection, then an append to both sides of the edge.
type FollowService struct {
	users   domain.UserRepository
	follows domain.FollowRepository
}

// NewFollowService creates a new FollowService.
func NewFollowService(users domain.UserRepository, follows domain.FollowRepository) *FollowService {
	return &FollowService{users: users, follows: follows}
}

// Follow records that the user identified by followerID now follows
// targetUsername. The target must exist, must not be the follower, and
// must not already appear in the follower's following list (keyed by
// username). On success both sides of the edge are written atomically.
func (s *FollowService) Follow(ctx context.Context, followerID, targetUsername string) error {
	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("user %q: %w", targetUsername, domain.ErrNotFound)
		}
		return fmt.Errorf("get target user: %w", err)
	}

	if target.ID == followerID {
		return domain.ErrSelfFollow
	}

	follower, err := s.users.GetByID(ctx, followerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("follower %q: %w", followerID, domain.ErrNotFound)
		}
		return fmt.Errorf("get follower: %w", err)
	}

	already, err := s.follows.IsFollowing(ctx, follower.ID, target.Username)
	if err != nil {
		return fmt.Errorf("check existing edge: %w", err)
	}
	if already {
		return domain.ErrAlreadyFollowing
	}

	if err := s.follows.AddEdge(ctx, follower, target); err != nil {
		// The unique index catches the race where two identical follow
		// requests pass the check above concurrently.
		if errors.Is(err, domain.ErrAlreadyFollowing) {
			return err
		}
		return fmt.Errorf("add edge: %w", err)
	}
	return nil
}

// Followers returns the denormalized follower snapshots for username.
func (s *FollowService) Followers(ctx context.Context, username string) ([]domain.FollowEdge, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.follows.Followers(ctx, user.ID)
}

// Following returns the denormalized following snapshots for username.
func (s *FollowService) Following(ctx context.Context, username string) ([]domain.FollowEdge, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.follows.Following(ctx, user.ID)
}

// Profile is the public view of a user: identity fields plus the
// stored movie counters and follow counts computed from the graph.
type Profile struct {
	Username        string
	Firstname       string
	Lastname        string
	MoviesCount     int64
	WatchLaterCount int64
	FollowersCount  int64
	FollowingCount  int64
}

// GetProfile assembles the public profile for username. Follow counts
// are always computed from the edge rows, never stored.
func (s *FollowService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	followers, err := s.follows.CountFollowers(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count followers: %w", err)
	}
	following, err := s.follows.CountFollowing(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count following: %w", err)
	}

	return &Profile{
		Username:        user.Username,
		Firstname:       user.Firstname,
		Lastname:        user.Lastname,
		MoviesCount:     user.MoviesCount,
		WatchLaterCount: user.WatchLaterCount,
		FollowersCount:  followers,
		FollowingCount:  following,
	}, nil
}
