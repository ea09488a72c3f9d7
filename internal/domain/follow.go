package domain

import (
	"context"
	"time"
)

// FollowEdge is a denormalized snapshot of one side of a follow
// relationship: who the edge points at, captured at insertion time.
// Snapshots are never back-filled when the referenced user changes.
type FollowEdge struct {
	UserID    string
	Username  string
	Firstname string
	Lastname  string
	CreatedAt time.Time
}

// FollowRepository stores the follow graph denormalized on both sides:
// a following row on the follower and a followers row on the target.
type FollowRepository interface {
	// AddEdge appends target to follower's following list and the
	// inverse snapshot to target's followers list, atomically.
	// Returns ErrAlreadyFollowing if follower already follows a user
	// with target's username.
	AddEdge(ctx context.Context, follower, target *User) error
	// IsFollowing reports whether ownerID's following list contains an
	// edge keyed by username.
	IsFollowing(ctx context.Context, ownerID, username string) (bool, error)
	Followers(ctx context.Context, ownerID string) ([]FollowEdge, error)
	Following(ctx context.Context, ownerID string) ([]FollowEdge, error)
	CountFollowers(ctx context.Context, ownerID string) (int64, error)
	CountFollowing(ctx context.Context, ownerID string) (int64, error)
}
