package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/reelmate/reelmate/internal/domain"
	"github.com/reelmate/reelmate/internal/service"
)

func TestFollowService_Follow_WritesBothSides(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice")
	env.registerUser(t, "bob")

	if err := env.follows.Follow(ctx, alice.ID, "bob"); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	following, err := env.follows.Following(ctx, "alice")
	if err != nil {
		t.Fatalf("Following: %v", err)
	}
	if len(following) != 1 || following[0].Username != "bob" {
		t.Fatalf("expected alice following bob, got %v", following)
	}

	followers, err := env.follows.Followers(ctx, "bob")
	if err != nil {
		t.Fatalf("Followers: %v", err)
	}
	if len(followers) != 1 || followers[0].Username != "alice" {
		t.Fatalf("expected bob followed by alice, got %v", followers)
	}
}

func TestFollowService_Follow_UnknownTarget(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerUser(t, "alice")

	err := env.follows.Follow(context.Background(), alice.ID, "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFollowService_Follow_Self(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerUser(t, "alice")

	err := env.follows.Follow(context.Background(), alice.ID, "alice")
	if !errors.Is(err, domain.ErrSelfFollow) {
		t.Fatalf("expected ErrSelfFollow, got %v", err)
	}
}

func TestFollowService_Follow_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice")
	env.registerUser(t, "bob")

	if err := env.follows.Follow(ctx, alice.ID, "bob"); err != nil {
		t.Fatalf("first Follow: %v", err)
	}
	err := env.follows.Follow(ctx, alice.ID, "bob")
	if !errors.Is(err, domain.ErrAlreadyFollowing) {
		t.Fatalf("expected ErrAlreadyFollowing, got %v", err)
	}

	// The rejected duplicate must not have grown either side.
	followers, err := env.follows.Followers(ctx, "bob")
	if err != nil {
		t.Fatalf("Followers: %v", err)
	}
	if len(followers) != 1 {
		t.Fatalf("expected 1 follower after duplicate rejection, got %d", len(followers))
	}
}

func TestFollowService_Follow_IsDirectional(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")

	if err := env.follows.Follow(ctx, alice.ID, "bob"); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	// The reverse direction is a distinct edge and must still be allowed.
	if err := env.follows.Follow(ctx, bob.ID, "alice"); err != nil {
		t.Fatalf("reverse Follow: %v", err)
	}

	followers, err := env.follows.Followers(ctx, "alice")
	if err != nil {
		t.Fatalf("Followers: %v", err)
	}
	if len(followers) != 1 || followers[0].Username != "bob" {
		t.Fatalf("expected bob among alice's followers, got %v", followers)
	}
}

func TestFollowService_EdgeLists_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.follows.Followers(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Followers: expected ErrNotFound, got %v", err)
	}
	if _, err := env.follows.Following(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Following: expected ErrNotFound, got %v", err)
	}
}

func TestFollowService_GetProfile(t *testing.T) {
	env := newTestEnv(t, "550")
	ctx := context.Background()
	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")
	carol := env.registerUser(t, "carol")

	err := env.watchlist.Add(ctx, alice, service.AddInput{
		MovieID: "550", Score: intp(8), Review: strp("r"),
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := env.follows.Follow(ctx, bob.ID, "alice"); err != nil {
		t.Fatalf("bob follows alice: %v", err)
	}
	if err := env.follows.Follow(ctx, carol.ID, "alice"); err != nil {
		t.Fatalf("carol follows alice: %v", err)
	}
	if err := env.follows.Follow(ctx, alice.ID, "bob"); err != nil {
		t.Fatalf("alice follows bob: %v", err)
	}

	profile, err := env.follows.GetProfile(ctx, "alice")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.Username != "alice" || profile.Firstname != "Test" {
		t.Fatalf("unexpected identity fields: %+v", profile)
	}
	if profile.MoviesCount != 1 || profile.WatchLaterCount != 0 {
		t.Fatalf("unexpected movie counters: %+v", profile)
	}
	if profile.FollowersCount != 2 || profile.FollowingCount != 1 {
		t.Fatalf("expected 2 followers and 1 following, got %d/%d",
			profile.FollowersCount, profile.FollowingCount)
	}
}

func TestFollowService_GetProfile_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.follows.GetProfile(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
