package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reelmate/reelmate/internal/domain"
	"github.com/reelmate/reelmate/internal/service"
)

// SocialHandler handles the follow graph and profile endpoints. These
// speak JSON, with failures reported as {"error": "..."} bodies.
type SocialHandler struct {
	follows *service.FollowService
}

// NewSocialHandler creates a new SocialHandler.
func NewSocialHandler(follows *service.FollowService) *SocialHandler {
	return &SocialHandler{follows: follows}
}

// HandleFollow adds a follow edge.
// POST /follow
// Request: {"userid":"...","username":"target"}
// Response: 200 empty on success; 200 {"error":"..."} on a rejected
// follow, matching the original wire contract.
func (h *SocialHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string `json:"userid"`
		Username string `json:"username"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusOK, "invalid request body")
		return
	}

	err := h.follows.Follow(r.Context(), req.UserID, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusOK, "User does not exists")
		case errors.Is(err, domain.ErrSelfFollow):
			writeError(w, http.StatusOK, "You cannot follow yourself")
		case errors.Is(err, domain.ErrAlreadyFollowing):
			writeError(w, http.StatusOK, "Already following this person")
		default:
			slog.Error("follow user", "target", req.Username, "error", err)
			writeError(w, http.StatusInternalServerError, "could not follow user")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleFollowers lists a user's followers.
// GET /{username}/followers
func (h *SocialHandler) HandleFollowers(w http.ResponseWriter, r *http.Request) {
	h.handleEdgeList(w, r, h.follows.Followers)
}

// HandleFollowing lists who a user follows.
// GET /{username}/following
func (h *SocialHandler) HandleFollowing(w http.ResponseWriter, r *http.Request) {
	h.handleEdgeList(w, r, h.follows.Following)
}

// HandleProfile returns the public profile with computed follow counts.
// GET /{username}
func (h *SocialHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := h.follows.GetProfile(r.Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User does not exists")
			return
		}
		slog.Error("get profile", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load profile")
		return
	}

	writeJSON(w, http.StatusOK, toProfileDTO(profile))
}

func (h *SocialHandler) handleEdgeList(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, username string) ([]domain.FollowEdge, error),
) {
	username := chi.URLParam(r, "username")

	edges, err := list(r.Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User does not exists")
			return
		}
		slog.Error("list follow edges", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load list")
		return
	}

	writeJSON(w, http.StatusOK, toFollowEdgeDTOs(edges))
}
