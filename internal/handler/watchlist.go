package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/reelmate/reelmate/internal/domain"
	"github.com/reelmate/reelmate/internal/service"
)

// WatchlistHandler handles the movie list endpoints. These speak the
// original wire dialect: plain text bodies, 401 on validation failures.
type WatchlistHandler struct {
	watchlist *service.WatchlistService
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(watchlist *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{watchlist: watchlist}
}

// HandleFetchList returns one page of a user's watch list.
// GET /fetch_movie_list?username=&watch_later=&page_number=&sort_key=
func (h *WatchlistHandler) HandleFetchList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	username := q.Get("username")
	watchLater := q.Get("watch_later") == "true"

	// Absent or non-numeric page numbers fall back to the first page.
	page := 1
	if raw := q.Get("page_number"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}

	entries, err := h.watchlist.FetchList(r.Context(), username, watchLater, page, q.Get("sort_key"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeText(w, http.StatusUnauthorized, inputMessage(err))
			return
		}
		slog.Error("fetch movie list", "username", username, "error", err)
		writeText(w, http.StatusUnauthorized, "fetch failed")
		return
	}

	writeJSON(w, http.StatusOK, toListedEntryDTOs(entries))
}

// HandleAdd inserts a new watch entry for the authenticated user.
// POST /add_movie
// Request: {"movie_id":"...","score":7,"review":"...","watch_later":false}
func (h *WatchlistHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeText(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		MovieID    string  `json:"movie_id"`
		Score      *int    `json:"score"`
		Review     *string `json:"review"`
		WatchLater bool    `json:"watch_later"`
	}
	if err := readJSON(r, &req); err != nil {
		writeText(w, http.StatusUnauthorized, "invalid request body")
		return
	}

	err := h.watchlist.Add(r.Context(), user, service.AddInput{
		MovieID:    req.MovieID,
		WatchLater: req.WatchLater,
		Score:      req.Score,
		Review:     req.Review,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeText(w, http.StatusUnauthorized, inputMessage(err))
			return
		}
		if errors.Is(err, domain.ErrMovieUnresolved) {
			writeText(w, http.StatusUnauthorized, "could not add movie")
			return
		}
		slog.Error("add movie", "username", user.Username, "movie_id", req.MovieID, "error", err)
		writeText(w, http.StatusUnauthorized, "could not add movie")
		return
	}

	writeText(w, http.StatusOK, "updated successfully")
}

// HandleUpdate patches the authenticated user's entries for a movie.
// PATCH /update_movie
// Request: {"movie_id":"...","new_score":8,"new_review":"...","watch_later":false}
func (h *WatchlistHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeText(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		MovieID    string  `json:"movie_id"`
		NewScore   *int    `json:"new_score"`
		NewReview  *string `json:"new_review"`
		WatchLater *bool   `json:"watch_later"`
	}
	if err := readJSON(r, &req); err != nil {
		writeText(w, http.StatusUnauthorized, "invalid request body")
		return
	}

	err := h.watchlist.Update(r.Context(), user, service.UpdateInput{
		MovieID:    req.MovieID,
		Score:      req.NewScore,
		Review:     req.NewReview,
		WatchLater: req.WatchLater,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeText(w, http.StatusUnauthorized, inputMessage(err))
			return
		}
		slog.Error("update movie", "username", user.Username, "movie_id", req.MovieID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeText(w, http.StatusOK, "updated successfully")
}

// HandleDelete removes one entry for the authenticated user.
// DELETE /delete_movie?movie_id=&watch_later=
func (h *WatchlistHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeText(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	q := r.URL.Query()
	movieID := q.Get("movie_id")
	watchLater := q.Get("watch_later") == "true"

	if err := h.watchlist.Delete(r.Context(), user, movieID, watchLater); err != nil {
		slog.Error("delete movie", "username", user.Username, "movie_id", movieID, "error", err)
		writeText(w, http.StatusInternalServerError, "deletion failed")
		return
	}

	writeText(w, http.StatusOK, "deleted successfully")
}

// inputMessage strips the ErrInvalidInput prefix, leaving the
// field-level message the validators produced.
func inputMessage(err error) string {
	msg := err.Error()
	prefix := domain.ErrInvalidInput.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
