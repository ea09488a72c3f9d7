package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/reelmate/reelmate/internal/domain"
	"github.com/reelmate/reelmate/internal/service"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	auth         *service.AuthService
	follows      *service.FollowService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, follows *service.FollowService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, follows: follows, cookieSecure: cookieSecure}
}

// HandleRegister creates a new account.
// POST /register
// Request:  {"username":"...","firstname":"...","lastname":"...","password":"..."}
// Response: 201 {"user": {...}} or {"error":"..."} on failure.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username  string `json:"username"`
		Firstname string `json:"firstname"`
		Lastname  string `json:"lastname"`
		Password  string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Firstname, req.Lastname, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			writeError(w, http.StatusConflict, "username already exists")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("register user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user": toUserDTO(user),
	})
}

// HandleLogin verifies credentials, sets the jwt cookie and returns the
// signed-in user's summary with counts.
// POST /login
// Request:  {"username":"...","password":"..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		slog.Error("login user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // 24 hours
	})

	profile, err := h.follows.GetProfile(r.Context(), user.Username)
	if err != nil {
		slog.Error("load profile after login", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, LoginDTO{
		Username:        user.Username,
		UserID:          user.ID,
		Firstname:       user.Firstname,
		Lastname:        user.Lastname,
		MoviesCount:     profile.MoviesCount,
		WatchLaterCount: profile.WatchLaterCount,
		FollowersCount:  profile.FollowersCount,
		FollowingCount:  profile.FollowingCount,
	})
}

// HandleLogout clears the jwt cookie.
// POST /logout
// Response: 204 No Content
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
}
