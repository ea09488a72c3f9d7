package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reelmate/reelmate/internal/service"
)

// Deps carries everything the router needs.
type Deps struct {
	Auth         *service.AuthService
	Watchlist    *service.WatchlistService
	Follows      *service.FollowService
	AuthLimiter  *service.TokenBucket
	CookieSecure bool
}

// NewRouter wires all HTTP routes. Static paths are registered before
// the profile wildcards so /fetch_movie_list and friends never match
// {username}.
func NewRouter(deps Deps) http.Handler {
	authHandler := NewAuthHandler(deps.Auth, deps.Follows, deps.CookieSecure)
	watchlistHandler := NewWatchlistHandler(deps.Watchlist)
	socialHandler := NewSocialHandler(deps.Follows)

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(deps.Auth, h)
	}
	limited := func(h http.HandlerFunc) http.Handler {
		return RateLimit(deps.AuthLimiter, h)
	}

	r := chi.NewRouter()
	r.Use(SecurityHeaders)

	r.Get("/healthz", HandleHealthz)

	r.Method(http.MethodPost, "/register", limited(authHandler.HandleRegister))
	r.Method(http.MethodPost, "/login", limited(authHandler.HandleLogin))
	r.Post("/logout", authHandler.HandleLogout)

	r.Get("/fetch_movie_list", watchlistHandler.HandleFetchList)
	r.Method(http.MethodPost, "/add_movie", requireAuth(watchlistHandler.HandleAdd))
	r.Method(http.MethodPatch, "/update_movie", requireAuth(watchlistHandler.HandleUpdate))
	r.Method(http.MethodDelete, "/delete_movie", requireAuth(watchlistHandler.HandleDelete))

	r.Post("/follow", socialHandler.HandleFollow)
	r.Get("/{username}", socialHandler.HandleProfile)
	r.Get("/{username}/followers", socialHandler.HandleFollowers)
	r.Get("/{username}/following", socialHandler.HandleFollowing)

	return r
}
