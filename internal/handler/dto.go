package handler

import (
	"time"

	"github.com/reelmate/reelmate/internal/domain"
	"github.com/reelmate/reelmate/internal/service"
)

// UserDTO is the JSON representation of a registered user.
type UserDTO struct {
	UserID    string `json:"userid"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	CreatedAt string `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		UserID:    u.ID,
		Username:  u.Username,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// LoginDTO is the JSON body returned on a successful login: identity
// plus the counter summary, matching what clients render on the home
// screen.
type LoginDTO struct {
	Username        string `json:"username"`
	UserID          string `json:"userid"`
	Firstname       string `json:"firstname"`
	Lastname        string `json:"lastname"`
	MoviesCount     int64  `json:"movies_count"`
	WatchLaterCount int64  `json:"watch_later_count"`
	FollowersCount  int64  `json:"followers_count"`
	FollowingCount  int64  `json:"following_count"`
}

// ProfileDTO is the public profile view.
type ProfileDTO struct {
	Username        string `json:"username"`
	Firstname       string `json:"firstname"`
	Lastname        string `json:"lastname"`
	MoviesCount     int64  `json:"movies_count"`
	WatchLaterCount int64  `json:"watch_later_count"`
	FollowersCount  int64  `json:"followers_count"`
	FollowingCount  int64  `json:"following_count"`
}

func toProfileDTO(p *service.Profile) ProfileDTO {
	return ProfileDTO{
		Username:        p.Username,
		Firstname:       p.Firstname,
		Lastname:        p.Lastname,
		MoviesCount:     p.MoviesCount,
		WatchLaterCount: p.WatchLaterCount,
		FollowersCount:  p.FollowersCount,
		FollowingCount:  p.FollowingCount,
	}
}

// FollowEdgeDTO is the JSON representation of one side of a follow edge.
type FollowEdgeDTO struct {
	UserID    string `json:"userid"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

func toFollowEdgeDTOs(edges []domain.FollowEdge) []FollowEdgeDTO {
	dtos := make([]FollowEdgeDTO, len(edges))
	for i, e := range edges {
		dtos[i] = FollowEdgeDTO{
			UserID:    e.UserID,
			Username:  e.Username,
			Firstname: e.Firstname,
			Lastname:  e.Lastname,
		}
	}
	return dtos
}

// MovieDTO is the joined movie metadata on a listed watch entry.
type MovieDTO struct {
	MovieID     string `json:"movie_id"`
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

// ListedEntryDTO is one row of a fetched watch list. Score and review
// are omitted for watch-later entries. Row and owner ids never appear.
type ListedEntryDTO struct {
	MovieID      string   `json:"movie_id"`
	WatchLater   bool     `json:"watch_later"`
	Score        *int     `json:"score,omitempty"`
	Review       *string  `json:"review,omitempty"`
	CreatedAt    string   `json:"created_at"`
	MovieDetails MovieDTO `json:"movie_details"`
}

func toListedEntryDTOs(entries []service.ListedEntry) []ListedEntryDTO {
	dtos := make([]ListedEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = ListedEntryDTO{
			MovieID:    e.MovieID,
			WatchLater: e.WatchLater,
			Score:      e.Score,
			Review:     e.Review,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339),
			MovieDetails: MovieDTO{
				MovieID:     e.Movie.MovieID,
				Title:       e.Movie.Title,
				Overview:    e.Movie.Overview,
				ReleaseDate: e.Movie.ReleaseDate,
				PosterPath:  e.Movie.PosterPath,
			},
		}
	}
	return dtos
}
