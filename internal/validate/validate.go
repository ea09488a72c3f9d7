// Package validate holds the pure field validators shared by the HTTP
// layer and the services. Each validator returns a human-readable
// message for the offending field, or "" when the value is acceptable.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// ScoreMin and ScoreMax bound the accepted rating range.
	ScoreMin = 1
	ScoreMax = 10

	usernameMinLen = 3
	usernameMaxLen = 30
	reviewMaxLen   = 2000
)

// Username checks the username format: 3-30 characters from
// [A-Za-z0-9_].
func Username(username string) string {
	if username == "" {
		return "username is required"
	}
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return fmt.Sprintf("username must be between %d and %d characters", usernameMinLen, usernameMaxLen)
	}
	for _, r := range username {
		if !isUsernameRune(r) {
			return "username may only contain letters, digits and underscores"
		}
	}
	return ""
}

// MovieID checks the movie id shape: a non-empty string of digits.
func MovieID(movieID string) string {
	if movieID == "" {
		return "movie_id is required"
	}
	for _, r := range movieID {
		if r < '0' || r > '9' {
			return "movie_id must be numeric"
		}
	}
	return ""
}

// Score checks that score is present and within the rating range.
func Score(score *int) string {
	if score == nil {
		return "score is required"
	}
	if *score < ScoreMin || *score > ScoreMax {
		return fmt.Sprintf("score must be between %d and %d", ScoreMin, ScoreMax)
	}
	return ""
}

// Review checks that review is present, non-blank and within bounds.
func Review(review *string) string {
	if review == nil || strings.TrimSpace(*review) == "" {
		return "review is required"
	}
	if utf8.RuneCountInString(*review) > reviewMaxLen {
		return fmt.Sprintf("review must not exceed %d characters", reviewMaxLen)
	}
	return ""
}

func isUsernameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	}
	return false
}
