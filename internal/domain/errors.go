package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidInput      = errors.New("invalid input")
	ErrSelfFollow        = errors.New("you cannot follow yourself")
	ErrAlreadyFollowing  = errors.New("already following this person")
	ErrMovieUnresolved   = errors.New("could not resolve movie")
)
