package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrPreconditionFailed covers inputs that are well-formed but not
	// scoreable yet, such as an unfinished match or a team without a captain.
	ErrPreconditionFailed = errors.New("precondition failed")
)
