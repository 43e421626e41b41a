package domain

import "errors"

var (
	// ErrInvalidIdentifier is returned when a post id is empty, too long or
	// not purely numeric. No upstream request is made in that case.
	ErrInvalidIdentifier = errors.New("invalid post identifier")

	// ErrSourceUnavailable is returned when a required upstream
	// representation could not be fetched or decoded.
	ErrSourceUnavailable = errors.New("post source unavailable")

	// ErrRateLimited is returned when a client exceeds the preview budget.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrUnknownStrategy is returned for an unsupported source strategy.
	ErrUnknownStrategy = errors.New("unknown source strategy")
)
