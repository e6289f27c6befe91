package shortener

import "errors"

var (
	// ErrInvalidURL is returned when the URL to shorten is missing or malformed.
	ErrInvalidURL = errors.New("invalid url")

	// ErrNotFound is returned when a code is unknown or its association has expired.
	ErrNotFound = errors.New("short url not found")

	// ErrCollision is returned by repositories when a generated code is already taken.
	ErrCollision = errors.New("short code already in use")

	// ErrAttemptsExhausted is returned when every generated code collided.
	ErrAttemptsExhausted = errors.New("could not allocate a unique short code")
)
