package verify

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when a retry policy allows no attempts.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidWorkers is returned when the worker count is < 1.
	ErrInvalidWorkers = errors.New("workers must be greater than 0")
)
