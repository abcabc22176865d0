package store

import "errors"

var (
	// ErrNotFound means the key is absent or its TTL has elapsed
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists means a create collided with a live record
	ErrAlreadyExists = errors.New("already exists")

	// ErrTerminalState means a write targeted a completed or failed job
	ErrTerminalState = errors.New("job is in a terminal state")

	// ErrUnavailable means the store itself could not be reached.
	// Kept distinct from ErrNotFound so the API layer can answer 503
	// instead of 404 when Redis is down.
	ErrUnavailable = errors.New("store unavailable")
)
