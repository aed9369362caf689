package models

import "errors"

// Engine error taxonomy. Remote failures are not part of it: they are
// recovered by falling back to the local engine and never surfaced.
var (
	// ErrInvalidInput means the operation was rejected before it started
	// (empty URL, oversized file).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means a run, event, or record id does not exist.
	ErrNotFound = errors.New("not found")
)
