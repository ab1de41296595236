// Package sentinel holds the infrastructure errors shared by clients and stores.
// Wrap them with context; callers branch with errors.Is.
package sentinel

import "errors"

var (
	// ErrNotFound means the upstream or store has no such resource.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable means a dependency could not be reached or answered 5xx.
	// The work is retried by redelivery.
	ErrUnavailable = errors.New("unavailable")
)
