package loaded

import "errors"

// Sentinel errors for loaded-set operations.
var (
	// ErrEmptyPath is returned when adding an empty route path.
	ErrEmptyPath = errors.New("loaded: empty route path")

	// ErrBackend is returned when the storage backend fails.
	ErrBackend = errors.New("loaded: backend failure")
)
