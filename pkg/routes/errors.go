package routes

import "errors"

// Sentinel errors for route registration.
var (
	// ErrEmptyPath is returned when registering a loader under an empty path.
	ErrEmptyPath = errors.New("routes: empty route path")

	// ErrNilLoader is returned when registering a nil loader.
	ErrNilLoader = errors.New("routes: nil loader")

	// ErrDuplicateRoute is returned when a path is registered twice.
	ErrDuplicateRoute = errors.New("routes: duplicate route")
)
