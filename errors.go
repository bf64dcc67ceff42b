package prefetch

import "errors"

// Sentinel errors for scheduler construction.
var (
	// ErrRegistryRequired is returned when New is called without a
	// route registry.
	ErrRegistryRequired = errors.New("prefetch: route registry is required")

	// ErrSetRequired is returned when New is called without a loaded
	// set.
	ErrSetRequired = errors.New("prefetch: loaded set is required")

	// ErrInvalidRewarmSchedule is returned when the re-warm cron
	// expression cannot be parsed.
	ErrInvalidRewarmSchedule = errors.New("prefetch: invalid re-warm schedule")
)
