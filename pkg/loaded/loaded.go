package loaded

import "context"

// Set records which routes have been successfully prefetched.
//
// The set is insertion-only: entries are never removed or expired.
// It exists purely to deduplicate prefetch work, so a failed load
// must not be added — the route stays eligible for a later attempt.
type Set interface {
	// Has reports whether a route has already been loaded.
	Has(ctx context.Context, path string) (bool, error)

	// Add marks a route as loaded. Adding an existing route is a no-op.
	Add(ctx context.Context, path string) error

	// Paths returns all loaded route paths.
	Paths(ctx context.Context) ([]string, error)
}
