package routes

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Loader fetches the bundle for a single route.
// Implementations should respect ctx cancellation and return an error
// when the bundle could not be retrieved.
type Loader func(ctx context.Context) error

// Registry maps route paths to their bundle loaders.
// Registration happens during application setup; after that the
// registry is read-only for the process lifetime.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]Loader
}

// NewRegistry creates an empty route registry.
func NewRegistry() *Registry {
	return &Registry{
		loaders: make(map[string]Loader),
	}
}

// Register binds a loader to a route path.
// Returns ErrEmptyPath, ErrNilLoader, or ErrDuplicateRoute on misuse.
func (r *Registry) Register(path string, loader Loader) error {
	if path == "" {
		return ErrEmptyPath
	}
	if loader == nil {
		return fmt.Errorf("%w: %s", ErrNilLoader, path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.loaders[path]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRoute, path)
	}
	r.loaders[path] = loader

	return nil
}

// MustRegister binds a loader or panics.
// Use during setup where a registration failure is a programming error.
func (r *Registry) MustRegister(path string, loader Loader) {
	if err := r.Register(path, loader); err != nil {
		panic(err)
	}
}

// Lookup returns the loader for a route path.
func (r *Registry) Lookup(path string) (Loader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loader, ok := r.loaders[path]
	return loader, ok
}

// Paths returns all registered route paths in sorted order.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make([]string, 0, len(r.loaders))
	for path := range r.loaders {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	return paths
}

// Len returns the number of registered routes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.loaders)
}
