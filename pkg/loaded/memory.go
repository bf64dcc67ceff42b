package loaded

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process loaded set backed by a map.
// Safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	paths map[string]struct{}
}

// NewMemory creates an empty in-memory loaded set.
func NewMemory() *Memory {
	return &Memory{
		paths: make(map[string]struct{}),
	}
}

// Has reports whether a route has already been loaded.
func (m *Memory) Has(_ context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.paths[path]
	return ok, nil
}

// Add marks a route as loaded.
func (m *Memory) Add(_ context.Context, path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.paths[path] = struct{}{}
	return nil
}

// Paths returns all loaded route paths in sorted order.
func (m *Memory) Paths(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.paths))
	for path := range m.paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	return paths, nil
}

var _ Set = (*Memory)(nil)
