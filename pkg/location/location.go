package location

import "sync"

// Source holds the current route path and notifies subscribers when it
// changes. Safe for concurrent use.
type Source struct {
	mu   sync.RWMutex
	path string

	subMu  sync.Mutex
	subs   map[int]func(string)
	nextID int
}

// NewSource creates a source positioned at the given initial path.
func NewSource(initial string) *Source {
	return &Source{
		path: initial,
		subs: make(map[int]func(string)),
	}
}

// Path returns the current route path.
func (s *Source) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.path
}

// Set updates the current route path and notifies subscribers.
// Setting the same path again does not notify.
func (s *Source) Set(path string) {
	s.mu.Lock()
	if s.path == path {
		s.mu.Unlock()
		return
	}
	s.path = path
	s.mu.Unlock()

	s.subMu.Lock()
	fns := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(path)
	}
}

// Subscribe registers fn to be called with the new path on every
// navigation. The returned function removes the subscription.
func (s *Source) Subscribe(fn func(string)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}
