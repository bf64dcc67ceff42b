package authstate

import (
	"slices"
	"sync"
)

// User carries the role set of the signed-in user.
type User struct {
	ID    string
	Roles []string
}

// Snapshot is a consistent copy of the authentication state at one
// point in time.
type Snapshot struct {
	// Authenticated reports whether a user is signed in.
	Authenticated bool

	// Initialized reports whether the auth backend has resolved the
	// initial session. Until it is true, consumers should treat the
	// state as unknown and do nothing.
	Initialized bool

	// User is nil when no user is signed in.
	User *User
}

// Roles returns the user's role set, or nil when no user is present.
func (s Snapshot) Roles() []string {
	if s.User == nil {
		return nil
	}
	return s.User.Roles
}

// HasAnyRole reports whether the snapshot's user holds at least one of
// the wanted roles.
func (s Snapshot) HasAnyRole(wanted ...string) bool {
	roles := s.Roles()
	for _, w := range wanted {
		if slices.Contains(roles, w) {
			return true
		}
	}
	return false
}

// Store holds the current authentication state and notifies subscribers
// on every change. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot

	subMu  sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int
}

// NewStore creates a store in the uninitialized, signed-out state.
func NewStore() *Store {
	return &Store{
		subs: make(map[int]func(Snapshot)),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snap
}

// SetInitialized marks the auth backend as resolved.
func (s *Store) SetInitialized(initialized bool) {
	s.mu.Lock()
	s.snap.Initialized = initialized
	snap := s.snap
	s.mu.Unlock()

	s.notify(snap)
}

// SignIn records a signed-in user and notifies subscribers.
func (s *Store) SignIn(user User) {
	s.mu.Lock()
	u := user
	u.Roles = slices.Clone(user.Roles)
	s.snap.Authenticated = true
	s.snap.User = &u
	snap := s.snap
	s.mu.Unlock()

	s.notify(snap)
}

// SignOut clears the signed-in user and notifies subscribers.
func (s *Store) SignOut() {
	s.mu.Lock()
	s.snap.Authenticated = false
	s.snap.User = nil
	snap := s.snap
	s.mu.Unlock()

	s.notify(snap)
}

// Subscribe registers fn to be called with a snapshot on every state
// change. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
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

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
