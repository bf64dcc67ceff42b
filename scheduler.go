package prefetch

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/prefetch/pkg/authstate"
	"github.com/dmitrymomot/prefetch/pkg/idle"
	"github.com/dmitrymomot/prefetch/pkg/loaded"
	"github.com/dmitrymomot/prefetch/pkg/location"
	"github.com/dmitrymomot/prefetch/pkg/netinfo"
	"github.com/dmitrymomot/prefetch/pkg/plan"
	"github.com/dmitrymomot/prefetch/pkg/routes"
)

// Snapshot is the input to one evaluation pass: the authentication
// state and current location at the moment a trigger fired.
type Snapshot struct {
	// Authenticated reports whether a user is signed in.
	Authenticated bool

	// Initialized reports whether the auth backend has resolved the
	// initial session. Evaluation is a no-op until it is true.
	Initialized bool

	// Roles is the signed-in user's role set, nil for guests.
	Roles []string

	// Path is the current route path.
	Path string
}

// Scheduler decides which route bundles to prefetch and when.
//
// All mutable state (previous auth flag, last snapshot, in-flight
// dedup) is owned by the scheduler instance, so independent schedulers
// never interfere with each other. The loaded set is shared only with
// whoever the caller hands the same [loaded.Set] to.
//
// Scheduled work is fire-and-forget: once a wave timer or idle
// callback is queued it runs even if the triggering condition went
// stale. The loaded-set dedup makes stale work harmless.
type Scheduler struct {
	id     string
	reg    *routes.Registry
	set    loaded.Set
	idler  idle.Scheduler
	net    netinfo.Provider
	plan   plan.Plan
	log    *slog.Logger
	idleTO time.Duration

	sf singleflight.Group

	mu            sync.Mutex
	prevAuth      bool
	prevAuthKnown bool
	lastSnap      Snapshot
	lastSnapKnown bool

	cron *cron.Cron
}

// New creates a scheduler over the given route registry and loaded set.
// Returns an error when required collaborators are missing or the
// re-warm schedule cannot be parsed.
func New(reg *routes.Registry, set loaded.Set, opts ...Option) (*Scheduler, error) {
	if reg == nil {
		return nil, ErrRegistryRequired
	}
	if set == nil {
		return nil, ErrSetRequired
	}

	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Scheduler{
		id:     uuid.NewString(),
		reg:    reg,
		set:    set,
		idler:  cfg.idler,
		net:    cfg.net,
		plan:   cfg.plan,
		idleTO: cfg.idleTimeout,
	}
	s.log = cfg.log.With("scheduler", s.id)

	if cfg.rewarm != "" {
		if _, err := cron.ParseStandard(cfg.rewarm); err != nil {
			return nil, errors.Join(ErrInvalidRewarmSchedule, err)
		}
		s.cron = cron.New()
		// Parse already validated above; AddFunc cannot fail here.
		_, _ = s.cron.AddFunc(cfg.rewarm, s.rewarm)
		s.cron.Start()
	}

	return s, nil
}

// Close stops the re-warm cron runner, if any. Already queued wave
// timers and idle callbacks are not cancelled. Close is idempotent.
func (s *Scheduler) Close() error {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	return nil
}

// Evaluate runs one prefetch decision pass over the snapshot.
//
// It schedules guest or authenticated waves, adds the staff admin wave
// where the role set warrants it, fires the sign-in burst on a
// false→true authentication transition, and warms the whole admin
// section when a staff user is already on an admin page that has not
// been loaded yet. Evaluate never blocks on loader work and never
// panics; all failures are logged.
func (s *Scheduler) Evaluate(ctx context.Context, snap Snapshot) {
	s.mu.Lock()
	s.lastSnap = snap
	s.lastSnapKnown = true
	s.mu.Unlock()

	if !snap.Initialized {
		return
	}
	if !s.allowed(ctx) {
		s.log.Debug("prefetch disabled by network conditions")
		return
	}

	staff := s.isStaff(snap.Roles)

	if snap.Authenticated {
		s.scheduleWaves(s.plan.Authenticated)
		if staff {
			s.scheduleWaves(s.plan.Staff)
		}
	} else {
		s.scheduleWaves(s.plan.Guest)
	}

	s.mu.Lock()
	signedIn := s.prevAuthKnown && !s.prevAuth && snap.Authenticated
	s.mu.Unlock()

	if signedIn {
		s.scheduleWaves(s.plan.LoginBurst)
		if staff {
			s.scheduleWaves(s.plan.LoginBurstStaff)
		}
	}

	if staff && strings.HasPrefix(snap.Path, s.plan.AdminPrefix) {
		warm, err := s.set.Has(ctx, s.plan.AdminPrefix)
		if err != nil {
			s.log.Warn("loaded set lookup failed", "route", s.plan.AdminPrefix, "error", err)
		}
		if err == nil && !warm {
			s.scheduleWaves([]plan.Wave{{Routes: s.plan.AdminRoutes}})
		}
	}

	s.mu.Lock()
	s.prevAuth = snap.Authenticated
	s.prevAuthKnown = true
	s.mu.Unlock()
}

// Watch subscribes the scheduler to the auth store and location source,
// evaluates once immediately, and re-evaluates on every change.
// The returned function removes both subscriptions.
func (s *Scheduler) Watch(ctx context.Context, auth *authstate.Store, loc *location.Source) func() {
	evaluate := func() {
		a := auth.Snapshot()
		s.Evaluate(ctx, Snapshot{
			Authenticated: a.Authenticated,
			Initialized:   a.Initialized,
			Roles:         a.Roles(),
			Path:          loc.Path(),
		})
	}

	unsubAuth := auth.Subscribe(func(authstate.Snapshot) { evaluate() })
	unsubLoc := loc.Subscribe(func(string) { evaluate() })
	evaluate()

	return func() {
		unsubAuth()
		unsubLoc()
	}
}

// Prefetch requests loading of a single route.
//
// Routes already in the loaded set are skipped. Unregistered routes
// log a warning. A loader failure is logged and leaves the route
// eligible for a later attempt; a success marks the route loaded.
// Concurrent calls for the same route share one loader invocation.
func (s *Scheduler) Prefetch(ctx context.Context, path string) {
	warm, err := s.set.Has(ctx, path)
	if err != nil {
		s.log.Warn("loaded set lookup failed", "route", path, "error", err)
	}
	if warm {
		return
	}

	loader, ok := s.reg.Lookup(path)
	if !ok {
		s.log.Warn("no loader registered for route", "route", path)
		return
	}

	_, err, _ = s.sf.Do(path, func() (any, error) {
		return nil, loader(ctx)
	})
	if err != nil {
		s.log.Error("route prefetch failed", "route", path, "error", err)
		return
	}

	if err := s.set.Add(ctx, path); err != nil {
		s.log.Warn("failed to mark route as loaded", "route", path, "error", err)
		return
	}

	s.log.Debug("route prefetched", "route", path)
}

// scheduleWaves queues every wave: immediate waves go straight to the
// idle scheduler, delayed waves sit behind a fire-and-forget timer
// first. Timers are never cancelled.
func (s *Scheduler) scheduleWaves(waves []plan.Wave) {
	for _, wave := range waves {
		paths := wave.Routes
		if len(paths) == 0 {
			continue
		}

		dispatch := func() {
			for _, path := range paths {
				s.idler.Schedule(func() {
					s.Prefetch(context.Background(), path)
				}, s.idleTO)
			}
		}

		if delay := wave.Delay.Std(); delay > 0 {
			time.AfterFunc(delay, dispatch)
		} else {
			dispatch()
		}
	}
}

// allowed reports whether network conditions permit prefetching.
// A missing provider or a provider error never blocks.
func (s *Scheduler) allowed(ctx context.Context) bool {
	if s.net == nil {
		return true
	}

	cond, err := s.net.Conditions(ctx)
	if err != nil {
		return true
	}
	return cond.Allowed()
}

// isStaff reports whether the role set intersects the plan's staff
// roles.
func (s *Scheduler) isStaff(roles []string) bool {
	for _, want := range s.plan.StaffRoles {
		if slices.Contains(roles, want) {
			return true
		}
	}
	return false
}

// rewarm replays the last snapshot through Evaluate on the cron
// schedule, re-warming anything that fell out of downstream caches.
func (s *Scheduler) rewarm() {
	s.mu.Lock()
	snap, known := s.lastSnap, s.lastSnapKnown
	s.mu.Unlock()

	if !known {
		return
	}

	s.log.Debug("re-warm tick", "path", snap.Path)
	s.Evaluate(context.Background(), snap)
}
