package prefetch_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/prefetch"
	"github.com/dmitrymomot/prefetch/pkg/authstate"
	"github.com/dmitrymomot/prefetch/pkg/idle"
	"github.com/dmitrymomot/prefetch/pkg/loaded"
	"github.com/dmitrymomot/prefetch/pkg/location"
	"github.com/dmitrymomot/prefetch/pkg/netinfo"
	"github.com/dmitrymomot/prefetch/pkg/plan"
	"github.com/dmitrymomot/prefetch/pkg/routes"
)

// fixture wires a scheduler over counting loaders so tests can assert
// exactly which routes were fetched and how often.
type fixture struct {
	reg    *routes.Registry
	set    *loaded.Memory
	counts map[string]*atomic.Int64
}

func newFixture(t *testing.T, paths ...string) *fixture {
	t.Helper()

	f := &fixture{
		reg:    routes.NewRegistry(),
		set:    loaded.NewMemory(),
		counts: make(map[string]*atomic.Int64),
	}
	for _, path := range paths {
		count := &atomic.Int64{}
		f.counts[path] = count
		f.reg.MustRegister(path, func(context.Context) error {
			count.Add(1)
			return nil
		})
	}

	return f
}

// registerFailing adds a loader that always fails.
func (f *fixture) registerFailing(t *testing.T, path string) {
	t.Helper()

	count := &atomic.Int64{}
	f.counts[path] = count
	f.reg.MustRegister(path, func(context.Context) error {
		count.Add(1)
		return errors.New("bundle fetch failed")
	})
}

func (f *fixture) calls(path string) int64 {
	count, ok := f.counts[path]
	if !ok {
		return 0
	}
	return count.Load()
}

func (f *fixture) scheduler(t *testing.T, opts ...prefetch.Option) *prefetch.Scheduler {
	t.Helper()

	opts = append([]prefetch.Option{prefetch.WithIdleScheduler(idle.Immediate{})}, opts...)
	s, err := prefetch.New(f.reg, f.set, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

// testPlan mirrors the default plan's structure with distinct routes
// per wave and millisecond delays, so tests stay fast and can tell the
// waves apart.
func testPlan() plan.Plan {
	return plan.Plan{
		Guest: []plan.Wave{
			{Routes: []string{"/login", "/register"}},
			{Routes: []string{"/catalog"}, Delay: plan.Duration(20 * time.Millisecond)},
		},
		Authenticated: []plan.Wave{
			{Routes: []string{"/catalog", "/cart"}},
			{Routes: []string{"/profile"}, Delay: plan.Duration(20 * time.Millisecond)},
		},
		Staff: []plan.Wave{
			{Routes: []string{"/admin", "/admin/users"}, Delay: plan.Duration(30 * time.Millisecond)},
		},
		LoginBurst: []plan.Wave{
			{Routes: []string{"/wishlist"}},
		},
		LoginBurstStaff: []plan.Wave{
			{Routes: []string{"/admin/orders"}, Delay: plan.Duration(20 * time.Millisecond)},
		},
		AdminRoutes: []string{"/admin", "/admin/users", "/admin/orders"},
		StaffRoles:  []string{"admin", "marketer", "consultant"},
		AdminPrefix: "/admin",
		ReturnRoutes: []string{
			"/cart", "/wishlist", "/profile", "/checkout",
		},
	}
}

func allTestRoutes() []string {
	return []string{
		"/login", "/register", "/catalog", "/cart", "/wishlist",
		"/profile", "/checkout", "/privacy-policy",
		"/admin", "/admin/users", "/admin/orders",
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires a registry", func(t *testing.T) {
		t.Parallel()

		_, err := prefetch.New(nil, loaded.NewMemory())
		require.ErrorIs(t, err, prefetch.ErrRegistryRequired)
	})

	t.Run("requires a loaded set", func(t *testing.T) {
		t.Parallel()

		_, err := prefetch.New(routes.NewRegistry(), nil)
		require.ErrorIs(t, err, prefetch.ErrSetRequired)
	})

	t.Run("rejects a bad re-warm schedule", func(t *testing.T) {
		t.Parallel()

		_, err := prefetch.New(routes.NewRegistry(), loaded.NewMemory(),
			prefetch.WithRewarmSchedule("every day at noon"))
		require.ErrorIs(t, err, prefetch.ErrInvalidRewarmSchedule)
	})

	t.Run("accepts a valid re-warm schedule and closes cleanly", func(t *testing.T) {
		t.Parallel()

		s, err := prefetch.New(routes.NewRegistry(), loaded.NewMemory(),
			prefetch.WithRewarmSchedule("@hourly"))
		require.NoError(t, err)
		require.NoError(t, s.Close())
		require.NoError(t, s.Close(), "close must be idempotent")
	})
}

func TestScheduler_Prefetch(t *testing.T) {
	t.Parallel()

	t.Run("loads a route exactly once", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, "/catalog")
		s := f.scheduler(t)
		ctx := context.Background()

		s.Prefetch(ctx, "/catalog")
		s.Prefetch(ctx, "/catalog")

		require.EqualValues(t, 1, f.calls("/catalog"))

		has, err := f.set.Has(ctx, "/catalog")
		require.NoError(t, err)
		require.True(t, has)
	})

	t.Run("unknown route warns and leaves the set untouched", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, "/catalog")

		var buf bytes.Buffer
		log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		s := f.scheduler(t, prefetch.WithLogger(log))

		s.Prefetch(context.Background(), "/nowhere")

		require.Contains(t, buf.String(), "no loader registered for route")
		paths, err := f.set.Paths(context.Background())
		require.NoError(t, err)
		require.Empty(t, paths)
	})

	t.Run("failed load stays retryable", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.registerFailing(t, "/checkout")
		s := f.scheduler(t)
		ctx := context.Background()

		s.Prefetch(ctx, "/checkout")
		s.Prefetch(ctx, "/checkout")

		require.EqualValues(t, 2, f.calls("/checkout"), "failures must not be remembered")

		has, err := f.set.Has(ctx, "/checkout")
		require.NoError(t, err)
		require.False(t, has)
	})
}

func TestScheduler_Evaluate(t *testing.T) {
	t.Parallel()

	t.Run("no-op until auth is initialized", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, allTestRoutes()...)
		s := f.scheduler(t, prefetch.WithPlan(testPlan()))

		s.Evaluate(context.Background(), prefetch.Snapshot{Authenticated: true})

		for path := range f.counts {
			require.Zero(t, f.calls(path), "route %s must not load before init", path)
		}
	})

	t.Run("guest gets the sign-in pages immediately", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, allTestRoutes()...)
		s := f.scheduler(t, prefetch.WithPlan(testPlan()))

		s.Evaluate(context.Background(), prefetch.Snapshot{Initialized: true})

		require.EqualValues(t, 1, f.calls("/login"))
		require.EqualValues(t, 1, f.calls("/register"))
		require.Zero(t, f.calls("/cart"))

		require.Eventually(t, func() bool {
			return f.calls("/catalog") == 1
		}, time.Second, 5*time.Millisecond, "delayed guest wave should fire")
	})

	t.Run("authenticated user gets the shopping pages", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, allTestRoutes()...)
		s := f.scheduler(t, prefetch.WithPlan(testPlan()))

		s.Evaluate(context.Background(), prefetch.Snapshot{
			Initialized:   true,
			Authenticated: true,
		})

		require.EqualValues(t, 1, f.calls("/catalog"))
		require.EqualValues(t, 1, f.calls("/cart"))
		require.Zero(t, f.calls("/login"))

		require.Eventually(t, func() bool {
			return f.calls("/profile") == 1
		}, time.Second, 5*time.Millisecond)

		// Not staff: the admin wave never fires.
		time.Sleep(60 * time.Millisecond)
		require.Zero(t, f.calls("/admin"))
	})

	t.Run("staff gets the admin wave after its delay", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, allTestRoutes()...)
		s := f.scheduler(t, prefetch.WithPlan(testPlan()))

		s.Evaluate(context.Background(), prefetch.Snapshot{
			Initialized:   true,
			Authenticated: true,
			Roles:         []string{"marketer"},
		})

		require.Eventually(t, func() bool {
			return f.calls("/admin") == 1 && f.calls("/admin/users") == 1
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("network gate blocks everything", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, allTestRoutes()...)
		s := f.scheduler(t,
			prefetch.WithPlan(testPlan()),
			prefetch.WithNetworkInfo(netinfo.Static{C: netinfo.Conditions{SaveData: true}}),
		)

		s.Evaluate(context.Background(), prefetch.Snapshot{
			Initialized:   true,
			Authenticated: true,
			Roles:         []string{"admin"},
		})

		time.Sleep(60 * time.Millisecond)
		for path := range f.counts {
			require.Zero(t, f.calls(path), "route %s must not load under data saver", path)
		}
	})

	t.Run("2g connection blocks everything", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, allTestRoutes()...)
		s := f.scheduler(t,
			prefetch.WithPlan(testPlan()),
			prefetch.WithNetworkInfo(netinfo.Static{C: netinfo.Conditions{EffectiveType: netinfo.EffectiveType2G}}),
		)

		s.Evaluate(context.Background(), prefetch.Snapshot{Initialized: true})

		time.Sleep(40 * time.Millisecond)
		require.Zero(t, f.calls("/login"))
	})

	t.Run("failing network provider defaults to allowed", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, allTestRoutes()...)
		s := f.scheduler(t,
			prefetch.WithPlan(testPlan()),
			prefetch.WithNetworkInfo(netinfo.ProviderFunc(func(context.Context) (netinfo.Conditions, error) {
				return netinfo.Conditions{}, errors.New("no signal")
			})),
		)

		s.Evaluate(context.Background(), prefetch.Snapshot{Initialized: true})
		require.EqualValues(t, 1, f.calls("/login"))
	})

	t.Run("dedup across overlapping waves", func(t *testing.T) {
		t.Parallel()

		// /catalog appears in both the guest delayed wave and the
		// authenticated immediate wave.
		f := newFixture(t, allTestRoutes()...)
		s := f.scheduler(t, prefetch.WithPlan(testPlan()))
		ctx := context.Background()

		s.Evaluate(ctx, prefetch.Snapshot{Initialized: true})
		s.Evaluate(ctx, prefetch.Snapshot{Initialized: true, Authenticated: true})

		require.Eventually(t, func() bool {
			return f.calls("/catalog") >= 1
		}, time.Second, 5*time.Millisecond)

		time.Sleep(60 * time.Millisecond)
		require.EqualValues(t, 1, f.calls("/catalog"), "overlapping waves must load a route once")
	})
}

func TestScheduler_LoginTransition(t *testing.T) {
	t.Parallel()

	t.Run("sign-in burst fires for staff without visiting admin", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, allTestRoutes()...)
		s := f.scheduler(t, prefetch.WithPlan(testPlan()))
		ctx := context.Background()

		s.Evaluate(ctx, prefetch.Snapshot{Initialized: true, Path: "/"})
		s.Evaluate(ctx, prefetch.Snapshot{
			Initialized:   true,
			Authenticated: true,
			Roles:         []string{"consultant"},
			Path:          "/",
		})

		require.EqualValues(t, 1, f.calls("/wishlist"), "burst wave fires immediately")

		require.Eventually(t, func() bool {
			return f.calls("/admin/orders") == 1
		}, time.Second, 5*time.Millisecond, "staff burst wave fires after its stage delay")
	})

	t.Run("no burst on the first evaluation", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, allTestRoutes()...)
		s := f.scheduler(t, prefetch.WithPlan(testPlan()))

		// Previous auth state is unset, not false.
		s.Evaluate(context.Background(), prefetch.Snapshot{
			Initialized:   true,
			Authenticated: true,
		})

		require.Zero(t, f.calls("/wishlist"), "burst requires a false→true transition")
	})

	t.Run("no burst while staying signed in", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, allTestRoutes()...)
		s := f.scheduler(t, prefetch.WithPlan(testPlan()))
		ctx := context.Background()

		s.Evaluate(ctx, prefetch.Snapshot{Initialized: true, Authenticated: true})
		s.Evaluate(ctx, prefetch.Snapshot{Initialized: true, Authenticated: true})

		require.Zero(t, f.calls("/wishlist"))
	})
}

func TestScheduler_AdminBurst(t *testing.T) {
	t.Parallel()

	// quietPlan keeps the regular staff wave far away so only the
	// admin-page burst can load admin routes during the test.
	quietPlan := func() plan.Plan {
		p := testPlan()
		p.Staff = []plan.Wave{{Routes: p.AdminRoutes, Delay: plan.Duration(time.Hour)}}
		return p
	}

	t.Run("staff on an admin page warms the whole section", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, allTestRoutes()...)
		s := f.scheduler(t, prefetch.WithPlan(quietPlan()))

		s.Evaluate(context.Background(), prefetch.Snapshot{
			Initialized:   true,
			Authenticated: true,
			Roles:         []string{"admin"},
			Path:          "/admin/orders",
		})

		require.EqualValues(t, 1, f.calls("/admin"))
		require.EqualValues(t, 1, f.calls("/admin/users"))
		require.EqualValues(t, 1, f.calls("/admin/orders"))
	})

	t.Run("skipped when the admin section is already warm", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, allTestRoutes()...)
		s := f.scheduler(t, prefetch.WithPlan(quietPlan()))
		ctx := context.Background()

		require.NoError(t, f.set.Add(ctx, "/admin"))

		s.Evaluate(ctx, prefetch.Snapshot{
			Initialized:   true,
			Authenticated: true,
			Roles:         []string{"admin"},
			Path:          "/admin/orders",
		})

		require.Zero(t, f.calls("/admin/users"))
	})

	t.Run("non-staff on an admin path does not warm the section", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, allTestRoutes()...)
		s := f.scheduler(t, prefetch.WithPlan(quietPlan()))

		s.Evaluate(context.Background(), prefetch.Snapshot{
			Initialized:   true,
			Authenticated: true,
			Roles:         []string{"customer"},
			Path:          "/admin/orders",
		})

		require.Zero(t, f.calls("/admin"))
	})
}

func TestScheduler_NoCancellation(t *testing.T) {
	t.Parallel()

	// A delayed wave queued while signed in still fires after sign-out.
	f := newFixture(t, allTestRoutes()...)
	s := f.scheduler(t, prefetch.WithPlan(testPlan()))
	ctx := context.Background()

	s.Evaluate(ctx, prefetch.Snapshot{Initialized: true, Authenticated: true})
	s.Evaluate(ctx, prefetch.Snapshot{Initialized: true, Authenticated: false})

	require.Eventually(t, func() bool {
		return f.calls("/profile") == 1
	}, time.Second, 5*time.Millisecond, "queued wave runs even after its trigger went stale")
}

func TestScheduler_Rewarm(t *testing.T) {
	t.Parallel()

	t.Run("replay retries failed routes and skips loaded ones", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, "/login")
		f.registerFailing(t, "/flaky")

		p := testPlan()
		p.Guest = []plan.Wave{{Routes: []string{"/login", "/flaky"}}}

		s := f.scheduler(t,
			prefetch.WithPlan(p),
			prefetch.WithRewarmSchedule("@every 50ms"),
		)

		s.Evaluate(context.Background(), prefetch.Snapshot{Initialized: true})

		require.EqualValues(t, 1, f.calls("/login"))
		require.EqualValues(t, 1, f.calls("/flaky"))

		require.Eventually(t, func() bool {
			return f.calls("/flaky") >= 2
		}, 2*time.Second, 10*time.Millisecond, "re-warm tick should retry the unloaded route")

		require.EqualValues(t, 1, f.calls("/login"), "loaded routes stay loaded across re-warm ticks")
	})

	t.Run("no tick before the first evaluation", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, "/login")
		f.scheduler(t,
			prefetch.WithPlan(testPlan()),
			prefetch.WithRewarmSchedule("@every 20ms"),
		)

		time.Sleep(80 * time.Millisecond)
		require.Zero(t, f.calls("/login"), "nothing to replay without a snapshot")
	})
}

func TestScheduler_Watch(t *testing.T) {
	t.Parallel()

	f := newFixture(t, allTestRoutes()...)
	s := f.scheduler(t, prefetch.WithPlan(testPlan()))

	auth := authstate.NewStore()
	loc := location.NewSource("/")

	stop := s.Watch(context.Background(), auth, loc)
	defer stop()

	// Nothing before the auth backend resolves.
	require.Zero(t, f.calls("/login"))

	auth.SetInitialized(true)
	require.EqualValues(t, 1, f.calls("/login"), "guest wave fires once auth is initialized")

	auth.SignIn(authstate.User{ID: "u1", Roles: []string{"admin"}})
	require.EqualValues(t, 1, f.calls("/cart"), "authenticated wave fires on sign-in")
	require.EqualValues(t, 1, f.calls("/wishlist"), "sign-in burst fires on the transition")

	loc.Set("/admin/users")
	require.EqualValues(t, 1, f.calls("/admin"), "admin burst fires on navigation")

	stop()
	loc.Set("/catalog")
	// No panic and no further scheduling paths to assert beyond dedup;
	// the unsubscribe itself is what is under test here.
}
