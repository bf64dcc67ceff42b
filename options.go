package prefetch

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/prefetch/pkg/idle"
	"github.com/dmitrymomot/prefetch/pkg/logger"
	"github.com/dmitrymomot/prefetch/pkg/netinfo"
	"github.com/dmitrymomot/prefetch/pkg/plan"
)

// Option configures the scheduler.
type Option func(*config)

type config struct {
	log         *slog.Logger
	idler       idle.Scheduler
	net         netinfo.Provider
	plan        plan.Plan
	idleTimeout time.Duration
	rewarm      string
}

func newConfig() *config {
	return &config{
		log:         logger.NewNope(),
		idler:       idle.Deferred{},
		plan:        plan.Default(),
		idleTimeout: idle.DefaultTimeout,
	}
}

// WithLogger sets the logger.
// Default: a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// WithIdleScheduler sets the idle-priority scheduler used to defer
// prefetch work.
// Default: [idle.Deferred].
func WithIdleScheduler(s idle.Scheduler) Option {
	return func(c *config) {
		if s != nil {
			c.idler = s
		}
	}
}

// WithNetworkInfo sets the network conditions provider that gates
// prefetching. Without a provider all conditions are treated as
// permissive.
func WithNetworkInfo(p netinfo.Provider) Option {
	return func(c *config) {
		c.net = p
	}
}

// WithPlan replaces the default wave plan.
func WithPlan(p plan.Plan) Option {
	return func(c *config) {
		c.plan = p
	}
}

// WithIdleTimeout sets the ceiling after which an idle-deferred
// callback runs even if the host never reports idleness.
// Default: [idle.DefaultTimeout].
func WithIdleTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.idleTimeout = d
		}
	}
}

// WithRewarmSchedule enables periodic re-evaluation of the last seen
// snapshot on a standard cron expression (e.g. "0 * * * *").
// Useful for long-lived gateways whose downstream caches expire.
func WithRewarmSchedule(spec string) Option {
	return func(c *config) {
		c.rewarm = spec
	}
}
