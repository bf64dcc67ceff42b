package idle

import "time"

// DefaultTimeout is the ceiling applied when Schedule is called with a
// non-positive timeout.
const DefaultTimeout = 2 * time.Second

// Scheduler runs callbacks at idle priority: the callback fires when
// the host signals spare capacity, or when the timeout ceiling elapses,
// whichever comes first.
type Scheduler interface {
	Schedule(fn func(), timeout time.Duration)
}

// Gate schedules callbacks against an idleness signal. Every value
// received on the signal channel releases one pending callback; the
// timeout ceiling releases it regardless.
type Gate struct {
	signal <-chan struct{}
}

// NewGate creates a Gate driven by the given idleness signal.
func NewGate(signal <-chan struct{}) *Gate {
	return &Gate{signal: signal}
}

// Schedule implements Scheduler.
func (g *Gate) Schedule(fn func(), timeout time.Duration) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	go func() {
		t := time.NewTimer(timeout)
		defer t.Stop()

		select {
		case <-g.signal:
		case <-t.C:
		}
		fn()
	}()
}

// Deferred is the minimal fallback scheduler for environments without
// an idleness signal: it hands the callback to the runtime without
// blocking the caller and ignores the timeout ceiling.
type Deferred struct{}

// Schedule implements Scheduler.
func (Deferred) Schedule(fn func(), _ time.Duration) {
	time.AfterFunc(0, fn)
}

// Immediate runs callbacks synchronously on the calling goroutine.
// Intended for tests that need deterministic execution order.
type Immediate struct{}

// Schedule implements Scheduler.
func (Immediate) Schedule(fn func(), _ time.Duration) {
	fn()
}

var (
	_ Scheduler = (*Gate)(nil)
	_ Scheduler = Deferred{}
	_ Scheduler = Immediate{}
)
