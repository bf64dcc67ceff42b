// Package idle provides idle-priority deferral for prefetch work.
//
// A [Scheduler] runs a callback when the host has spare capacity or
// when a timeout ceiling elapses, whichever comes first. [Gate] wires
// that to a caller-supplied idleness signal; [Deferred] is the minimal
// fallback when no signal exists; [Immediate] is for deterministic
// tests.
//
// Scheduled callbacks are fire-and-forget: there is no cancellation.
// A callback whose triggering condition went stale still runs — the
// loaded-set dedup makes that harmless.
package idle
