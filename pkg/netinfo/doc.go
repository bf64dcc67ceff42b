// Package netinfo describes network conditions for prefetch gating.
//
// [Conditions.Allowed] encodes the single rule the scheduler cares
// about: no speculative fetching when the user asked to save data or
// the connection is 2g-class. A missing or failing [Provider] is
// treated as "no restriction" — the absence of a signal never blocks
// prefetching.
package netinfo
