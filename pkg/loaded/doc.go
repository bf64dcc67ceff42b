// Package loaded tracks which route bundles have already been fetched.
//
// The [Set] interface is insertion-only bookkeeping: once a route loads
// successfully it stays marked for the lifetime of the session, and the
// scheduler skips it from then on. Failed loads are never recorded, so
// a later trigger can retry them.
//
// Two implementations are provided:
//
//   - [Memory] — a mutex-guarded map for single-process use and tests.
//   - [Redis] — a Redis SET, so a fleet of gateway replicas shares one
//     view of what is already warm.
//
// Both are safe for concurrent use.
package loaded
