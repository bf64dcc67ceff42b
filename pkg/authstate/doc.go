// Package authstate holds the authentication state the scheduler
// reacts to: whether a user is signed in, whether the auth backend has
// resolved the initial session, and the user's role set.
//
// The [Store] is observable: subscribers receive a [Snapshot] on every
// change. The scheduler consumes the state read-only; how sessions are
// established and refreshed is out of scope here.
package authstate
