// Package location tracks the current route path as the user navigates.
//
// The [Source] is a tiny observable string: the scheduler subscribes to
// it to re-evaluate prefetch decisions on navigation, and reads it to
// detect admin-section visits.
package location
