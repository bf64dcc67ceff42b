// Package logger provides slog logger constructors.
//
// [New] builds a JSON logger for production output, [NewNope] a
// discard logger used as the library default, and [NewWithSentry] a
// fan-out logger that also forwards warnings and errors to Sentry.
package logger
