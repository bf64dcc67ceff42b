package loaders

import "errors"

// Sentinel errors for bundle loaders.
var (
	// ErrRequestFailed is returned when the fetch could not be issued
	// or transported.
	ErrRequestFailed = errors.New("loaders: request failed")

	// ErrBundleUnavailable is returned when the origin answered but the
	// bundle could not be retrieved.
	ErrBundleUnavailable = errors.New("loaders: bundle unavailable")

	// ErrMissingCredentials is returned when S3 configuration lacks
	// access or secret key.
	ErrMissingCredentials = errors.New("loaders: missing S3 credentials")
)
