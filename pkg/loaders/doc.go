// Package loaders provides ready-made bundle loaders for the route
// registry.
//
// [HTTP] warms a bundle through an HTTP GET — typically against a CDN
// or an edge cache sitting in front of the asset origin. [S3] pulls a
// bundle object straight from S3-compatible storage.
//
// Both return a [routes.Loader]; errors are classified with the
// package sentinels so callers can distinguish transport failures from
// missing bundles.
package loaders
