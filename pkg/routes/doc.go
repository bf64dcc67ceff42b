// Package routes provides the route table: a mapping from route paths
// to the loaders that fetch their bundles.
//
// A [Loader] is a deferred fetch for a single route's bundle. The
// scheduler never calls loaders directly at registration time; it
// invokes them later, when a prefetch wave decides the route is worth
// warming.
//
// # Usage
//
//	reg := routes.NewRegistry()
//	reg.MustRegister("/catalog", loaders.HTTP(nil, cdn+"/catalog.js"))
//	reg.MustRegister("/cart", loaders.HTTP(nil, cdn+"/cart.js"))
//
// The registry is safe for concurrent reads. Register all routes during
// setup and treat the registry as immutable afterwards.
package routes
