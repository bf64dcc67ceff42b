// Package plan defines prefetch wave plans: which routes to warm, in
// which order, with which delays, for guests, signed-in users, and
// staff.
//
// [Default] ships the storefront plan. Deployments can override it
// with a YAML document:
//
//	guest:
//	  - routes: ["/login", "/register"]
//	  - routes: ["/catalog"]
//	    delay: 2s
//	staff_roles: ["admin", "support"]
//
// Fields omitted from the document keep their default values.
package plan
