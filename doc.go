// Package prefetch schedules opportunistic loading of route bundles
// for a single-page application, based on who is signed in, where they
// are, and how good their connection is.
//
// The [Scheduler] reacts to authentication and navigation changes and
// queues prefetch waves: guests get the sign-in pages first, signed-in
// shoppers get the shopping pages, staff get the admin section. A
// sign-in transition triggers an extra burst, and landing on an admin
// page warms the whole admin section at once. Every request is
// deferred to an idle point, deduplicated against a shared loaded set,
// and dropped entirely when the network reports data-saver mode or a
// 2g-class connection.
//
// # Usage
//
//	reg := routes.NewRegistry()
//	reg.MustRegister("/catalog", loaders.HTTP(nil, cdn+"/catalog.js"))
//	// ... remaining routes
//
//	sched, err := prefetch.New(reg, loaded.NewMemory(),
//	    prefetch.WithLogger(logger.New()),
//	    prefetch.WithNetworkInfo(netinfo.Static{}),
//	)
//	if err != nil {
//	    // handle configuration error
//	}
//	defer sched.Close()
//
//	stop := sched.Watch(ctx, authStore, locSource)
//	defer stop()
//
// Failed loads are logged and never recorded, so the next trigger
// retries them. Scheduled waves are never cancelled; a wave firing
// after its trigger went stale just loads bundles that are never
// rendered, which is an accepted inefficiency.
//
// The wave contents, delays, staff roles, and admin prefix all come
// from a [plan.Plan] and can be overridden per deployment, including
// from a YAML file.
package prefetch
