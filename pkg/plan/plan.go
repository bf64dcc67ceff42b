package plan

import "time"

// Wave is a batch of routes scheduled together after a shared delay.
type Wave struct {
	Routes []string `yaml:"routes"`
	Delay  Duration `yaml:"delay"`
}

// Plan describes which routes to prefetch, in which waves, for each
// authentication situation.
type Plan struct {
	// Guest waves run when no user is signed in.
	Guest []Wave `yaml:"guest"`

	// Authenticated waves run when a user is signed in.
	Authenticated []Wave `yaml:"authenticated"`

	// Staff waves run in addition to Authenticated when the user holds
	// a staff role.
	Staff []Wave `yaml:"staff"`

	// LoginBurst waves run once on a sign-in transition.
	LoginBurst []Wave `yaml:"login_burst"`

	// LoginBurstStaff waves run on a sign-in transition when the user
	// holds a staff role, in addition to LoginBurst.
	LoginBurstStaff []Wave `yaml:"login_burst_staff"`

	// AdminRoutes are requested together when a staff user lands on an
	// admin page before the admin section is warm.
	AdminRoutes []string `yaml:"admin_routes"`

	// StaffRoles is the role set that marks a user as staff.
	StaffRoles []string `yaml:"staff_roles"`

	// AdminPrefix is the path prefix identifying the admin section.
	AdminPrefix string `yaml:"admin_prefix"`

	// ReturnRoutes are the destinations the return-url prefetcher will
	// honor. AdminPrefix additionally matches one extra path segment.
	ReturnRoutes []string `yaml:"return_routes"`
}

// Default returns the plan for a storefront SPA: public pages for
// guests, shopping pages for signed-in users, the admin section for
// staff.
func Default() Plan {
	return Plan{
		Guest: []Wave{
			{Routes: []string{"/login", "/register"}},
			{Routes: []string{"/catalog", "/products"}, Delay: Duration(time.Second)},
			{Routes: []string{"/privacy-policy"}, Delay: Duration(5 * time.Second)},
		},
		Authenticated: []Wave{
			{Routes: []string{"/catalog", "/cart", "/wishlist", "/products"}},
			{Routes: []string{"/profile", "/checkout"}, Delay: Duration(3 * time.Second)},
			{Routes: []string{"/privacy-policy"}, Delay: Duration(5 * time.Second)},
		},
		Staff: []Wave{
			{Routes: adminRoutes(), Delay: Duration(7 * time.Second)},
		},
		LoginBurst: []Wave{
			{Routes: []string{"/cart", "/wishlist", "/profile"}},
		},
		LoginBurstStaff: []Wave{
			{Routes: adminRoutes(), Delay: Duration(time.Second)},
		},
		AdminRoutes: adminRoutes(),
		StaffRoles:  []string{"admin", "marketer", "consultant"},
		AdminPrefix: "/admin",
		ReturnRoutes: []string{
			"/cart", "/wishlist", "/profile", "/checkout",
		},
	}
}

func adminRoutes() []string {
	return []string{
		"/admin",
		"/admin/products",
		"/admin/categories",
		"/admin/orders",
		"/admin/promocodes",
		"/admin/users",
		"/admin/support",
	}
}
