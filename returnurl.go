package prefetch

import (
	"context"
	"net/url"
	"strings"
)

// returnParam is the query parameter carrying the post-login
// destination.
const returnParam = "returnUrl"

// PrefetchReturnURL inspects the returnUrl query parameter of the
// given page URL and, when it points at a known destination, issues a
// single idle-deferred prefetch for that destination's route.
//
// The destination is matched by prefix against the plan's return
// routes, and against the admin prefix alone or with exactly one extra
// path segment (so "/admin/users?tab=active" warms "/admin/users").
// The same network gate applies as for regular evaluation. Unmatched
// or absent destinations are ignored.
func (s *Scheduler) PrefetchReturnURL(ctx context.Context, pageURL string) {
	if !s.allowed(ctx) {
		return
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		s.log.Debug("unparseable page url", "url", pageURL, "error", err)
		return
	}

	target := u.Query().Get(returnParam)
	if target == "" {
		return
	}

	route, ok := s.matchReturnRoute(target)
	if !ok {
		return
	}

	s.idler.Schedule(func() {
		s.Prefetch(context.Background(), route)
	}, s.idleTO)
}

// matchReturnRoute resolves a raw returnUrl value to a prefetchable
// route path.
func (s *Scheduler) matchReturnRoute(target string) (string, bool) {
	// Strip any query or fragment suffix from the destination itself.
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		target = target[:i]
	}
	if target == "" {
		return "", false
	}

	for _, route := range s.plan.ReturnRoutes {
		if target == route || strings.HasPrefix(target, route+"/") {
			return route, true
		}
	}

	prefix := s.plan.AdminPrefix
	if prefix != "" {
		if target == prefix {
			return prefix, true
		}
		if rest, ok := strings.CutPrefix(target, prefix+"/"); ok {
			// Exactly one extra segment resolves to an admin subpage.
			if rest != "" && !strings.Contains(rest, "/") {
				return prefix + "/" + rest, true
			}
		}
	}

	return "", false
}
