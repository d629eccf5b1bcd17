package session

import (
	"strings"

	"github.com/reelsmith/dashboard-go/pkg/config"
)

// Gate decides whether a navigation may proceed before anything renders. It
// only looks at whether a token is present; full verification happens when
// the page's own queries hit the backend.
type Gate struct {
	cfg config.GuardConfig
}

func NewGate(cfg config.GuardConfig) *Gate {
	return &Gate{cfg: cfg}
}

// Check returns the redirect target for a navigation, or ok=false when the
// navigation may proceed. Unauthenticated visits to protected paths go to
// the login page; authenticated visits to the login page go home.
func (g *Gate) Check(path string, hasToken bool) (target string, redirect bool) {
	if g.Protected(path) && !hasToken {
		return g.cfg.LoginPath, true
	}
	if path == g.cfg.LoginPath && hasToken {
		return g.cfg.HomePath, true
	}
	return "", false
}

// Decision is the post-hydration verdict for rendering a protected page.
type Decision int

const (
	// DecisionWait means hydration has not resolved; render a neutral
	// loading state, never protected content.
	DecisionWait Decision = iota
	DecisionRedirect
	DecisionAllow
)

// Decide resolves a protected-page render against the session state machine.
// Unprotected paths are always allowed.
func (g *Gate) Decide(state State, path string) Decision {
	if !g.Protected(path) {
		return DecisionAllow
	}
	switch state {
	case StateAuthenticated:
		return DecisionAllow
	case StateUnauthenticated:
		return DecisionRedirect
	default:
		return DecisionWait
	}
}

// Protected reports whether path falls under a guarded prefix. Matching is
// per path segment: "/overview" covers "/overview/recent" but not
// "/overviewer".
func (g *Gate) Protected(path string) bool {
	for _, prefix := range g.cfg.ProtectedPrefixes {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
