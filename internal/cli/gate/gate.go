// Package gate enforces that a protected surface is only reachable by
// sessions meeting its role requirement.
package gate

import (
	"github.com/carthatamaz/cartha/internal/cli/session"
)

// State is the gate's authorization state. It starts Pending and moves
// exactly once to Authorized or Unauthorized.
type State int

const (
	StatePending State = iota
	StateAuthorized
	StateUnauthorized
)

func (s State) String() string {
	switch s {
	case StateAuthorized:
		return "authorized"
	case StateUnauthorized:
		return "unauthorized"
	default:
		return "pending"
	}
}

// Navigator receives the route an unauthorized session is redirected to
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to the Navigator interface
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Gate guards one protected surface. AllowedRoles empty means any
// authenticated session qualifies. RedirectTo is where unauthenticated
// sessions go; it defaults to the login surface.
type Gate struct {
	AllowedRoles []session.Role
	RedirectTo   string

	nav   Navigator
	state State
}

// New creates a gate for a protected surface
func New(nav Navigator, allowedRoles []session.Role, redirectTo string) *Gate {
	if redirectTo == "" {
		redirectTo = session.RouteLogin
	}
	return &Gate{
		AllowedRoles: allowedRoles,
		RedirectTo:   redirectTo,
		nav:          nav,
		state:        StatePending,
	}
}

// State returns the gate's current authorization state
func (g *Gate) State() State {
	return g.state
}

// Authorize resolves the gate against the session and issues the
// redirect navigation when the session does not qualify. Malformed or
// half-present persisted sessions (token without user) count as logged
// out, not as a distinct error.
func (g *Gate) Authorize(sess *session.Session) State {
	g.state = StatePending

	// No token or no user: logged out, go to the redirect target
	if !sess.Valid() {
		g.state = StateUnauthorized
		g.nav.Navigate(g.RedirectTo)
		return g.state
	}

	// Role restriction: a logged-in but ineligible session is sent to
	// its own landing surface, never to an arbitrary page
	if len(g.AllowedRoles) > 0 && !g.roleAllowed(sess.Role()) {
		g.state = StateUnauthorized
		g.nav.Navigate(misrouteTarget(sess.Role()))
		return g.state
	}

	g.state = StateAuthorized
	return g.state
}

// Run authorizes the session and executes the protected action only when
// authorized. An unauthorized gate renders nothing; the navigation
// already happened.
func (g *Gate) Run(sess *session.Session, protected func() error) error {
	if g.Authorize(sess) != StateAuthorized {
		return nil
	}
	return protected()
}

func (g *Gate) roleAllowed(role session.Role) bool {
	for _, allowed := range g.AllowedRoles {
		if role == allowed {
			return true
		}
	}
	return false
}

// misrouteTarget is where a session with the wrong role lands: its own
// area. Sessions with a role outside the enumeration go to login.
func misrouteTarget(role session.Role) string {
	if !role.Known() {
		return session.RouteLogin
	}
	return session.LandingRoute(role)
}
