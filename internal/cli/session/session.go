// Package session is the single source of truth for "who is logged in".
// The bearer token lives in the OS keyring, the identity record is cached
// in the user config file, and every mutation goes through the Store.
package session

import (
	"github.com/carthatamaz/cartha/internal/cli/client"
)

// Role determines which protected surfaces a session may access and
// where a misrouted session is redirected
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleOwner Role = "OWNER"
	RoleGuest Role = "GUEST"
)

// Web routes of the marketplace surfaces. The CLI reports them when it
// redirects the user somewhere else.
const (
	RouteHome           = "/"
	RouteLogin          = "/login"
	RouteAdminDashboard = "/admin/dashboard"
	RouteHostArea       = "/host"
	RouteGuestArea      = "/guest"
)

// Known reports whether the role is one of the closed enumeration
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleGuest:
		return true
	}
	return false
}

// LandingRoute returns the landing surface for a role after login.
// Unrecognized roles land in the guest area.
func LandingRoute(role Role) string {
	switch role {
	case RoleAdmin:
		return RouteAdminDashboard
	case RoleOwner:
		return RouteHostArea
	case RoleGuest:
		return RouteGuestArea
	default:
		return RouteGuestArea
	}
}

// Session is the client-held record of the current authenticated identity
// and its bearer credential. Token and user are both present or both
// absent; a token without a resolvable user is invalid.
type Session struct {
	Token string
	User  *client.User
}

// Valid reports whether the session carries both a token and a user
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User != nil
}

// Role returns the session's role, or empty when logged out
func (s *Session) Role() Role {
	if s == nil || s.User == nil {
		return ""
	}
	return Role(s.User.Role)
}
