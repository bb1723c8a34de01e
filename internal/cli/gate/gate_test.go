package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carthatamaz/cartha/internal/cli/client"
	"github.com/carthatamaz/cartha/internal/cli/session"
)

// recordingNavigator captures where the gate sends unauthorized sessions
type recordingNavigator struct {
	routes []string
}

func (r *recordingNavigator) Navigate(route string) {
	r.routes = append(r.routes, route)
}

func guestSession() *session.Session {
	return &session.Session{
		Token: "tok",
		User:  &client.User{ID: "u1", Email: "g@example.com", Role: "GUEST"},
	}
}

func TestGate_AuthorizedSessionRuns(t *testing.T) {
	nav := &recordingNavigator{}
	g := New(nav, []session.Role{session.RoleGuest}, "")

	ran := false
	err := g.Run(guestSession(), func() error {
		ran = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, StateAuthorized, g.State())
	assert.Empty(t, nav.routes)
}

func TestGate_NoRoleRestrictionAllowsAnyAuthenticated(t *testing.T) {
	nav := &recordingNavigator{}
	g := New(nav, nil, "")

	state := g.Authorize(guestSession())
	assert.Equal(t, StateAuthorized, state)
}

func TestGate_LoggedOutRedirectsToLogin(t *testing.T) {
	nav := &recordingNavigator{}
	g := New(nav, []session.Role{session.RoleGuest}, "")

	state := g.Authorize(&session.Session{})

	assert.Equal(t, StateUnauthorized, state)
	assert.Equal(t, []string{session.RouteLogin}, nav.routes)
}

// A persisted token whose user never resolved counts as logged out, not
// as a distinct error state
func TestGate_TokenWithoutUserRedirectsToLogin(t *testing.T) {
	nav := &recordingNavigator{}
	g := New(nav, []session.Role{session.RoleGuest}, "")

	state := g.Authorize(&session.Session{Token: "tok"})

	assert.Equal(t, StateUnauthorized, state)
	assert.Equal(t, []string{session.RouteLogin}, nav.routes)
}

func TestGate_CustomRedirect(t *testing.T) {
	nav := &recordingNavigator{}
	g := New(nav, nil, session.RouteHome)

	g.Authorize(&session.Session{})

	assert.Equal(t, []string{session.RouteHome}, nav.routes)
}

// A logged-in session with the wrong role goes to its own landing
// surface, not to login
func TestGate_MisroutedOwnerGoesToHostArea(t *testing.T) {
	nav := &recordingNavigator{}
	g := New(nav, []session.Role{session.RoleAdmin}, "")

	owner := &session.Session{
		Token: "tok",
		User:  &client.User{ID: "u2", Role: "OWNER"},
	}
	state := g.Authorize(owner)

	assert.Equal(t, StateUnauthorized, state)
	assert.Equal(t, []string{session.RouteHostArea}, nav.routes)
}

func TestGate_MisroutedGuestGoesToGuestArea(t *testing.T) {
	nav := &recordingNavigator{}
	g := New(nav, []session.Role{session.RoleOwner, session.RoleAdmin}, "")

	state := g.Authorize(guestSession())

	assert.Equal(t, StateUnauthorized, state)
	assert.Equal(t, []string{session.RouteGuestArea}, nav.routes)
}

// A role outside the enumeration has no landing surface of its own
func TestGate_UnknownRoleGoesToLogin(t *testing.T) {
	nav := &recordingNavigator{}
	g := New(nav, []session.Role{session.RoleAdmin}, "")

	weird := &session.Session{
		Token: "tok",
		User:  &client.User{ID: "u3", Role: "SUPERUSER"},
	}
	g.Authorize(weird)

	assert.Equal(t, []string{session.RouteLogin}, nav.routes)
}

func TestGate_UnauthorizedNeverRunsProtected(t *testing.T) {
	nav := &recordingNavigator{}
	g := New(nav, []session.Role{session.RoleAdmin}, "")

	ran := false
	err := g.Run(guestSession(), func() error {
		ran = true
		return nil
	})

	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, StateUnauthorized, g.State())
}

func TestGate_StateStartsPending(t *testing.T) {
	g := New(&recordingNavigator{}, nil, "")
	assert.Equal(t, StatePending, g.State())
	assert.Equal(t, "pending", g.State().String())
}
