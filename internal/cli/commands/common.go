package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/carthatamaz/cartha/internal/cli/client"
	"github.com/carthatamaz/cartha/internal/cli/gate"
	"github.com/carthatamaz/cartha/internal/cli/session"
	"github.com/carthatamaz/cartha/internal/cli/userconfig"
	"github.com/carthatamaz/cartha/internal/logger"
)

// commandTimeout bounds a whole command invocation, hydrate included
const commandTimeout = 30 * time.Second

// env bundles the wired client and session store for one command run
type env struct {
	apiURL string
	api    *client.Client
	store  *session.Store
}

// newEnv wires the API client, keyring token store, file user cache and
// session store for the configured server
func newEnv() (*env, error) {
	apiURL := userconfig.ResolveAPIURL()

	u, err := url.Parse(apiURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q, fix it with 'cartha config set-url'", apiURL)
	}

	api := client.New(apiURL)
	tokens := session.NewKeyringTokenStore(u.Host)
	store := session.NewStore(api, tokens, userconfig.NewCache(), logger.GetLogger())

	return &env{apiURL: apiURL, api: api, store: store}, nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

// terminalNavigator translates a redirect route into guidance a terminal
// user can act on. The web app would navigate; the CLI explains.
type terminalNavigator struct{}

func (terminalNavigator) Navigate(route string) {
	switch route {
	case session.RouteLogin:
		fmt.Println("Not signed in. Run 'cartha login' first.")
	case session.RouteAdminDashboard:
		fmt.Println("This area is not available to your account. Your area is the admin dashboard (/admin/dashboard).")
	case session.RouteHostArea:
		fmt.Println("This area is not available to your account. Your area is the host area (/host).")
	case session.RouteGuestArea:
		fmt.Println("This area is not available to your account. Your area is the guest area (/guest).")
	default:
		fmt.Printf("Redirected to %s\n", route)
	}
}

// runProtected hydrates the session and runs fn behind a gate restricted
// to the given roles (none = any authenticated user)
func runProtected(roles []session.Role, fn func(ctx context.Context, e *env, sess session.Session) error) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := e.store.Hydrate(ctx); err != nil {
		return err
	}

	sess := e.store.Current()
	g := gate.New(terminalNavigator{}, roles, "")
	return g.Run(&sess, func() error {
		return fn(ctx, e, sess)
	})
}
