package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carthatamaz/cartha/internal/cli/session"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami()
		},
	}
}

func runWhoami() error {
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
	if !sess.Valid() {
		fmt.Println("Not signed in. Run 'cartha login' first.")
		return nil
	}

	u := sess.User
	fmt.Printf("Server:  %s\n", e.apiURL)
	fmt.Printf("User:    %s (%s)\n", u.FullName, u.Email)
	fmt.Printf("Role:    %s\n", u.Role)
	if u.Status != "" {
		fmt.Printf("Status:  %s\n", u.Status)
	}
	fmt.Printf("Area:    %s\n", landingLabel(session.LandingRoute(sess.Role())))

	return nil
}
