package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and destroy the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout()
		},
	}
}

func runLogout() error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	// Hydrate so the server notification carries the token. Failure here
	// never blocks logout; the local session is cleared regardless.
	if err := e.store.Hydrate(ctx); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}

	e.store.Logout(ctx)
	fmt.Println("✓ Signed out.")

	return nil
}
