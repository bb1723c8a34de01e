package commands

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/carthatamaz/cartha/internal/cli/session"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the marketplace",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set CARTHA_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set CARTHA_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(email, password string) error {
	// Environment fallbacks, useful for scripting
	if email == "" {
		email = os.Getenv("CARTHA_EMAIL")
	}
	if password == "" {
		password = os.Getenv("CARTHA_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or CARTHA_EMAIL env var)")
	}

	if password == "" {
		if term.IsTerminal(int(syscall.Stdin)) {
			fmt.Print("Password: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(bytePassword)
			fmt.Println()
		} else {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or CARTHA_PASSWORD env var)")
		}
	}

	e, err := newEnv()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	fmt.Printf("Signing in to %s...\n", e.apiURL)

	landing, err := e.store.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	sess := e.store.Current()
	fmt.Println("✓ Signed in!")
	if sess.User != nil {
		name := sess.User.FullName
		if name == "" {
			name = sess.User.Email
		}
		fmt.Printf("  User: %s (%s)\n", name, sess.User.Email)
		fmt.Printf("  Role: %s\n", sess.User.Role)
	}
	fmt.Printf("  Your area: %s\n", landingLabel(landing))

	return nil
}

func landingLabel(route string) string {
	switch route {
	case session.RouteAdminDashboard:
		return "admin dashboard (/admin/dashboard)"
	case session.RouteHostArea:
		return "host area (/host)"
	case session.RouteGuestArea:
		return "guest area (/guest)"
	default:
		return route
	}
}
