package commands

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewForgotPasswordCmd creates the forgot-password command
func NewForgotPasswordCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password recovery code",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForgotPassword(email)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address of the account")

	return cmd
}

func runForgotPassword(email string) error {
	if email == "" {
		return fmt.Errorf("email is required (use --email)")
	}

	e, err := newEnv()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := e.api.ForgotPassword(ctx, email); err != nil {
		return fmt.Errorf("recovery request failed: %w", err)
	}

	fmt.Println("If an account exists for that address, a recovery code was sent.")
	fmt.Println("Redeem it with 'cartha reset-password'.")

	return nil
}

// NewResetPasswordCmd creates the reset-password command
func NewResetPasswordCmd() *cobra.Command {
	var email, code, newPassword string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Redeem a recovery code for a new password",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResetPassword(email, code, newPassword)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address of the account")
	cmd.Flags().StringVar(&code, "code", "", "Recovery code from the email")
	cmd.Flags().StringVar(&newPassword, "new-password", "", "New password (will prompt if not provided)")

	return cmd
}

func runResetPassword(email, code, newPassword string) error {
	if email == "" {
		return fmt.Errorf("email is required (use --email)")
	}
	if code == "" {
		return fmt.Errorf("recovery code is required (use --code)")
	}

	if newPassword == "" {
		if !term.IsTerminal(int(syscall.Stdin)) {
			return fmt.Errorf("new password is required in non-interactive mode (use --new-password)")
		}
		fmt.Print("New password: ")
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()
		newPassword = string(bytePassword)
	}

	e, err := newEnv()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := e.api.ResetPassword(ctx, email, code, newPassword); err != nil {
		return fmt.Errorf("password reset failed: %w", err)
	}

	fmt.Println("✓ Password updated. Sign in with 'cartha login'.")

	return nil
}
