package commands

import (
	"fmt"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/carthatamaz/cartha/internal/cli/client"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var req client.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a marketplace account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(req)
		},
	}

	cmd.Flags().StringVar(&req.FullName, "name", "", "Full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().StringVar(&req.Role, "role", "", "Account type: GUEST or OWNER (will prompt if not provided)")
	cmd.Flags().StringVar(&req.PhoneNumber, "phone", "", "Phone number (optional)")
	cmd.Flags().StringVar(&req.Birthday, "birthday", "", "Birthday YYYY-MM-DD (optional)")

	return cmd
}

func runRegister(req client.RegisterRequest) error {
	if req.FullName == "" {
		return fmt.Errorf("full name is required (use --name)")
	}
	if req.Email == "" {
		return fmt.Errorf("email is required (use --email)")
	}

	if req.Role == "" {
		role, err := promptRole()
		if err != nil {
			return err
		}
		req.Role = role
	}
	if req.Role != "GUEST" && req.Role != "OWNER" {
		return fmt.Errorf("role must be GUEST or OWNER, got %q", req.Role)
	}

	if req.Password == "" {
		if !term.IsTerminal(int(syscall.Stdin)) {
			return fmt.Errorf("password is required in non-interactive mode (use --password)")
		}
		fmt.Print("Password: ")
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()
		req.Password = string(bytePassword)
	}

	e, err := newEnv()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	if _, err := e.store.Register(ctx, req); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	sess := e.store.Current()
	fmt.Println("✓ Account created, you are signed in.")
	if sess.User != nil {
		fmt.Printf("  User: %s (%s)\n", sess.User.FullName, sess.User.Email)
		fmt.Printf("  Role: %s\n", sess.User.Role)
	}

	return nil
}

func promptRole() (string, error) {
	type roleOption struct {
		Label string
		Value string
	}

	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("role is required in non-interactive mode (use --role)")
	}

	options := []roleOption{
		{Label: "Guest, book guesthouses", Value: "GUEST"},
		{Label: "Owner, host your guesthouses", Value: "OWNER"},
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
		Selected: "{{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:     "Account type",
		Items:     options,
		Templates: templates,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("role selection cancelled: %w", err)
	}

	return options[index].Value, nil
}
