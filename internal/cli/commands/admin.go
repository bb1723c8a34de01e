package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/carthatamaz/cartha/internal/cli/client"
	"github.com/carthatamaz/cartha/internal/cli/session"
)

// NewAdminCmd creates the admin command group
func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administration dashboard",
	}

	cmd.AddCommand(newAdminStatsCmd())
	cmd.AddCommand(newAdminUsersCmd())
	cmd.AddCommand(newAdminUpdateUserCmd())
	cmd.AddCommand(newAdminDeleteUserCmd())

	return cmd
}

func newAdminStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show marketplace totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected([]session.Role{session.RoleAdmin}, func(ctx context.Context, e *env, sess session.Session) error {
				stats, err := e.api.Stats(ctx)
				if err != nil {
					return fmt.Errorf("failed to fetch stats: %w", err)
				}

				fmt.Printf("Users:        %d\n", stats.TotalUsers)
				fmt.Printf("Guesthouses:  %d\n", stats.TotalGuesthouses)
				fmt.Printf("Reservations: %d\n", stats.TotalReservations)
				fmt.Printf("Revenue:      %.2f\n", stats.TotalRevenue)
				return nil
			})
		},
	}
}

func newAdminUpdateUserCmd() *cobra.Command {
	var req client.UpdateUserRequest

	cmd := &cobra.Command{
		Use:   "update-user <id>",
		Short: "Edit an account's name, role or status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.FullName == "" && req.Role == "" && req.Status == "" {
				return fmt.Errorf("nothing to update, pass at least one of --name, --role, --status")
			}

			return runProtected([]session.Role{session.RoleAdmin}, func(ctx context.Context, e *env, sess session.Session) error {
				user, err := e.api.UpdateUser(ctx, args[0], req)
				if err != nil {
					return fmt.Errorf("failed to update user: %w", err)
				}
				fmt.Printf("✓ Updated %s: role=%s status=%s\n", user.Email, user.Role, user.Status)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.FullName, "name", "", "Full name")
	cmd.Flags().StringVar(&req.Role, "role", "", "Role: ADMIN, OWNER or GUEST")
	cmd.Flags().StringVar(&req.Status, "status", "", "Status: active, banned or inactive")

	return cmd
}

func newAdminDeleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm-user <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected([]session.Role{session.RoleAdmin}, func(ctx context.Context, e *env, sess session.Session) error {
				if err := e.api.DeleteUser(ctx, args[0]); err != nil {
					return fmt.Errorf("failed to delete user: %w", err)
				}
				fmt.Println("✓ Deleted.")
				return nil
			})
		},
	}
}

func newAdminUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected([]session.Role{session.RoleAdmin}, func(ctx context.Context, e *env, sess session.Session) error {
				users, err := e.api.Users(ctx)
				if err != nil {
					return fmt.Errorf("failed to list users: %w", err)
				}

				if len(users) == 0 {
					fmt.Println("No users.")
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tSTATUS")
				for _, u := range users {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.FullName, u.Email, u.Role, u.Status)
				}
				w.Flush()
				return nil
			})
		},
	}
}
