package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carthatamaz/cartha/internal/cli/client"
	"github.com/carthatamaz/cartha/internal/cli/session"
)

// NewProfileCmd creates the profile command group
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and edit your profile",
	}

	cmd.AddCommand(newProfileShowCmd())
	cmd.AddCommand(newProfileSetCmd())

	return cmd
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected(nil, func(ctx context.Context, e *env, sess session.Session) error {
				u := sess.User
				fmt.Printf("Name:    %s\n", u.FullName)
				fmt.Printf("Email:   %s\n", u.Email)
				fmt.Printf("Role:    %s\n", u.Role)
				if u.PhoneNumber != "" {
					fmt.Printf("Phone:   %s\n", u.PhoneNumber)
				}
				if u.Birthday != "" {
					fmt.Printf("Birthday: %s\n", u.Birthday)
				}
				return nil
			})
		},
	}
}

func newProfileSetCmd() *cobra.Command {
	var partial client.User

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			if partial.FullName == "" && partial.PhoneNumber == "" && partial.Birthday == "" && partial.PictureURL == "" {
				return fmt.Errorf("nothing to update, pass at least one of --name, --phone, --birthday, --picture")
			}

			return runProtected(nil, func(ctx context.Context, e *env, sess session.Session) error {
				updated, err := e.api.UpdateProfile(ctx, partial)
				if err != nil {
					return fmt.Errorf("profile update failed: %w", err)
				}

				// Keep the local session's identity in step with the server
				e.store.UpdateUser(partial)

				fmt.Printf("✓ Profile updated: %s (%s)\n", updated.FullName, updated.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&partial.FullName, "name", "", "Full name")
	cmd.Flags().StringVar(&partial.PhoneNumber, "phone", "", "Phone number")
	cmd.Flags().StringVar(&partial.Birthday, "birthday", "", "Birthday YYYY-MM-DD")
	cmd.Flags().StringVar(&partial.PictureURL, "picture", "", "Profile picture URL")

	return cmd
}
