package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/carthatamaz/cartha/internal/cli/client"
	"github.com/carthatamaz/cartha/internal/cli/session"
)

// NewGuesthousesCmd creates the guesthouses command group
func NewGuesthousesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "guesthouses",
		Aliases: []string{"gh"},
		Short:   "Browse and manage guesthouse listings",
	}

	cmd.AddCommand(newGuesthousesListCmd())
	cmd.AddCommand(newGuesthousesGetCmd())
	cmd.AddCommand(newGuesthousesMineCmd())
	cmd.AddCommand(newGuesthousesCreateCmd())
	cmd.AddCommand(newGuesthousesUpdateCmd())
	cmd.AddCommand(newGuesthousesDeleteCmd())

	return cmd
}

func newGuesthousesListCmd() *cobra.Command {
	var city string

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List active guesthouses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected(nil, func(ctx context.Context, e *env, sess session.Session) error {
				guesthouses, err := e.api.Guesthouses(ctx, city)
				if err != nil {
					return fmt.Errorf("failed to list guesthouses: %w", err)
				}
				printGuesthouseTable(guesthouses)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "Filter by city")

	return cmd
}

func newGuesthousesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one guesthouse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected(nil, func(ctx context.Context, e *env, sess session.Session) error {
				gh, err := e.api.Guesthouse(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to fetch guesthouse: %w", err)
				}

				fmt.Printf("%s\n", gh.Title)
				fmt.Printf("  ID:    %s\n", gh.ID)
				fmt.Printf("  City:  %s\n", gh.City)
				fmt.Printf("  Price: %s per night\n", gh.Price)
				if gh.Description != "" {
					fmt.Printf("  About: %s\n", gh.Description)
				}
				if len(gh.Amenities) > 0 {
					fmt.Printf("  Amenities: %s\n", strings.Join(gh.Amenities, ", "))
				}
				return nil
			})
		},
	}
}

func newGuesthousesMineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your own listings (hosts)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected([]session.Role{session.RoleOwner, session.RoleAdmin}, func(ctx context.Context, e *env, sess session.Session) error {
				guesthouses, err := e.api.OwnerGuesthouses(ctx)
				if err != nil {
					return fmt.Errorf("failed to list your guesthouses: %w", err)
				}
				printGuesthouseTable(guesthouses)
				return nil
			})
		},
	}
}

func newGuesthousesCreateCmd() *cobra.Command {
	var req client.GuesthouseRequest
	var amenities string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a listing (hosts)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Title == "" || req.City == "" || req.Price == "" {
				return fmt.Errorf("--title, --city and --price are required")
			}
			req.Amenities = splitAmenities(amenities)

			return runProtected([]session.Role{session.RoleOwner, session.RoleAdmin}, func(ctx context.Context, e *env, sess session.Session) error {
				gh, err := e.api.CreateGuesthouse(ctx, req)
				if err != nil {
					return fmt.Errorf("failed to create guesthouse: %w", err)
				}
				fmt.Printf("✓ Created %s (%s), pending review.\n", gh.Title, gh.ID)
				return nil
			})
		},
	}

	addGuesthouseFlags(cmd, &req, &amenities)

	return cmd
}

func newGuesthousesUpdateCmd() *cobra.Command {
	var req client.GuesthouseRequest
	var amenities string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a listing (hosts)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Title == "" || req.City == "" || req.Price == "" {
				return fmt.Errorf("--title, --city and --price are required")
			}
			req.Amenities = splitAmenities(amenities)

			return runProtected([]session.Role{session.RoleOwner, session.RoleAdmin}, func(ctx context.Context, e *env, sess session.Session) error {
				gh, err := e.api.UpdateGuesthouse(ctx, args[0], req)
				if err != nil {
					return fmt.Errorf("failed to update guesthouse: %w", err)
				}
				fmt.Printf("✓ Updated %s (%s).\n", gh.Title, gh.ID)
				return nil
			})
		},
	}

	addGuesthouseFlags(cmd, &req, &amenities)

	return cmd
}

func newGuesthousesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a listing (hosts)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected([]session.Role{session.RoleOwner, session.RoleAdmin}, func(ctx context.Context, e *env, sess session.Session) error {
				if err := e.api.DeleteGuesthouse(ctx, args[0]); err != nil {
					return fmt.Errorf("failed to delete guesthouse: %w", err)
				}
				fmt.Println("✓ Deleted.")
				return nil
			})
		},
	}
}

func addGuesthouseFlags(cmd *cobra.Command, req *client.GuesthouseRequest, amenities *string) {
	cmd.Flags().StringVar(&req.Title, "title", "", "Listing title")
	cmd.Flags().StringVar(&req.Description, "description", "", "Listing description")
	cmd.Flags().StringVar(&req.City, "city", "", "City")
	cmd.Flags().StringVar(&req.Price, "price", "", "Price per night")
	cmd.Flags().Float64Var(&req.Latitude, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&req.Longitude, "lon", 0, "Longitude")
	cmd.Flags().StringVar(&req.Thumbnail, "thumbnail", "", "Thumbnail URL")
	cmd.Flags().StringVar(amenities, "amenities", "", "Comma-separated amenities")
}

func splitAmenities(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printGuesthouseTable(guesthouses []client.Guesthouse) {
	if len(guesthouses) == 0 {
		fmt.Println("No guesthouses found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCITY\tPRICE\tSTATUS")
	for _, gh := range guesthouses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", gh.ID, gh.Title, gh.City, gh.Price, gh.Status)
	}
	w.Flush()
}
