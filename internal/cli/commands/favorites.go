package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carthatamaz/cartha/internal/cli/session"
)

// NewFavoritesCmd creates the favorites command group
func NewFavoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage your favorite guesthouses",
	}

	cmd.AddCommand(newFavoritesListCmd())
	cmd.AddCommand(newFavoritesAddCmd())
	cmd.AddCommand(newFavoritesRemoveCmd())
	cmd.AddCommand(newFavoritesCheckCmd())

	return cmd
}

func newFavoritesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List your favorites",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected(nil, func(ctx context.Context, e *env, sess session.Session) error {
				guesthouses, err := e.api.Favorites(ctx)
				if err != nil {
					return fmt.Errorf("failed to list favorites: %w", err)
				}
				printGuesthouseTable(guesthouses)
				return nil
			})
		},
	}
}

func newFavoritesAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <guesthouse-id>",
		Short: "Add a guesthouse to your favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected(nil, func(ctx context.Context, e *env, sess session.Session) error {
				if err := e.api.AddFavorite(ctx, args[0]); err != nil {
					return fmt.Errorf("failed to add favorite: %w", err)
				}
				fmt.Println("✓ Added to favorites.")
				return nil
			})
		},
	}
}

func newFavoritesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <guesthouse-id>",
		Short: "Remove a guesthouse from your favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected(nil, func(ctx context.Context, e *env, sess session.Session) error {
				if err := e.api.RemoveFavorite(ctx, args[0]); err != nil {
					return fmt.Errorf("failed to remove favorite: %w", err)
				}
				fmt.Println("✓ Removed from favorites.")
				return nil
			})
		},
	}
}

func newFavoritesCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <guesthouse-id>",
		Short: "Check whether a guesthouse is favorited",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtected(nil, func(ctx context.Context, e *env, sess session.Session) error {
				isFavorite, err := e.api.IsFavorite(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to check favorite: %w", err)
				}
				if isFavorite {
					fmt.Println("Favorited.")
				} else {
					fmt.Println("Not favorited.")
				}
				return nil
			})
		},
	}
}
