package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carthatamaz/cartha/internal/cli/userconfig"
)

// NewConfigCmd creates the config command group
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetURLCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := userconfig.GetConfigPath()
			if err != nil {
				return err
			}

			fmt.Printf("Config file: %s\n", path)
			fmt.Printf("API URL:     %s\n", userconfig.ResolveAPIURL())
			return nil
		},
	}
}

func newConfigSetURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-url <url>",
		Short: "Set the API server URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := userconfig.SetAPIURL(args[0]); err != nil {
				return err
			}
			fmt.Printf("✓ API URL set to %s\n", args[0])
			return nil
		},
	}
}
