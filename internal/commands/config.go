package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/sierrachat/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
		Long: `Show or change the settings stored in ~/.sierrachat/config.json.

Without a subcommand an interactive settings menu opens.

Environment variables prefixed with SIERRACHAT_ (for example
SIERRACHAT_BASE_URL) and a .env file in the working directory override the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			return a.deps.RunConfig(a.cfg, path)
		},
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(a.cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			fmt.Fprintln(a.deps.Stdout, string(data))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.deps.Stdout, path)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Persist a single setting",
		Long: "Persist a single setting to the config file.\n\nKeys:\n  " +
			strings.Join(config.Keys(), "\n  ") +
			"\n\nSuggestions are separated by '|'.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SetValue(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(a.deps.Stdout, "✓ %s = %s\n", strings.ToLower(args[0]), args[1])
			return nil
		},
	})

	return configCmd
}
