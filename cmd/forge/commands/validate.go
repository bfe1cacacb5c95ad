package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/homeforge/homeforge/pkg/config"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a configuration file without running anything",
		Long: `Check a configuration file against the structural rules and the
embedded schema. All profiles are checked at once; no platform
filtering is applied.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				path = config.DefaultPath()
			}

			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read config %s: %w", path, err)
			}
			cfg, err := config.NewLoader().Parse(raw)
			if err != nil {
				return fmt.Errorf("config %s: %w", path, err)
			}

			total := len(cfg.Symlinks) + len(cfg.Permissions) + len(cfg.Packages) +
				len(cfg.Extensions) + len(cfg.Registry) + len(cfg.Services)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%d items)\n", path, total)
			return nil
		},
	}
}
