// Package commands implements the forge CLI.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath    string
	profile       string
	verbose       bool
	jsonLogs      bool
	parallel      bool
	maxParallel   int
	storePath     string
	noStore       bool
	policyDir     string
	metricsListen string
	traceExporter string
	traceEndpoint string
)

// Execute runs the root command.
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "forge",
		Short: "HomeForge - declarative user environment provisioning",
		Long: `HomeForge provisions a user's environment from declarative TOML
configuration: symlinks, file modes, packages, editor extensions,
Windows registry values and systemd user units.

Runs are safely repeatable: every resource is checked before it is
touched, and an already-correct resource is never modified again.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "profile selecting config items")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "log in JSON format")
	rootCmd.PersistentFlags().BoolVar(&parallel, "parallel", false, "run independent tasks concurrently")
	rootCmd.PersistentFlags().IntVar(&maxParallel, "max-parallel", 10, "max concurrent tasks and resource applies")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "run-log database path")
	rootCmd.PersistentFlags().BoolVar(&noStore, "no-store", false, "disable run-log persistence")
	rootCmd.PersistentFlags().StringVar(&policyDir, "policy-dir", "", "directory of additional .rego policies")
	rootCmd.PersistentFlags().StringVar(&metricsListen, "metrics-listen", "", "address for the Prometheus metrics endpoint")
	rootCmd.PersistentFlags().StringVar(&traceExporter, "trace", "", "trace exporter (otlp, stdout)")
	rootCmd.PersistentFlags().StringVar(&traceEndpoint, "trace-endpoint", "localhost:4317", "OTLP trace endpoint")

	rootCmd.AddCommand(newApplyCommand())
	rootCmd.AddCommand(newPlanCommand())
	rootCmd.AddCommand(newRemoveCommand())
	rootCmd.AddCommand(newFactsCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newRunsCommand())

	return rootCmd
}
