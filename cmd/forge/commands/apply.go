package commands

import (
	"github.com/spf13/cobra"

	"github.com/homeforge/homeforge/pkg/tasks"
)

func newApplyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Reconcile the environment to the configured state",
		Long: `Reconcile the environment to the configured state.

Every resource is checked first; only missing or drifted resources are
touched. Tasks run in dependency order, concurrently when --parallel
is set.`,
		Example: `  # Apply the default config
  forge apply

  # Apply one profile concurrently
  forge apply --profile work --parallel`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := setup(false)
			if err != nil {
				return err
			}
			return r.execute(cmd.Context(), tasks.Default())
		},
	}
}
