package commands

import (
	"github.com/spf13/cobra"

	"github.com/homeforge/homeforge/pkg/tasks"
)

func newPlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Preview the changes an apply would make",
		Long: `Preview the changes an apply would make.

The full task list runs in dry-run mode: every resource is checked and
actionable ones are logged as "would ..." lines, but nothing is
modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := setup(true)
			if err != nil {
				return err
			}
			return r.execute(cmd.Context(), tasks.Default())
		},
	}
}
