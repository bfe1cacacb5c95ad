package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/homeforge/homeforge/pkg/stores"
)

func newRunsCommand() *cobra.Command {
	var (
		limit int
		runID string
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show past runs from the run log",
		Long: `Show past runs recorded in the run-log database, newest first.
With --id, show one run's per-task records instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := storePath
			if path == "" {
				path = stores.DefaultPath()
			}
			store, err := stores.Open(cmd.Context(), path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if runID != "" {
				run, taskRows, err := store.GetRun(cmd.Context(), runID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "run %s  %s  %s  (%s)\n",
					run.ID, run.StartedAt.Format(time.RFC3339), run.Status, run.Duration)
				for _, t := range taskRows {
					line := fmt.Sprintf("  %-12s %-8s %s", t.Name, t.Status, t.Duration)
					if t.Reason != "" {
						line += "  " + t.Reason
					}
					if t.Error != "" {
						line += "  " + t.Error
					}
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, run := range runs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-6s  %d ok, %d skipped, %d failed\n",
					run.ID, run.StartedAt.Format(time.RFC3339), run.Status,
					run.Ok, run.Skipped, run.Failed)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list")
	cmd.Flags().StringVar(&runID, "id", "", "show one run's task records")
	return cmd
}
