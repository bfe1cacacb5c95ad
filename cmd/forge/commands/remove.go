package commands

import (
	"github.com/spf13/cobra"

	"github.com/homeforge/homeforge/pkg/engine"
	"github.com/homeforge/homeforge/pkg/tasks"
)

func newRemoveCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Undo the configured resources",
		Long: `Undo the configured resources: delete symlinks, uninstall packages
and extensions, delete registry values and disable service units.

Only resources that currently match their configured state are removed;
anything else is left alone. Task kinds without a removal operation,
such as file modes, are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := setup(dryRun)
			if err != nil {
				return err
			}
			return r.execute(cmd.Context(), removalTasks())
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview removals without deleting anything")
	return cmd
}

// removalTask runs a task's Uninstall in place of Run, with dependency
// edges reversed so dependents are removed before what they depend on.
type removalTask struct {
	engine.Uninstaller
	deps []engine.TaskID
}

func (t *removalTask) Dependencies() []engine.TaskID { return t.deps }

func (t *removalTask) Run(ctx *engine.RunContext) (engine.TaskResult, error) {
	return t.Uninstall(ctx)
}

// removalTasks wraps every uninstallable task with reversed dependencies.
func removalTasks() []engine.Task {
	all := tasks.Default()

	reversed := make(map[engine.TaskID][]engine.TaskID)
	for _, t := range all {
		for _, dep := range t.Dependencies() {
			reversed[dep] = append(reversed[dep], t.ID())
		}
	}

	var out []engine.Task
	for _, t := range all {
		u, ok := t.(engine.Uninstaller)
		if !ok {
			continue
		}
		out = append(out, &removalTask{Uninstaller: u, deps: reversed[t.ID()]})
	}
	return out
}
