package commands

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/homeforge/homeforge/pkg/config"
	"github.com/homeforge/homeforge/pkg/tasks"
)

// watchDebounce coalesces editor write bursts into one re-plan.
const watchDebounce = 500 * time.Millisecond

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-plan whenever the config file changes",
		Long: `Watch the configuration file and re-run a plan on every change.
Nothing is ever applied; this is a live preview loop for editing
configuration. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = config.DefaultPath()
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()

			// Watch the directory: editors replace files on save, which
			// drops a watch on the file itself.
			if err := watcher.Add(filepath.Dir(path)); err != nil {
				return err
			}

			plan := func() {
				r, err := setup(true)
				if err != nil {
					cmd.PrintErrf("plan failed: %v\n", err)
					return
				}
				if err := r.execute(cmd.Context(), tasks.Default()); err != nil {
					cmd.PrintErrf("plan failed: %v\n", err)
				}
			}
			plan()

			var timer *time.Timer
			pending := make(chan struct{}, 1)
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if filepath.Clean(event.Name) != filepath.Clean(path) {
						continue
					}
					if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
						continue
					}
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(watchDebounce, func() {
						select {
						case pending <- struct{}{}:
						default:
						}
					})
				case <-pending:
					plan()
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					cmd.PrintErrf("watch error: %v\n", err)
				}
			}
		},
	}
}
