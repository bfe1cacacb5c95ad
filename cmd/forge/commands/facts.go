package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/homeforge/homeforge/pkg/executor"
	"github.com/homeforge/homeforge/pkg/platform"
	"github.com/homeforge/homeforge/pkg/telemetry"
)

func newFactsCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "facts",
		Short: "Print the detected platform capabilities",
		Long: `Print the detected platform capabilities: operating system,
symlink/registry/systemd support, package manager and editor. These are
the facts config ` + "`when`" + ` predicates evaluate against.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tcfg := telemetry.DefaultConfig()
			logger, err := telemetry.NewLogger(tcfg.Logging)
			if err != nil {
				return err
			}
			plat := platform.Detect(executor.NewLocal(*logger.Z()))

			var rendered []byte
			switch output {
			case "json":
				rendered, err = json.MarshalIndent(plat, "", "  ")
			case "yaml":
				rendered, err = yaml.Marshal(plat)
			default:
				return fmt.Errorf("unknown output format %q (want json or yaml)", output)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(rendered))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format (json, yaml)")
	return cmd
}
