package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/selenoid-ui-service/internal/launcher"
)

// NewPrepareCommand creates the "prepare" cobra command, run by the test
// runner before the session starts.
func NewPrepareCommand() *cobra.Command {
	var flags *optionFlags

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Start the selenoid-ui container before a test run",
		Long: `Start the selenoid-ui container before a test run.

Steps:
  1. Force-remove any stale selenoid-ui container
  2. Pull the selenoid-ui image if it is missing (unless --skip-auto-pull-image)
  3. Wait up to 10 seconds for the selenoid container to be listed
  4. Start selenoid-ui linked to the selenoid container

Examples:
  selenoid-ui prepare
  selenoid-ui prepare --selenoid-ui-version 1.10.11 --port 9090
  selenoid-ui prepare --docker-arg=--network --docker-arg=selenoid`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runHook(cmd.Context(), cmd, flags, "prepare",
				func(ctx context.Context, svc *launcher.Service) (string, error) {
					return svc.Prepare(ctx)
				})
		},
	}

	flags = addOptionFlags(cmd)
	return cmd
}
