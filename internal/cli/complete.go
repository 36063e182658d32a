package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/selenoid-ui-service/internal/launcher"
)

// NewCompleteCommand creates the "complete" cobra command, run by the test
// runner after the session ends.
func NewCompleteCommand() *cobra.Command {
	var flags *optionFlags

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Remove the selenoid-ui container after a test run",
		Long: `Force-remove the selenoid-ui container after a test run.

A failed removal (for example because the container is already gone)
is reported but only changes the exit code with --fail-on-error.

Examples:
  selenoid-ui complete
  selenoid-ui complete --selenoid-ui-container-name grid-ui`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runHook(cmd.Context(), cmd, flags, "complete",
				func(ctx context.Context, svc *launcher.Service) (string, error) {
					return svc.Complete(ctx)
				})
		},
	}

	flags = addOptionFlags(cmd)
	return cmd
}
