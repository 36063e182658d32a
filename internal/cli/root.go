// Package cli implements the cobra-based CLI commands for selenoid-ui.
//
// The commands are thin adapters for a test runner's plugin hooks: the
// runner calls "selenoid-ui prepare" when a session starts and
// "selenoid-ui complete" when it ends. Each subcommand is defined in its
// own file within this package. This file defines the root command and the
// global flags.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/selenoid-ui-service/internal/model"
)

// Global flag variables shared across all subcommands.
var (
	// jsonOutput switches command output (and errors) to JSON.
	jsonOutput bool

	// verbose lowers the log level to debug.
	verbose bool

	// configPath points at an options file. When empty, a selenoid-ui.*
	// file in the working directory is used if present.
	configPath string

	// failOnError makes hook failures change the exit code. Hooks resolve
	// successfully by default so a test run is never blocked by the UI.
	failOnError bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "selenoid-ui",
		Short: "Start and stop a selenoid-ui container around a test run",
		Long: `selenoid-ui manages the selenoid-ui dashboard container for a test run.

"prepare" removes any stale UI container, pulls the UI image if needed,
waits for the selenoid grid container and starts the UI linked to it.
"complete" removes the UI container again.

Both hooks are best-effort: failures are logged and the command still
succeeds unless --fail-on-error is given.`,

		// We format errors ourselves (text or JSON based on --json flag).
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Options file (.json, .jsonc, .yaml, .yml, .toml); default: ./selenoid-ui.*")
	rootCmd.PersistentFlags().BoolVar(&failOnError, "fail-on-error", false,
		"Exit non-zero when a hook fails instead of only logging the failure")

	rootCmd.AddCommand(NewPrepareCommand())
	rootCmd.AddCommand(NewCompleteCommand())
	rootCmd.AddCommand(NewStatusCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
//
// SIGINT/SIGTERM cancel the command context, which ends a readiness wait
// early and kills any docker child process still running.
func Execute(rootCmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	os.Exit(int(handleError(err)))
}

// handleError prints err (if any) and returns the exit code for it.
// CLIError carries its own exit code; anything else maps to 1.
func handleError(err error) model.ExitCode {
	if err == nil {
		return model.ExitSuccess
	}

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		printError(cliErr.Message, cliErr.Err)
		return cliErr.Code
	}

	printError(err.Error(), nil)
	return model.ExitGeneralError
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag. Errors always go to
// stderr; stdout is reserved for command results.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
