package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shinji-kodama/selenoid-ui-service/internal/docker"
	"github.com/shinji-kodama/selenoid-ui-service/internal/launcher"
	"github.com/shinji-kodama/selenoid-ui-service/internal/model"
	"github.com/shinji-kodama/selenoid-ui-service/internal/port"
)

// newRunner creates the container CLI runner for the hooks. Tests swap it
// for a recording fake.
var newRunner = func(binary string) docker.Runner {
	return docker.NewExecRunner(binary)
}

// hookFunc is one of the launcher's lifecycle hooks.
type hookFunc func(ctx context.Context, svc *launcher.Service) (string, error)

// hookResult is the outcome of a hook, as printed on stdout.
type hookResult struct {
	Hook      string `json:"hook"`
	Container string `json:"container"`
	Image     string `json:"image,omitempty"`
	Output    string `json:"output,omitempty"`
	Error     string `json:"error,omitempty"`
}

// runHook resolves the options, runs hook and prints its result.
//
// A failing hook is logged and reported but does not fail the command
// unless --fail-on-error is set; the caller is a test runner that must not
// be blocked by the dashboard. Invalid configuration always fails.
func runHook(ctx context.Context, cmd *cobra.Command, flags *optionFlags, name string, hook hookFunc) error {
	opts, source, err := resolveOptions(cmd, flags)
	if err != nil {
		return err
	}

	logger := newLogger(verbose)
	defer func() { _ = logger.Sync() }()

	if source != "" {
		logger.Debug("Loaded options", zap.String("file", source))
	}

	svc := launcher.New(opts, newRunner(opts.DockerBinary), logger,
		launcher.WithHostPortCheck(port.NewScanner().FindHostPortConflict))

	out, hookErr := hook(ctx, svc)

	result := hookResult{
		Hook:      name,
		Container: opts.SelenoidUIContainerName,
		Output:    out,
	}
	if name == "prepare" {
		result.Image = opts.ImageRef()
	}
	if hookErr != nil {
		result.Error = hookErr.Error()
	}
	printHookResult(cmd, result)

	if hookErr != nil {
		if failOnError {
			return model.WrapCLIError(model.ExitHookFailed, fmt.Sprintf("%s hook failed", name), hookErr)
		}
		logger.Warn("Hook failed, continuing", zap.String("hook", name), zap.Error(hookErr))
	}
	return nil
}

// printHookResult writes result to the command's stdout in text or JSON.
func printHookResult(cmd *cobra.Command, result hookResult) {
	w := cmd.OutOrStdout()

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	switch {
	case result.Error != "":
		fmt.Fprintf(w, "%s: selenoid-ui container %q: %s\n", result.Hook, result.Container, result.Error)
	case result.Hook == "prepare":
		fmt.Fprintf(w, "Started selenoid-ui container %q (%s)\n", result.Container, result.Image)
	default:
		fmt.Fprintf(w, "Removed selenoid-ui container %q\n", result.Container)
	}
}
