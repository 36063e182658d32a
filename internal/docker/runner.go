package docker

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/shinji-kodama/selenoid-ui-service/internal/model"
)

// Runner executes one container CLI invocation and returns its stdout.
//
// The launcher talks to the container runtime exclusively through this
// interface, which keeps the lifecycle logic testable with a fake that
// records argument lists instead of spawning processes.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// ExecRunner runs the container CLI (docker by default) as a child process.
type ExecRunner struct {
	// Binary is the executable to run, looked up in PATH.
	Binary string
}

// NewExecRunner creates an ExecRunner for the given binary. An empty
// binary falls back to "docker".
func NewExecRunner(binary string) *ExecRunner {
	if binary == "" {
		binary = model.DefaultDockerBinary
	}
	return &ExecRunner{Binary: binary}
}

// Run executes the binary with args and waits for it to exit.
//
// Stdout is returned with a single trailing newline removed, so that
// splitting it on "\n" yields exactly one element per printed line. A
// non-zero exit is returned as a CLIError whose message carries stderr.
func (r *ExecRunner) Run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.Binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := trimFinalNewline(stdout.String())
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return out, model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("%s %s failed: %s", r.Binary, strings.Join(args, " "), detail),
			err,
		)
	}

	return out, nil
}

// trimFinalNewline strips one trailing "\n" (or "\r\n").
func trimFinalNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// CountLines returns the number of "\n"-separated lines in out. Empty
// output counts as one (empty) line, so a table with only its header row
// and a completely empty result both count below two.
func CountLines(out string) int {
	return len(strings.Split(out, "\n"))
}
