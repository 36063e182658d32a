package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/selenoid-ui-service/internal/docker"
	"github.com/shinji-kodama/selenoid-ui-service/internal/model"
)

// recordingRunner is a docker.Runner that records argument lists and
// answers from a map keyed by the first argument.
type recordingRunner struct {
	calls   [][]string
	answers map[string]error
	outputs map[string]string
}

func (r *recordingRunner) Run(_ context.Context, args ...string) (string, error) {
	r.calls = append(r.calls, append([]string(nil), args...))
	return r.outputs[args[0]], r.answers[args[0]]
}

// useRunner installs r as the runner for every hook in this test.
func useRunner(t *testing.T, r *recordingRunner) {
	t.Helper()
	orig := newRunner
	newRunner = func(string) docker.Runner { return r }
	t.Cleanup(func() { newRunner = orig })
}

// gridRunning returns a runner for which the grid is already listed and
// the UI image is present, so prepare never sleeps.
func gridRunning() *recordingRunner {
	return &recordingRunner{
		answers: map[string]error{},
		outputs: map[string]string{
			"image": "REPOSITORY TAG\naerokube/selenoid-ui latest-release",
			"ps":    "CONTAINER ID NAMES\nabc wdio_selenoid",
			"run":   "4f1c2a9e0d1b",
		},
	}
}

// execute runs the root command with args and returns stdout and the
// error returned by cobra.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// TestPrepareCommand_FlagsReachRunArgs checks that option flags end up
// in the docker run command line, in order.
func TestPrepareCommand_FlagsReachRunArgs(t *testing.T) {
	r := gridRunning()
	useRunner(t, r)

	out, err := execute(t, "prepare",
		"--selenoid-ui-version", "1.10.11",
		"--port", "9191",
		"--docker-arg=--network", "--docker-arg=selenoid",
		"--selenoid-ui-arg=--allowed-origin", "--selenoid-ui-arg=*",
	)
	require.NoError(t, err)
	assert.Contains(t, out, `Started selenoid-ui container "wdio_selenoidui" (aerokube/selenoid-ui:1.10.11)`)

	require.NotEmpty(t, r.calls)
	last := r.calls[len(r.calls)-1]
	assert.Equal(t, []string{
		"run", "-d",
		"--name", "wdio_selenoidui",
		"-p", "9191:8080",
		"--link", "wdio_selenoid",
		"--network", "selenoid",
		"aerokube/selenoid-ui:1.10.11",
		"--selenoid-uri", "http://wdio_selenoid:4444",
		"--allowed-origin", "*",
	}, last)
}

// TestPrepareCommand_SkipAutoPull verifies the flag disables the image
// check and pull entirely.
func TestPrepareCommand_SkipAutoPull(t *testing.T) {
	r := gridRunning()
	useRunner(t, r)

	_, err := execute(t, "prepare", "--skip-auto-pull-image")
	require.NoError(t, err)

	for _, c := range r.calls {
		assert.NotEqual(t, "pull", c[0])
		assert.NotEqual(t, "image", c[0])
	}
}

// TestPrepareCommand_HookFailure verifies the hook resolves by default and
// fails with ExitHookFailed only when asked to.
func TestPrepareCommand_HookFailure(t *testing.T) {
	t.Run("best effort by default", func(t *testing.T) {
		r := gridRunning()
		r.answers["run"] = errors.New("port is already allocated")
		useRunner(t, r)

		out, err := execute(t, "prepare", "--json")
		require.NoError(t, err)

		var result hookResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, "prepare", result.Hook)
		assert.Equal(t, "port is already allocated", result.Error)
	})

	t.Run("fail on error", func(t *testing.T) {
		r := gridRunning()
		r.answers["run"] = errors.New("port is already allocated")
		useRunner(t, r)

		_, err := execute(t, "prepare", "--fail-on-error")
		require.Error(t, err)
		assert.Equal(t, model.ExitHookFailed, handleError(err))
	})
}

// TestCompleteCommand verifies complete only removes the UI container.
func TestCompleteCommand(t *testing.T) {
	r := gridRunning()
	useRunner(t, r)

	out, err := execute(t, "complete", "--selenoid-ui-container-name", "grid-ui")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"rm", "-f", "grid-ui"}}, r.calls)
	assert.Contains(t, out, `Removed selenoid-ui container "grid-ui"`)
}

// TestCompleteCommand_MissingContainer verifies that removing a container
// that is already gone still exits 0.
func TestCompleteCommand_MissingContainer(t *testing.T) {
	r := gridRunning()
	r.answers["rm"] = errors.New("No such container: wdio_selenoidui")
	useRunner(t, r)

	out, err := execute(t, "complete")
	require.NoError(t, err)
	assert.Contains(t, out, "No such container")
}

// TestConfigFileAndFlags verifies the layering defaults < file < flags.
func TestConfigFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selenoid-ui.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"selenoidContainerName: grid",
		"selenoidUiVersion: 1.9.0",
		"port: 7070",
		"skipAutoPullImage: true",
		"",
	}, "\n")), 0o644))

	r := gridRunning()
	useRunner(t, r)

	_, err := execute(t, "prepare", "--config", path, "--port", "7171")
	require.NoError(t, err)

	last := r.calls[len(r.calls)-1]
	assert.Contains(t, last, "grid", "file value used")
	assert.Contains(t, last, "aerokube/selenoid-ui:1.9.0", "file value used")
	assert.Contains(t, last, "7171:8080", "flag overrides file")
	assert.Contains(t, last, "http://grid:4444", "default kept")
	assert.Equal(t, []string{"rm", "ps", "run"}, firstArgs(r.calls), "skipAutoPullImage from file")
}

// TestInvalidConfiguration verifies validation errors exit with
// ExitConfigInvalid before any docker command runs.
func TestInvalidConfiguration(t *testing.T) {
	r := gridRunning()
	useRunner(t, r)

	_, err := execute(t, "prepare", "--port", "0")
	require.Error(t, err)
	assert.Equal(t, model.ExitConfigInvalid, handleError(err))
	assert.Empty(t, r.calls)

	_, err = execute(t, "complete", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Equal(t, model.ExitConfigInvalid, handleError(err))
}

func TestHandleError(t *testing.T) {
	assert.Equal(t, model.ExitSuccess, handleError(nil))
	assert.Equal(t, model.ExitGeneralError, handleError(errors.New("boom")))
	assert.Equal(t, model.ExitDockerNotRunning,
		handleError(model.NewCLIError(model.ExitDockerNotRunning, "Docker daemon is not responding")))
}

func firstArgs(calls [][]string) []string {
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c[0])
	}
	return out
}
