package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/selenoid-ui-service/internal/model"
)

// writeFile creates name under dir with the given contents and returns
// its path.
func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// customOptions is what every fixture in TestLoad_Formats describes.
func customOptions() model.Options {
	opts := model.DefaultOptions()
	opts.SkipAutoPullImage = true
	opts.SelenoidUIVersion = "1.10.11"
	opts.Port = 9090
	opts.DockerArgs = []string{"--network", "selenoid"}
	opts.SelenoidUIArgs = []string{"--allowed-origin", "*"}
	return opts
}

// TestLoad_Formats verifies that the same options expressed in every
// supported format decode identically, with omitted keys left at their
// defaults.
func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		contents string
	}{
		{
			name: "json",
			file: "selenoid-ui.json",
			contents: `{
  "skipAutoPullImage": true,
  "selenoidUiVersion": "1.10.11",
  "port": 9090,
  "dockerArgs": ["--network", "selenoid"],
  "selenoidUiArgs": ["--allowed-origin", "*"]
}`,
		},
		{
			name: "jsonc with comments and trailing comma",
			file: "selenoid-ui.jsonc",
			contents: `{
  // pinned so screenshots stay stable
  "skipAutoPullImage": true,
  "selenoidUiVersion": "1.10.11",
  /* published next to the grid */
  "port": 9090,
  "dockerArgs": ["--network", "selenoid"],
  "selenoidUiArgs": ["--allowed-origin", "*"],
}`,
		},
		{
			name: "yaml",
			file: "selenoid-ui.yaml",
			contents: `skipAutoPullImage: true
selenoidUiVersion: "1.10.11"
port: 9090
dockerArgs: ["--network", "selenoid"]
selenoidUiArgs:
  - --allowed-origin
  - "*"
`,
		},
		{
			name: "toml",
			file: "selenoid-ui.toml",
			contents: `skipAutoPullImage = true
selenoidUiVersion = "1.10.11"
port = 9090
dockerArgs = ["--network", "selenoid"]
selenoidUiArgs = ["--allowed-origin", "*"]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.contents)

			opts, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, customOptions(), opts)
		})
	}
}

// TestLoad_EmptyFiles verifies that an empty file means "all defaults".
func TestLoad_EmptyFiles(t *testing.T) {
	for _, name := range []string{"selenoid-ui.json", "selenoid-ui.yaml", "selenoid-ui.toml"} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), name, "")

			opts, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, model.DefaultOptions(), opts)
		})
	}
}

// TestLoad_Errors verifies every failure is a CLIError with the config
// exit code.
func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{
			name:    "missing file",
			path:    filepath.Join(dir, "nope.yaml"),
			wantMsg: "config file not found",
		},
		{
			name:    "unsupported extension",
			path:    writeFile(t, dir, "selenoid-ui.ini", "port=1"),
			wantMsg: "unsupported config file extension",
		},
		{
			name:    "unknown json key",
			path:    writeFile(t, dir, "typo.json", `{"prot": 9090}`),
			wantMsg: "failed to parse",
		},
		{
			name:    "unknown yaml key",
			path:    writeFile(t, dir, "typo.yaml", "prot: 9090\n"),
			wantMsg: "failed to parse",
		},
		{
			name:    "unknown toml key",
			path:    writeFile(t, dir, "typo.toml", "prot = 9090\n"),
			wantMsg: "unknown keys: prot",
		},
		{
			name:    "wrong type",
			path:    writeFile(t, dir, "type.json", `{"port": "high"}`),
			wantMsg: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)

			var cliErr *model.CLIError
			require.True(t, errors.As(err, &cliErr))
			assert.Equal(t, model.ExitConfigInvalid, cliErr.Code)
		})
	}
}

func TestFind(t *testing.T) {
	t.Run("nothing found", func(t *testing.T) {
		assert.Equal(t, "", Find(t.TempDir()))
	})

	t.Run("json preferred over yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "selenoid-ui.yaml", "port: 1\n")
		jsonPath := writeFile(t, dir, "selenoid-ui.json", "{}")
		assert.Equal(t, jsonPath, Find(dir))
	})

	t.Run("directory with config name ignored", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "selenoid-ui.json"), 0o755))
		tomlPath := writeFile(t, dir, "selenoid-ui.toml", "port = 1\n")
		assert.Equal(t, tomlPath, Find(dir))
	})
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("defaults when nothing configured", func(t *testing.T) {
		opts, used, err := LoadOrDefault("", t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "", used)
		assert.Equal(t, model.DefaultOptions(), opts)
	})

	t.Run("discovered file", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "selenoid-ui.yml", "port: 9191\n")

		opts, used, err := LoadOrDefault("", dir)
		require.NoError(t, err)
		assert.Equal(t, path, used)
		assert.Equal(t, 9191, opts.Port)
	})

	t.Run("explicit path wins", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "selenoid-ui.yml", "port: 9191\n")
		explicit := writeFile(t, t.TempDir(), "other.toml", "port = 9292\n")

		opts, used, err := LoadOrDefault(explicit, dir)
		require.NoError(t, err)
		assert.Equal(t, explicit, used)
		assert.Equal(t, 9292, opts.Port)
	})
}
