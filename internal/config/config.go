// Package config loads service options from a file.
//
// Options can be written as JSON (comments allowed, via
// github.com/tidwall/jsonc), YAML or TOML. The keys are the camelCase names
// used by the wdio service options, e.g.:
//
//	# selenoid-ui.yaml
//	selenoidUiVersion: 1.10.11
//	port: 9090
//	dockerArgs: ["--network", "selenoid"]
//
// Files are decoded on top of model.DefaultOptions(), so a key that is left
// out keeps its default. Unknown keys are rejected to catch typos early.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/selenoid-ui-service/internal/model"
)

// DefaultBaseName is the file name (without extension) Find looks for.
const DefaultBaseName = "selenoid-ui"

// supportedExtensions lists the extensions Find probes, in priority order.
var supportedExtensions = []string{".json", ".jsonc", ".yaml", ".yml", ".toml"}

// Load reads the options file at path.
//
// Returns a model.CLIError with ExitConfigInvalid if the file is missing,
// has an unsupported extension or cannot be decoded.
func Load(path string) (model.Options, error) {
	opts := model.DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, model.WrapCLIError(
				model.ExitConfigInvalid,
				fmt.Sprintf("config file not found: %s", path),
				err,
			)
		}
		return opts, model.WrapCLIError(
			model.ExitConfigInvalid,
			fmt.Sprintf("failed to read config file %s", path),
			err,
		)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json", ".jsonc":
		err = decodeJSON(data, &opts)
	case ".yaml", ".yml":
		err = decodeYAML(data, &opts)
	case ".toml":
		err = decodeTOML(data, &opts)
	default:
		return opts, model.NewCLIError(
			model.ExitConfigInvalid,
			fmt.Sprintf("unsupported config file extension %q (supported: %s)",
				ext, strings.Join(supportedExtensions, ", ")),
		)
	}
	if err != nil {
		return opts, model.WrapCLIError(
			model.ExitConfigInvalid,
			fmt.Sprintf("failed to parse config file %s", path),
			err,
		)
	}

	return opts, nil
}

// Find returns the first selenoid-ui.<ext> file in dir, or "" if there is
// none. A missing config file is not an error; defaults apply.
func Find(dir string) string {
	for _, ext := range supportedExtensions {
		path := filepath.Join(dir, DefaultBaseName+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadOrDefault loads path if given, otherwise the file found in dir, and
// falls back to model.DefaultOptions() when neither exists. The returned
// string is the file actually used ("" for defaults).
func LoadOrDefault(path, dir string) (model.Options, string, error) {
	if path == "" && dir != "" {
		path = Find(dir)
	}
	if path == "" {
		return model.DefaultOptions(), "", nil
	}

	opts, err := Load(path)
	return opts, path, err
}

// decodeJSON strips JSONC comments and trailing commas before decoding.
func decodeJSON(data []byte, opts *model.Options) error {
	clean := jsonc.ToJSON(data)
	if len(bytes.TrimSpace(clean)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(clean))
	dec.DisallowUnknownFields()
	return dec.Decode(opts)
}

func decodeYAML(data []byte, opts *model.Options) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	// An empty document decodes to io.EOF; treat it as "all defaults".
	if err := dec.Decode(opts); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeTOML(data []byte, opts *model.Options) error {
	meta, err := toml.Decode(string(data), opts)
	if err != nil {
		return err
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}
