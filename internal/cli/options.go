package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/selenoid-ui-service/internal/config"
	"github.com/shinji-kodama/selenoid-ui-service/internal/model"
)

// optionFlags holds the per-command flags that override config file values.
// Only flags the user actually set are applied (see resolveOptions), so a
// flag's zero value never masks a value from the file.
type optionFlags struct {
	skipAutoPullImage       bool
	selenoidContainerName   string
	selenoidUIContainerName string
	selenoidUIVersion       string
	image                   string
	port                    int
	selenoidPort            int
	dockerArgs              []string
	selenoidUIArgs          []string
	dockerBinary            string
}

// Flag names, shared between registration and the Changed() lookups.
const (
	flagSkipAutoPull      = "skip-auto-pull-image"
	flagSelenoidName      = "selenoid-container-name"
	flagSelenoidUIName    = "selenoid-ui-container-name"
	flagSelenoidUIVersion = "selenoid-ui-version"
	flagSelenoidUIImage   = "selenoid-ui-image"
	flagPort              = "port"
	flagSelenoidPort      = "selenoid-port"
	flagDockerArg         = "docker-arg"
	flagSelenoidUIArg     = "selenoid-ui-arg"
	flagDockerBinary      = "docker-binary"
)

// addOptionFlags registers the option flags on cmd. The defaults shown in
// --help are the built-in defaults; a config file may change them.
func addOptionFlags(cmd *cobra.Command) *optionFlags {
	flags := &optionFlags{}
	d := model.DefaultOptions()

	f := cmd.Flags()
	f.BoolVar(&flags.skipAutoPullImage, flagSkipAutoPull, d.SkipAutoPullImage,
		"Do not pull the selenoid-ui image when it is missing")
	f.StringVar(&flags.selenoidContainerName, flagSelenoidName, d.SelenoidContainerName,
		"Name of the selenoid grid container to link to and wait for")
	f.StringVar(&flags.selenoidUIContainerName, flagSelenoidUIName, d.SelenoidUIContainerName,
		"Name of the selenoid-ui container")
	f.StringVar(&flags.selenoidUIVersion, flagSelenoidUIVersion, d.SelenoidUIVersion,
		"selenoid-ui image tag")
	f.StringVar(&flags.image, flagSelenoidUIImage, d.Image,
		"selenoid-ui image repository")
	f.IntVar(&flags.port, flagPort, d.Port,
		"Host port to publish the UI on")
	f.IntVar(&flags.selenoidPort, flagSelenoidPort, d.SelenoidPort,
		"Port of the selenoid grid inside the container link")
	// StringArray rather than StringSlice: values such as "--env=A=1,B=2"
	// must not be split on commas.
	f.StringArrayVar(&flags.dockerArgs, flagDockerArg, nil,
		"Extra docker run argument (repeatable, order preserved)")
	f.StringArrayVar(&flags.selenoidUIArgs, flagSelenoidUIArg, nil,
		"Extra selenoid-ui argument (repeatable, order preserved)")
	f.StringVar(&flags.dockerBinary, flagDockerBinary, d.DockerBinary,
		"Container CLI to invoke")

	return flags
}

// resolveOptions layers defaults < config file < changed flags and
// validates the result.
//
// Returns a model.CLIError with ExitConfigInvalid on any problem.
func resolveOptions(cmd *cobra.Command, flags *optionFlags) (model.Options, string, error) {
	dir, _ := os.Getwd()
	opts, source, err := config.LoadOrDefault(configPath, dir)
	if err != nil {
		return opts, source, err
	}

	applyOptionFlags(cmd, flags, &opts)

	if err := opts.Validate(); err != nil {
		return opts, source, model.WrapCLIError(model.ExitConfigInvalid, "invalid configuration", err)
	}
	return opts, source, nil
}

// applyOptionFlags copies every explicitly set flag into opts.
func applyOptionFlags(cmd *cobra.Command, flags *optionFlags, opts *model.Options) {
	changed := cmd.Flags().Changed

	if changed(flagSkipAutoPull) {
		opts.SkipAutoPullImage = flags.skipAutoPullImage
	}
	if changed(flagSelenoidName) {
		opts.SelenoidContainerName = flags.selenoidContainerName
	}
	if changed(flagSelenoidUIName) {
		opts.SelenoidUIContainerName = flags.selenoidUIContainerName
	}
	if changed(flagSelenoidUIVersion) {
		opts.SelenoidUIVersion = flags.selenoidUIVersion
	}
	if changed(flagSelenoidUIImage) {
		opts.Image = flags.image
	}
	if changed(flagPort) {
		opts.Port = flags.port
	}
	if changed(flagSelenoidPort) {
		opts.SelenoidPort = flags.selenoidPort
	}
	if changed(flagDockerArg) {
		opts.DockerArgs = flags.dockerArgs
	}
	if changed(flagSelenoidUIArg) {
		opts.SelenoidUIArgs = flags.selenoidUIArgs
	}
	if changed(flagDockerBinary) {
		opts.DockerBinary = flags.dockerBinary
	}
}
