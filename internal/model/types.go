// Package model defines the domain types for the selenoid-ui service.
//
// The only real state this tool owns is a flat Options record describing
// the two containers it cares about: the selenoid grid container (which
// something else starts) and the selenoid-ui container (which we start and
// remove). Everything else is reconstructed from the container runtime on
// demand.
package model

import (
	"fmt"
	"strings"
)

// Default option values. These mirror the defaults of the wdio selenoid
// standalone service so existing test runner configurations keep working
// without any overrides.
const (
	DefaultSelenoidContainerName   = "wdio_selenoid"
	DefaultSelenoidUIContainerName = "wdio_selenoidui"
	DefaultSelenoidUIVersion       = "latest-release"
	DefaultSelenoidUIImage         = "aerokube/selenoid-ui"
	DefaultPort                    = 8080
	DefaultSelenoidPort            = 4444
	DefaultDockerBinary            = "docker"

	// UIContainerPort is the port selenoid-ui listens on inside its
	// container. Only the host side of the mapping is configurable.
	UIContainerPort = 8080
)

// Options configures the selenoid-ui lifecycle.
//
// The struct tags use the same camelCase keys as the wdio service options,
// so a block copied out of a wdio.conf file can be used as a config file
// verbatim (JSON, YAML or TOML).
type Options struct {
	// SkipAutoPullImage disables the "pull the UI image if it is missing"
	// step of the prepare hook.
	SkipAutoPullImage bool `json:"skipAutoPullImage" yaml:"skipAutoPullImage" toml:"skipAutoPullImage"`

	// SelenoidContainerName is the name of the grid container. The UI
	// container is linked to it and the prepare hook waits for it.
	SelenoidContainerName string `json:"selenoidContainerName" yaml:"selenoidContainerName" toml:"selenoidContainerName"`

	// SelenoidUIContainerName is the name given to the UI container.
	SelenoidUIContainerName string `json:"selenoidUiContainerName" yaml:"selenoidUiContainerName" toml:"selenoidUiContainerName"`

	// SelenoidUIVersion is the image tag of the UI image.
	SelenoidUIVersion string `json:"selenoidUiVersion" yaml:"selenoidUiVersion" toml:"selenoidUiVersion"`

	// Image is the UI image repository without a tag.
	Image string `json:"selenoidUiImage" yaml:"selenoidUiImage" toml:"selenoidUiImage"`

	// Port is the host port the UI is published on.
	Port int `json:"port" yaml:"port" toml:"port"`

	// SelenoidPort is the port the grid listens on inside the link network.
	SelenoidPort int `json:"selenoidPort" yaml:"selenoidPort" toml:"selenoidPort"`

	// DockerArgs are extra `docker run` flags, inserted after the mandatory
	// flags and before the image reference.
	DockerArgs []string `json:"dockerArgs" yaml:"dockerArgs" toml:"dockerArgs"`

	// SelenoidUIArgs are extra arguments for the selenoid-ui process itself,
	// appended after --selenoid-uri.
	SelenoidUIArgs []string `json:"selenoidUiArgs" yaml:"selenoidUiArgs" toml:"selenoidUiArgs"`

	// DockerBinary is the container CLI to invoke (docker, podman, ...).
	DockerBinary string `json:"dockerBinary" yaml:"dockerBinary" toml:"dockerBinary"`
}

// DefaultOptions returns an Options value with every field at its default.
func DefaultOptions() Options {
	return Options{
		SkipAutoPullImage:       false,
		SelenoidContainerName:   DefaultSelenoidContainerName,
		SelenoidUIContainerName: DefaultSelenoidUIContainerName,
		SelenoidUIVersion:       DefaultSelenoidUIVersion,
		Image:                   DefaultSelenoidUIImage,
		Port:                    DefaultPort,
		SelenoidPort:            DefaultSelenoidPort,
		DockerBinary:            DefaultDockerBinary,
	}
}

// ImageRef returns the fully qualified UI image reference, e.g.
// "aerokube/selenoid-ui:latest-release".
func (o Options) ImageRef() string {
	return fmt.Sprintf("%s:%s", o.Image, o.SelenoidUIVersion)
}

// SelenoidURI returns the address the UI uses to reach the grid over the
// container link, e.g. "http://wdio_selenoid:4444".
func (o Options) SelenoidURI() string {
	return fmt.Sprintf("http://%s:%d", o.SelenoidContainerName, o.SelenoidPort)
}

// PortMapping returns the `-p` value publishing the UI, e.g. "8080:8080".
func (o Options) PortMapping() string {
	return fmt.Sprintf("%d:%d", o.Port, UIContainerPort)
}

// Validate checks that the options can produce a usable command line.
// All problems are reported together so a broken config file can be fixed
// in one pass.
func (o Options) Validate() error {
	var problems []string

	if strings.TrimSpace(o.SelenoidContainerName) == "" {
		problems = append(problems, "selenoidContainerName must not be empty")
	}
	if strings.TrimSpace(o.SelenoidUIContainerName) == "" {
		problems = append(problems, "selenoidUiContainerName must not be empty")
	}
	if strings.TrimSpace(o.SelenoidUIVersion) == "" {
		problems = append(problems, "selenoidUiVersion must not be empty")
	}
	if strings.TrimSpace(o.Image) == "" {
		problems = append(problems, "selenoidUiImage must not be empty")
	}
	if strings.TrimSpace(o.DockerBinary) == "" {
		problems = append(problems, "dockerBinary must not be empty")
	}
	if o.Port < 1 || o.Port > 65535 {
		problems = append(problems, fmt.Sprintf("port %d out of range (1-65535)", o.Port))
	}
	if o.SelenoidPort < 1 || o.SelenoidPort > 65535 {
		problems = append(problems, fmt.Sprintf("selenoidPort %d out of range (1-65535)", o.SelenoidPort))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid options: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ContainerInfo holds runtime information about a container as reported by
// the Docker Engine API. It is never persisted.
type ContainerInfo struct {
	// ContainerID is the full Docker container identifier.
	ContainerID string `json:"containerId"`

	// ContainerName is the container name without the API's leading "/".
	ContainerName string `json:"containerName"`

	// Image is the image reference the container was created from.
	Image string `json:"image"`

	// State is the short machine state ("running", "exited", "created").
	State string `json:"state"`

	// Status is Docker's human readable status ("Up 3 minutes").
	Status string `json:"status"`

	// Ports lists published ports as "hostPort:containerPort/proto".
	Ports []string `json:"ports,omitempty"`
}

// IsRunning reports whether the container is in the "running" state.
func (c *ContainerInfo) IsRunning() bool {
	return c != nil && c.State == "running"
}

// ExitCode defines the process exit codes of the CLI.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigInvalid indicates the options could not be loaded or
	// failed validation.
	ExitConfigInvalid ExitCode = 2

	// ExitDockerNotRunning indicates the Docker daemon or CLI is not usable.
	ExitDockerNotRunning ExitCode = 3

	// ExitHookFailed indicates a lifecycle hook reported an error and
	// --fail-on-error was requested.
	ExitHookFailed ExitCode = 4
)

// CLIError is an error that carries the exit code the process should
// terminate with.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
