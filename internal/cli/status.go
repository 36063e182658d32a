package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/selenoid-ui-service/internal/docker"
	"github.com/shinji-kodama/selenoid-ui-service/internal/model"
	"github.com/shinji-kodama/selenoid-ui-service/internal/port"
)

// engine is the part of docker.Client the status command needs.
type engine interface {
	Ping(ctx context.Context) error
	FindContainer(ctx context.Context, name string) (*model.ContainerInfo, error)
	Close() error
}

// newEngine connects to the Docker Engine API. Tests swap it for a fake.
var newEngine = func() (engine, error) {
	return docker.NewClient()
}

// statusReport is the JSON shape of "selenoid-ui status".
type statusReport struct {
	Selenoid      containerStatus `json:"selenoid"`
	SelenoidUI    containerStatus `json:"selenoidUi"`
	Image         string          `json:"image"`
	Port          int             `json:"port"`
	PortAvailable bool            `json:"portAvailable"`
}

// containerStatus describes one of the two containers. Container is nil
// when no container with that name exists.
type containerStatus struct {
	Name      string               `json:"name"`
	Container *model.ContainerInfo `json:"container"`
}

// NewStatusCommand creates the "status" cobra command.
func NewStatusCommand() *cobra.Command {
	var flags *optionFlags

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the selenoid and selenoid-ui containers",
		Long: `Show the state of the selenoid and selenoid-ui containers.

Queries the Docker Engine API for both containers by exact name and
checks whether the UI host port is free.

Examples:
  selenoid-ui status
  selenoid-ui status --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), cmd, flags)
		},
	}

	flags = addOptionFlags(cmd)
	return cmd
}

// runStatus gathers the status report and prints it.
func runStatus(ctx context.Context, cmd *cobra.Command, flags *optionFlags) error {
	opts, _, err := resolveOptions(cmd, flags)
	if err != nil {
		return err
	}

	cli, err := newEngine()
	if err != nil {
		return err // already a CLIError with ExitDockerNotRunning
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return err
	}

	report, err := buildStatusReport(ctx, cli, opts, port.NewScanner())
	if err != nil {
		return err
	}

	printStatusReport(cmd.OutOrStdout(), report)
	return nil
}

// buildStatusReport looks up both containers and probes the UI host port.
func buildStatusReport(ctx context.Context, cli engine, opts model.Options, scanner *port.Scanner) (*statusReport, error) {
	grid, err := cli.FindContainer(ctx, opts.SelenoidContainerName)
	if err != nil {
		return nil, err
	}
	ui, err := cli.FindContainer(ctx, opts.SelenoidUIContainerName)
	if err != nil {
		return nil, err
	}

	return &statusReport{
		Selenoid:      containerStatus{Name: opts.SelenoidContainerName, Container: grid},
		SelenoidUI:    containerStatus{Name: opts.SelenoidUIContainerName, Container: ui},
		Image:         opts.ImageRef(),
		Port:          opts.Port,
		PortAvailable: scanner.IsPortAvailable(opts.Port, "tcp"),
	}, nil
}

// printStatusReport writes the report in text or JSON format.
func printStatusReport(w io.Writer, report *statusReport) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	fmt.Fprintf(w, "%-12s %-24s %-10s %s\n", "ROLE", "NAME", "STATE", "PORTS")
	printContainerRow(w, "selenoid", report.Selenoid)
	printContainerRow(w, "selenoid-ui", report.SelenoidUI)

	portState := "free"
	if !report.PortAvailable {
		portState = "in use"
	}
	fmt.Fprintf(w, "\nImage: %s\nUI host port %d: %s\n", report.Image, report.Port, portState)
}

// printContainerRow prints one table row; absent containers show "-".
func printContainerRow(w io.Writer, role string, status containerStatus) {
	state, ports := "absent", "-"
	if c := status.Container; c != nil {
		state = c.State
		if len(c.Ports) > 0 {
			ports = strings.Join(c.Ports, ",")
		}
	}
	fmt.Fprintf(w, "%-12s %-24s %-10s %s\n", role, status.Name, state, ports)
}
