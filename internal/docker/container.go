// container.go reads container state through the Docker Engine API.
//
// The lifecycle hooks only ever need "does a line show up in docker ps",
// which the CLI answers well enough. Status reporting needs more: the
// container's exact state, image and published ports, so it asks the
// Engine API instead.
package docker

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"

	"github.com/shinji-kodama/selenoid-ui-service/internal/model"
)

// ContainerLister is the subset of the Docker SDK client used to look
// containers up. *client.Client satisfies it.
type ContainerLister interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
}

// FindContainer looks up a container by exact name using the wrapped SDK
// client. See FindContainerByName.
func (c *Client) FindContainer(ctx context.Context, name string) (*model.ContainerInfo, error) {
	return FindContainerByName(ctx, c.inner, name)
}

// FindContainerByName returns the container whose name is exactly name,
// including stopped ones, or nil if there is none.
//
// The Engine API's name filter is a substring (regexp) match, so
// "wdio_selenoid" would also return "wdio_selenoidui". The server-side
// filter narrows the list and the exact comparison happens here.
func FindContainerByName(ctx context.Context, api ContainerLister, name string) (*model.ContainerInfo, error) {
	containers, err := api.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", name)),
	})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to list containers named %q", name),
			err,
		)
	}

	for _, c := range containers {
		info := containerToInfo(c)
		if info.ContainerName == name {
			return &info, nil
		}
	}
	return nil, nil
}

// containerToInfo converts an API container summary to model.ContainerInfo.
// Docker reports names with a leading "/" which is stripped here.
func containerToInfo(c container.Summary) model.ContainerInfo {
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}

	return model.ContainerInfo{
		ContainerID:   c.ID,
		ContainerName: name,
		Image:         c.Image,
		State:         string(c.State),
		Status:        c.Status,
		Ports:         formatPorts(c.Ports),
	}
}

// formatPorts renders published ports as "host:container/proto", sorted.
// Ports that are exposed but not published are skipped.
func formatPorts(ports []container.Port) []string {
	var out []string
	for _, p := range ports {
		if p.PublicPort == 0 {
			continue
		}
		out = append(out, fmt.Sprintf("%d:%d/%s", p.PublicPort, p.PrivatePort, p.Type))
	}
	sort.Strings(out)

	// Docker lists IPv4 and IPv6 bindings separately; collapse duplicates.
	deduped := out[:0]
	for i, s := range out {
		if i == 0 || s != out[i-1] {
			deduped = append(deduped, s)
		}
	}
	return deduped
}
