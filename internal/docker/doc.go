// Package docker provides the container runtime boundary for the
// selenoid-ui service.
//
// This package handles:
//   - Running the docker CLI as a child process (Runner / ExecRunner)
//   - Building the argument lists for rm, run, image ls, pull and ps
//   - Docker Engine API client initialization with automatic socket
//     detection (Linux, macOS, Windows) and container lookup by name
//
// The lifecycle hooks go through the CLI so that the exact same command
// lines a user would type are executed. The Engine API is used through
// github.com/docker/docker/client, with version negotiation enabled for
// broad compatibility.
package docker
