package docker

import (
	"github.com/shinji-kodama/selenoid-ui-service/internal/model"
)

// RemoveArgs builds "rm -f <name>". Force removal kills a running
// container first, so one call covers both running and stopped leftovers.
func RemoveArgs(name string) []string {
	return []string{"rm", "-f", name}
}

// RunArgs builds the detached "docker run" invocation for the UI container.
//
// Layout:
//
//	run -d --name <ui> -p <port>:8080 --link <grid> [dockerArgs...]
//	    <image>:<version> --selenoid-uri http://<grid>:<gridPort> [selenoidUiArgs...]
//
// User supplied arguments never displace the mandatory ones; each group is
// appended in the order given.
func RunArgs(opts model.Options) []string {
	args := make([]string, 0, 10+len(opts.DockerArgs)+len(opts.SelenoidUIArgs))
	args = append(args,
		"run",
		"-d",
		"--name", opts.SelenoidUIContainerName,
		"-p", opts.PortMapping(),
		"--link", opts.SelenoidContainerName,
	)
	args = append(args, opts.DockerArgs...)
	args = append(args,
		opts.ImageRef(),
		"--selenoid-uri", opts.SelenoidURI(),
	)
	args = append(args, opts.SelenoidUIArgs...)
	return args
}

// ImageListArgs builds "image ls -f reference=<ref>".
func ImageListArgs(ref string) []string {
	return []string{"image", "ls", "-f", "reference=" + ref}
}

// PullArgs builds "pull <ref>".
func PullArgs(ref string) []string {
	return []string{"pull", ref}
}

// PsByNameArgs builds "ps -f name=<name>". Docker's name filter is a
// substring match, so a container whose name merely contains <name> also
// satisfies it.
func PsByNameArgs(name string) []string {
	return []string{"ps", "-f", "name=" + name}
}
