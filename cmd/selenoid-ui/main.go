// Package main is the entry point for the selenoid-ui CLI.
//
// A test runner's plugin hooks invoke this binary to start the selenoid-ui
// dashboard container before a session ("prepare") and remove it afterwards
// ("complete"). All functionality lives in internal/cli.
//
// Build-time variables (version, commit, date) are injected via ldflags.
// During development, they default to "dev", "none", and "unknown".
package main

import (
	"github.com/shinji-kodama/selenoid-ui-service/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
