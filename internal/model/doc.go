// Package model defines the domain types and value objects for the
// selenoid-ui service.
//
// This package contains pure data structures with no external dependencies.
// Options is the flat configuration record shared by every command, and
// ContainerInfo is a transient snapshot read from the Docker API.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
