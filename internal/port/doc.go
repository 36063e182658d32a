// Package port checks host port availability for the selenoid-ui service.
//
// The UI container publishes a fixed host port. When that port is held by
// some other process, `docker run` fails with "port is already allocated"
// long after the prepare hook started; probing it first lets the CLI warn
// about the conflict up front and lets the status command report it.
package port
