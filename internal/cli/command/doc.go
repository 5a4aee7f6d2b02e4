// Package command defines the screenmesh command line.
//
// Commands:
//
//   - serve: run a node (hub, peer transport, admin listener)
//   - cluster: print a running node's topology
//   - screens set: replace a running node's screen set from a file
//   - version: print build information
//
// Client commands talk to the node's admin WebSocket channel, selected
// with --admin or SCREENMESH_ADMIN_URL.
package command
