// Package cluster holds the topology of a ScreenMesh virtual desktop.
//
// A Cluster is the set of known screens, in discovery order, plus the
// screen that currently owns input. It implements the topology
// algorithms used by the hub:
//
//   - Merge / Replace: converge with a peer's view without ever letting
//     the peer override what this node already believes
//   - SetScreens: administrative wholesale replacement
//   - Refocus: hand input ownership to a screen and suppress or restore
//     the local pointer accordingly
//   - ProcessHostEvent / ProcessNetEvent: translate between local input
//     and protocol messages, detecting edge crossings
//
// A Cluster is not safe for concurrent use. The hub's reactor goroutine
// is its only writer.
package cluster
