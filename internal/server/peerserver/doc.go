// Package peerserver provides the UDP transport between ScreenMesh peers.
//
// One reader goroutine decodes datagrams with the CBOR codec into an
// inbox and signals readiness. Ready stays signalled while the inbox is
// non-empty, so the hub can take one message per wake-up. Sends are
// synchronous datagram writes on the listening socket, which makes a
// node's source address equal to its advertised route.
package peerserver
