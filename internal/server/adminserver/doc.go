// Package adminserver provides the local admin channel for ScreenMesh.
//
// The admin channel is a WebSocket endpoint speaking the peer message
// vocabulary as JSON text frames. Requests are queued to the hub as
// hub.AdminRequest values; the hub answers through the request's Reply
// and pushes topology snapshots to every client through Publish.
//
// Each client gets a ULID identifier, a token bucket limiting inbound
// frames and a bounded outbox drained by its own writer goroutine, so
// a slow UI never blocks the hub.
//
// The channel is trusted: it is bound to loopback by default and
// guarded by the listener's network ACL.
package adminserver
