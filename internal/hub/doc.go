// Package hub implements the ScreenMesh protocol engine.
//
// A Hub is a single-goroutine reactor. Run selects over the host and
// network readiness channels, a one-shot announce trigger, the admin
// request queue and the departure queue. Only the reactor goroutine
// touches the Cluster and the connection state; adapter goroutines
// signal readiness or enqueue values.
//
// Connection state advances connecting → waiting → connected and falls
// back to waiting when a focus broadcast fails.
package hub
