// Package clusterserver provides opt-in peer liveness for ScreenMesh.
//
// The datagram protocol has no notion of a peer leaving. When gossip is
// enabled each node also joins a hashicorp/memberlist pool whose node
// metadata carries the node's screen id; a node that leaves or stops answering
// health checks is reported through the OnLeave callback, which the serve
// command routes to Hub.Depart.
package clusterserver
