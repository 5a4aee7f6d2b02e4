// Package metric provides Prometheus metrics for ScreenMesh.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry and HTTP handler
//   - collector.go: Custom collector exporting the hub's topology state
//
// Metrics include:
//
//   - Connection state and screen count gauges
//   - Message counters by kind and direction
//   - Send failure counters by path (unicast, broadcast)
//   - Focus handoff and injection counters
//
// Metrics are exposed at /metrics on the admin listener.
package metric
