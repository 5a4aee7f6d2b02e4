// Package httpserver provides the admin HTTP listener for ScreenMesh.
//
// The listener serves three endpoints using stdlib net/http:
//
//   - /ws: the admin WebSocket channel
//   - /metrics: Prometheus exposition
//   - /healthz: hub connection state as JSON
//
// Middleware: RequestID, Recover, AccessLog, NetworkACL, RateLimit.
package httpserver
