// Package shutdown provides graceful shutdown for ScreenMesh.
//
// A Handler collects cleanup hooks and runs them in reverse registration
// order once the process receives SIGINT or SIGTERM, or once a component
// calls Trigger after a fatal error (for example a failed host adapter).
//
// Usage:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown(server.Shutdown)
//	go func() { h.Trigger(hub.Run(h.Context())) }()
//	err := h.Wait()
package shutdown
