package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/screenmesh-go/internal/telemetry/logger"
)

// HealthFunc reports whether the node is healthy plus details to show.
type HealthFunc func() (healthy bool, details map[string]any)

// RouterConfig holds configuration for the admin router.
type RouterConfig struct {
	// WebSocket serves the admin channel at WebSocketPath.
	WebSocket     http.Handler
	WebSocketPath string

	// Metrics serves /metrics. Nil disables the endpoint.
	Metrics http.Handler

	// Health backs /healthz.
	Health HealthFunc

	Logger logger.Logger

	// AllowList is the IP/CIDR allowlist (empty = no restriction).
	AllowList []string

	// RateLimit is the per-IP request rate (requests/second, 0 = off).
	RateLimit int
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		WebSocketPath: "/ws",
		AllowList:     []string{"127.0.0.0/8", "::1"},
		RateLimit:     20,
	}
}

// NewRouter creates the admin router.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	path := cfg.WebSocketPath
	if path == "" {
		path = "/ws"
	}

	base := []Middleware{RequestID(), Recover(log)}
	if len(cfg.AllowList) > 0 {
		base = append(base, NetworkACL(&NetworkACLConfig{AllowList: cfg.AllowList, Logger: log}))
	}
	if cfg.RateLimit > 0 {
		base = append(base, RateLimit(cfg.RateLimit))
	}
	base = append(base, AccessLog(log))

	mux := http.NewServeMux()

	mux.Handle("GET /healthz", Chain(healthHandler(cfg.Health), base...))

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics, base...))
	}

	if cfg.WebSocket != nil {
		mux.Handle("GET "+path, Chain(cfg.WebSocket, base...))
	}

	return mux
}

func healthHandler(health HealthFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		healthy, details := true, map[string]any{}
		if health != nil {
			healthy, details = health()
		}
		body := map[string]any{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		}
		for k, v := range details {
			body[k] = v
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}
