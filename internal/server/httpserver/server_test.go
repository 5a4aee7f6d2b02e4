package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestServer_ServeAndShutdown(t *testing.T) {
	s := New("127.0.0.1:0", okHandler)
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	errChan := make(chan error, 1)
	go func() { errChan <- s.Serve() }()

	resp, err := http.Get("http://" + s.Addr() + "/")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown error: %v", err)
	}

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("Serve returned unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("timeout waiting for Serve to return")
	}
}

func TestDefaultRouterConfig(t *testing.T) {
	cfg := DefaultRouterConfig()
	if cfg.WebSocketPath != "/ws" {
		t.Errorf("WebSocketPath = %q", cfg.WebSocketPath)
	}
	if cfg.RateLimit <= 0 {
		t.Error("RateLimit should be positive")
	}
	if len(cfg.AllowList) == 0 {
		t.Error("AllowList should default to loopback")
	}
}

func TestNewRouter(t *testing.T) {
	cfg := DefaultRouterConfig()
	cfg.Logger = testLogger(t)
	cfg.Metrics = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "screenmesh_cluster_screens 1\n")
	})
	healthy := true
	cfg.Health = func() (bool, map[string]any) {
		return healthy, map[string]any{"state": "connected"}
	}
	router := NewRouter(cfg)

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", path, nil)
		req.RemoteAddr = "127.0.0.1:40000"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("healthz", func(t *testing.T) {
		rec := get("/healthz")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body["status"] != "healthy" || body["state"] != "connected" {
			t.Errorf("body = %v", body)
		}
	})

	t.Run("healthz unhealthy", func(t *testing.T) {
		healthy = false
		defer func() { healthy = true }()
		if rec := get("/healthz"); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		rec := get("/metrics")
		if rec.Code != http.StatusOK || rec.Body.String() != "screenmesh_cluster_screens 1\n" {
			t.Errorf("metrics = %d %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("non-loopback denied", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/healthz", nil)
		req.RemoteAddr = "192.168.0.9:40000"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("unknown path", func(t *testing.T) {
		if rec := get("/unknown"); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}
