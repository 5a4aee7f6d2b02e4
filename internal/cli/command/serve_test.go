package command

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
	"github.com/yndnr/screenmesh-go/internal/server/adminserver"
	"github.com/yndnr/screenmesh-go/internal/server/config"
)

func testOverrides() map[string]any {
	return map[string]any{
		"net.listen_addr": "127.0.0.1:0",
		"node.route":      "127.0.0.1:24999",
		"node.id":         "desk",
		"admin.addr":      "127.0.0.1:0",
		"host.driver":     config.HostDriverVirtual,
		"log.level":       "error",
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screenmesh.yaml")
	content := `
node:
  route: 192.168.1.10:24800
net:
  peers: [" 192.168.1.11:24800", "192.168.1.11:24800"]
log:
  level: INFO
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SCREENMESH_ADMIN_ADDR", "127.0.0.1:4000")
	t.Setenv("SCREENMESH_LOG_LEVEL", "warn")

	cfg, err := loadConfig(path, map[string]any{"log.level": "debug"})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"route from file", cfg.Node.Route, "192.168.1.10:24800"},
		{"id defaults to route", cfg.Node.ID, "192.168.1.10:24800"},
		{"peers cleaned", len(cfg.Net.Peers), 1},
		{"admin from env", cfg.Admin.Addr, "127.0.0.1:4000"},
		{"flag beats env", cfg.Log.Level, "debug"},
		{"default kept", cfg.Net.ListenAddr, config.DefaultListenAddr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoadConfig_ListsFromEnv(t *testing.T) {
	t.Setenv("SCREENMESH_NET_PEERS", "10.0.0.2:24800, 10.0.0.3:24800")
	t.Setenv("SCREENMESH_GOSSIP_SEEDS", "10.0.0.2:7946,10.0.0.3:7946")
	t.Setenv("SCREENMESH_ADMIN_ALLOW_LIST", "127.0.0.1,10.0.0.0/8")

	cfg, err := loadConfig("", map[string]any{"node.route": "10.0.0.1:24800"})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"peers", cfg.Net.Peers, []string{"10.0.0.2:24800", "10.0.0.3:24800"}},
		{"seeds", cfg.Gossip.Seeds, []string{"10.0.0.2:7946", "10.0.0.3:7946"}},
		{"allow list", cfg.Admin.AllowList, []string{"127.0.0.1", "10.0.0.0/8"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
	}{
		{"no route for wildcard listen", map[string]any{}},
		{"bad driver", map[string]any{"node.route": "10.0.0.1:24800", "host.driver": "x11"}},
		{"bad peer", map[string]any{"node.route": "10.0.0.1:24800", "net.peers": []string{"nope"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig("", tt.overrides)
			if !errors.Is(err, domain.ErrInvalidConfig) {
				t.Fatalf("loadConfig() error = %v, want SM-CONF-4000", err)
			}
		})
	}
}

func startNode(t *testing.T) *node {
	t.Helper()
	cfg, err := loadConfig("", testOverrides())
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	n := newNode(cfg, "", quietLogger(t))
	if err := n.start(); err != nil {
		n.shutdown.Trigger(err)
		t.Fatalf("start() error = %v (wait: %v)", err, n.shutdown.Wait())
	}
	return n
}

func stopNode(t *testing.T, n *node) {
	t.Helper()
	n.shutdown.Trigger(nil)
	if err := n.shutdown.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}

func TestNode_AdminAndHealth(t *testing.T) {
	n := startNode(t)
	defer stopNode(t, n)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	client, err := adminserver.Dial(ctx, "ws://"+n.AdminAddr()+"/ws")
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer client.Close()

	snap, err := client.Cluster(ctx)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	if len(snap.Screens) != 1 || snap.Screens[0].ID != "desk" {
		t.Fatalf("snapshot = %+v, want the local screen only", snap)
	}
	if snap.Screens[0].Extent != (domain.Size{Width: config.DefaultHostWidth, Height: config.DefaultHostHeight}) {
		t.Errorf("extent = %+v", snap.Screens[0].Extent)
	}
	if snap.Focused != "desk" {
		t.Errorf("focused = %q, want desk", snap.Focused)
	}

	resp, err := http.Get("http://" + n.AdminAddr() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["screen"] != "desk" {
		t.Errorf("health body = %v", body)
	}
}

func TestNode_Metrics(t *testing.T) {
	n := startNode(t)
	defer stopNode(t, n)

	resp, err := http.Get("http://" + n.AdminAddr() + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestNode_StartFailureReleasesPeers(t *testing.T) {
	blocker := startNode(t)
	defer stopNode(t, blocker)

	overrides := testOverrides()
	overrides["admin.addr"] = blocker.AdminAddr()
	cfg, err := loadConfig("", overrides)
	if err != nil {
		t.Fatal(err)
	}

	n := newNode(cfg, "", quietLogger(t))
	err = n.start()
	if err == nil {
		t.Fatal("start() error = nil, want admin listen failure")
	}
	n.shutdown.Trigger(err)
	if werr := n.shutdown.Wait(); !errors.Is(werr, err) {
		t.Errorf("Wait() error = %v, want it to report %v", werr, err)
	}
	if n.peers == nil {
		t.Fatal("peer transport was not started")
	}
}
