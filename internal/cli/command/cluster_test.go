package command

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
	"github.com/yndnr/screenmesh-go/internal/protocol"
)

func TestClusterView_Table(t *testing.T) {
	v := newClusterView(protocol.Snapshot{Screens: []domain.Screen{left, right}, Focused: "right"})

	tests := []struct {
		name    string
		wide    bool
		headers []string
		row     []string
	}{
		{"narrow", false, []string{"ID", "ORIGIN", "SIZE", "FOCUS"}, []string{"right", "1920,0", "1280x1024", "*"}},
		{"wide", true, []string{"ID", "ORIGIN", "SIZE", "FOCUS", "ROUTE"}, []string{"right", "1920,0", "1280x1024", "*", "10.0.0.2:24800"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := v.Table(tt.wide)
			if strings.Join(tbl.Headers, "|") != strings.Join(tt.headers, "|") {
				t.Errorf("Headers = %v, want %v", tbl.Headers, tt.headers)
			}
			if len(tbl.Rows) != 2 {
				t.Fatalf("got %d rows, want 2", len(tbl.Rows))
			}
			if got := strings.Join(tbl.Rows[1], "|"); got != strings.Join(tt.row, "|") {
				t.Errorf("row = %v, want %v", tbl.Rows[1], tt.row)
			}
			if tbl.Rows[0][3] != "" {
				t.Errorf("unfocused screen marked %q", tbl.Rows[0][3])
			}
		})
	}
}

func TestClusterCommand(t *testing.T) {
	url := startAdmin(t, &fakeNode{screens: []domain.Screen{left, right}, focused: "left"})

	t.Run("table", func(t *testing.T) {
		out, err := runApp(t, "--admin", url, "cluster")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		for _, want := range []string{"ID", "left", "right", "1920x1080"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		out, err := runApp(t, "--admin", url, "-o", "json", "cluster")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		var v clusterView
		if err := json.Unmarshal([]byte(out), &v); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, out)
		}
		if v.Focused != "left" || len(v.Screens) != 2 || !v.Screens[0].Focused {
			t.Errorf("decoded %+v", v)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := runApp(t, "--admin", url, "-o", "yaml", "cluster")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		var v clusterView
		if err := yaml.Unmarshal([]byte(out), &v); err != nil {
			t.Fatalf("output is not YAML: %v\n%s", err, out)
		}
		if v.Screens[1].Origin.X != 1920 || v.Screens[1].Extent.Height != 1024 {
			t.Errorf("decoded %+v", v.Screens[1])
		}
	})
}

func TestClusterCommand_Unavailable(t *testing.T) {
	_, err := runApp(t, "--admin", "ws://127.0.0.1:1/ws", "--timeout", "1s", "cluster")
	if !domain.IsDomainError(err, "SM-ADMIN-5030") {
		t.Fatalf("Run() error = %v, want SM-ADMIN-5030", err)
	}
}

func TestClusterCommand_WatchJSONLines(t *testing.T) {
	url := startAdmin(t, &fakeNode{screens: []domain.Screen{left, right}, focused: "right"})

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	out, err := runAppContext(t, ctx, "--admin", url, "-o", "json", "cluster", "--watch")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want one snapshot per line:\n%s", len(lines), out)
	}
	var v clusterView
	if err := json.Unmarshal([]byte(lines[0]), &v); err != nil {
		t.Fatalf("line is not JSON: %v\n%s", err, lines[0])
	}
	if v.Focused != "right" || len(v.Screens) != 2 {
		t.Errorf("decoded %+v", v)
	}
}
