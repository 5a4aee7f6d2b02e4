package command

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
)

func writeScreens(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const screensYAML = `
- id: left
  route: 10.0.0.1:24800
  extent: {width: 1920, height: 1080}
- id: right
  route: 10.0.0.2:24800
  origin: {x: 1920, y: 0}
  extent: {width: 1280, height: 1024}
`

func TestReadScreens(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    []domain.Screen
		wantErr error
	}{
		{
			name:    "yaml list",
			file:    "screens.yaml",
			content: screensYAML,
			want:    []domain.Screen{left, right},
		},
		{
			name: "json list",
			file: "screens.json",
			content: `[{"id":"left","route":"10.0.0.1:24800","origin":{"x":0,"y":0},"extent":{"width":1920,"height":1080}},` +
				`{"id":"right","route":"10.0.0.2:24800","origin":{"x":1920,"y":0},"extent":{"width":1280,"height":1024}}]`,
			want: []domain.Screen{left, right},
		},
		{
			name:    "cluster output document",
			file:    "cluster.yaml",
			content: "focused: left\nscreens:\n" + indent(screensYAML),
			want:    []domain.Screen{left, right},
		},
		{
			name:    "empty",
			file:    "empty.yaml",
			content: "[]",
			wantErr: errNoScreens,
		},
		{
			name:    "zero extent",
			file:    "bad.yaml",
			content: "- id: a\n  route: r\n",
			wantErr: domain.ErrInvalidScreen,
		},
		{
			name:    "duplicate id",
			file:    "dup.yaml",
			content: "- {id: a, route: r1, extent: {width: 1, height: 1}}\n- {id: a, route: r2, extent: {width: 1, height: 1}}\n",
			wantErr: domain.ErrInvalidScreen,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readScreens(writeScreens(t, tt.file, tt.content))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("readScreens() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("readScreens() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d screens, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("screen %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func indent(s string) string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestReadScreens_MissingFile(t *testing.T) {
	if _, err := readScreens(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("readScreens() error = nil, want read error")
	}
}

func TestScreensSetCommand(t *testing.T) {
	node := &fakeNode{screens: []domain.Screen{left}, focused: "left"}
	url := startAdmin(t, node)
	path := writeScreens(t, "screens.yaml", screensYAML)

	out, err := runApp(t, "--admin", url, "screens", "set", path)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out, "right") {
		t.Errorf("output missing new screen:\n%s", out)
	}
	if got := node.Screens(); len(got) != 2 || got[1] != right {
		t.Errorf("node screens = %+v", got)
	}
}

func TestScreensSetCommand_Usage(t *testing.T) {
	if _, err := runApp(t, "screens", "set"); err == nil || !strings.Contains(err.Error(), "usage") {
		t.Fatalf("Run() error = %v, want usage error", err)
	}
}
