package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	tests := []struct {
		name  string
		value string
	}{
		{"Version", info.Version},
		{"Commit", info.Commit},
		{"BuildTime", info.BuildTime},
		{"GoVersion", info.GoVersion},
		{"Platform", info.Platform},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				t.Errorf("%s field should not be empty", tt.name)
			}
		})
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
}

func TestFillFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-10-01T10:00:00Z"},
		},
	}

	t.Run("unset fields filled", func(t *testing.T) {
		info := Info{Version: "dev", Commit: "unknown", BuildTime: "unknown"}
		fillFromBuildInfo(&info, bi)
		if info.Version != "v0.3.0" || info.Commit != "abc123" || info.BuildTime != "2026-10-01T10:00:00Z" {
			t.Errorf("info = %+v", info)
		}
	})

	t.Run("ldflags win", func(t *testing.T) {
		info := Info{Version: "v1.0.0", Commit: "fff", BuildTime: "today"}
		fillFromBuildInfo(&info, bi)
		if info.Version != "v1.0.0" || info.Commit != "fff" || info.BuildTime != "today" {
			t.Errorf("info = %+v", info)
		}
	})

	t.Run("devel ignored", func(t *testing.T) {
		info := Info{Version: "dev"}
		fillFromBuildInfo(&info, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
		if info.Version != "dev" {
			t.Errorf("Version = %q", info.Version)
		}
	})
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "screenmesh ") || !strings.Contains(s, " built at ") {
		t.Errorf("String() = %q", s)
	}
}
