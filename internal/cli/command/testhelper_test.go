package command

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
	"github.com/yndnr/screenmesh-go/internal/hub"
	"github.com/yndnr/screenmesh-go/internal/protocol"
	"github.com/yndnr/screenmesh-go/internal/server/adminserver"
	"github.com/yndnr/screenmesh-go/internal/telemetry/logger"
)

var (
	left = domain.Screen{
		ID:     "left",
		Route:  "10.0.0.1:24800",
		Extent: domain.Size{Width: 1920, Height: 1080},
	}
	right = domain.Screen{
		ID:     "right",
		Route:  "10.0.0.2:24800",
		Origin: domain.Point{X: 1920},
		Extent: domain.Size{Width: 1280, Height: 1024},
	}
)

func quietLogger(t *testing.T) logger.Logger {
	t.Helper()
	l, err := logger.New(logger.Config{Level: "error", Output: io.Discard})
	if err != nil {
		t.Fatal(err)
	}
	return l
}

// fakeNode answers admin requests like a hub holding a fixed topology.
type fakeNode struct {
	mu      sync.Mutex
	screens []domain.Screen
	focused domain.ScreenID
}

func (f *fakeNode) Submit(_ context.Context, req hub.AdminRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch req.Message.Kind {
	case protocol.KindRequestCluster:
	case protocol.KindScreens:
		f.screens = req.Message.Screens
	default:
		return req.Reply(protocol.Error(domain.ErrUnexpectedMessage.WithDetails(string(req.Message.Kind))))
	}
	return req.Reply(protocol.Cluster(protocol.Snapshot{Screens: f.screens, Focused: f.focused}))
}

func (f *fakeNode) Screens() []domain.Screen {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Screen(nil), f.screens...)
}

// startAdmin serves f on a test listener and returns the admin URL.
func startAdmin(t *testing.T, f *fakeNode) string {
	t.Helper()
	cfg := adminserver.DefaultConfig()
	cfg.Logger = quietLogger(t)
	s := adminserver.New(f, cfg)
	ts := httptest.NewServer(s)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
		ts.Close()
	})
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

// runApp runs the CLI with args and returns what it printed.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runAppContext(t, context.Background(), args...)
}

func runAppContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.RunContext(ctx, append([]string{"screenmesh"}, args...))
	return out.String(), err
}
