//go:build robotgo

package host

import (
	"context"
	"sync"
	"time"

	"github.com/go-vgo/robotgo"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
	"github.com/yndnr/screenmesh-go/internal/telemetry/logger"
)

// Robot drives the real pointer and keyboard. Capture polls the
// pointer position, so only pointer movement is captured; the pointer
// resting on a display edge is how focus leaves this screen.
type Robot struct {
	interval time.Duration
	events   *queue
	log      logger.Logger

	mu sync.Mutex
	// parked is set while a peer owns input. The pointer is held at
	// centre and virtual accumulates its movement.
	parked  bool
	centre  domain.Point
	saved   domain.Point
	virtual domain.Point
	last    domain.Point
}

// NewRobot creates a robotgo adapter polling every interval.
func NewRobot(interval time.Duration, log logger.Logger) *Robot {
	if log == nil {
		log = logger.Default()
	}
	x, y := robotgo.GetMousePos()
	p := domain.Point{X: x, Y: y}
	return &Robot{
		interval: interval,
		events:   newQueue(),
		log:      log.With("component", "host"),
		last:     p,
		virtual:  p,
	}
}

// Start polls the pointer until ctx is done.
func (r *Robot) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.poll()
			}
		}
	}()
}

func (r *Robot) poll() {
	x, y := robotgo.GetMousePos()
	p := domain.Point{X: x, Y: y}

	r.mu.Lock()
	moved := p != r.last
	if r.parked && p != r.centre {
		r.virtual = r.virtual.Add(p.Sub(r.centre))
		robotgo.Move(r.centre.X, r.centre.Y)
		p = r.centre
		moved = true
	} else if !r.parked {
		r.virtual = p
	}
	r.last = p
	r.mu.Unlock()

	if moved {
		r.events.push(domain.HostEvent{Type: domain.EventPoll})
	}
}

// Geometry implements hub.Host. While parked the cursor is the
// accumulated virtual position.
func (r *Robot) Geometry() (domain.Geometry, error) {
	w, h := robotgo.GetScreenSize()
	if w <= 0 || h <= 0 {
		return domain.Geometry{}, domain.ErrHostGeometry.WithDetails("screen size unavailable")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cursor := r.virtual
	if !r.parked {
		x, y := robotgo.GetMousePos()
		cursor = domain.Point{X: x, Y: y}
	}
	return domain.Geometry{
		Size:   domain.Size{Width: w, Height: h},
		Cursor: cursor,
	}, nil
}

// Ready implements hub.Host.
func (r *Robot) Ready() <-chan struct{} {
	return r.events.ready
}

// Next implements hub.Host.
func (r *Robot) Next() (domain.HostEvent, bool) {
	return r.events.next()
}

// Inject implements hub.Host.
func (r *Robot) Inject(ev domain.HostEvent) error {
	switch ev.Type {
	case domain.EventMotion:
		robotgo.Move(ev.Position.X, ev.Position.Y)
		r.mu.Lock()
		r.last = ev.Position
		r.virtual = ev.Position
		r.mu.Unlock()
		return nil
	case domain.EventButtonPress, domain.EventButtonRelease:
		return robotgo.Toggle(ev.Button, direction(ev.Type == domain.EventButtonPress))
	case domain.EventKeyPress, domain.EventKeyRelease:
		return robotgo.KeyToggle(ev.Key, direction(ev.Type == domain.EventKeyPress))
	}
	r.log.Debug("ignoring injected event", "type", ev.Type)
	return nil
}

func direction(down bool) string {
	if down {
		return "down"
	}
	return "up"
}

// Suppress implements hub.Host by parking the pointer at screen centre.
func (r *Robot) Suppress() error {
	w, h := robotgo.GetScreenSize()
	x, y := robotgo.GetMousePos()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.parked {
		return nil
	}
	r.parked = true
	r.saved = domain.Point{X: x, Y: y}
	r.virtual = r.saved
	r.centre = domain.Point{X: w / 2, Y: h / 2}
	r.last = r.centre
	robotgo.Move(r.centre.X, r.centre.Y)
	return nil
}

// Restore implements hub.Host by warping the pointer back to where it
// was parked from, one pixel inside the display so the edge it left by
// does not hand focus straight back.
func (r *Robot) Restore() error {
	w, h := robotgo.GetScreenSize()

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.parked {
		return nil
	}
	r.parked = false
	p := domain.Rect{Size: domain.Size{Width: w, Height: h}}.Inset(1).Clamp(r.saved)
	robotgo.Move(p.X, p.Y)
	r.last = p
	r.virtual = p
	return nil
}
