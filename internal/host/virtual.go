package host

import (
	"sync"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
)

// Virtual is an in-memory host adapter.
type Virtual struct {
	events *queue

	mu       sync.Mutex
	size     domain.Size
	cursor   domain.Point
	visible  bool
	injected []domain.HostEvent
	err      error
}

// NewVirtual creates a visible virtual host of the given size with the
// pointer at cursor.
func NewVirtual(size domain.Size, cursor domain.Point) *Virtual {
	return &Virtual{
		events:  newQueue(),
		size:    size,
		cursor:  cursor,
		visible: true,
	}
}

// Geometry implements hub.Host.
func (v *Virtual) Geometry() (domain.Geometry, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.err != nil {
		return domain.Geometry{}, v.err
	}
	return domain.Geometry{Size: v.size, Cursor: v.cursor}, nil
}

// Ready implements hub.Host.
func (v *Virtual) Ready() <-chan struct{} {
	return v.events.ready
}

// Next implements hub.Host.
func (v *Virtual) Next() (domain.HostEvent, bool) {
	return v.events.next()
}

// Inject implements hub.Host. Motion moves the virtual pointer.
func (v *Virtual) Inject(ev domain.HostEvent) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.err != nil {
		return v.err
	}
	if ev.Type == domain.EventMotion {
		v.cursor = domain.Rect{Size: v.size}.Clamp(ev.Position)
	}
	v.injected = append(v.injected, ev)
	return nil
}

// Suppress implements hub.Host.
func (v *Virtual) Suppress() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.err != nil {
		return v.err
	}
	v.visible = false
	return nil
}

// Restore implements hub.Host.
func (v *Virtual) Restore() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.err != nil {
		return v.err
	}
	v.visible = true
	return nil
}

// Push queues captured events, as if the user produced them.
func (v *Virtual) Push(evs ...domain.HostEvent) {
	v.events.push(evs...)
}

// Move moves the pointer to p and queues the matching motion event.
func (v *Virtual) Move(p domain.Point) {
	v.mu.Lock()
	v.cursor = p
	v.mu.Unlock()
	v.events.push(domain.MotionEvent(p))
}

// Pending returns the number of captured events not yet consumed.
func (v *Virtual) Pending() int {
	return v.events.len()
}

// Injected returns a copy of the injected events.
func (v *Virtual) Injected() []domain.HostEvent {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.HostEvent(nil), v.injected...)
}

// Visible reports whether the pointer is shown.
func (v *Virtual) Visible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible
}

// Cursor returns the pointer position.
func (v *Virtual) Cursor() domain.Point {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cursor
}

// Fail makes every subsequent adapter call return err. A nil err
// clears the failure.
func (v *Virtual) Fail(err error) {
	v.mu.Lock()
	v.err = err
	v.mu.Unlock()
}
