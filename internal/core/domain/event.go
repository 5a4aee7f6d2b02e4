// Package domain defines the core domain models for ScreenMesh.
package domain

import "fmt"

// HostEventType enumerates the kinds of local input events.
type HostEventType uint8

const (
	// EventMotion reports an absolute pointer position on the local screen.
	EventMotion HostEventType = iota + 1
	// EventButtonPress reports a pointer button going down.
	EventButtonPress
	// EventButtonRelease reports a pointer button going up.
	EventButtonRelease
	// EventKeyPress reports a key going down.
	EventKeyPress
	// EventKeyRelease reports a key going up.
	EventKeyRelease
	// EventFocusChanged reports that OS window focus moved.
	EventFocusChanged
	// EventPoll is a platform-generic wake-up; the pointer position must
	// be re-read from the host.
	EventPoll
)

var hostEventNames = map[HostEventType]string{
	EventMotion:        "motion",
	EventButtonPress:   "button_press",
	EventButtonRelease: "button_release",
	EventKeyPress:      "key_press",
	EventKeyRelease:    "key_release",
	EventFocusChanged:  "focus_changed",
	EventPoll:          "poll",
}

// String implements fmt.Stringer.
func (t HostEventType) String() string {
	if name, ok := hostEventNames[t]; ok {
		return name
	}
	return fmt.Sprintf("host_event(%d)", uint8(t))
}

// HostEvent is an input event captured from or injected into the host.
type HostEvent struct {
	Type HostEventType

	// Position is set for EventMotion, relative to the local screen.
	Position Point

	// Button is set for button events ("left", "middle", "right", ...).
	Button string

	// Key is set for key events, using the host key naming.
	Key string
}

// MotionEvent returns a motion event to p.
func MotionEvent(p Point) HostEvent {
	return HostEvent{Type: EventMotion, Position: p}
}

// ButtonEvent returns a press or release event for button.
func ButtonEvent(button string, pressed bool) HostEvent {
	if pressed {
		return HostEvent{Type: EventButtonPress, Button: button}
	}
	return HostEvent{Type: EventButtonRelease, Button: button}
}

// KeyEvent returns a press or release event for key.
func KeyEvent(key string, pressed bool) HostEvent {
	if pressed {
		return HostEvent{Type: EventKeyPress, Key: key}
	}
	return HostEvent{Type: EventKeyRelease, Key: key}
}
