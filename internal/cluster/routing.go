package cluster

import (
	"github.com/yndnr/screenmesh-go/internal/core/domain"
	"github.com/yndnr/screenmesh-go/internal/protocol"
)

// owner returns the screen whose rectangle currently bounds the cursor.
// With no focus set the local screen plays that role.
func (c *Cluster) owner() domain.Screen {
	if s, ok := c.screens[c.focused]; ok {
		return s
	}
	return c.screens[c.local]
}

// remoteFocused reports whether another screen owns input.
func (c *Cluster) remoteFocused() bool {
	return c.focused != "" && c.focused != c.local
}

// screenAt returns the first screen, in discovery order, containing p.
func (c *Cluster) screenAt(p domain.Point) (domain.Screen, bool) {
	for _, id := range c.order {
		s := c.screens[id]
		if s.Bounds().Contains(p) {
			return s, true
		}
	}
	return domain.Screen{}, false
}

// ProcessHostEvent interprets a locally captured event.
//
// Pointer motion advances the live cursor. If the cursor leaves the
// owner's rectangle and lands on another screen, the result is a global
// focus message naming that screen. While the local screen owns input,
// a border pixel facing another screen counts as leaving it. Otherwise, while a remote screen
// owns input, the event is translated into a focused message for it.
// Events that concern nobody yield ok == false.
func (c *Cluster) ProcessHostEvent(g domain.Geometry, ev domain.HostEvent) (msg protocol.Message, ok bool) {
	switch ev.Type {
	case domain.EventMotion:
		return c.motion(ev.Position)
	case domain.EventPoll:
		return c.motion(g.Cursor)
	case domain.EventButtonPress, domain.EventButtonRelease:
		if !c.remoteFocused() || ev.Button == "" {
			return protocol.Message{}, false
		}
		return protocol.Button(ev.Button, ev.Type == domain.EventButtonPress), true
	case domain.EventKeyPress, domain.EventKeyRelease:
		if !c.remoteFocused() || ev.Key == "" {
			return protocol.Message{}, false
		}
		return protocol.Key(ev.Key, ev.Type == domain.EventKeyPress), true
	}
	return protocol.Message{}, false
}

func (c *Cluster) motion(p domain.Point) (protocol.Message, bool) {
	delta := p.Sub(c.last)
	c.last = p

	if c.remoteFocused() {
		// The local pointer is parked; only its movement counts.
		c.cursor = c.cursor.Add(delta)
	} else {
		c.cursor = c.screens[c.local].Origin.Add(p)
	}

	owner := c.owner()
	if owner.Bounds().Contains(c.cursor) {
		if c.remoteFocused() {
			if delta != (domain.Point{}) {
				return protocol.Motion(delta.X, delta.Y), true
			}
			return protocol.Message{}, false
		}
		// A real pointer stops on the last pixel of its display, so
		// resting on an edge that faces another screen is a crossing.
		if beyond, next, found := c.beyondEdge(owner.Bounds(), c.cursor); found {
			c.cursor = beyond
			return protocol.Focus(next.ID), true
		}
		return protocol.Message{}, false
	}

	if next, found := c.screenAt(c.cursor); found {
		return protocol.Focus(next.ID), true
	}

	// Off every screen: pin the cursor to the owner's edge.
	c.cursor = owner.Bounds().Clamp(c.cursor)
	if c.remoteFocused() && delta != (domain.Point{}) {
		return protocol.Motion(delta.X, delta.Y), true
	}
	return protocol.Message{}, false
}

// beyondEdge returns the screen just past the border pixel p of r, if
// any. Corners try the diagonal first, then each axis.
func (c *Cluster) beyondEdge(r domain.Rect, p domain.Point) (domain.Point, domain.Screen, bool) {
	step := r.Outward(p)
	if step == (domain.Point{}) {
		return domain.Point{}, domain.Screen{}, false
	}
	for _, d := range []domain.Point{step, {X: step.X}, {Y: step.Y}} {
		if d == (domain.Point{}) {
			continue
		}
		q := p.Add(d)
		if s, found := c.screenAt(q); found {
			return q, s, true
		}
	}
	return domain.Point{}, domain.Screen{}, false
}

// ProcessNetEvent translates a focused message received from a peer
// into a host event to inject. Messages are only honored while the
// local screen owns input; anything else is dropped.
func (c *Cluster) ProcessNetEvent(msg protocol.Message) (domain.HostEvent, bool) {
	if !c.IsLocalFocused() {
		return domain.HostEvent{}, false
	}

	switch msg.Kind {
	case protocol.KindMotion:
		local := c.screens[c.local]
		rel := c.cursor.Sub(local.Origin).Add(domain.Point{X: msg.DX, Y: msg.DY})
		rel = domain.Rect{Size: local.Extent}.Clamp(rel)
		c.cursor = local.Origin.Add(rel)
		c.last = rel
		return domain.MotionEvent(rel), true
	case protocol.KindButtonPress, protocol.KindButtonRelease:
		return domain.ButtonEvent(msg.Button, msg.Kind == protocol.KindButtonPress), true
	case protocol.KindKeyPress, protocol.KindKeyRelease:
		return domain.KeyEvent(msg.Key, msg.Kind == protocol.KindKeyPress), true
	}
	return domain.HostEvent{}, false
}
