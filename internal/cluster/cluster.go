package cluster

import (
	"encoding/binary"
	"fmt"

	"github.com/spaolacci/murmur3"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
	"github.com/yndnr/screenmesh-go/internal/protocol"
)

// GeometryReader reads the local screen geometry.
type GeometryReader interface {
	Geometry() (domain.Geometry, error)
}

// CursorControl is the part of the host adapter the cluster drives when
// input ownership changes.
type CursorControl interface {
	GeometryReader

	// Suppress hides and exclusively grabs the local pointer.
	Suppress() error

	// Restore returns the local pointer to normal behavior.
	Restore() error
}

// Cluster is the known set of screens plus the input owner.
type Cluster struct {
	local   domain.ScreenID
	order   []domain.ScreenID
	screens map[domain.ScreenID]domain.Screen
	focused domain.ScreenID

	// cursor is the live pointer position in virtual desktop coordinates.
	cursor domain.Point
	// last is the last pointer position reported by the local host,
	// relative to the local screen.
	last domain.Point
}

// New creates a cluster containing only the local screen, which owns
// input. cursor is the local pointer position read from the host.
func New(local domain.Screen, cursor domain.Point) (*Cluster, error) {
	if err := local.Validate(); err != nil {
		return nil, fmt.Errorf("local screen: %w", err)
	}
	return &Cluster{
		local:   local.ID,
		order:   []domain.ScreenID{local.ID},
		screens: map[domain.ScreenID]domain.Screen{local.ID: local},
		focused: local.ID,
		cursor:  local.Origin.Add(cursor),
		last:    cursor,
	}, nil
}

// LocalID returns the id of this node's screen.
func (c *Cluster) LocalID() domain.ScreenID {
	return c.local
}

// LocalScreen returns this node's screen.
func (c *Cluster) LocalScreen() domain.Screen {
	return c.screens[c.local]
}

// Len returns the number of known screens.
func (c *Cluster) Len() int {
	return len(c.order)
}

// Screen returns the screen with the given id.
func (c *Cluster) Screen(id domain.ScreenID) (domain.Screen, bool) {
	s, ok := c.screens[id]
	return s, ok
}

// Screens returns the known screens in discovery order.
func (c *Cluster) Screens() []domain.Screen {
	out := make([]domain.Screen, len(c.order))
	for i, id := range c.order {
		out[i] = c.screens[id]
	}
	return out
}

// Focused returns the id of the screen that owns input, if any.
func (c *Cluster) Focused() (domain.ScreenID, bool) {
	return c.focused, c.focused != ""
}

// IsLocalFocused reports whether this node's screen owns input.
func (c *Cluster) IsLocalFocused() bool {
	return c.focused == c.local
}

// FocusedScreen returns the screen that owns input.
//
// It panics when no screen is focused: callers only route focused
// messages after a handoff has named an owner, so reaching this with no
// owner is a bug in the caller.
func (c *Cluster) FocusedScreen() domain.Screen {
	s, ok := c.screens[c.focused]
	if c.focused == "" || !ok {
		panic(domain.ErrNoFocus)
	}
	return s
}

// Cursor returns the live pointer position in virtual desktop coordinates.
func (c *Cluster) Cursor() domain.Point {
	return c.cursor
}

// PeerRoutes returns the distinct routes of every screen except the
// local one, in discovery order.
func (c *Cluster) PeerRoutes() []string {
	seen := make(map[string]struct{}, len(c.order))
	routes := make([]string, 0, len(c.order))
	self := c.screens[c.local].Route
	for _, id := range c.order {
		r := c.screens[id].Route
		if id == c.local || r == self {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		routes = append(routes, r)
	}
	return routes
}

// Snapshot returns a copy of the cluster in wire form.
func (c *Cluster) Snapshot() protocol.Snapshot {
	return protocol.Snapshot{
		Screens: c.Screens(),
		Focused: c.focused,
	}
}

// LocalSnapshot returns a snapshot holding only the local screen, as
// announced in the initial connect.
func (c *Cluster) LocalSnapshot() protocol.Snapshot {
	return protocol.Snapshot{Screens: []domain.Screen{c.LocalScreen()}}
}

// Fingerprint hashes the topology (screens in order and focus).
// Equal topologies always produce equal fingerprints.
func (c *Cluster) Fingerprint() uint64 {
	buf := make([]byte, 0, 64*len(c.order))
	var num [8]byte
	putInt := func(v int) {
		binary.BigEndian.PutUint64(num[:], uint64(int64(v)))
		buf = append(buf, num[:]...)
	}
	for _, id := range c.order {
		s := c.screens[id]
		buf = append(buf, s.ID...)
		buf = append(buf, 0)
		buf = append(buf, s.Route...)
		buf = append(buf, 0)
		putInt(s.Origin.X)
		putInt(s.Origin.Y)
		putInt(s.Extent.Width)
		putInt(s.Extent.Height)
	}
	buf = append(buf, c.focused...)
	return murmur3.Sum64(buf)
}

// Merge unions remote into the cluster. Screens already known keep
// their local description; new screens are appended with the geometry
// the sender declared. Focus is left untouched.
func (c *Cluster) Merge(remote protocol.Snapshot) {
	for _, s := range remote.Screens {
		if _, known := c.screens[s.ID]; known {
			continue
		}
		c.screens[s.ID] = s
		c.order = append(c.order, s.ID)
	}
}

// Replace merges remote and then rebuilds the local entry from a fresh
// host read, so a foreign description of this node is never trusted.
func (c *Cluster) Replace(host GeometryReader, remote protocol.Snapshot) error {
	c.Merge(remote)

	g, err := host.Geometry()
	if err != nil {
		return domain.ErrHostGeometry.WithCause(err)
	}
	self := c.screens[c.local]
	self.Extent = g.Size
	c.screens[c.local] = self
	return nil
}

// SetScreens replaces the screen set wholesale. Focus survives only if
// the focused screen is still listed. The local screen is always kept:
// if the list omits it, the current local entry is appended.
//
// It returns the previous focus owner when focus was dropped.
func (c *Cluster) SetScreens(screens []domain.Screen) (dropped domain.ScreenID, ok bool) {
	self := c.screens[c.local]

	c.order = make([]domain.ScreenID, 0, len(screens)+1)
	c.screens = make(map[domain.ScreenID]domain.Screen, len(screens)+1)
	for _, s := range screens {
		if _, dup := c.screens[s.ID]; dup {
			continue
		}
		c.screens[s.ID] = s
		c.order = append(c.order, s.ID)
	}
	if _, present := c.screens[c.local]; !present {
		c.screens[c.local] = self
		c.order = append(c.order, c.local)
	}

	if _, present := c.screens[c.focused]; c.focused != "" && !present {
		dropped = c.focused
		c.focused = ""
		return dropped, true
	}
	return "", false
}

// Remove drops a departed screen. The local screen cannot be removed.
// It reports whether the removed screen owned input; in that case
// focus is cleared and the caller is expected to refocus.
func (c *Cluster) Remove(id domain.ScreenID) (wasFocused bool, err error) {
	if id == c.local {
		return false, domain.ErrLocalScreenRemoval.WithDetails(string(id))
	}
	if _, ok := c.screens[id]; !ok {
		return false, domain.ErrUnknownScreen.WithDetails(string(id))
	}
	delete(c.screens, id)
	for i, o := range c.order {
		if o == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if c.focused == id {
		c.focused = ""
		return true, nil
	}
	return false, nil
}

// Refocus hands input ownership to id. When id is another screen the
// local pointer is suppressed so the local device cannot drive input
// while a peer is in control; when id is the local screen the pointer
// is restored at the live cursor position.
func (c *Cluster) Refocus(host CursorControl, id domain.ScreenID) error {
	target, ok := c.screens[id]
	if !ok {
		return domain.ErrUnknownScreen.WithDetails(string(id))
	}
	c.focused = id

	if id != c.local {
		if err := host.Suppress(); err != nil {
			return domain.ErrHostCursor.WithCause(err)
		}
		g, err := host.Geometry()
		if err != nil {
			return domain.ErrHostGeometry.WithCause(err)
		}
		c.last = g.Cursor
		if !target.Bounds().Contains(c.cursor) {
			c.cursor = target.Bounds().Clamp(c.cursor)
		}
		return nil
	}

	if err := host.Restore(); err != nil {
		return domain.ErrHostCursor.WithCause(err)
	}
	g, err := host.Geometry()
	if err != nil {
		return domain.ErrHostGeometry.WithCause(err)
	}
	c.last = g.Cursor
	c.cursor = target.Origin.Add(g.Cursor)
	return nil
}
