// Package domain defines the core domain models for ScreenMesh.
package domain

import (
	"fmt"
	"strconv"
)

// ScreenID identifies a participating screen.
//
// It is the screen's advertised network address (host:port), which is
// stable for the lifetime of the process and unique within a cluster.
type ScreenID string

// String implements fmt.Stringer.
func (id ScreenID) String() string {
	return string(id)
}

// Point is a position in virtual desktop coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// String implements fmt.Stringer.
func (p Point) String() string {
	return "(" + strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y) + ")"
}

// Size is the extent of a screen in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect is a half-open rectangle [Min, Min+Size).
type Rect struct {
	Min  Point `json:"origin"`
	Size Size  `json:"extent"`
}

// Max returns the exclusive bottom-right corner.
func (r Rect) Max() Point {
	return Point{X: r.Min.X + r.Size.Width, Y: r.Min.Y + r.Size.Height}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Size.Width <= 0 || r.Size.Height <= 0
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	max := r.Max()
	return p.X >= r.Min.X && p.X < max.X && p.Y >= r.Min.Y && p.Y < max.Y
}

// Clamp returns the point of r closest to p.
func (r Rect) Clamp(p Point) Point {
	if r.Empty() {
		return r.Min
	}
	max := r.Max()
	return Point{X: clamp(p.X, r.Min.X, max.X-1), Y: clamp(p.Y, r.Min.Y, max.Y-1)}
}

// Outward returns the unit step that leaves r from p when p sits on one
// of r's border pixels. It is the zero Point for interior or outside
// points. On a corner both components are set.
func (r Rect) Outward(p Point) Point {
	if !r.Contains(p) {
		return Point{}
	}
	max := r.Max()
	var d Point
	switch {
	case p.X == r.Min.X:
		d.X = -1
	case p.X == max.X-1:
		d.X = 1
	}
	switch {
	case p.Y == r.Min.Y:
		d.Y = -1
	case p.Y == max.Y-1:
		d.Y = 1
	}
	return d
}

// Inset returns r shrunk by n pixels on every side. A dimension that
// would vanish collapses to its centre pixel.
func (r Rect) Inset(n int) Rect {
	out := Rect{
		Min:  Point{X: r.Min.X + n, Y: r.Min.Y + n},
		Size: Size{Width: r.Size.Width - 2*n, Height: r.Size.Height - 2*n},
	}
	if out.Size.Width < 1 {
		out.Min.X, out.Size.Width = r.Min.X+r.Size.Width/2, 1
	}
	if out.Size.Height < 1 {
		out.Min.Y, out.Size.Height = r.Min.Y+r.Size.Height/2, 1
	}
	return out
}

// Overlaps reports whether r and o share any area.
func (r Rect) Overlaps(o Rect) bool {
	rm, om := r.Max(), o.Max()
	return r.Min.X < om.X && o.Min.X < rm.X && r.Min.Y < om.Y && o.Min.Y < rm.Y
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Screen is a display participating in the cluster.
type Screen struct {
	// ID is the stable screen identifier.
	ID ScreenID `json:"id"`

	// Route is the network address that reaches the screen's node.
	Route string `json:"route"`

	// Origin is the top-left corner in the virtual desktop.
	Origin Point `json:"origin"`

	// Extent is the size of the screen.
	Extent Size `json:"extent"`
}

// Bounds returns the rectangle the screen covers in the virtual desktop.
func (s Screen) Bounds() Rect {
	return Rect{Min: s.Origin, Size: s.Extent}
}

// Validate checks that the screen can take part in a cluster.
func (s Screen) Validate() error {
	if s.ID == "" {
		return ErrInvalidScreen.WithDetails("empty id")
	}
	if s.Route == "" {
		return ErrInvalidScreen.WithDetails(fmt.Sprintf("screen %s has no route", s.ID))
	}
	if s.Extent.Width <= 0 || s.Extent.Height <= 0 {
		return ErrInvalidScreen.WithDetails(fmt.Sprintf("screen %s has extent %dx%d",
			s.ID, s.Extent.Width, s.Extent.Height))
	}
	return nil
}

// Geometry is a snapshot of the local display read from the host.
type Geometry struct {
	// Size is the local screen extent.
	Size Size

	// Cursor is the pointer position relative to the local screen.
	Cursor Point
}
