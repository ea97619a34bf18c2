// Package entity defines domain entities for the workspace.
package entity

// Size is a window or pane extent in host units (pixels or cells).
type Size struct {
	W, H int
}

// Empty reports whether the size has no area.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Point is a pointer position in host units.
type Point struct {
	X, Y int
}

// PaneRect represents a pane's screen position and size.
// Rectangles are half-open: they cover [X, X+W) x [Y, Y+H).
type PaneRect struct {
	PaneID PaneID
	X, Y   int // Top-left position relative to the window
	W, H   int // Width and height
}

// Center returns the center point of the rectangle.
func (r PaneRect) Center() (cx, cy int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Contains reports whether p lies inside the rectangle.
func (r PaneRect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Area returns W*H.
func (r PaneRect) Area() int {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Right returns the exclusive right edge.
func (r PaneRect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r PaneRect) Bottom() int { return r.Y + r.H }

// Intersects reports whether two rectangles share any area.
func (r PaneRect) Intersects(o PaneRect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// SameBounds reports whether two rectangles cover the same area regardless of pane.
func (r PaneRect) SameBounds(o PaneRect) bool {
	return r.X == o.X && r.Y == o.Y && r.W == o.W && r.H == o.H
}

// FindRect returns the rectangle for id in rects.
func FindRect(rects []PaneRect, id PaneID) (PaneRect, bool) {
	for _, r := range rects {
		if r.PaneID == id {
			return r, true
		}
	}
	return PaneRect{}, false
}
