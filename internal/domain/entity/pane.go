// Package entity contains domain entities representing core workspace concepts.
// These entities are pure Go types with no infrastructure dependencies.
package entity

import "strconv"

// PaneID uniquely identifies a pane within the workspace.
// The zero value means "no pane".
type PaneID uint64

// NoPane is the zero PaneID.
const NoPane PaneID = 0

// Valid reports whether the id names a pane.
func (id PaneID) Valid() bool {
	return id != NoPane
}

func (id PaneID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// PaneKind identifies the content provider behind a pane.
type PaneKind int

const (
	PaneTerminal PaneKind = iota // PTY-backed terminal session
	PaneBrowser                  // Directory browser
	PaneViewer                   // Read-only file viewer
)

func (k PaneKind) String() string {
	switch k {
	case PaneTerminal:
		return "terminal"
	case PaneBrowser:
		return "browser"
	case PaneViewer:
		return "viewer"
	default:
		return "unknown"
	}
}

// ParsePaneKind converts a persisted kind name back into a PaneKind.
func ParsePaneKind(s string) (PaneKind, bool) {
	switch s {
	case "terminal":
		return PaneTerminal, true
	case "browser":
		return PaneBrowser, true
	case "viewer":
		return PaneViewer, true
	default:
		return PaneTerminal, false
	}
}

// SplitDirection indicates how a split node divides its rectangle.
type SplitDirection int

const (
	SplitHorizontal SplitDirection = iota // Horizontal divider: top/bottom children
	SplitVertical                         // Vertical divider: left/right children
)

func (d SplitDirection) String() string {
	if d == SplitVertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseSplitDirection converts a persisted direction name back into a SplitDirection.
func ParseSplitDirection(s string) (SplitDirection, bool) {
	switch s {
	case "horizontal":
		return SplitHorizontal, true
	case "vertical":
		return SplitVertical, true
	default:
		return SplitHorizontal, false
	}
}
