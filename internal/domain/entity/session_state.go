package entity

import "time"

// WorkspaceStateVersion is the current schema version for workspace state.
// Increment when making breaking changes to the serialization format.
const WorkspaceStateVersion = 1

// WorkspaceState represents a complete snapshot of a workspace window.
// This is serialized to JSON and stored in the database.
type WorkspaceState struct {
	Version     int                 `json:"version" yaml:"version"`
	ID          string              `json:"id" yaml:"id"`
	Root        *LayoutNodeSnapshot `json:"root,omitempty" yaml:"root,omitempty"`
	Focused     PaneID              `json:"focused" yaml:"focused"`
	BrowserRoot string              `json:"browser_root,omitempty" yaml:"browser_root,omitempty"`
	Expanded    []string            `json:"expanded,omitempty" yaml:"expanded,omitempty"`
	PanelPane   PaneID              `json:"panel_pane,omitempty" yaml:"panel_pane,omitempty"`
	SavedAt     time.Time           `json:"saved_at" yaml:"saved_at"`
}

// LayoutNodeSnapshot captures a node in the layout tree.
// Exactly one of Pane or (First, Second) is set.
type LayoutNodeSnapshot struct {
	Pane      *PaneSnapshot       `json:"pane,omitempty" yaml:"pane,omitempty"`
	Direction string              `json:"direction,omitempty" yaml:"direction,omitempty"`
	Ratio     float64             `json:"ratio,omitempty" yaml:"ratio,omitempty"`
	First     *LayoutNodeSnapshot `json:"first,omitempty" yaml:"first,omitempty"`
	Second    *LayoutNodeSnapshot `json:"second,omitempty" yaml:"second,omitempty"`
}

// PaneSnapshot captures the essential state of a pane.
type PaneSnapshot struct {
	ID   PaneID `json:"id" yaml:"id"`
	Kind string `json:"kind" yaml:"kind"`
	Cwd  string `json:"cwd,omitempty" yaml:"cwd,omitempty"`
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// IsLeaf returns true if this node holds a pane.
func (n *LayoutNodeSnapshot) IsLeaf() bool {
	return n != nil && n.Pane != nil
}

// Walk visits every node depth-first, first child before second.
func (n *LayoutNodeSnapshot) Walk(fn func(*LayoutNodeSnapshot)) {
	if n == nil {
		return
	}
	fn(n)
	n.First.Walk(fn)
	n.Second.Walk(fn)
}

// Panes returns the pane snapshots in document order.
func (n *LayoutNodeSnapshot) Panes() []*PaneSnapshot {
	var panes []*PaneSnapshot
	n.Walk(func(node *LayoutNodeSnapshot) {
		if node.Pane != nil {
			panes = append(panes, node.Pane)
		}
	})
	return panes
}

// CountPanes returns the number of leaves in the snapshot.
func (s *WorkspaceState) CountPanes() int {
	if s == nil || s.Root == nil {
		return 0
	}
	return len(s.Root.Panes())
}

// FindPane returns the snapshot of the pane with the given id.
func (s *WorkspaceState) FindPane(id PaneID) *PaneSnapshot {
	if s == nil {
		return nil
	}
	for _, p := range s.Root.Panes() {
		if p.ID == id {
			return p
		}
	}
	return nil
}
