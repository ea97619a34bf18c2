package layout

import (
	"errors"
	"fmt"

	"github.com/bnema/termdeck/internal/domain/entity"
)

// ErrInvalidSnapshot is returned by FromSnapshot for malformed trees.
var ErrInvalidSnapshot = errors.New("invalid layout snapshot")

// Describer fills in the per-pane part of a snapshot.
type Describer func(id entity.PaneID) *entity.PaneSnapshot

// Snapshot serializes the tree structure. describe may be nil, in which case
// leaves only carry their ids.
func (t *Tree) Snapshot(describe Describer) *entity.LayoutNodeSnapshot {
	if t.root == nilRef {
		return nil
	}
	return t.snapshotNode(t.root, describe)
}

func (t *Tree) snapshotNode(ref nodeRef, describe Describer) *entity.LayoutNodeSnapshot {
	n := t.nodes[ref]
	if n.kind == kindLeaf {
		var ps *entity.PaneSnapshot
		if describe != nil {
			ps = describe(n.pane)
		}
		if ps == nil {
			ps = &entity.PaneSnapshot{}
		}
		ps.ID = n.pane
		return &entity.LayoutNodeSnapshot{Pane: ps}
	}
	return &entity.LayoutNodeSnapshot{
		Direction: n.dir.String(),
		Ratio:     n.ratio,
		First:     t.snapshotNode(n.first, describe),
		Second:    t.snapshotNode(n.second, describe),
	}
}

// FromSnapshot rebuilds a tree with the pane ids and ratios of root.
// New ids minted afterwards start above the largest restored id.
func FromSnapshot(root *entity.LayoutNodeSnapshot, opts Options) (*Tree, error) {
	t := New(opts)
	if root == nil {
		return t, nil
	}

	seen := make(map[entity.PaneID]bool)
	ref, err := t.restoreNode(root, seen)
	if err != nil {
		return nil, err
	}
	t.root = ref

	var maxID entity.PaneID
	for id := range seen {
		maxID = max(maxID, id)
	}
	t.nextID = maxID + 1
	return t, nil
}

func (t *Tree) restoreNode(s *entity.LayoutNodeSnapshot, seen map[entity.PaneID]bool) (nodeRef, error) {
	if s == nil {
		return nilRef, fmt.Errorf("%w: missing child", ErrInvalidSnapshot)
	}
	if s.Pane != nil {
		if s.First != nil || s.Second != nil {
			return nilRef, fmt.Errorf("%w: leaf %d has children", ErrInvalidSnapshot, s.Pane.ID)
		}
		id := s.Pane.ID
		if !id.Valid() {
			return nilRef, fmt.Errorf("%w: leaf without id", ErrInvalidSnapshot)
		}
		if seen[id] {
			return nilRef, fmt.Errorf("%w: duplicate pane %d", ErrInvalidSnapshot, id)
		}
		seen[id] = true
		return t.alloc(node{kind: kindLeaf, pane: id}), nil
	}

	dir, ok := entity.ParseSplitDirection(s.Direction)
	if !ok {
		return nilRef, fmt.Errorf("%w: unknown direction %q", ErrInvalidSnapshot, s.Direction)
	}
	first, err := t.restoreNode(s.First, seen)
	if err != nil {
		return nilRef, err
	}
	second, err := t.restoreNode(s.Second, seen)
	if err != nil {
		return nilRef, err
	}
	return t.alloc(node{
		kind:   kindSplit,
		dir:    dir,
		ratio:  t.clamp(s.Ratio),
		first:  first,
		second: second,
	}), nil
}
