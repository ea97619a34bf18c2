// Package layout implements the binary split tree that maps a window onto panes.
//
// Nodes live in an arena and reference each other by integer handle, so
// collapsing a split on removal is a local index rewrite. The tree only knows
// pane identities; pane objects are owned elsewhere.
package layout

import (
	"fmt"

	"github.com/bnema/termdeck/internal/domain/entity"
)

const (
	DefaultMinRatio     = 0.05
	DefaultMaxRatio     = 0.95
	DefaultBorderMargin = 4
	initialSplitRatio   = 0.5
)

// AnchorMode controls whether the focused pane may move when the tree is rearranged.
type AnchorMode int

const (
	AnchorFree   AnchorMode = iota // Rearrangements may move the focused pane
	AnchorPinned                   // Remove keeps the focused pane's origin when it can
)

// Options configures a Tree.
type Options struct {
	MinRatio     float64
	MaxRatio     float64
	BorderMargin int
	Policy       Policy
	Anchor       AnchorMode
}

// DefaultOptions returns the standard clamp bounds and policies.
func DefaultOptions() Options {
	return Options{
		MinRatio:     DefaultMinRatio,
		MaxRatio:     DefaultMaxRatio,
		BorderMargin: DefaultBorderMargin,
		Policy:       StoredRatios{},
		Anchor:       AnchorFree,
	}
}

func (o Options) normalized() Options {
	if o.MinRatio <= 0 || o.MinRatio >= 0.5 {
		o.MinRatio = DefaultMinRatio
	}
	if o.MaxRatio <= o.MinRatio || o.MaxRatio >= 1 {
		o.MaxRatio = 1 - o.MinRatio
	}
	if o.BorderMargin <= 0 {
		o.BorderMargin = 1
	}
	if o.Policy == nil {
		o.Policy = StoredRatios{}
	}
	return o
}

type nodeRef int32

const nilRef nodeRef = -1

type nodeKind uint8

const (
	kindFree nodeKind = iota
	kindLeaf
	kindSplit
)

type node struct {
	kind   nodeKind
	pane   entity.PaneID
	dir    entity.SplitDirection
	ratio  float64
	first  nodeRef
	second nodeRef
}

// Tree is a binary split tree. The zero value is not usable; call New.
// Tree is not safe for concurrent use: it is mutated only from the workspace tick.
type Tree struct {
	nodes  []node
	free   []nodeRef
	root   nodeRef
	nextID entity.PaneID
	opts   Options
	focus  entity.PaneID

	last computed
	drag *activeDrag
}

// New creates an empty tree.
func New(opts Options) *Tree {
	return &Tree{
		root:   nilRef,
		nextID: 1,
		opts:   opts.normalized(),
	}
}

// Options returns the effective options.
func (t *Tree) Options() Options {
	return t.opts
}

// SetPolicy swaps the compression policy without touching stored ratios.
func (t *Tree) SetPolicy(p Policy) {
	if p == nil {
		p = StoredRatios{}
	}
	t.opts.Policy = p
}

// SetAnchorMode switches between free and pinned focus behaviour.
func (t *Tree) SetAnchorMode(m AnchorMode) {
	t.opts.Anchor = m
}

// SetFocus tells the tree which pane is focused. Policies and the pinned
// anchor mode consult it; the tree never changes focus itself.
func (t *Tree) SetFocus(id entity.PaneID) {
	t.focus = id
}

// Empty reports whether the tree holds no panes.
func (t *Tree) Empty() bool {
	return t.root == nilRef
}

// Len returns the number of leaves.
func (t *Tree) Len() int {
	return len(t.Panes())
}

// Panes returns all pane ids in document order (first child before second).
func (t *Tree) Panes() []entity.PaneID {
	var ids []entity.PaneID
	t.walk(t.root, func(ref nodeRef) {
		if t.nodes[ref].kind == kindLeaf {
			ids = append(ids, t.nodes[ref].pane)
		}
	})
	return ids
}

// Contains reports whether pane is a leaf of the tree.
func (t *Tree) Contains(pane entity.PaneID) bool {
	_, ok := t.locate(pane)
	return ok
}

// Split replaces the leaf holding pane with a split whose first child is the
// original pane and whose second child is a new pane. On an empty tree the
// new pane becomes the root leaf and pane is ignored.
func (t *Tree) Split(pane entity.PaneID, dir entity.SplitDirection) (entity.PaneID, error) {
	if t.root == nilRef {
		id := t.mint()
		t.root = t.alloc(node{kind: kindLeaf, pane: id})
		return id, nil
	}

	path, ok := t.locate(pane)
	if !ok {
		return entity.NoPane, fmt.Errorf("split pane %d: %w", pane, entity.ErrNotFound)
	}

	id := t.mint()
	leaf := path[len(path)-1]
	first := t.alloc(node{kind: kindLeaf, pane: pane})
	second := t.alloc(node{kind: kindLeaf, pane: id})
	t.nodes[leaf] = node{
		kind:   kindSplit,
		dir:    dir,
		ratio:  initialSplitRatio,
		first:  first,
		second: second,
	}
	return id, nil
}

// InsertAtRoot wraps the whole tree in a new split holding a new pane.
// When first is true the new pane is the first (top/left) child. ratio is the
// stored ratio of the new root split.
func (t *Tree) InsertAtRoot(dir entity.SplitDirection, first bool, ratio float64) entity.PaneID {
	id := t.mint()
	leaf := t.alloc(node{kind: kindLeaf, pane: id})
	if t.root == nilRef {
		t.root = leaf
		return id
	}

	split := node{kind: kindSplit, dir: dir, ratio: t.clamp(ratio)}
	if first {
		split.first, split.second = leaf, t.root
	} else {
		split.first, split.second = t.root, leaf
	}
	t.root = t.alloc(split)
	return id
}

// Remove deletes the leaf holding pane and collapses its parent split into
// the sibling subtree. Removing the only pane leaves the tree empty.
func (t *Tree) Remove(pane entity.PaneID) error {
	path, ok := t.locate(pane)
	if !ok {
		return fmt.Errorf("remove pane %d: %w", pane, entity.ErrNotFound)
	}

	anchorBefore, pin := t.pinnedAnchorRect(pane)

	leaf := path[len(path)-1]
	if len(path) == 1 {
		t.release(leaf)
		t.root = nilRef
		t.endDragIfGone()
		return nil
	}

	parent := path[len(path)-2]
	sibling := t.nodes[parent].first
	if sibling == leaf {
		sibling = t.nodes[parent].second
	}

	if len(path) == 2 {
		t.root = sibling
	} else {
		grand := path[len(path)-3]
		if t.nodes[grand].first == parent {
			t.nodes[grand].first = sibling
		} else {
			t.nodes[grand].second = sibling
		}
	}
	t.release(leaf)
	t.release(parent)
	t.endDragIfGone()

	if pin {
		t.repin(anchorBefore)
	}
	return nil
}

// Swap exchanges the positions of two panes.
func (t *Tree) Swap(a, b entity.PaneID) error {
	pa, ok := t.locate(a)
	if !ok {
		return fmt.Errorf("swap pane %d: %w", a, entity.ErrNotFound)
	}
	pb, ok := t.locate(b)
	if !ok {
		return fmt.Errorf("swap pane %d: %w", b, entity.ErrNotFound)
	}
	la, lb := pa[len(pa)-1], pb[len(pb)-1]
	t.nodes[la].pane, t.nodes[lb].pane = b, a
	return nil
}

// Next returns the pane after id in document order, wrapping around.
func (t *Tree) Next(id entity.PaneID) (entity.PaneID, bool) {
	ids := t.Panes()
	if len(ids) == 0 {
		return entity.NoPane, false
	}
	for i, p := range ids {
		if p == id {
			return ids[(i+1)%len(ids)], true
		}
	}
	return ids[0], true
}

func (t *Tree) mint() entity.PaneID {
	id := t.nextID
	t.nextID++
	return id
}

func (t *Tree) alloc(n node) nodeRef {
	if l := len(t.free); l > 0 {
		ref := t.free[l-1]
		t.free = t.free[:l-1]
		t.nodes[ref] = n
		return ref
	}
	t.nodes = append(t.nodes, n)
	return nodeRef(len(t.nodes) - 1)
}

func (t *Tree) release(ref nodeRef) {
	t.nodes[ref] = node{kind: kindFree, first: nilRef, second: nilRef}
	t.free = append(t.free, ref)
}

func (t *Tree) clamp(ratio float64) float64 {
	if ratio < t.opts.MinRatio {
		return t.opts.MinRatio
	}
	if ratio > t.opts.MaxRatio {
		return t.opts.MaxRatio
	}
	return ratio
}

// locate returns the chain of node refs from the root down to the leaf holding pane.
func (t *Tree) locate(pane entity.PaneID) ([]nodeRef, bool) {
	if t.root == nilRef || !pane.Valid() {
		return nil, false
	}
	var path []nodeRef
	var search func(ref nodeRef) bool
	search = func(ref nodeRef) bool {
		path = append(path, ref)
		n := t.nodes[ref]
		switch n.kind {
		case kindLeaf:
			if n.pane == pane {
				return true
			}
		case kindSplit:
			if search(n.first) || search(n.second) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}
	if !search(t.root) {
		return nil, false
	}
	return path, true
}

func (t *Tree) walk(ref nodeRef, fn func(nodeRef)) {
	if ref == nilRef {
		return
	}
	fn(ref)
	if n := t.nodes[ref]; n.kind == kindSplit {
		t.walk(n.first, fn)
		t.walk(n.second, fn)
	}
}
