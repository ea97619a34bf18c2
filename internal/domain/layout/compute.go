package layout

import (
	"github.com/bnema/termdeck/internal/domain/entity"
)

// Border is the shared edge between the two children of a split.
type Border struct {
	Direction entity.SplitDirection
	// Pos is the coordinate of the cut along the split axis: the first
	// row (horizontal split) or column (vertical split) of the second child.
	Pos int
	// From and To bound the edge along the other axis, half-open.
	From, To int

	split       nodeRef
	regionStart int
	regionLen   int
}

type computed struct {
	window  entity.Size
	rects   []entity.PaneRect
	borders []Border
}

// Compute partitions a window of the given size among the leaves.
// Rectangles come out in document order and tile the window exactly.
// The result is cached for border hit-testing.
func (t *Tree) Compute(size entity.Size) []entity.PaneRect {
	c := computed{window: size}
	if t.root != nilRef && !size.Empty() {
		focusPath := t.focusPath()
		t.computeNode(t.root, entity.PaneRect{W: size.W, H: size.H}, focusPath, &c)
	}
	t.last = c
	out := make([]entity.PaneRect, len(c.rects))
	copy(out, c.rects)
	return out
}

// Rects returns the rectangles of the last Compute.
func (t *Tree) Rects() []entity.PaneRect {
	out := make([]entity.PaneRect, len(t.last.rects))
	copy(out, t.last.rects)
	return out
}

// Borders returns the border segments of the last Compute in traversal order.
func (t *Tree) Borders() []Border {
	out := make([]Border, len(t.last.borders))
	copy(out, t.last.borders)
	return out
}

// Window returns the size passed to the last Compute.
func (t *Tree) Window() entity.Size {
	return t.last.window
}

func (t *Tree) focusPath() map[nodeRef]bool {
	if !t.focus.Valid() {
		return nil
	}
	path, ok := t.locate(t.focus)
	if !ok {
		return nil
	}
	set := make(map[nodeRef]bool, len(path))
	for _, ref := range path {
		set[ref] = true
	}
	return set
}

func (t *Tree) computeNode(ref nodeRef, r entity.PaneRect, focusPath map[nodeRef]bool, c *computed) {
	n := t.nodes[ref]
	if n.kind == kindLeaf {
		r.PaneID = n.pane
		c.rects = append(c.rects, r)
		return
	}

	extent, start := r.H, r.Y
	if n.dir == entity.SplitVertical {
		extent, start = r.W, r.X
	}

	info := SplitInfo{Direction: n.dir, Ratio: t.clamp(n.ratio), Extent: extent}
	switch {
	case focusPath[n.first]:
		info.FocusIn = 1
	case focusPath[n.second]:
		info.FocusIn = 2
	}
	cut := info.StoredCut()
	if t.drag == nil || t.drag.split != ref {
		cut = min(max(t.opts.Policy.Cut(info), 0), extent)
	}

	first, second := r, r
	b := Border{
		Direction:   n.dir,
		Pos:         start + cut,
		split:       ref,
		regionStart: start,
		regionLen:   extent,
	}
	if n.dir == entity.SplitVertical {
		first.W = cut
		second.X = r.X + cut
		second.W = r.W - cut
		b.From, b.To = r.Y, r.Bottom()
	} else {
		first.H = cut
		second.Y = r.Y + cut
		second.H = r.H - cut
		b.From, b.To = r.X, r.Right()
	}
	c.borders = append(c.borders, b)

	t.computeNode(n.first, first, focusPath, c)
	t.computeNode(n.second, second, focusPath, c)
}
