package layout

import (
	"github.com/bnema/termdeck/internal/domain/entity"
)

type activeDrag struct {
	split nodeRef
	dir   entity.SplitDirection
}

// BorderAt returns the border whose hit region contains pt, using the
// rectangles of the last Compute. The region spans BorderMargin units on each
// side of the cut. When regions overlap at a corner the border emitted later
// in traversal wins.
func (t *Tree) BorderAt(pt entity.Point) (Border, bool) {
	margin := t.opts.BorderMargin
	var (
		hit   Border
		found bool
	)
	for _, b := range t.last.borders {
		along, across := pt.Y, pt.X
		if b.Direction == entity.SplitVertical {
			along, across = pt.X, pt.Y
		}
		if across < b.From || across >= b.To {
			continue
		}
		if along < b.Pos-margin || along >= b.Pos+margin {
			continue
		}
		hit, found = b, true
	}
	return hit, found
}

// Dragging reports whether a border drag is in progress.
func (t *Tree) Dragging() bool {
	return t.drag != nil
}

// BeginDrag starts a drag if pt lies in a border region. It returns false,
// and changes nothing, when pt misses every border.
//
// While dragged, a split is laid out at its stored ratio instead of the
// policy's cut so the border tracks the pointer. A border the policy had
// moved is adopted as the stored ratio first, so it does not jump on press.
func (t *Tree) BeginDrag(pt entity.Point) bool {
	b, ok := t.BorderAt(pt)
	if !ok {
		return false
	}
	n := &t.nodes[b.split]
	if b.regionLen > 0 && b.Pos-b.regionStart != cutAt(b.regionLen, t.clamp(n.ratio)) {
		n.ratio = t.clamp(float64(b.Pos-b.regionStart) / float64(b.regionLen))
	}
	t.drag = &activeDrag{split: b.split, dir: b.Direction}
	return true
}

// DragBorder moves the border under drag so it follows pt along the split
// axis. Without an active drag it behaves like BeginDrag followed by a move.
// The stored ratio is always clamped to [MinRatio, MaxRatio], whatever pt is.
func (t *Tree) DragBorder(pt entity.Point) bool {
	if t.drag == nil && !t.BeginDrag(pt) {
		return false
	}

	b, ok := t.currentBorder(t.drag.split)
	if !ok || b.regionLen <= 0 {
		t.drag = nil
		return false
	}

	along := pt.Y
	if b.Direction == entity.SplitVertical {
		along = pt.X
	}
	ratio := float64(along-b.regionStart) / float64(b.regionLen)
	t.nodes[t.drag.split].ratio = t.clamp(ratio)

	// Keep the cached border in step so the next move hit-tests against
	// the new position without waiting for Compute.
	t.Compute(t.last.window)
	return true
}

// EndDrag releases the active drag, if any. The policy applies to the split
// again from the next Compute.
func (t *Tree) EndDrag() {
	t.drag = nil
}

func (t *Tree) currentBorder(split nodeRef) (Border, bool) {
	if int(split) >= len(t.nodes) || t.nodes[split].kind != kindSplit {
		return Border{}, false
	}
	for _, b := range t.last.borders {
		if b.split == split {
			return b, true
		}
	}
	return Border{}, false
}

func (t *Tree) endDragIfGone() {
	if t.drag == nil {
		return
	}
	if int(t.drag.split) >= len(t.nodes) || t.nodes[t.drag.split].kind != kindSplit {
		t.drag = nil
	}
}
