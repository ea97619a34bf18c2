package layout

import (
	"github.com/bnema/termdeck/internal/domain/entity"
)

// pinnedAnchorRect returns the focused pane's rectangle from the last Compute
// when pinning applies to the removal of pane.
func (t *Tree) pinnedAnchorRect(removing entity.PaneID) (entity.PaneRect, bool) {
	if t.opts.Anchor != AnchorPinned || !t.focus.Valid() || t.focus == removing {
		return entity.PaneRect{}, false
	}
	if t.last.window.Empty() {
		return entity.PaneRect{}, false
	}
	return entity.FindRect(t.last.rects, t.focus)
}

// repin re-targets ancestor split ratios so the focused pane's origin goes
// back to where it was before a removal. Each axis is handled on its own by
// the deepest ancestor split along that axis that places the pane second.
// Ratios stay clamped, so the origin is restored only as far as the bounds allow.
func (t *Tree) repin(before entity.PaneRect) {
	for _, axis := range []entity.SplitDirection{entity.SplitVertical, entity.SplitHorizontal} {
		t.Compute(t.last.window)
		after, ok := entity.FindRect(t.last.rects, t.focus)
		if !ok {
			return
		}
		want, got := before.Y, after.Y
		if axis == entity.SplitVertical {
			want, got = before.X, after.X
		}
		if want == got {
			continue
		}

		b, ok := t.deepestGoverning(axis)
		if !ok || b.regionLen <= 0 || want <= b.regionStart {
			continue
		}
		t.nodes[b.split].ratio = t.clamp(float64(want-b.regionStart) / float64(b.regionLen))
	}
	t.Compute(t.last.window)
}

// deepestGoverning finds the border of the deepest split along axis on the
// focused pane's path whose second child contains the pane.
func (t *Tree) deepestGoverning(axis entity.SplitDirection) (Border, bool) {
	path, ok := t.locate(t.focus)
	if !ok {
		return Border{}, false
	}
	var (
		best  Border
		found bool
	)
	for i := 0; i < len(path)-1; i++ {
		n := t.nodes[path[i]]
		if n.dir != axis || n.second != path[i+1] {
			continue
		}
		if b, ok := t.currentBorder(path[i]); ok {
			best, found = b, true
		}
	}
	return best, found
}
