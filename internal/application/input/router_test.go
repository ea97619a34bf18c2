package input_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/termdeck/internal/application/input"
	"github.com/bnema/termdeck/internal/domain/entity"
	"github.com/bnema/termdeck/internal/domain/layout"
)

func newRouter(t *testing.T) (*input.Router, *layout.Tree, []entity.PaneRect) {
	t.Helper()
	tree := layout.New(layout.DefaultOptions())
	a, err := tree.Split(entity.NoPane, entity.SplitVertical)
	require.NoError(t, err)
	b, err := tree.Split(a, entity.SplitVertical)
	require.NoError(t, err)
	_, err = tree.Split(b, entity.SplitHorizontal)
	require.NoError(t, err)
	// a | b over c
	rects := tree.Compute(entity.Size{W: 800, H: 600})
	require.Len(t, rects, 3)

	hotkeys := input.BuildHotkeys(context.Background(), input.DefaultHotkeys())
	return input.NewRouter(hotkeys, tree), tree, rects
}

func altKey(r rune) entity.InputEvent {
	return entity.RuneInput(r, entity.ModAlt)
}

func TestRouter_HotkeysAreConsumedFirst(t *testing.T) {
	r, _, rects := newRouter(t)
	r.SetFocus(rects[0].PaneID)

	res := r.Route(altKey('s'), rects)
	assert.Equal(t, input.TargetHotkey, res.Target)
	assert.Equal(t, input.ActionSplit, res.Action)
	assert.Equal(t, entity.NoPane, res.Pane, "hotkeys never reach a pane")

	r.SetFocus(entity.NoPane)
	res = r.Route(altKey('q'), rects)
	assert.Equal(t, input.ActionQuit, res.Action, "hotkeys work without focus")
}

func TestRouter_KeysGoToFocusedPaneOnly(t *testing.T) {
	r, _, rects := newRouter(t)

	res := r.Route(entity.RuneInput('x', 0), rects)
	assert.False(t, res.Consumed(), "no focus drops keys")

	r.SetFocus(rects[1].PaneID)
	res = r.Route(entity.RuneInput('x', 0), rects)
	assert.Equal(t, input.TargetPane, res.Target)
	assert.Equal(t, rects[1].PaneID, res.Pane)
	assert.False(t, res.FocusChanged)
}

func TestRouter_PressFocusesHitPane(t *testing.T) {
	r, _, rects := newRouter(t)
	r.SetFocus(rects[0].PaneID)

	res := r.Route(entity.PointerInput(entity.PointerPress, entity.ButtonLeft, 600, 100), rects)
	assert.Equal(t, input.TargetPane, res.Target)
	assert.Equal(t, rects[1].PaneID, res.Pane)
	assert.True(t, res.FocusChanged)
	assert.Equal(t, rects[1].PaneID, r.Focused())
	assert.Equal(t, entity.Point{X: 600 - rects[1].X, Y: 100}, res.Local)

	res = r.Route(entity.PointerInput(entity.PointerPress, entity.ButtonLeft, 610, 100), rects)
	assert.False(t, res.FocusChanged, "clicking the focused pane is idempotent")
	assert.Equal(t, rects[1].PaneID, r.Focused())
}

func TestRouter_MotionDoesNotFocus(t *testing.T) {
	r, _, rects := newRouter(t)
	r.SetFocus(rects[0].PaneID)

	res := r.Route(entity.PointerInput(entity.PointerMotion, entity.ButtonNone, 600, 100), rects)
	assert.Equal(t, rects[1].PaneID, res.Pane)
	assert.False(t, res.FocusChanged)
	assert.Equal(t, rects[0].PaneID, r.Focused())
}

func TestRouter_MissIsDropped(t *testing.T) {
	r, _, rects := newRouter(t)
	r.SetFocus(rects[0].PaneID)

	res := r.Route(entity.PointerInput(entity.PointerPress, entity.ButtonLeft, 5000, 5000), rects)
	assert.False(t, res.Consumed())
	assert.Equal(t, rects[0].PaneID, r.Focused())
}

func TestRouter_BorderDrag(t *testing.T) {
	r, tree, rects := newRouter(t)
	r.SetFocus(rects[0].PaneID)
	require.Equal(t, 400, rects[0].W)

	res := r.Route(entity.PointerInput(entity.PointerPress, entity.ButtonLeft, 398, 100), rects)
	require.Equal(t, input.TargetBorder, res.Target)
	assert.False(t, res.FocusChanged, "grabbing a border does not move focus")
	assert.True(t, tree.Dragging())

	res = r.Route(entity.PointerInput(entity.PointerMotion, entity.ButtonLeft, 200, 100), rects)
	assert.Equal(t, input.TargetBorder, res.Target)

	res = r.Route(entity.PointerInput(entity.PointerRelease, entity.ButtonLeft, 200, 100), rects)
	assert.Equal(t, input.TargetBorder, res.Target)
	assert.False(t, tree.Dragging())

	rects = tree.Compute(entity.Size{W: 800, H: 600})
	assert.Equal(t, 200, rects[0].W)
}

func TestRouter_ReleaseReachesPressedPane(t *testing.T) {
	r, _, rects := newRouter(t)

	r.Route(entity.PointerInput(entity.PointerPress, entity.ButtonLeft, 100, 100), rects)
	res := r.Route(entity.PointerInput(entity.PointerRelease, entity.ButtonLeft, 700, 100), rects)
	assert.Equal(t, rects[0].PaneID, res.Pane)
	assert.Equal(t, 700, res.Local.X)

	res = r.Route(entity.PointerInput(entity.PointerMotion, entity.ButtonNone, 700, 100), rects)
	assert.Equal(t, rects[1].PaneID, res.Pane, "grab ends on release")
}

func TestRouter_CycleFocusWraps(t *testing.T) {
	r, _, rects := newRouter(t)
	require.Len(t, rects, 3)

	var order []entity.PaneID
	for range 4 {
		res := r.Route(altKey('o'), rects)
		assert.True(t, res.FocusChanged)
		order = append(order, r.Focused())
	}
	assert.Equal(t, []entity.PaneID{rects[0].PaneID, rects[1].PaneID, rects[2].PaneID, rects[0].PaneID}, order)

	res := r.Route(altKey('o'), nil)
	assert.False(t, res.FocusChanged)
}

func TestRouter_Reconcile(t *testing.T) {
	r, tree, rects := newRouter(t)
	r.SetFocus(rects[2].PaneID)

	require.NoError(t, tree.Remove(rects[2].PaneID))
	rects = tree.Compute(entity.Size{W: 800, H: 600})
	assert.True(t, r.Reconcile(rects))
	assert.Equal(t, rects[0].PaneID, r.Focused())
	assert.False(t, r.Reconcile(rects))

	assert.True(t, r.Reconcile(nil))
	assert.Equal(t, entity.NoPane, r.Focused())
}

func TestRouter_FocusIsTotal(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	tree := layout.New(layout.DefaultOptions())
	_, err := tree.Split(entity.NoPane, entity.SplitHorizontal)
	require.NoError(t, err)
	r := input.NewRouter(input.BuildHotkeys(context.Background(), input.DefaultHotkeys()), tree)
	size := entity.Size{W: 320, H: 200}

	for i := range 2000 {
		panes := tree.Panes()
		switch rng.IntN(10) {
		case 0:
			_, _ = tree.Split(panes[rng.IntN(len(panes))], entity.SplitDirection(rng.IntN(2)))
		case 1:
			if len(panes) > 1 {
				_ = tree.Remove(panes[rng.IntN(len(panes))])
			}
		}
		rects := tree.Compute(size)
		r.Reconcile(rects)

		var ev entity.InputEvent
		switch rng.IntN(4) {
		case 0:
			ev = altKey('o')
		case 1:
			ev = entity.RuneInput(rune('a'+rng.IntN(26)), 0)
		default:
			action := entity.PointerAction(rng.IntN(3))
			ev = entity.PointerInput(action, entity.ButtonLeft, rng.IntN(400)-40, rng.IntN(260)-30)
		}

		before := r.Focused()
		r.Route(ev, rects)
		after := r.Focused()
		if after == before {
			continue
		}
		_, ok := entity.FindRect(rects, after)
		require.Truef(t, ok, "step %d: focus %d is not a visible pane", i, after)
	}
}
