package input

import (
	"github.com/bnema/termdeck/internal/domain/entity"
)

// Target says what consumed a routed event.
type Target int

const (
	TargetNone   Target = iota // Dropped
	TargetHotkey               // Matched the global hotkey table
	TargetBorder               // Started, continued or ended a border drag
	TargetPane                 // Forwarded to Result.Pane
)

func (t Target) String() string {
	switch t {
	case TargetHotkey:
		return "hotkey"
	case TargetBorder:
		return "border"
	case TargetPane:
		return "pane"
	default:
		return "none"
	}
}

// BorderDragger is the part of the layout tree the router drives.
// *layout.Tree implements it.
type BorderDragger interface {
	BeginDrag(pt entity.Point) bool
	DragBorder(pt entity.Point) bool
	EndDrag()
	Dragging() bool
}

// Result describes how an event was routed.
type Result struct {
	Target Target
	Action Action
	// Pane is the pane that received the event.
	Pane entity.PaneID
	// Local is the pointer position relative to Pane's rectangle.
	Local entity.Point
	// FocusChanged is set when the event moved focus.
	FocusChanged bool
	Focused      entity.PaneID
}

// Consumed reports whether anything handled the event.
func (r Result) Consumed() bool { return r.Target != TargetNone }

// Router owns the focus state and dispatches events in two ordered phases:
// the global hotkey table, then hit-testing.
type Router struct {
	hotkeys Hotkeys
	borders BorderDragger
	focus   entity.PaneID
	// grab is the pane that received the last press, so motion and release
	// reach it even when the pointer leaves its rectangle.
	grab entity.PaneID
}

// NewRouter creates a router with no focus.
func NewRouter(hotkeys Hotkeys, borders BorderDragger) *Router {
	return &Router{hotkeys: hotkeys, borders: borders}
}

// Focused returns the focused pane, or entity.NoPane.
func (r *Router) Focused() entity.PaneID {
	return r.focus
}

// SetFocus focuses id unconditionally. It reports whether focus changed.
func (r *Router) SetFocus(id entity.PaneID) bool {
	if r.focus == id {
		return false
	}
	r.focus = id
	return true
}

// SetHotkeys replaces the hotkey table, e.g. after a config reload.
func (r *Router) SetHotkeys(h Hotkeys) {
	r.hotkeys = h
}

// Hotkeys returns the active table.
func (r *Router) Hotkeys() Hotkeys {
	return r.hotkeys
}

// Reconcile repairs focus after panes were removed: a focus that names no
// rectangle moves to the first rectangle, or to none when rects is empty.
// It reports whether focus changed.
func (r *Router) Reconcile(rects []entity.PaneRect) bool {
	if r.grab.Valid() {
		if _, ok := entity.FindRect(rects, r.grab); !ok {
			r.grab = entity.NoPane
		}
	}
	if _, ok := entity.FindRect(rects, r.focus); ok {
		return false
	}
	next := entity.NoPane
	if len(rects) > 0 {
		next = rects[0].PaneID
	}
	return r.SetFocus(next)
}

// Route dispatches ev against the current rectangles, given in document order.
func (r *Router) Route(ev entity.InputEvent, rects []entity.PaneRect) Result {
	switch {
	case ev.Key != nil:
		return r.routeKey(*ev.Key, rects)
	case ev.Pointer != nil:
		return r.routePointer(*ev.Pointer, rects)
	}
	return r.result(TargetNone)
}

func (r *Router) routeKey(ev entity.KeyEvent, rects []entity.PaneRect) Result {
	if action, ok := r.hotkeys.Lookup(ev); ok {
		res := r.result(TargetHotkey)
		res.Action = action
		if action == ActionCycleFocus {
			res.FocusChanged = r.cycle(rects)
			res.Focused = r.focus
		}
		return res
	}

	if !r.focus.Valid() {
		return r.result(TargetNone)
	}
	res := r.result(TargetPane)
	res.Pane = r.focus
	return res
}

// cycle moves focus to the next rectangle in document order, wrapping.
func (r *Router) cycle(rects []entity.PaneRect) bool {
	if len(rects) == 0 {
		return false
	}
	for i, rect := range rects {
		if rect.PaneID == r.focus {
			return r.SetFocus(rects[(i+1)%len(rects)].PaneID)
		}
	}
	return r.SetFocus(rects[0].PaneID)
}

func (r *Router) routePointer(ev entity.PointerEvent, rects []entity.PaneRect) Result {
	if r.borders != nil && r.borders.Dragging() {
		switch ev.Action {
		case entity.PointerRelease:
			r.borders.EndDrag()
		default:
			r.borders.DragBorder(ev.Pos)
		}
		return r.result(TargetBorder)
	}

	if ev.Action == entity.PointerPress && ev.Button == entity.ButtonLeft &&
		r.borders != nil && r.borders.BeginDrag(ev.Pos) {
		r.grab = entity.NoPane
		return r.result(TargetBorder)
	}

	if r.grab.Valid() && (ev.Action == entity.PointerMotion || ev.Action == entity.PointerRelease) {
		grabbed := r.grab
		if ev.Action == entity.PointerRelease {
			r.grab = entity.NoPane
		}
		if rect, ok := entity.FindRect(rects, grabbed); ok {
			return r.paneResult(rect, ev.Pos)
		}
	}

	rect, ok := hit(rects, ev.Pos)
	if !ok {
		return r.result(TargetNone)
	}

	res := r.paneResult(rect, ev.Pos)
	if ev.Action == entity.PointerPress {
		r.grab = rect.PaneID
		res.FocusChanged = r.SetFocus(rect.PaneID)
		res.Focused = r.focus
	}
	return res
}

func (r *Router) paneResult(rect entity.PaneRect, pos entity.Point) Result {
	res := r.result(TargetPane)
	res.Pane = rect.PaneID
	res.Local = entity.Point{X: pos.X - rect.X, Y: pos.Y - rect.Y}
	return res
}

func (r *Router) result(t Target) Result {
	return Result{Target: t, Focused: r.focus}
}

// hit returns the rectangle containing pt. Rectangles tile the window, so at
// most one matches; the last one wins if a caller passes overlapping rects.
func hit(rects []entity.PaneRect, pt entity.Point) (entity.PaneRect, bool) {
	for i := len(rects) - 1; i >= 0; i-- {
		if rects[i].Contains(pt) {
			return rects[i], true
		}
	}
	return entity.PaneRect{}, false
}
