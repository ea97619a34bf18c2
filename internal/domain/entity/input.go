package entity

import "strings"

// Key identifies a non-printable key. Printable keys use KeyRune with the rune set.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeySpace
)

var keyNames = map[Key]string{
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBackspace: "backspace",
	KeyEscape:    "esc",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdown",
	KeyInsert:    "insert",
	KeyDelete:    "delete",
	KeyF1:        "f1",
	KeyF2:        "f2",
	KeyF3:        "f3",
	KeyF4:        "f4",
	KeyF5:        "f5",
	KeyF6:        "f6",
	KeyF7:        "f7",
	KeyF8:        "f8",
	KeyF9:        "f9",
	KeyF10:       "f10",
	KeyF11:       "f11",
	KeyF12:       "f12",
	KeySpace:     "space",
}

// KeyByName resolves a key name such as "enter" or "f5".
func KeyByName(name string) (Key, bool) {
	name = strings.ToLower(name)
	switch name {
	case "escape":
		return KeyEscape, true
	case "pageup":
		return KeyPageUp, true
	case "pagedown":
		return KeyPageDown, true
	case "del":
		return KeyDelete, true
	}
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	return KeyNone, false
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	if k == KeyRune {
		return "rune"
	}
	return "none"
}

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether all bits of m are set.
func (mods Modifiers) Has(m Modifiers) bool {
	return mods&m == m
}

// KeyEvent is a single key press.
type KeyEvent struct {
	Key  Key
	Rune rune // set when Key == KeyRune
	Mods Modifiers
}

// PointerAction distinguishes pointer event kinds.
type PointerAction int

const (
	PointerPress PointerAction = iota
	PointerRelease
	PointerMotion
	PointerScrollUp
	PointerScrollDown
)

// PointerButton identifies the pressed button.
type PointerButton int

const (
	ButtonNone PointerButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// PointerEvent is a mouse or touch event at a window position.
type PointerEvent struct {
	Action PointerAction
	Button PointerButton
	Pos    Point
}

// InputEvent carries exactly one of Key or Pointer.
type InputEvent struct {
	Key     *KeyEvent
	Pointer *PointerEvent
}

// KeyInput builds an InputEvent for a key press.
func KeyInput(k KeyEvent) InputEvent {
	return InputEvent{Key: &k}
}

// RuneInput builds an InputEvent for a printable rune with modifiers.
func RuneInput(r rune, mods Modifiers) InputEvent {
	return KeyInput(KeyEvent{Key: KeyRune, Rune: r, Mods: mods})
}

// PointerInput builds an InputEvent for a pointer action.
func PointerInput(action PointerAction, button PointerButton, x, y int) InputEvent {
	return InputEvent{Pointer: &PointerEvent{Action: action, Button: button, Pos: Point{X: x, Y: y}}}
}

// IsKey reports whether the event is a key press.
func (e InputEvent) IsKey() bool { return e.Key != nil }

// IsPointer reports whether the event is a pointer event.
func (e InputEvent) IsPointer() bool { return e.Pointer != nil }
