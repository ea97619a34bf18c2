package model

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/termdeck/internal/domain/entity"
)

var namedKeys = map[tea.KeyType]entity.KeyEvent{
	tea.KeyEnter:     {Key: entity.KeyEnter},
	tea.KeyTab:       {Key: entity.KeyTab},
	tea.KeyShiftTab:  {Key: entity.KeyTab, Mods: entity.ModShift},
	tea.KeyBackspace: {Key: entity.KeyBackspace},
	tea.KeyEsc:       {Key: entity.KeyEscape},
	tea.KeySpace:     {Key: entity.KeySpace},
	tea.KeyCtrlAt:    {Key: entity.KeySpace, Mods: entity.ModCtrl},

	tea.KeyUp:    {Key: entity.KeyUp},
	tea.KeyDown:  {Key: entity.KeyDown},
	tea.KeyLeft:  {Key: entity.KeyLeft},
	tea.KeyRight: {Key: entity.KeyRight},

	tea.KeyShiftUp:    {Key: entity.KeyUp, Mods: entity.ModShift},
	tea.KeyShiftDown:  {Key: entity.KeyDown, Mods: entity.ModShift},
	tea.KeyShiftLeft:  {Key: entity.KeyLeft, Mods: entity.ModShift},
	tea.KeyShiftRight: {Key: entity.KeyRight, Mods: entity.ModShift},
	tea.KeyCtrlUp:     {Key: entity.KeyUp, Mods: entity.ModCtrl},
	tea.KeyCtrlDown:   {Key: entity.KeyDown, Mods: entity.ModCtrl},
	tea.KeyCtrlLeft:   {Key: entity.KeyLeft, Mods: entity.ModCtrl},
	tea.KeyCtrlRight:  {Key: entity.KeyRight, Mods: entity.ModCtrl},

	tea.KeyCtrlShiftUp:    {Key: entity.KeyUp, Mods: entity.ModCtrl | entity.ModShift},
	tea.KeyCtrlShiftDown:  {Key: entity.KeyDown, Mods: entity.ModCtrl | entity.ModShift},
	tea.KeyCtrlShiftLeft:  {Key: entity.KeyLeft, Mods: entity.ModCtrl | entity.ModShift},
	tea.KeyCtrlShiftRight: {Key: entity.KeyRight, Mods: entity.ModCtrl | entity.ModShift},

	tea.KeyHome:      {Key: entity.KeyHome},
	tea.KeyEnd:       {Key: entity.KeyEnd},
	tea.KeyShiftHome: {Key: entity.KeyHome, Mods: entity.ModShift},
	tea.KeyShiftEnd:  {Key: entity.KeyEnd, Mods: entity.ModShift},
	tea.KeyCtrlHome:  {Key: entity.KeyHome, Mods: entity.ModCtrl},
	tea.KeyCtrlEnd:   {Key: entity.KeyEnd, Mods: entity.ModCtrl},

	tea.KeyPgUp:       {Key: entity.KeyPageUp},
	tea.KeyPgDown:     {Key: entity.KeyPageDown},
	tea.KeyCtrlPgUp:   {Key: entity.KeyPageUp, Mods: entity.ModCtrl},
	tea.KeyCtrlPgDown: {Key: entity.KeyPageDown, Mods: entity.ModCtrl},
	tea.KeyInsert:     {Key: entity.KeyInsert},
	tea.KeyDelete:     {Key: entity.KeyDelete},

	tea.KeyF1:  {Key: entity.KeyF1},
	tea.KeyF2:  {Key: entity.KeyF2},
	tea.KeyF3:  {Key: entity.KeyF3},
	tea.KeyF4:  {Key: entity.KeyF4},
	tea.KeyF5:  {Key: entity.KeyF5},
	tea.KeyF6:  {Key: entity.KeyF6},
	tea.KeyF7:  {Key: entity.KeyF7},
	tea.KeyF8:  {Key: entity.KeyF8},
	tea.KeyF9:  {Key: entity.KeyF9},
	tea.KeyF10: {Key: entity.KeyF10},
	tea.KeyF11: {Key: entity.KeyF11},
	tea.KeyF12: {Key: entity.KeyF12},

	tea.KeyCtrlBackslash:    {Key: entity.KeyRune, Rune: '\\', Mods: entity.ModCtrl},
	tea.KeyCtrlCloseBracket: {Key: entity.KeyRune, Rune: ']', Mods: entity.ModCtrl},
	tea.KeyCtrlCaret:        {Key: entity.KeyRune, Rune: '^', Mods: entity.ModCtrl},
	tea.KeyCtrlUnderscore:   {Key: entity.KeyRune, Rune: '_', Mods: entity.ModCtrl},
}

// KeyEvents converts a bubbletea key message to workspace key events. A rune
// message carrying several runes yields one event per rune. Pastes are not
// handled here.
func KeyEvents(msg tea.KeyMsg) []entity.KeyEvent {
	var alt entity.Modifiers
	if msg.Alt {
		alt = entity.ModAlt
	}

	if msg.Type == tea.KeyRunes {
		out := make([]entity.KeyEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			out = append(out, entity.KeyEvent{Key: entity.KeyRune, Rune: r, Mods: alt})
		}
		return out
	}
	if ev, ok := namedKeys[msg.Type]; ok {
		ev.Mods |= alt
		return []entity.KeyEvent{ev}
	}
	// ctrl+a through ctrl+z, except the ones that share a code with a named key
	if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
		r := 'a' + rune(msg.Type-tea.KeyCtrlA)
		return []entity.KeyEvent{{Key: entity.KeyRune, Rune: r, Mods: entity.ModCtrl | alt}}
	}
	return nil
}

// PointerEvent converts a bubbletea mouse message to a workspace pointer event.
func PointerEvent(msg tea.MouseMsg) (entity.InputEvent, bool) {
	x, y := msg.X, msg.Y
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return entity.PointerInput(entity.PointerScrollUp, entity.ButtonNone, x, y), true
	case tea.MouseButtonWheelDown:
		return entity.PointerInput(entity.PointerScrollDown, entity.ButtonNone, x, y), true
	}

	button := entity.ButtonNone
	switch msg.Button {
	case tea.MouseButtonLeft:
		button = entity.ButtonLeft
	case tea.MouseButtonMiddle:
		button = entity.ButtonMiddle
	case tea.MouseButtonRight:
		button = entity.ButtonRight
	}

	switch msg.Action {
	case tea.MouseActionPress:
		return entity.PointerInput(entity.PointerPress, button, x, y), true
	case tea.MouseActionRelease:
		return entity.PointerInput(entity.PointerRelease, button, x, y), true
	case tea.MouseActionMotion:
		return entity.PointerInput(entity.PointerMotion, button, x, y), true
	}
	return entity.InputEvent{}, false
}
