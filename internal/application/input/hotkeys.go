// Package input routes keyboard and pointer events: global hotkeys first,
// then border drags, then the pane under the pointer or the focused pane.
package input

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bnema/termdeck/internal/domain/entity"
	"github.com/bnema/termdeck/internal/logging"
)

// Action is a workspace command bound to a hotkey.
type Action string

const (
	ActionSplit         Action = "split"
	ActionSplitVertical Action = "split-vertical"
	ActionClose         Action = "close"
	ActionTogglePanel   Action = "toggle-panel"
	ActionCycleFocus    Action = "cycle-focus"
	ActionSwapNext      Action = "swap-next"
	ActionQuit          Action = "quit"
)

var knownActions = map[Action]bool{
	ActionSplit:         true,
	ActionSplitVertical: true,
	ActionClose:         true,
	ActionTogglePanel:   true,
	ActionCycleFocus:    true,
	ActionSwapNext:      true,
	ActionQuit:          true,
}

// ParseAction validates a configured action name.
func ParseAction(name string) (Action, bool) {
	a := Action(strings.ToLower(strings.TrimSpace(name)))
	return a, knownActions[a]
}

// DefaultHotkeys maps chords to actions.
func DefaultHotkeys() map[string]string {
	return map[string]string{
		"alt+s": string(ActionSplit),
		"alt+v": string(ActionSplitVertical),
		"alt+w": string(ActionClose),
		"alt+e": string(ActionTogglePanel),
		"alt+o": string(ActionCycleFocus),
		"alt+x": string(ActionSwapNext),
		"alt+q": string(ActionQuit),
	}
}

// Chord is a normalized key combination.
type Chord struct {
	Key  entity.Key
	Rune rune
	Mods entity.Modifiers
}

func (c Chord) String() string {
	var parts []string
	if c.Mods.Has(entity.ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if c.Mods.Has(entity.ModAlt) {
		parts = append(parts, "alt")
	}
	if c.Mods.Has(entity.ModShift) {
		parts = append(parts, "shift")
	}
	if c.Mods.Has(entity.ModMeta) {
		parts = append(parts, "meta")
	}
	if c.Key == entity.KeyRune {
		parts = append(parts, string(c.Rune))
	} else {
		parts = append(parts, c.Key.String())
	}
	return strings.Join(parts, "+")
}

// ChordOf normalizes a key event so it can be looked up in a hotkey table.
// An upper-case rune counts as shift plus the lower-case rune.
func ChordOf(ev entity.KeyEvent) Chord {
	c := Chord{Key: ev.Key, Mods: ev.Mods}
	switch ev.Key {
	case entity.KeyRune:
		c.Rune = ev.Rune
		if unicode.IsUpper(c.Rune) {
			c.Rune = unicode.ToLower(c.Rune)
			c.Mods |= entity.ModShift
		}
		if c.Rune == ' ' {
			c.Key, c.Rune = entity.KeySpace, 0
		}
	}
	return c
}

// ParseChord converts a config key string like "ctrl+shift+d" to a Chord.
func ParseChord(s string) (Chord, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Chord{}, false
	}
	if s == "+" {
		return Chord{Key: entity.KeyRune, Rune: '+'}, true
	}

	var (
		mods    entity.Modifiers
		keyPart string
	)
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch strings.ToLower(part) {
		case "ctrl", "control":
			mods |= entity.ModCtrl
		case "shift":
			mods |= entity.ModShift
		case "alt", "option":
			mods |= entity.ModAlt
		case "meta", "super", "cmd":
			mods |= entity.ModMeta
		default:
			if keyPart != "" {
				return Chord{}, false
			}
			keyPart = part
		}
	}

	// "ctrl++" binds the plus key.
	if keyPart == "" && strings.HasSuffix(s, "++") {
		keyPart = "+"
	}
	if keyPart == "" {
		return Chord{}, false
	}

	if utf8.RuneCountInString(keyPart) == 1 {
		r, _ := utf8.DecodeRuneInString(keyPart)
		return ChordOf(entity.KeyEvent{Key: entity.KeyRune, Rune: r, Mods: mods}), true
	}
	key, ok := entity.KeyByName(keyPart)
	if !ok {
		return Chord{}, false
	}
	return ChordOf(entity.KeyEvent{Key: key, Mods: mods}), true
}

// Hotkeys is the global hotkey table.
type Hotkeys map[Chord]Action

// BuildHotkeys parses chord→action bindings. Invalid entries are logged and skipped.
func BuildHotkeys(ctx context.Context, bindings map[string]string) Hotkeys {
	log := logging.FromContext(ctx)
	table := make(Hotkeys, len(bindings))
	var parseErrors, unknownActions int
	for key, name := range bindings {
		chord, ok := ParseChord(key)
		if !ok {
			parseErrors++
			log.Warn().Str("key", key).Msg("failed to parse hotkey")
			continue
		}
		action, ok := ParseAction(name)
		if !ok {
			unknownActions++
			log.Warn().Str("key", key).Str("action", name).Msg("unknown hotkey action")
			continue
		}
		table[chord] = action
	}
	log.Debug().
		Int("registered", len(table)).
		Int("parseErrors", parseErrors).
		Int("unknownActions", unknownActions).
		Msg("hotkeys built")
	return table
}

// Lookup returns the action bound to ev.
func (h Hotkeys) Lookup(ev entity.KeyEvent) (Action, bool) {
	a, ok := h[ChordOf(ev)]
	return a, ok
}

// Bindings returns the table as chord string → action, for help output.
func (h Hotkeys) Bindings() map[string]Action {
	out := make(map[string]Action, len(h))
	for c, a := range h {
		out[c.String()] = a
	}
	return out
}
