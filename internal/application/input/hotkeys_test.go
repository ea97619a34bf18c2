package input

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/termdeck/internal/domain/entity"
)

func TestParseChord(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Chord
		wantOk bool
	}{
		{name: "letter", input: "a", want: Chord{Key: entity.KeyRune, Rune: 'a'}, wantOk: true},
		{name: "alt letter", input: "alt+s", want: Chord{Key: entity.KeyRune, Rune: 's', Mods: entity.ModAlt}, wantOk: true},
		{name: "ctrl shift", input: "ctrl+shift+d", want: Chord{Key: entity.KeyRune, Rune: 'd', Mods: entity.ModCtrl | entity.ModShift}, wantOk: true},
		{name: "upper case implies shift", input: "ctrl+D", want: Chord{Key: entity.KeyRune, Rune: 'd', Mods: entity.ModCtrl | entity.ModShift}, wantOk: true},
		{name: "named key", input: "Ctrl+Enter", want: Chord{Key: entity.KeyEnter, Mods: entity.ModCtrl}, wantOk: true},
		{name: "function key", input: "f5", want: Chord{Key: entity.KeyF5}, wantOk: true},
		{name: "space", input: "ctrl+space", want: Chord{Key: entity.KeySpace, Mods: entity.ModCtrl}, wantOk: true},
		{name: "plus", input: "+", want: Chord{Key: entity.KeyRune, Rune: '+'}, wantOk: true},
		{name: "ctrl plus", input: "ctrl++", want: Chord{Key: entity.KeyRune, Rune: '+', Mods: entity.ModCtrl}, wantOk: true},
		{name: "empty", input: "", wantOk: false},
		{name: "only modifiers", input: "ctrl+shift", wantOk: false},
		{name: "two keys", input: "a+b", wantOk: false},
		{name: "unknown name", input: "ctrl+bogus", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseChord(tt.input)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestChordOf_MatchesParsedChord(t *testing.T) {
	parsed, ok := ParseChord("ctrl+shift+d")
	assert.True(t, ok)
	assert.Equal(t, parsed, ChordOf(entity.KeyEvent{Key: entity.KeyRune, Rune: 'D', Mods: entity.ModCtrl}))
	assert.Equal(t, parsed, ChordOf(entity.KeyEvent{Key: entity.KeyRune, Rune: 'd', Mods: entity.ModCtrl | entity.ModShift}))
}

func TestChord_String(t *testing.T) {
	c, _ := ParseChord("shift+ctrl+x")
	assert.Equal(t, "ctrl+shift+x", c.String())
	c, _ = ParseChord("alt+pgup")
	assert.Equal(t, "alt+pgup", c.String())
}

func TestBuildHotkeys_SkipsInvalidEntries(t *testing.T) {
	table := BuildHotkeys(context.Background(), map[string]string{
		"alt+s":   "split",
		"alt+v":   "Split-Vertical",
		"alt+z":   "explode",
		"ctrl+??": "quit",
	})

	assert.Len(t, table, 2)
	a, ok := table.Lookup(entity.KeyEvent{Key: entity.KeyRune, Rune: 'v', Mods: entity.ModAlt})
	assert.True(t, ok)
	assert.Equal(t, ActionSplitVertical, a)
	assert.Equal(t, map[string]Action{"alt+s": ActionSplit, "alt+v": ActionSplitVertical}, table.Bindings())
}

func TestDefaultHotkeys_AllParse(t *testing.T) {
	defaults := DefaultHotkeys()
	table := BuildHotkeys(context.Background(), defaults)
	assert.Len(t, table, len(defaults))
	assert.Len(t, table, len(knownActions), "every action has a default chord")
}
