package terminal

import (
	"strconv"
	"unicode/utf8"

	"github.com/bnema/termdeck/internal/domain/entity"
)

type keySeq struct {
	csi   string // final byte(s) after CSI, e.g. "A" or "5~"
	ss3   string // SS3 form used in application cursor mode, if any
	tilde bool   // modifiers go before the '~'
}

var keySequences = map[entity.Key]keySeq{
	entity.KeyUp:       {csi: "A", ss3: "A"},
	entity.KeyDown:     {csi: "B", ss3: "B"},
	entity.KeyRight:    {csi: "C", ss3: "C"},
	entity.KeyLeft:     {csi: "D", ss3: "D"},
	entity.KeyHome:     {csi: "H", ss3: "H"},
	entity.KeyEnd:      {csi: "F", ss3: "F"},
	entity.KeyInsert:   {csi: "2", tilde: true},
	entity.KeyDelete:   {csi: "3", tilde: true},
	entity.KeyPageUp:   {csi: "5", tilde: true},
	entity.KeyPageDown: {csi: "6", tilde: true},
	entity.KeyF5:       {csi: "15", tilde: true},
	entity.KeyF6:       {csi: "17", tilde: true},
	entity.KeyF7:       {csi: "18", tilde: true},
	entity.KeyF8:       {csi: "19", tilde: true},
	entity.KeyF9:       {csi: "20", tilde: true},
	entity.KeyF10:      {csi: "21", tilde: true},
	entity.KeyF11:      {csi: "23", tilde: true},
	entity.KeyF12:      {csi: "24", tilde: true},
}

var functionSS3 = map[entity.Key]byte{
	entity.KeyF1: 'P',
	entity.KeyF2: 'Q',
	entity.KeyF3: 'R',
	entity.KeyF4: 'S',
}

// modifierParam is the xterm modifier parameter: 1 + shift + 2*alt + 4*ctrl + 8*meta.
func modifierParam(mods entity.Modifiers) int {
	p := 1
	if mods.Has(entity.ModShift) {
		p++
	}
	if mods.Has(entity.ModAlt) {
		p += 2
	}
	if mods.Has(entity.ModCtrl) {
		p += 4
	}
	if mods.Has(entity.ModMeta) {
		p += 8
	}
	return p
}

// EncodeKey returns the bytes a VT-compatible program expects for ev.
// appCursor selects SS3 arrows (DECCKM). It returns nil for keys that have no
// encoding.
func EncodeKey(ev entity.KeyEvent, appCursor bool) []byte {
	switch ev.Key {
	case entity.KeyRune:
		return encodeRune(ev.Rune, ev.Mods)
	case entity.KeySpace:
		return encodeRune(' ', ev.Mods)
	case entity.KeyEnter:
		return altPrefix(ev.Mods, []byte{'\r'})
	case entity.KeyTab:
		if ev.Mods.Has(entity.ModShift) {
			return []byte("\x1b[Z")
		}
		return altPrefix(ev.Mods, []byte{'\t'})
	case entity.KeyBackspace:
		if ev.Mods.Has(entity.ModCtrl) {
			return altPrefix(ev.Mods, []byte{0x08})
		}
		return altPrefix(ev.Mods, []byte{0x7f})
	case entity.KeyEscape:
		return altPrefix(ev.Mods, []byte{0x1b})
	}

	mods := ev.Mods
	if b, ok := functionSS3[ev.Key]; ok {
		if mods == 0 {
			return []byte{0x1b, 'O', b}
		}
		return []byte("\x1b[1;" + strconv.Itoa(modifierParam(mods)) + string(b))
	}

	seq, ok := keySequences[ev.Key]
	if !ok {
		return nil
	}
	switch {
	case seq.tilde && mods == 0:
		return []byte("\x1b[" + seq.csi + "~")
	case seq.tilde:
		return []byte("\x1b[" + seq.csi + ";" + strconv.Itoa(modifierParam(mods)) + "~")
	case mods != 0:
		return []byte("\x1b[1;" + strconv.Itoa(modifierParam(mods)) + seq.csi)
	case appCursor && seq.ss3 != "":
		return []byte("\x1bO" + seq.ss3)
	default:
		return []byte("\x1b[" + seq.csi)
	}
}

func encodeRune(r rune, mods entity.Modifiers) []byte {
	if mods.Has(entity.ModCtrl) {
		if b, ok := ctrlByte(r); ok {
			return altPrefix(mods, []byte{b})
		}
	}
	return altPrefix(mods, utf8.AppendRune(nil, r))
}

func ctrlByte(r rune) (byte, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return byte(r-'a') + 1, true
	case r >= 'A' && r <= 'Z':
		return byte(r-'A') + 1, true
	case r == ' ' || r == '@' || r == '2':
		return 0x00, true
	case r == '[' || r == '3':
		return 0x1b, true
	case r == '\\' || r == '4':
		return 0x1c, true
	case r == ']' || r == '5':
		return 0x1d, true
	case r == '^' || r == '6':
		return 0x1e, true
	case r == '_' || r == '7' || r == '/':
		return 0x1f, true
	case r == '?' || r == '8':
		return 0x7f, true
	}
	return 0, false
}

func altPrefix(mods entity.Modifiers, b []byte) []byte {
	if mods.Has(entity.ModAlt) {
		return append([]byte{0x1b}, b...)
	}
	return b
}
