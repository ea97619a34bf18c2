package terminal

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// param returns the i-th parameter. Missing or zero values become def when
// zeroIsDefault is set, which is how most cursor movement sequences count.
func param(params ansi.Params, i, def int, zeroIsDefault bool) int {
	v, _, ok := params.Param(i, def)
	if !ok || (zeroIsDefault && v == 0) {
		return def
	}
	return v
}

func (s *Screen) handleCsi(cmd ansi.Cmd, params ansi.Params) {
	switch cmd.Prefix() {
	case '?':
		s.handlePrivateCsi(cmd, params)
		return
	case '>', '<', '=':
		if cmd.Final() == 'c' && cmd.Prefix() == '>' {
			s.replies = append(s.replies, "\x1b[>0;10;1c"...)
		}
		return
	}

	n := param(params, 0, 1, true)
	switch cmd.Final() {
	case 'A':
		s.moveTo(max(s.cursor.Row-n, s.topBound()), s.cursor.Col)
	case 'B':
		s.moveTo(min(s.cursor.Row+n, s.bottomBound()), s.cursor.Col)
	case 'C':
		s.moveTo(s.cursor.Row, s.cursor.Col+n)
	case 'D':
		s.moveTo(s.cursor.Row, s.cursor.Col-n)
	case 'E':
		s.moveTo(min(s.cursor.Row+n, s.bottomBound()), 0)
	case 'F':
		s.moveTo(max(s.cursor.Row-n, s.topBound()), 0)
	case 'G', '`':
		s.moveTo(s.cursor.Row, n-1)
	case 'H', 'f':
		s.moveTo(param(params, 0, 1, true)-1, param(params, 1, 1, true)-1)
	case 'd':
		s.moveTo(n-1, s.cursor.Col)
	case 'J':
		s.eraseInDisplay(param(params, 0, 0, false))
	case 'K':
		s.eraseInLine(param(params, 0, 0, false))
	case 'X':
		s.eraseChars(n)
	case '@':
		s.insertChars(n)
	case 'P':
		s.deleteChars(n)
	case 'L':
		s.insertLines(n)
	case 'M':
		s.deleteLines(n)
	case 'S':
		s.scrollUp(n)
	case 'T':
		s.scrollDown(n)
	case 'm':
		s.handleSgr(params)
	case 'r':
		s.setScrollRegion(param(params, 0, 1, true), param(params, 1, s.rows, true))
	case 's':
		s.saveCursor()
	case 'u':
		s.restoreCursor()
	case 'n':
		switch param(params, 0, 0, false) {
		case 5:
			s.replies = append(s.replies, "\x1b[0n"...)
		case 6:
			s.replies = fmt.Appendf(s.replies, "\x1b[%d;%dR", s.cursor.Row+1, s.cursor.Col+1)
		}
	case 'c':
		s.replies = append(s.replies, "\x1b[?62;22c"...)
	case 'q':
		if cmd.Intermediate() == ' ' {
			s.setCursorStyle(param(params, 0, 0, false))
		}
	}
}

func (s *Screen) topBound() int {
	if s.cursor.Row >= s.scrollTop {
		return s.scrollTop
	}
	return 0
}

func (s *Screen) bottomBound() int {
	if s.cursor.Row <= s.scrollBottom {
		return s.scrollBottom
	}
	return s.rows - 1
}

func (s *Screen) handlePrivateCsi(cmd ansi.Cmd, params ansi.Params) {
	final := cmd.Final()
	if final != 'h' && final != 'l' {
		return
	}
	on := final == 'h'
	for i := range params {
		switch param(params, i, 0, false) {
		case 1:
			s.appCursor = on
		case 7:
			s.autoWrap = on
			if !on {
				s.pendingWrap = false
			}
		case 25:
			s.cursor.Visible = on
		case 47, 1047:
			s.setAltScreen(on, on)
		case 1049:
			if on {
				s.saveCursor()
				s.setAltScreen(true, true)
			} else {
				s.setAltScreen(false, false)
				s.restoreCursor()
			}
		case 2004:
			s.bracketed = on
		}
	}
}

func (s *Screen) setCursorStyle(style int) {
	switch style {
	case 0, 1:
		s.cursor.Shape, s.cursor.Blink = CursorBlock, true
	case 2:
		s.cursor.Shape, s.cursor.Blink = CursorBlock, false
	case 3:
		s.cursor.Shape, s.cursor.Blink = CursorUnderline, true
	case 4:
		s.cursor.Shape, s.cursor.Blink = CursorUnderline, false
	case 5:
		s.cursor.Shape, s.cursor.Blink = CursorBar, true
	case 6:
		s.cursor.Shape, s.cursor.Blink = CursorBar, false
	}
}

func (s *Screen) handleEsc(cmd ansi.Cmd) {
	if cmd.Intermediate() != 0 {
		// Charset designation and friends are accepted and ignored.
		return
	}
	switch cmd.Final() {
	case '7':
		s.saveCursor()
	case '8':
		s.restoreCursor()
	case 'D':
		s.lineFeed()
	case 'E':
		s.cursor.Col = 0
		s.lineFeed()
	case 'M':
		s.reverseIndex()
	case 'c':
		s.reset()
		s.scrollback.Clear()
		s.title = ""
	}
}

func (s *Screen) handleOsc(cmd int, data []byte) {
	payload := string(data)
	if i := strings.IndexByte(payload, ';'); i >= 0 {
		payload = payload[i+1:]
	} else {
		payload = ""
	}

	switch cmd {
	case 0, 2:
		s.title = payload
	case 7:
		if dir, ok := parseFileURL(payload); ok {
			s.setCwd(dir)
		}
	case 1337:
		if dir, ok := strings.CutPrefix(payload, "CurrentDir="); ok && dir != "" {
			s.setCwd(dir)
		}
	}
}

func (s *Screen) setCwd(dir string) {
	s.cwd = dir
	s.cwdSeq++
}

// parseFileURL extracts the path of an OSC 7 report such as
// file://host/home/u/my%20dir. Bare absolute paths are accepted too.
func parseFileURL(raw string) (string, bool) {
	if strings.HasPrefix(raw, "/") {
		return raw, true
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "file" || u.Path == "" {
		return "", false
	}
	return u.Path, true
}

func (s *Screen) handleSgr(params ansi.Params) {
	if len(params) == 0 {
		s.pen = Cell{}
		return
	}

	for i := 0; i < len(params); i++ {
		p := param(params, i, 0, false)
		switch {
		case p == 0:
			s.pen = Cell{}
		case p == 1:
			s.pen.Attrs |= AttrBold
		case p == 2:
			s.pen.Attrs |= AttrDim
		case p == 3:
			s.pen.Attrs |= AttrItalic
		case p == 4:
			s.pen.Attrs |= AttrUnderline
		case p == 5 || p == 6:
			s.pen.Attrs |= AttrBlink
		case p == 7:
			s.pen.Attrs |= AttrReverse
		case p == 8:
			s.pen.Attrs |= AttrHidden
		case p == 9:
			s.pen.Attrs |= AttrStrike
		case p == 21 || p == 22:
			s.pen.Attrs &^= AttrBold | AttrDim
		case p == 23:
			s.pen.Attrs &^= AttrItalic
		case p == 24:
			s.pen.Attrs &^= AttrUnderline
		case p == 25:
			s.pen.Attrs &^= AttrBlink
		case p == 27:
			s.pen.Attrs &^= AttrReverse
		case p == 28:
			s.pen.Attrs &^= AttrHidden
		case p == 29:
			s.pen.Attrs &^= AttrStrike
		case p >= 30 && p <= 37:
			s.pen.FG = Indexed(uint8(p - 30))
		case p == 38:
			var c Color
			c, i = extendedColor(params, i)
			s.pen.FG = c
		case p == 39:
			s.pen.FG = DefaultColor
		case p >= 40 && p <= 47:
			s.pen.BG = Indexed(uint8(p - 40))
		case p == 48:
			var c Color
			c, i = extendedColor(params, i)
			s.pen.BG = c
		case p == 49:
			s.pen.BG = DefaultColor
		case p >= 90 && p <= 97:
			s.pen.FG = Indexed(uint8(p - 90 + 8))
		case p >= 100 && p <= 107:
			s.pen.BG = Indexed(uint8(p - 100 + 8))
		}
	}
}

// extendedColor decodes a 38/48 color starting at params[i] and returns the
// index of the last parameter it consumed. Both the colon form
// (38:2::r:g:b, 38:5:n) and the semicolon form (38;2;r;g;b) are handled.
func extendedColor(params ansi.Params, i int) (Color, int) {
	if params[i].HasMore() {
		var sub []int
		j := i
		for j+1 < len(params) && params[j].HasMore() {
			j++
			sub = append(sub, params[j].Param(0))
		}
		if len(sub) == 0 {
			return DefaultColor, j
		}
		switch sub[0] {
		case 5:
			if len(sub) >= 2 {
				return Indexed(uint8(sub[1])), j
			}
		case 2:
			if len(sub) >= 4 {
				rgb := sub[len(sub)-3:]
				return RGB(uint8(rgb[0]), uint8(rgb[1]), uint8(rgb[2])), j
			}
		}
		return DefaultColor, j
	}

	switch param(params, i+1, -1, false) {
	case 5:
		if i+2 < len(params) {
			return Indexed(uint8(param(params, i+2, 0, false))), i + 2
		}
		return DefaultColor, len(params) - 1
	case 2:
		if i+4 < len(params) {
			return RGB(
				uint8(param(params, i+2, 0, false)),
				uint8(param(params, i+3, 0, false)),
				uint8(param(params, i+4, 0, false)),
			), i + 4
		}
		return DefaultColor, len(params) - 1
	}
	return DefaultColor, i
}
