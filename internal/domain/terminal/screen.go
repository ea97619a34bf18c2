package terminal

import (
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const (
	DefaultRows       = 24
	DefaultCols       = 80
	DefaultScrollback = 10000
	tabWidth          = 8
)

// CursorShape is the shape requested with DECSCUSR.
type CursorShape int

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBar
)

// Cursor is the emulated cursor. Row and Col are zero-based.
type Cursor struct {
	Row, Col int
	Visible  bool
	Shape    CursorShape
	Blink    bool
}

type savedCursor struct {
	row, col int
	pen      Cell
	autoWrap bool
	valid    bool
}

// Screen is the emulated state of one terminal: two grids, a cursor, a
// bounded scrollback and the out-of-band values programs report (title, cwd).
//
// Screen is not safe for concurrent use.
type Screen struct {
	parser *ansi.Parser

	rows, cols int
	primary    *Grid
	alternate  *Grid
	altActive  bool

	cursor      Cursor
	pen         Cell
	pendingWrap bool
	autoWrap    bool
	appCursor   bool
	bracketed   bool

	scrollTop    int // inclusive
	scrollBottom int // inclusive

	savedPrimary   savedCursor
	savedAlternate savedCursor

	scrollback *Ring[[]Cell]

	title   string
	cwd     string
	cwdSeq  uint64
	replies []byte
	version uint64
}

// NewScreen creates a screen of the given size keeping at most scrollback
// lines of history.
func NewScreen(rows, cols, scrollback int) *Screen {
	rows, cols = max(rows, 1), max(cols, 1)
	s := &Screen{
		rows:       rows,
		cols:       cols,
		scrollback: NewRing[[]Cell](scrollback),
	}
	s.reset()

	s.parser = ansi.NewParser()
	s.parser.SetHandler(ansi.Handler{
		Print:     s.print,
		Execute:   s.execute,
		HandleCsi: s.handleCsi,
		HandleEsc: s.handleEsc,
		HandleOsc: s.handleOsc,
	})
	return s
}

func (s *Screen) reset() {
	s.pen = Cell{}
	s.primary = newGrid(s.rows, s.cols, s.pen)
	s.alternate = newGrid(s.rows, s.cols, s.pen)
	s.altActive = false
	s.cursor = Cursor{Visible: true}
	s.pendingWrap = false
	s.autoWrap = true
	s.appCursor = false
	s.bracketed = false
	s.scrollTop, s.scrollBottom = 0, s.rows-1
	s.savedPrimary, s.savedAlternate = savedCursor{}, savedCursor{}
}

// Feed runs raw process output through the parser.
func (s *Screen) Feed(p []byte) {
	if len(p) == 0 {
		return
	}
	for _, b := range p {
		s.parser.Advance(b)
	}
	s.version++
}

// Rows returns the screen height.
func (s *Screen) Rows() int { return s.rows }

// Cols returns the screen width.
func (s *Screen) Cols() int { return s.cols }

// Cursor returns the cursor state.
func (s *Screen) Cursor() Cursor { return s.cursor }

// Grid returns the active grid.
func (s *Screen) Grid() *Grid {
	if s.altActive {
		return s.alternate
	}
	return s.primary
}

// Cell returns the active grid's cell at (row, col).
func (s *Screen) Cell(row, col int) Cell { return s.Grid().Cell(row, col) }

// Text returns the text of a row of the active grid.
func (s *Screen) Text(row int) string { return s.Grid().Text(row) }

// AltScreen reports whether the alternate screen is active.
func (s *Screen) AltScreen() bool { return s.altActive }

// AppCursor reports whether DECCKM application cursor keys are enabled.
func (s *Screen) AppCursor() bool { return s.appCursor }

// BracketedPaste reports whether the program asked for bracketed paste.
func (s *Screen) BracketedPaste() bool { return s.bracketed }

// Title returns the window title set with OSC 0 or 2.
func (s *Screen) Title() string { return s.title }

// Cwd returns the last directory reported by the program, if any.
func (s *Screen) Cwd() (string, bool) { return s.cwd, s.cwd != "" }

// CwdSeq increments every time the program reports a directory.
func (s *Screen) CwdSeq() uint64 { return s.cwdSeq }

// Version increments whenever the screen changes.
func (s *Screen) Version() uint64 { return s.version }

// ScrollbackLen returns the number of lines in the scrollback.
func (s *Screen) ScrollbackLen() int { return s.scrollback.Len() }

// ScrollbackLine returns a scrollback line, oldest first.
func (s *Screen) ScrollbackLine(i int) []Cell {
	line, _ := s.scrollback.At(i)
	return line
}

// ScrollbackText returns the text of a scrollback line, oldest first.
func (s *Screen) ScrollbackText(i int) string {
	return cellsText(s.ScrollbackLine(i))
}

// TakeReplies returns and clears the bytes the screen wants written back to
// the program (device status and attribute reports).
func (s *Screen) TakeReplies() []byte {
	out := s.replies
	s.replies = nil
	return out
}

// Resize changes the screen size. Content stays top-left aligned. When the
// cursor row would fall off the bottom, top lines move to the scrollback so
// the cursor stays on the same content line; otherwise the cursor is clamped.
func (s *Screen) Resize(rows, cols int) {
	rows, cols = max(rows, 1), max(cols, 1)
	if rows == s.rows && cols == s.cols {
		return
	}

	skip := 0
	if s.cursor.Row >= rows {
		skip = s.cursor.Row - rows + 1
	}

	if s.altActive {
		s.alternate = s.alternate.resized(rows, cols, skip, s.pen)
		s.primary = s.primary.resized(rows, cols, 0, s.pen)
	} else {
		for r := 0; r < skip; r++ {
			s.pushScrollback(s.primary.lines[r])
		}
		s.primary = s.primary.resized(rows, cols, skip, s.pen)
		s.alternate = s.alternate.resized(rows, cols, 0, s.pen)
	}

	s.rows, s.cols = rows, cols
	s.cursor.Row = min(s.cursor.Row-skip, rows-1)
	s.cursor.Col = min(s.cursor.Col, cols-1)
	s.pendingWrap = false
	s.scrollTop, s.scrollBottom = 0, rows-1
	s.savedPrimary = s.clampSaved(s.savedPrimary)
	s.savedAlternate = s.clampSaved(s.savedAlternate)
	s.version++
}

func (s *Screen) clampSaved(sc savedCursor) savedCursor {
	sc.row = min(sc.row, s.rows-1)
	sc.col = min(sc.col, s.cols-1)
	return sc
}

func (s *Screen) line(row int) []Cell {
	return s.Grid().lines[row]
}

func (s *Screen) print(r rune) {
	width := runewidth.RuneWidth(r)
	if width == 0 {
		return
	}
	if width > 2 {
		width = 2
	}

	if s.pendingWrap && s.autoWrap {
		s.cursor.Col = 0
		s.lineFeed()
	}
	s.pendingWrap = false

	if width == 2 && s.cursor.Col == s.cols-1 {
		if s.cols < 2 {
			return
		}
		if s.autoWrap {
			s.line(s.cursor.Row)[s.cursor.Col] = blankCell(s.pen)
			s.cursor.Col = 0
			s.lineFeed()
		} else {
			s.cursor.Col--
		}
	}

	row := s.line(s.cursor.Row)
	s.clearWideAt(row, s.cursor.Col)
	cell := s.pen
	cell.Rune = r
	cell.Width = uint8(width)
	row[s.cursor.Col] = cell
	if width == 2 {
		s.clearWideAt(row, s.cursor.Col+1)
		cont := s.pen
		cont.Rune, cont.Width = 0, 0
		row[s.cursor.Col+1] = cont
	}

	if s.cursor.Col+width >= s.cols {
		s.cursor.Col = s.cols - 1
		s.pendingWrap = true
		return
	}
	s.cursor.Col += width
}

// clearWideAt blanks the other half of a wide rune about to be overwritten.
func (s *Screen) clearWideAt(row []Cell, col int) {
	if col < 0 || col >= len(row) {
		return
	}
	switch {
	case row[col].Width == 2 && col+1 < len(row):
		row[col+1] = blankCell(s.pen)
	case row[col].Continuation() && col > 0:
		row[col-1] = blankCell(s.pen)
	}
}

func (s *Screen) execute(b byte) {
	switch b {
	case ansi.BS:
		if s.cursor.Col > 0 {
			s.cursor.Col--
		}
		s.pendingWrap = false
	case ansi.HT:
		s.cursor.Col = min((s.cursor.Col/tabWidth+1)*tabWidth, s.cols-1)
		s.pendingWrap = false
	case ansi.LF, ansi.VT, ansi.FF:
		s.lineFeed()
	case ansi.CR:
		s.cursor.Col = 0
		s.pendingWrap = false
	}
}

func (s *Screen) lineFeed() {
	s.pendingWrap = false
	switch {
	case s.cursor.Row == s.scrollBottom:
		s.scrollUp(1)
	case s.cursor.Row < s.rows-1:
		s.cursor.Row++
	}
}

func (s *Screen) reverseIndex() {
	s.pendingWrap = false
	switch {
	case s.cursor.Row == s.scrollTop:
		s.scrollDown(1)
	case s.cursor.Row > 0:
		s.cursor.Row--
	}
}

// scrollUp moves the scroll region up by n lines. Lines leaving the top of a
// full-height region on the primary screen go to the scrollback.
func (s *Screen) scrollUp(n int) {
	s.scrollRegionUp(s.scrollTop, n, !s.altActive && s.scrollTop == 0)
}

func (s *Screen) scrollRegionUp(top, n int, history bool) {
	g := s.Grid()
	height := s.scrollBottom - top + 1
	n = min(max(n, 0), height)
	if n == 0 {
		return
	}
	region := g.lines[top : s.scrollBottom+1]
	if history {
		for r := 0; r < n; r++ {
			s.pushScrollback(region[r])
		}
	}
	copy(region, region[n:])
	for r := height - n; r < height; r++ {
		region[r] = blankLine(s.cols, s.pen)
	}
}

func (s *Screen) scrollDown(n int) {
	g := s.Grid()
	height := s.scrollBottom - s.scrollTop + 1
	n = min(max(n, 0), height)
	if n == 0 {
		return
	}
	region := g.lines[s.scrollTop : s.scrollBottom+1]
	copy(region[n:], region[:height-n])
	for r := 0; r < n; r++ {
		region[r] = blankLine(s.cols, s.pen)
	}
}

func (s *Screen) pushScrollback(line []Cell) {
	saved := make([]Cell, len(line))
	copy(saved, line)
	s.scrollback.Push(saved)
}

func (s *Screen) moveTo(row, col int) {
	s.cursor.Row = min(max(row, 0), s.rows-1)
	s.cursor.Col = min(max(col, 0), s.cols-1)
	s.pendingWrap = false
}

func (s *Screen) saveCursor() {
	sc := savedCursor{row: s.cursor.Row, col: s.cursor.Col, pen: s.pen, autoWrap: s.autoWrap, valid: true}
	if s.altActive {
		s.savedAlternate = sc
	} else {
		s.savedPrimary = sc
	}
}

func (s *Screen) restoreCursor() {
	sc := s.savedPrimary
	if s.altActive {
		sc = s.savedAlternate
	}
	if !sc.valid {
		s.moveTo(0, 0)
		s.pen = Cell{}
		return
	}
	s.moveTo(sc.row, sc.col)
	s.pen = sc.pen
	s.autoWrap = sc.autoWrap
}

func (s *Screen) setAltScreen(on, clearAlt bool) {
	if on == s.altActive {
		return
	}
	s.altActive = on
	if on && clearAlt {
		s.alternate = newGrid(s.rows, s.cols, s.pen)
	}
	s.scrollTop, s.scrollBottom = 0, s.rows-1
	s.pendingWrap = false
}

func (s *Screen) eraseInLine(mode int) {
	row := s.line(s.cursor.Row)
	blank := blankCell(s.pen)
	switch mode {
	case 0:
		fillCells(row[s.cursor.Col:], blank)
	case 1:
		fillCells(row[:s.cursor.Col+1], blank)
	case 2:
		fillCells(row, blank)
	}
	s.pendingWrap = false
}

func (s *Screen) eraseInDisplay(mode int) {
	g := s.Grid()
	blank := blankCell(s.pen)
	switch mode {
	case 0:
		s.eraseInLine(0)
		for r := s.cursor.Row + 1; r < s.rows; r++ {
			fillCells(g.lines[r], blank)
		}
	case 1:
		s.eraseInLine(1)
		for r := 0; r < s.cursor.Row; r++ {
			fillCells(g.lines[r], blank)
		}
	case 2:
		for r := 0; r < s.rows; r++ {
			fillCells(g.lines[r], blank)
		}
	case 3:
		s.scrollback.Clear()
	}
}

func (s *Screen) insertChars(n int) {
	row := s.line(s.cursor.Row)
	col := s.cursor.Col
	n = min(n, s.cols-col)
	copy(row[col+n:], row[col:s.cols-n])
	fillCells(row[col:col+n], blankCell(s.pen))
	s.pendingWrap = false
}

func (s *Screen) deleteChars(n int) {
	row := s.line(s.cursor.Row)
	col := s.cursor.Col
	n = min(n, s.cols-col)
	copy(row[col:], row[col+n:])
	fillCells(row[s.cols-n:], blankCell(s.pen))
	s.pendingWrap = false
}

func (s *Screen) eraseChars(n int) {
	row := s.line(s.cursor.Row)
	col := s.cursor.Col
	n = min(n, s.cols-col)
	fillCells(row[col:col+n], blankCell(s.pen))
	s.pendingWrap = false
}

// insertLines and deleteLines only act when the cursor is inside the scroll region.
func (s *Screen) insertLines(n int) {
	if s.cursor.Row < s.scrollTop || s.cursor.Row > s.scrollBottom {
		return
	}
	top := s.scrollTop
	s.scrollTop = s.cursor.Row
	s.scrollDown(n)
	s.scrollTop = top
	s.cursor.Col = 0
	s.pendingWrap = false
}

func (s *Screen) deleteLines(n int) {
	if s.cursor.Row < s.scrollTop || s.cursor.Row > s.scrollBottom {
		return
	}
	s.scrollRegionUp(s.cursor.Row, n, false)
	s.cursor.Col = 0
	s.pendingWrap = false
}

func (s *Screen) setScrollRegion(top, bottom int) {
	top = max(top, 1) - 1
	if bottom <= 0 || bottom > s.rows {
		bottom = s.rows
	}
	bottom--
	if top >= bottom {
		return
	}
	s.scrollTop, s.scrollBottom = top, bottom
	s.moveTo(0, 0)
}
