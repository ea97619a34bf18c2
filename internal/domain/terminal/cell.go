// Package terminal holds the emulated screen state of a terminal session.
//
// Escape sequence tokenization is done by github.com/charmbracelet/x/ansi;
// Screen applies the resulting actions to its grids, cursor and scrollback.
package terminal

// ColorKind tells how a Color is encoded.
type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	ColorIndexed           // 0-255 palette index
	ColorRGB               // 24-bit truecolor
)

// Color is a cell foreground or background color.
type Color struct {
	Kind    ColorKind
	Index   uint8
	R, G, B uint8
}

// DefaultColor leaves the color to the renderer's theme.
var DefaultColor = Color{}

// Indexed returns a palette color.
func Indexed(i uint8) Color {
	return Color{Kind: ColorIndexed, Index: i}
}

// RGB returns a truecolor color.
func RGB(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// Attr is a bit set of text attributes.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrHidden
	AttrStrike
)

// Has reports whether all bits of a are set.
func (attrs Attr) Has(a Attr) bool {
	return attrs&a == a
}

// Cell is one grid position. Wide runes occupy two cells: the first has
// Width 2, the second is a continuation with Width 0 and Rune 0.
type Cell struct {
	Rune  rune
	Width uint8
	FG    Color
	BG    Color
	Attrs Attr
}

// Continuation reports whether the cell is the right half of a wide rune.
func (c Cell) Continuation() bool {
	return c.Width == 0
}

// blankCell is an erased cell carrying the pen's background, as xterm does.
func blankCell(pen Cell) Cell {
	return Cell{Rune: ' ', Width: 1, BG: pen.BG}
}
