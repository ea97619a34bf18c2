package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/bnema/termdeck/internal/application/port"
	"github.com/bnema/termdeck/internal/domain/terminal"
	"github.com/bnema/termdeck/internal/infrastructure/cache"
)

// styleCacheSize bounds the number of distinct cell styles kept between
// frames. Emulators emitting truecolor output can produce many.
const styleCacheSize = 512

// NewStyleCache returns a cache suitable for sharing between canvases.
func NewStyleCache() port.Cache[CellStyle, lipgloss.Style] {
	return cache.NewLRU[CellStyle, lipgloss.Style](styleCacheSize)
}

// CellStyle is the look of one canvas cell.
type CellStyle struct {
	FG, BG terminal.Color
	Attrs  terminal.Attr
}

type canvasCell struct {
	r     rune
	width uint8
	style CellStyle
}

// Canvas is a fixed grid of styled cells that panes are painted into before
// the frame is serialized.
type Canvas struct {
	w, h   int
	cells  []canvasCell
	styles port.Cache[CellStyle, lipgloss.Style]
}

// NewCanvas returns a blank w×h canvas with its own style cache.
func NewCanvas(w, h int) *Canvas {
	return newCanvas(w, h, NewStyleCache())
}

func newCanvas(w, h int, styles port.Cache[CellStyle, lipgloss.Style]) *Canvas {
	w, h = max(w, 0), max(h, 0)
	c := &Canvas{w: w, h: h, cells: make([]canvasCell, w*h), styles: styles}
	for i := range c.cells {
		c.cells[i] = canvasCell{r: ' ', width: 1}
	}
	return c
}

// Width returns the canvas width.
func (c *Canvas) Width() int { return c.w }

// Height returns the canvas height.
func (c *Canvas) Height() int { return c.h }

func (c *Canvas) at(x, y int) *canvasCell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return nil
	}
	return &c.cells[y*c.w+x]
}

// Set paints r at x, y. A wide rune that does not fit is replaced by a space.
func (c *Canvas) Set(x, y int, r rune, st CellStyle) {
	cell := c.at(x, y)
	if cell == nil {
		return
	}
	w := runewidth.RuneWidth(r)
	if w == 2 {
		next := c.at(x+1, y)
		if next == nil {
			*cell = canvasCell{r: ' ', width: 1, style: st}
			return
		}
		*next = canvasCell{width: 0, style: st}
	}
	if w == 0 {
		w = 1
	}
	*cell = canvasCell{r: r, width: uint8(w), style: st}
}

// SetCell paints an emulator cell, keeping wide runes and their
// continuation halves aligned with the source grid.
func (c *Canvas) SetCell(x, y int, src terminal.Cell) {
	cell := c.at(x, y)
	if cell == nil {
		return
	}
	st := CellStyle{FG: src.FG, BG: src.BG, Attrs: src.Attrs}
	switch {
	case src.Continuation():
		*cell = canvasCell{width: 0, style: st}
	case src.Rune == 0:
		*cell = canvasCell{r: ' ', width: 1, style: st}
	default:
		*cell = canvasCell{r: src.Rune, width: max(src.Width, 1), style: st}
	}
}

// Text writes s from x, y clipped to maxW columns and returns the columns used.
func (c *Canvas) Text(x, y, maxW int, s string, st CellStyle) int {
	used := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if used+w > maxW {
			break
		}
		c.Set(x+used, y, r, st)
		used += w
	}
	return used
}

// Fill paints the rectangle with r.
func (c *Canvas) Fill(x, y, w, h int, r rune, st CellStyle) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			c.Set(col, row, r, st)
		}
	}
}

// Style changes the style of the rectangle without touching its runes.
func (c *Canvas) Style(x, y, w, h int, st CellStyle) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			if cell := c.at(col, row); cell != nil {
				cell.style = st
			}
		}
	}
}

// Line returns the plain text of row y.
func (c *Canvas) Line(y int) string {
	var b strings.Builder
	for x := 0; x < c.w; x++ {
		if cell := c.at(x, y); cell.width > 0 {
			b.WriteRune(cell.r)
		}
	}
	return b.String()
}

// String serializes the canvas, one styled run per change of style.
func (c *Canvas) String() string {
	var out strings.Builder
	var run strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		var cur CellStyle
		for x := 0; x < c.w; x++ {
			cell := c.at(x, y)
			if cell.width == 0 {
				continue
			}
			if cell.style != cur && run.Len() > 0 {
				out.WriteString(c.render(cur, run.String()))
				run.Reset()
			}
			cur = cell.style
			run.WriteRune(cell.r)
		}
		if run.Len() > 0 {
			out.WriteString(c.render(cur, run.String()))
			run.Reset()
		}
	}
	return out.String()
}

func (c *Canvas) render(st CellStyle, s string) string {
	if st == (CellStyle{}) {
		return s
	}
	return c.styles.GetOrCreate(st, lipglossStyle).Render(s)
}

func lipglossStyle(st CellStyle) lipgloss.Style {
	s := lipgloss.NewStyle()
	if col, ok := lipglossColor(st.FG); ok {
		s = s.Foreground(col)
	}
	if col, ok := lipglossColor(st.BG); ok {
		s = s.Background(col)
	}
	a := st.Attrs
	return s.
		Bold(a.Has(terminal.AttrBold)).
		Faint(a.Has(terminal.AttrDim)).
		Italic(a.Has(terminal.AttrItalic)).
		Underline(a.Has(terminal.AttrUnderline)).
		Blink(a.Has(terminal.AttrBlink)).
		Reverse(a.Has(terminal.AttrReverse)).
		Strikethrough(a.Has(terminal.AttrStrike))
}

func lipglossColor(c terminal.Color) (lipgloss.Color, bool) {
	switch c.Kind {
	case terminal.ColorIndexed:
		return lipgloss.Color(fmt.Sprintf("%d", c.Index)), true
	case terminal.ColorRGB:
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)), true
	}
	return "", false
}

// Invert toggles reverse video on one cell.
func (c *Canvas) Invert(x, y int) {
	if cell := c.at(x, y); cell != nil {
		cell.style.Attrs ^= terminal.AttrReverse
	}
}
