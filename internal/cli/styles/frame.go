package styles

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/bnema/termdeck/internal/application/dirtree"
	"github.com/bnema/termdeck/internal/application/port"
	"github.com/bnema/termdeck/internal/application/workspace"
	"github.com/bnema/termdeck/internal/domain/entity"
)

// FrameRenderer paints workspace frames onto a canvas.
type FrameRenderer struct {
	theme  *Theme
	border lipgloss.Border
	styles port.Cache[CellStyle, lipgloss.Style]
}

// NewFrameRenderer returns a renderer drawing with theme.
func NewFrameRenderer(theme *Theme) *FrameRenderer {
	if theme == nil {
		theme = NewTheme(DefaultPalette())
	}
	return &FrameRenderer{theme: theme, border: lipgloss.RoundedBorder(), styles: NewStyleCache()}
}

// Render paints every pane of f and returns the canvas.
func (r *FrameRenderer) Render(f workspace.Frame) *Canvas {
	c := newCanvas(f.Window.W, f.Window.H, r.styles)
	for _, v := range f.Panes {
		r.renderPane(c, v, f.Inset)
	}
	return c
}

// inner is the content area of a pane rectangle.
type inner struct {
	x, y, w, h int
}

func (r *FrameRenderer) renderPane(c *Canvas, v workspace.PaneView, inset int) {
	rect := v.Rect
	in := inner{x: rect.X + inset, y: rect.Y + inset, w: rect.W - 2*inset, h: rect.H - 2*inset}
	if inset > 0 {
		title, tag := paneTitle(v.Pane)
		r.box(c, rect, fitTitle(title, tag, rect.W-6), v.Focused)
	}
	if in.w <= 0 || in.h <= 0 {
		return
	}

	switch p := v.Pane.(type) {
	case *workspace.TerminalPane:
		r.terminal(c, in, p, v.Focused)
	case *workspace.BrowserPane:
		r.browser(c, in, p)
	case *workspace.ViewerPane:
		r.viewer(c, in, p)
	}
}

func (r *FrameRenderer) box(c *Canvas, rect entity.PaneRect, title string, focused bool) {
	if rect.W < 2 || rect.H < 2 {
		return
	}
	st, titleSt := r.theme.Border, r.theme.PaneTitle
	if focused {
		st, titleSt = r.theme.FocusedBorder, r.theme.FocusedTitle
	}
	b := r.border
	right, bottom := rect.Right()-1, rect.Bottom()-1

	for x := rect.X + 1; x < right; x++ {
		c.Set(x, rect.Y, firstRune(b.Top), st)
		c.Set(x, bottom, firstRune(b.Bottom), st)
	}
	for y := rect.Y + 1; y < bottom; y++ {
		c.Set(rect.X, y, firstRune(b.Left), st)
		c.Set(right, y, firstRune(b.Right), st)
	}
	c.Set(rect.X, rect.Y, firstRune(b.TopLeft), st)
	c.Set(right, rect.Y, firstRune(b.TopRight), st)
	c.Set(rect.X, bottom, firstRune(b.BottomLeft), st)
	c.Set(right, bottom, firstRune(b.BottomRight), st)

	if title != "" && rect.W > 6 {
		c.Text(rect.X+2, rect.Y, rect.W-4, " "+title+" ", titleSt)
	}
}

func (r *FrameRenderer) terminal(c *Canvas, in inner, p *workspace.TerminalPane, focused bool) {
	scr := p.Session().Screen()
	sbLen := scr.ScrollbackLen()
	scroll := p.ScrollOffset()
	rows := min(in.h, scr.Rows())

	for i := 0; i < rows; i++ {
		v := sbLen + i - scroll
		if v < 0 {
			continue
		}
		if v < sbLen {
			line := scr.ScrollbackLine(v)
			for col := 0; col < min(in.w, len(line)); col++ {
				c.SetCell(in.x+col, in.y+i, line[col])
			}
			continue
		}
		row := v - sbLen
		for col := 0; col < min(in.w, scr.Cols()); col++ {
			c.SetCell(in.x+col, in.y+i, scr.Cell(row, col))
		}
	}

	if cur := scr.Cursor(); focused && scroll == 0 && cur.Visible && cur.Row < in.h && cur.Col < in.w {
		c.Invert(in.x+cur.Col, in.y+cur.Row)
	}
	if err := p.Err(); err != nil {
		c.Fill(in.x, in.y+in.h-1, in.w, 1, ' ', r.theme.ErrorCell)
		c.Text(in.x, in.y+in.h-1, in.w, err.Error(), r.theme.ErrorCell)
	}
}

func (r *FrameRenderer) browser(c *Canvas, in inner, p *workspace.BrowserPane) {
	rows := in.h
	if p.Filtering() {
		rows--
		c.Text(in.x, in.y+rows, in.w, "/"+p.Query(), r.theme.FocusedTitle)
	}

	entries := p.Entries()
	for i := 0; i < rows; i++ {
		idx := p.Offset() + i
		if idx >= len(entries) {
			break
		}
		e := entries[idx]
		st := r.entryStyle(e)
		if idx == p.Selected() {
			st = r.theme.Selected
			c.Fill(in.x, in.y+i, in.w, 1, ' ', st)
		}
		c.Text(in.x, in.y+i, in.w, entryLine(e), st)
	}
	if len(entries) == 0 && rows > 0 {
		c.Text(in.x, in.y, in.w, "(empty)", r.theme.MutedCell)
	}
}

func (r *FrameRenderer) entryStyle(e dirtree.Entry) CellStyle {
	switch {
	case e.IsError():
		return r.theme.ErrorCell
	case e.IsDir:
		return r.theme.Dir
	}
	return r.theme.File
}

func entryLine(e dirtree.Entry) string {
	indent := strings.Repeat("  ", e.Depth)
	switch {
	case e.IsError():
		return indent + "! " + e.Err.Error()
	case e.IsDir && e.Expanded:
		return indent + "▾ " + e.Name + "/"
	case e.IsDir:
		return indent + "▸ " + e.Name + "/"
	}
	return indent + "  " + e.Name
}

func (r *FrameRenderer) viewer(c *Canvas, in inner, p *workspace.ViewerPane) {
	switch {
	case p.Err() != nil:
		c.Text(in.x, in.y, in.w, p.Err().Error(), r.theme.ErrorCell)
		return
	case p.Binary():
		c.Text(in.x, in.y, in.w, "binary file not shown", r.theme.MutedCell)
		return
	}

	lines := p.Lines()
	gutter := len(fmt.Sprint(len(lines))) + 1
	if gutter >= in.w {
		gutter = 0
	}
	for i := 0; i < in.h; i++ {
		n := p.Offset() + i
		if n >= len(lines) {
			break
		}
		if gutter > 0 {
			c.Text(in.x, in.y+i, gutter, fmt.Sprintf("%*d", gutter-1, n+1), r.theme.LineNumber)
		}
		c.Text(in.x+gutter, in.y+i, in.w-gutter, lines[n], r.theme.File)
	}
}

// paneTitle returns the name shown in a pane's border and a status tag that
// must survive shortening.
func paneTitle(p workspace.Pane) (title, tag string) {
	switch p := p.(type) {
	case *workspace.TerminalPane:
		sess := p.Session()
		title = sess.Title()
		if title == "" {
			if dir, ok := sess.Cwd(); ok {
				title = dir
			}
		}
		if title == "" {
			title = fmt.Sprintf("pid %d", sess.Pid())
		}
		if p.Err() != nil {
			tag = "[exited]"
		}
		return title, tag
	case *workspace.BrowserPane:
		if root := p.Tree().Root(); root != "" {
			return filepath.Base(root), ""
		}
		return "files", ""
	case *workspace.ViewerPane:
		title = filepath.Base(p.Path())
		if p.Truncated() {
			tag = "[truncated]"
		}
		return title, tag
	}
	return "", ""
}

// fitTitle joins title and tag within width cells, shortening the title
// first so the tag stays readable.
func fitTitle(title, tag string, width int) string {
	if width <= 0 {
		return ""
	}
	if tag == "" {
		return runewidth.Truncate(title, width, "…")
	}
	full := title + " " + tag
	if runewidth.StringWidth(full) <= width {
		return full
	}
	room := width - runewidth.StringWidth(tag) - 1
	if room < 2 {
		return runewidth.Truncate(tag, width, "…")
	}
	return runewidth.Truncate(title, room, "…") + " " + tag
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return ' '
}
