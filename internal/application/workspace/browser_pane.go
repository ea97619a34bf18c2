package workspace

import (
	"path/filepath"

	"github.com/bnema/termdeck/internal/application/dirtree"
	"github.com/bnema/termdeck/internal/domain/entity"
)

// BrowserPane shows the workspace's directory tree. The tree itself belongs
// to the coordinator and outlives the pane.
type BrowserPane struct {
	id       entity.PaneID
	tree     *dirtree.Tree
	selected int
	offset   int
	height   int

	filtering bool
	query     []rune
}

// NewBrowserPane creates a pane over tree.
func NewBrowserPane(id entity.PaneID, tree *dirtree.Tree) *BrowserPane {
	return &BrowserPane{id: id, tree: tree, height: 1}
}

func (p *BrowserPane) isPane() {}

func (p *BrowserPane) ID() entity.PaneID { return p.id }

func (p *BrowserPane) Kind() entity.PaneKind { return entity.PaneBrowser }

// Tree returns the browser state shown by the pane.
func (p *BrowserPane) Tree() *dirtree.Tree { return p.tree }

// Entries returns the rows currently visible in the tree.
func (p *BrowserPane) Entries() []dirtree.Entry { return p.tree.Visible() }

// Selected returns the index of the highlighted row.
func (p *BrowserPane) Selected() int { return p.selected }

// Offset returns the index of the first row on screen.
func (p *BrowserPane) Offset() int { return p.offset }

// Filtering reports whether keystrokes edit the filter.
func (p *BrowserPane) Filtering() bool { return p.filtering }

// Query returns the filter being typed.
func (p *BrowserPane) Query() string { return string(p.query) }

func (p *BrowserPane) Update() bool {
	p.clamp(len(p.tree.Visible()))
	return false
}

func (p *BrowserPane) HandleKey(ev entity.KeyEvent) Effect {
	entries := p.tree.Visible()
	if p.filtering {
		p.editFilter(ev)
		p.clamp(len(p.tree.Visible()))
		return Effect{}
	}

	var eff Effect
	switch {
	case ev.Key == entity.KeyUp || isRune(ev, 'k'):
		p.selected--
	case ev.Key == entity.KeyDown || isRune(ev, 'j'):
		p.selected++
	case ev.Key == entity.KeyPageUp:
		p.selected -= p.height
	case ev.Key == entity.KeyPageDown:
		p.selected += p.height
	case ev.Key == entity.KeyHome || isRune(ev, 'g'):
		p.selected = 0
	case ev.Key == entity.KeyEnd || isRune(ev, 'G'):
		p.selected = len(entries) - 1
	case ev.Key == entity.KeyEnter || ev.Key == entity.KeyRight || isRune(ev, 'l'):
		eff = p.activate(entries)
	case ev.Key == entity.KeyLeft || isRune(ev, 'h'):
		p.collapseOrParent(entries)
	case ev.Key == entity.KeyBackspace || isRune(ev, '-'):
		if root := p.tree.Root(); root != "" {
			eff.SetRoot = filepath.Dir(root)
		}
	case isRune(ev, '/'):
		p.filtering = true
		p.query = p.query[:0]
	case ev.Key == entity.KeyEscape:
		p.tree.SetFilter("")
	}
	p.clamp(len(p.tree.Visible()))
	return eff
}

func (p *BrowserPane) editFilter(ev entity.KeyEvent) {
	switch ev.Key {
	case entity.KeyEscape:
		p.filtering = false
		p.query = nil
	case entity.KeyEnter:
		p.filtering = false
	case entity.KeyBackspace:
		if len(p.query) > 0 {
			p.query = p.query[:len(p.query)-1]
		}
	case entity.KeyRune:
		if ev.Mods == 0 || ev.Mods == entity.ModShift {
			p.query = append(p.query, ev.Rune)
		}
	case entity.KeySpace:
		p.query = append(p.query, ' ')
	}
	p.tree.SetFilter(string(p.query))
	p.selected = 0
}

func (p *BrowserPane) activate(entries []dirtree.Entry) Effect {
	if p.selected < 0 || p.selected >= len(entries) {
		return Effect{}
	}
	e := entries[p.selected]
	switch {
	case e.IsError():
		return Effect{}
	case e.IsDir:
		p.tree.Toggle(e.Path)
		return Effect{}
	default:
		return Effect{OpenFile: e.Path}
	}
}

func (p *BrowserPane) collapseOrParent(entries []dirtree.Entry) {
	if p.selected < 0 || p.selected >= len(entries) {
		return
	}
	e := entries[p.selected]
	if e.IsDir && e.Expanded {
		p.tree.Collapse(e.Path)
		return
	}
	for i := p.selected - 1; i >= 0; i-- {
		if entries[i].Depth < e.Depth {
			p.selected = i
			return
		}
	}
}

func (p *BrowserPane) HandlePointer(ev entity.PointerEvent, local entity.Point) Effect {
	entries := p.tree.Visible()
	switch ev.Action {
	case entity.PointerScrollUp:
		p.offset = max(p.offset-scrollStep, 0)
		p.selected = min(p.selected, p.offset+p.height-1)
	case entity.PointerScrollDown:
		p.offset = max(min(p.offset+scrollStep, len(entries)-p.height), 0)
		p.selected = max(p.selected, p.offset)
	case entity.PointerPress:
		if ev.Button != entity.ButtonLeft {
			return Effect{}
		}
		row := p.offset + local.Y
		if row < 0 || row >= len(entries) {
			return Effect{}
		}
		if row == p.selected {
			return p.activate(entries)
		}
		p.selected = row
	}
	return Effect{}
}

// clamp keeps the selection on a row and the selection on screen.
func (p *BrowserPane) clamp(n int) {
	p.selected = max(min(p.selected, n-1), 0)
	if p.selected < p.offset {
		p.offset = p.selected
	}
	if p.selected >= p.offset+p.height {
		p.offset = p.selected - p.height + 1
	}
	p.offset = max(min(p.offset, n-p.height), 0)
}

func (p *BrowserPane) Resize(_, h int) {
	p.height = max(h, 1)
	p.clamp(len(p.tree.Visible()))
}

func (p *BrowserPane) Describe() *entity.PaneSnapshot {
	return &entity.PaneSnapshot{Kind: entity.PaneBrowser.String()}
}

func (p *BrowserPane) Close() error { return nil }

func isRune(ev entity.KeyEvent, r rune) bool {
	return ev.Key == entity.KeyRune && ev.Rune == r && ev.Mods&^entity.ModShift == 0
}
