package workspace

import (
	"bytes"
	"strings"

	"github.com/bnema/termdeck/internal/domain/entity"
)

// ViewerPane shows a read-only file.
type ViewerPane struct {
	id        entity.PaneID
	path      string
	lines     []string
	truncated bool
	binary    bool
	err       error

	offset int
	height int
}

// NewViewerPane creates a viewer over data read from path. A non-nil err
// makes the pane show the error instead of content.
func NewViewerPane(id entity.PaneID, path string, data []byte, truncated bool, err error) *ViewerPane {
	v := &ViewerPane{id: id, path: path, truncated: truncated, err: err, height: 1}
	if err != nil {
		return v
	}
	if bytes.IndexByte(data, 0) >= 0 {
		v.binary = true
		return v
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	v.lines = strings.Split(strings.ReplaceAll(text, "\t", "    "), "\n")
	return v
}

func (v *ViewerPane) isPane() {}

func (v *ViewerPane) ID() entity.PaneID { return v.id }

func (v *ViewerPane) Kind() entity.PaneKind { return entity.PaneViewer }

// Path returns the file shown.
func (v *ViewerPane) Path() string { return v.path }

// Lines returns the file content split into lines.
func (v *ViewerPane) Lines() []string { return v.lines }

// Offset is the index of the first line on screen.
func (v *ViewerPane) Offset() int { return v.offset }

// Truncated reports whether the file was cut at the size limit.
func (v *ViewerPane) Truncated() bool { return v.truncated }

// Binary reports whether the file looked like binary data.
func (v *ViewerPane) Binary() bool { return v.binary }

// Err returns the read error, if any.
func (v *ViewerPane) Err() error { return v.err }

func (v *ViewerPane) Update() bool { return false }

func (v *ViewerPane) HandleKey(ev entity.KeyEvent) Effect {
	switch {
	case ev.Key == entity.KeyUp || isRune(ev, 'k'):
		v.scrollBy(-1)
	case ev.Key == entity.KeyDown || isRune(ev, 'j'):
		v.scrollBy(1)
	case ev.Key == entity.KeyPageUp:
		v.scrollBy(-v.height)
	case ev.Key == entity.KeyPageDown || ev.Key == entity.KeySpace:
		v.scrollBy(v.height)
	case ev.Key == entity.KeyHome || isRune(ev, 'g'):
		v.offset = 0
	case ev.Key == entity.KeyEnd || isRune(ev, 'G'):
		v.scrollBy(len(v.lines))
	case ev.Key == entity.KeyEscape || isRune(ev, 'q'):
		return Effect{Close: true}
	}
	return Effect{}
}

func (v *ViewerPane) HandlePointer(ev entity.PointerEvent, _ entity.Point) Effect {
	switch ev.Action {
	case entity.PointerScrollUp:
		v.scrollBy(-scrollStep)
	case entity.PointerScrollDown:
		v.scrollBy(scrollStep)
	}
	return Effect{}
}

func (v *ViewerPane) scrollBy(n int) {
	v.offset = max(min(v.offset+n, len(v.lines)-v.height), 0)
}

func (v *ViewerPane) Resize(_, h int) {
	v.height = max(h, 1)
	v.scrollBy(0)
}

func (v *ViewerPane) Describe() *entity.PaneSnapshot {
	return &entity.PaneSnapshot{Kind: entity.PaneViewer.String(), File: v.path}
}

func (v *ViewerPane) Close() error { return nil }
