package workspace

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/bnema/termdeck/internal/application/session"
	"github.com/bnema/termdeck/internal/domain/entity"
)

const scrollStep = 3

// Pane is the capability set every pane variant offers the coordinator. The
// set of variants is closed: TerminalPane, BrowserPane and ViewerPane.
// Renderers switch on the concrete type.
type Pane interface {
	ID() entity.PaneID
	Kind() entity.PaneKind
	// Update applies state produced since the last tick and reports whether
	// anything visible changed.
	Update() bool
	HandleKey(ev entity.KeyEvent) Effect
	// HandlePointer receives pointer events in content coordinates.
	HandlePointer(ev entity.PointerEvent, local entity.Point) Effect
	// Resize sets the content size in host units.
	Resize(w, h int)
	Describe() *entity.PaneSnapshot
	Close() error

	isPane()
}

// Effect asks the coordinator to do something on a pane's behalf.
type Effect struct {
	OpenFile string
	SetRoot  string
	Close    bool
}

func (e Effect) empty() bool {
	return e.OpenFile == "" && e.SetRoot == "" && !e.Close
}

// TerminalPane shows one terminal session.
type TerminalPane struct {
	id     entity.PaneID
	sess   *session.Session
	log    *zerolog.Logger
	scroll int

	exitSeen bool
	lastCwd  string
}

// NewTerminalPane wraps a running session. log should carry the pane id.
func NewTerminalPane(id entity.PaneID, sess *session.Session, log *zerolog.Logger) *TerminalPane {
	return &TerminalPane{id: id, sess: sess, log: log}
}

func (p *TerminalPane) isPane() {}

func (p *TerminalPane) ID() entity.PaneID { return p.id }

func (p *TerminalPane) Kind() entity.PaneKind { return entity.PaneTerminal }

// Session returns the underlying session.
func (p *TerminalPane) Session() *session.Session { return p.sess }

// ScrollOffset is the number of scrollback lines shown above the live screen.
func (p *TerminalPane) ScrollOffset() int { return p.scroll }

// Err returns entity.ErrProcessExited once the process has ended.
func (p *TerminalPane) Err() error {
	if p.sess.Status() == session.StatusExited {
		return entity.ErrProcessExited
	}
	return nil
}

func (p *TerminalPane) Update() bool {
	changed := p.sess.Process()
	if !p.exitSeen && p.sess.Status() == session.StatusExited {
		p.exitSeen = true
		code, _ := p.sess.ExitCode()
		p.log.Info().Int("exit_code", code).Msg("terminal exited")
		changed = true
	}
	return changed
}

func (p *TerminalPane) HandleKey(ev entity.KeyEvent) Effect {
	p.scroll = 0
	switch err := p.sess.SendKey(ev); {
	case err == nil:
	case errors.Is(err, entity.ErrProcessExited):
		p.log.Debug().Msg("key dropped: process exited")
	default:
		p.log.Warn().Err(err).Msg("key dropped")
	}
	return Effect{}
}

func (p *TerminalPane) HandlePointer(ev entity.PointerEvent, _ entity.Point) Effect {
	if p.sess.Screen().AltScreen() {
		return Effect{}
	}
	switch ev.Action {
	case entity.PointerScrollUp:
		p.scroll = min(p.scroll+scrollStep, p.sess.Screen().ScrollbackLen())
	case entity.PointerScrollDown:
		p.scroll = max(p.scroll-scrollStep, 0)
	}
	return Effect{}
}

func (p *TerminalPane) Resize(w, h int) {
	if err := p.sess.Resize(h, w); err != nil {
		p.log.Debug().Err(err).Msg("terminal resize failed")
	}
}

func (p *TerminalPane) Describe() *entity.PaneSnapshot {
	cwd, _ := p.sess.Cwd()
	return &entity.PaneSnapshot{Kind: entity.PaneTerminal.String(), Cwd: cwd}
}

func (p *TerminalPane) Close() error {
	return p.sess.Close()
}

// Closed reports when the terminal's process and goroutines are gone.
func (p *TerminalPane) Closed() <-chan struct{} {
	return p.sess.Closed()
}
