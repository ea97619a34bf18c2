// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/termdeck/internal/application/input"
	"github.com/bnema/termdeck/internal/application/workspace"
	"github.com/bnema/termdeck/internal/cli/styles"
	"github.com/bnema/termdeck/internal/domain/entity"
	"github.com/bnema/termdeck/internal/logging"
)

const (
	statusHeight        = 1
	DefaultTickInterval = 16 * time.Millisecond
)

// actionOrder is the order actions appear in the status bar.
var actionOrder = []input.Action{
	input.ActionSplit,
	input.ActionSplitVertical,
	input.ActionClose,
	input.ActionTogglePanel,
	input.ActionCycleFocus,
	input.ActionSwapNext,
	input.ActionQuit,
}

type tickMsg time.Time

// HotkeysMsg replaces the workspace hotkeys, typically after a config reload.
type HotkeysMsg struct {
	Hotkeys input.Hotkeys
}

// Workspace is the interface the model drives. *workspace.Coordinator
// satisfies it.
type Workspace interface {
	Enqueue(ev entity.InputEvent)
	SetWindow(size entity.Size)
	Tick(ctx context.Context, now time.Time) workspace.Frame
	Paste(text string)
	Hotkeys() input.Hotkeys
	SetHotkeys(h input.Hotkeys)
}

// WorkspaceModel hosts a workspace in a Bubble Tea program: it forwards
// input, ticks the workspace and renders every changed frame.
type WorkspaceModel struct {
	help     help.Model
	bindings []key.Binding

	width    int
	height   int
	view     string
	status   string
	stale    bool
	interval time.Duration

	ctx      context.Context
	ws       Workspace
	renderer *styles.FrameRenderer
	theme    *styles.Theme
}

// WorkspaceModelConfig holds configuration for the workspace model.
type WorkspaceModelConfig struct {
	Workspace    Workspace
	Theme        *styles.Theme
	TickInterval time.Duration
}

// NewWorkspaceModel creates the model.
func NewWorkspaceModel(ctx context.Context, cfg WorkspaceModelConfig) *WorkspaceModel {
	theme := cfg.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.DefaultPalette())
	}
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	h := help.New()
	h.Styles.ShortKey = theme.HelpKey
	h.Styles.ShortDesc = theme.HelpDesc
	h.Styles.ShortSeparator = theme.HelpDesc

	return &WorkspaceModel{
		help:     h,
		bindings: helpBindings(cfg.Workspace.Hotkeys()),
		stale:    true,
		interval: interval,
		ctx:      logging.WithComponent(ctx, "tui"),
		ws:       cfg.Workspace,
		renderer: styles.NewFrameRenderer(theme),
		theme:    theme,
	}
}

// Init implements tea.Model.
func (m *WorkspaceModel) Init() tea.Cmd {
	return m.tick()
}

func (m *WorkspaceModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *WorkspaceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.ws.SetWindow(entity.Size{W: msg.Width, H: max(msg.Height-statusHeight, 0)})
		m.stale = true
		return m, nil

	case tea.KeyMsg:
		if msg.Paste {
			m.ws.Paste(string(msg.Runes))
			return m, nil
		}
		for _, ev := range KeyEvents(msg) {
			m.ws.Enqueue(entity.KeyInput(ev))
		}
		return m, nil

	case tea.MouseMsg:
		if ev, ok := PointerEvent(msg); ok {
			m.ws.Enqueue(ev)
		}
		return m, nil

	case HotkeysMsg:
		m.ws.SetHotkeys(msg.Hotkeys)
		m.bindings = helpBindings(msg.Hotkeys)
		m.stale = true
		return m, nil

	case tickMsg:
		frame := m.ws.Tick(m.ctx, time.Time(msg))
		if frame.Quit {
			logging.FromContext(m.ctx).Debug().Msg("workspace quit")
			return m, tea.Quit
		}
		if frame.Changed || m.stale {
			m.view = m.renderer.Render(frame).String()
			m.status = m.statusLine(frame)
			m.stale = false
		}
		return m, m.tick()
	}
	return m, nil
}

// View implements tea.Model.
func (m *WorkspaceModel) View() string {
	if m.width == 0 {
		return ""
	}
	return m.view + "\n" + m.status
}

func (m *WorkspaceModel) statusLine(f workspace.Frame) string {
	left := ""
	if f.BrowserRoot != "" {
		left = m.theme.Title.Render(f.BrowserRoot) + " "
	}
	bar := m.help.ShortHelpView(m.bindings)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(bar)
	if gap < 1 {
		return m.theme.StatusBar.MaxWidth(m.width).Render(left + bar)
	}
	return left + strings.Repeat(" ", gap) + bar
}

// helpBindings lists the hotkeys in action order.
func helpBindings(h input.Hotkeys) []key.Binding {
	byAction := make(map[input.Action][]string)
	for chord, action := range h.Bindings() {
		byAction[action] = append(byAction[action], chord)
	}

	out := make([]key.Binding, 0, len(byAction))
	for _, action := range actionOrder {
		chords := byAction[action]
		if len(chords) == 0 {
			continue
		}
		slices.Sort(chords)
		out = append(out, key.NewBinding(
			key.WithKeys(chords...),
			key.WithHelp(strings.Join(chords, "/"), string(action)),
		))
	}
	return out
}
