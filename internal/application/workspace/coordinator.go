// Package workspace owns the panes of one window and drives them from a
// single tick: panes update, the layout is computed, queued input is routed,
// commands are applied, the browser follows the focused terminal, and a
// Frame is produced for the renderer.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/termdeck/internal/application/dirtree"
	"github.com/bnema/termdeck/internal/application/input"
	"github.com/bnema/termdeck/internal/application/port"
	"github.com/bnema/termdeck/internal/application/session"
	"github.com/bnema/termdeck/internal/domain/entity"
	"github.com/bnema/termdeck/internal/domain/layout"
	"github.com/bnema/termdeck/internal/logging"
)

const (
	DefaultPanelRatio  = 0.25
	DefaultMaxFileSize = 1 << 20
	defaultShell       = "/bin/sh"
)

// LastPanePolicy says what happens when the last pane closes.
type LastPanePolicy string

const (
	LastPaneQuit    LastPanePolicy = "quit"
	LastPaneRespawn LastPanePolicy = "respawn"
)

// Options configures a Coordinator.
type Options struct {
	Layout layout.Options
	// ViewerPolicy replaces Layout.Policy while at least one viewer is open.
	ViewerPolicy layout.Policy

	Shell     string
	ShellArgs []string
	Term      string
	Env       []string
	Session   session.Options

	// PanelRatio is the share of the window the browser panel takes.
	PanelRatio float64
	// ContentInset is subtracted from each side of a pane rectangle before
	// panes are resized and pointer positions are forwarded.
	ContentInset int

	FollowCwd       bool
	CwdDebounce     time.Duration
	CwdPollInterval time.Duration

	MaxFileSize      int64
	OnLastPaneClosed LastPanePolicy
	Browser          dirtree.Options
	StartDir         string
	WorkspaceID      string
}

// Deps are the ports the coordinator drives.
type Deps struct {
	Spawner port.ProcessSpawner
	Dirs    port.DirReader
	Files   port.FileReader
	// Watcher is optional. Without it the browser only changes on refresh.
	Watcher port.DirWatcher
	Hotkeys input.Hotkeys
	// Meter is optional and defaults to the global meter provider.
	Meter metric.Meter
	// OnChange is called from Tick after a new state was published.
	OnChange func()
}

// PaneView is one pane as the renderer sees it.
type PaneView struct {
	Rect    entity.PaneRect
	Pane    Pane
	Focused bool
}

// Frame is the result of one tick.
type Frame struct {
	Window      entity.Size
	Rects       []entity.PaneRect
	Panes       []PaneView
	Borders     []layout.Border
	Focused     entity.PaneID
	BrowserRoot string
	Inset       int
	// Changed is set when anything visible may differ from the last frame.
	Changed bool
	// Quit is set once the workspace asked the host to exit.
	Quit bool
}

// Coordinator owns the layout tree, the pane registry, the router and the
// browser state. Everything except Enqueue, SetWindow and State must be
// called from the goroutine that calls Tick.
type Coordinator struct {
	opts    Options
	deps    Deps
	ctx     context.Context
	log     *zerolog.Logger
	metrics *Metrics

	tree    *layout.Tree
	router  *input.Router
	panes   map[entity.PaneID]Pane
	browser *dirtree.Tree
	follow  *CwdFollower

	panel       entity.PaneID
	lastContent entity.PaneID
	focused     entity.PaneID
	watched     map[string]bool

	mu     sync.Mutex
	queue  []entity.InputEvent
	window entity.Size

	dirty bool
	quit  bool
	state atomic.Pointer[entity.WorkspaceState]
}

// New creates an empty workspace. ctx bounds every session and read the
// workspace starts.
func New(ctx context.Context, opts Options, deps Deps) (*Coordinator, error) {
	if deps.Spawner == nil || deps.Dirs == nil || deps.Files == nil {
		return nil, errors.New("workspace: spawner, dir reader and file reader are required")
	}
	opts = opts.withDefaults()

	metrics, err := NewMetrics(deps.Meter)
	if err != nil {
		return nil, fmt.Errorf("create workspace metrics: %w", err)
	}

	ctx = logging.WithComponent(ctx, "workspace")
	tree := layout.New(opts.Layout)
	c := &Coordinator{
		opts:    opts,
		deps:    deps,
		ctx:     ctx,
		log:     logging.FromContext(ctx),
		metrics: metrics,
		tree:    tree,
		router:  input.NewRouter(deps.Hotkeys, tree),
		panes:   make(map[entity.PaneID]Pane),
		browser: dirtree.New(ctx, deps.Dirs, opts.Browser),
		follow:  NewCwdFollower(opts.CwdDebounce, opts.CwdPollInterval),
		watched: make(map[string]bool),
	}
	return c, nil
}

func (o Options) withDefaults() Options {
	if o.Layout.Policy == nil {
		o.Layout.Policy = layout.StoredRatios{}
	}
	if o.Shell == "" {
		o.Shell = defaultShell
	}
	if o.PanelRatio <= 0 || o.PanelRatio >= 1 {
		o.PanelRatio = DefaultPanelRatio
	}
	if o.ContentInset < 0 {
		o.ContentInset = 0
	}
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.OnLastPaneClosed != LastPaneRespawn {
		o.OnLastPaneClosed = LastPaneQuit
	}
	if o.StartDir == "" {
		if wd, err := os.Getwd(); err == nil {
			o.StartDir = wd
		} else {
			o.StartDir = "/"
		}
	}
	if o.WorkspaceID == "" {
		o.WorkspaceID = uuid.NewString()
	}
	return o
}

// ID returns the workspace id used for snapshots.
func (c *Coordinator) ID() string {
	return c.opts.WorkspaceID
}

// Start opens the first terminal unless Restore already populated the tree.
func (c *Coordinator) Start() error {
	if !c.tree.Empty() {
		return nil
	}
	if err := c.openInitial(c.opts.StartDir, time.Now()); err != nil {
		return err
	}
	c.publish()
	return nil
}

func (c *Coordinator) openInitial(dir string, now time.Time) error {
	id, err := c.tree.Split(entity.NoPane, entity.SplitHorizontal)
	if err != nil {
		return err
	}
	if err := c.spawnTerminal(id, dir); err != nil {
		_ = c.tree.Remove(id)
		return err
	}
	c.focus(id, now)
	return nil
}

// Enqueue queues an input event for the next tick. Safe for concurrent use.
func (c *Coordinator) Enqueue(ev entity.InputEvent) {
	c.mu.Lock()
	c.queue = append(c.queue, ev)
	c.mu.Unlock()
}

// SetWindow sets the window size used by the next tick. Safe for concurrent use.
func (c *Coordinator) SetWindow(size entity.Size) {
	c.mu.Lock()
	c.window = size
	c.mu.Unlock()
}

func (c *Coordinator) takeInput() ([]entity.InputEvent, entity.Size) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.queue
	c.queue = nil
	return q, c.window
}

// Focused returns the focused pane.
func (c *Coordinator) Focused() entity.PaneID {
	return c.router.Focused()
}

// Pane returns the pane with the given id.
func (c *Coordinator) Pane(id entity.PaneID) (Pane, bool) {
	p, ok := c.panes[id]
	return p, ok
}

// Browser returns the browser state shared by every browser pane.
func (c *Coordinator) Browser() *dirtree.Tree {
	return c.browser
}

// PanelOpen reports whether the browser panel is shown.
func (c *Coordinator) PanelOpen() bool {
	return c.panel.Valid()
}

// Hotkeys returns the active hotkey table.
func (c *Coordinator) Hotkeys() input.Hotkeys {
	return c.router.Hotkeys()
}

// SetHotkeys replaces the hotkey table, for example after a config reload.
func (c *Coordinator) SetHotkeys(h input.Hotkeys) {
	c.router.SetHotkeys(h)
	c.log.Debug().Int("bindings", len(h)).Msg("hotkeys replaced")
}

// Paste sends text to the focused terminal.
func (c *Coordinator) Paste(text string) {
	tp, ok := c.panes[c.router.Focused()].(*TerminalPane)
	if !ok {
		return
	}
	if err := tp.Session().Paste(text); err != nil {
		c.log.Debug().Err(err).Msg("paste dropped")
	}
}

// Tick advances the workspace by one frame.
func (c *Coordinator) Tick(ctx context.Context, now time.Time) Frame {
	start := time.Now()
	events, window := c.takeInput()
	changed := false

	for _, id := range c.tree.Panes() {
		if p, ok := c.panes[id]; ok && p.Update() {
			changed = true
		}
	}

	rects := c.layout(window, now)
	for _, ev := range events {
		if c.handle(ctx, ev, rects, now) {
			changed = true
		}
		rects = c.layout(window, now)
	}

	if c.followCwd(ctx, now) {
		changed = true
	}
	if c.browser.ApplyPending() {
		changed = true
	}
	if c.drainWatcher() {
		changed = true
	}
	c.syncWatches()
	c.resizePanes(rects)

	if c.dirty {
		c.dirty = false
		changed = true
		c.publish()
		if c.deps.OnChange != nil {
			c.deps.OnChange()
		}
	}

	frame := c.frame(window, rects, changed)
	c.metrics.RecordTick(ctx, time.Since(start))
	return frame
}

func (c *Coordinator) layout(window entity.Size, now time.Time) []entity.PaneRect {
	rects := c.tree.Compute(window)
	if !window.Empty() && c.router.Reconcile(rects) {
		c.syncFocus(now)
		rects = c.tree.Compute(window)
	}
	return rects
}

func (c *Coordinator) handle(ctx context.Context, ev entity.InputEvent, rects []entity.PaneRect, now time.Time) bool {
	res := c.router.Route(ev, rects)
	c.syncFocus(now)

	switch res.Target {
	case input.TargetHotkey:
		c.apply(ctx, res.Action, now)
	case input.TargetBorder:
		if ev.Pointer != nil && ev.Pointer.Action == entity.PointerRelease {
			c.dirty = true
		}
	case input.TargetPane:
		p, ok := c.panes[res.Pane]
		if !ok {
			c.log.Debug().Err(entity.ErrNotFound).Uint64("pane_id", uint64(res.Pane)).Msg("event for unknown pane")
			return false
		}
		before := c.browserKey()
		var eff Effect
		if ev.Key != nil {
			eff = p.HandleKey(*ev.Key)
		} else {
			inset := c.opts.ContentInset
			local := entity.Point{X: res.Local.X - inset, Y: res.Local.Y - inset}
			eff = p.HandlePointer(*ev.Pointer, local)
		}
		c.applyEffect(ctx, p, eff, now)
		if c.browserKey() != before {
			c.dirty = true
		}
	}
	return res.Consumed()
}

// browserKey summarizes the persisted browser state.
func (c *Coordinator) browserKey() string {
	key := c.browser.Root()
	for _, dir := range c.browser.Expanded() {
		key += "\x00" + dir
	}
	return key
}

func (c *Coordinator) applyEffect(ctx context.Context, p Pane, eff Effect, now time.Time) {
	if eff.empty() {
		return
	}
	switch {
	case eff.Close:
		c.closePane(p.ID(), now)
	case eff.OpenFile != "":
		c.openFile(ctx, eff.OpenFile, now)
	case eff.SetRoot != "":
		c.browser.SetRoot(eff.SetRoot)
	}
}

// focus moves focus to id and records the change.
func (c *Coordinator) focus(id entity.PaneID, now time.Time) {
	c.router.SetFocus(id)
	c.syncFocus(now)
}

// syncFocus propagates a focus change made by the router to the layout tree
// and the cwd follower.
func (c *Coordinator) syncFocus(now time.Time) {
	f := c.router.Focused()
	if f == c.focused {
		return
	}
	c.focused = f
	c.tree.SetFocus(f)
	c.dirty = true
	if f.Valid() && f != c.panel {
		c.lastContent = f
	}
	if tp, ok := c.panes[f].(*TerminalPane); ok {
		tp.lastCwd = ""
	}
	c.follow.FocusChanged(f, now)
}

func (c *Coordinator) followCwd(ctx context.Context, now time.Time) bool {
	if !c.opts.FollowCwd {
		return false
	}
	id, ok := c.follow.Due(c.router.Focused(), now)
	if !ok {
		return false
	}
	tp, ok := c.panes[id].(*TerminalPane)
	if !ok {
		return false
	}
	cwd, ok := tp.Session().Cwd()
	if !ok || cwd == tp.lastCwd {
		return false
	}
	tp.lastCwd = cwd
	c.dirty = true
	if !c.browser.SetRoot(cwd) {
		return false
	}
	c.metrics.RecordCwdFollow(ctx)
	c.log.Debug().Str("path", cwd).Uint64("pane_id", uint64(id)).Msg("browser follows terminal")
	return true
}

func (c *Coordinator) drainWatcher() bool {
	if c.deps.Watcher == nil {
		return false
	}
	changed := false
	for {
		select {
		case batch, ok := <-c.deps.Watcher.Events():
			if !ok {
				return changed
			}
			if len(c.browser.HandleEvents(batch)) > 0 {
				changed = true
			}
		default:
			return changed
		}
	}
}

// syncWatches watches the browser root and its expanded directories while
// the panel is open.
func (c *Coordinator) syncWatches() {
	if c.deps.Watcher == nil {
		return
	}
	want := make(map[string]bool)
	if root := c.browser.Root(); root != "" && c.panel.Valid() {
		want[root] = true
		for _, dir := range c.browser.Expanded() {
			want[dir] = true
		}
	}
	for dir := range c.watched {
		if want[dir] {
			continue
		}
		if err := c.deps.Watcher.Unwatch(dir); err != nil {
			c.log.Debug().Err(err).Str("path", dir).Msg("unwatch failed")
		}
		delete(c.watched, dir)
	}
	for dir := range want {
		if c.watched[dir] {
			continue
		}
		if err := c.deps.Watcher.Watch(dir); err != nil {
			c.log.Debug().Err(err).Str("path", dir).Msg("watch failed")
		}
		c.watched[dir] = true
	}
}

func (c *Coordinator) resizePanes(rects []entity.PaneRect) {
	inset := c.opts.ContentInset
	for _, r := range rects {
		if p, ok := c.panes[r.PaneID]; ok {
			p.Resize(max(r.W-2*inset, 1), max(r.H-2*inset, 1))
		}
	}
}

func (c *Coordinator) frame(window entity.Size, rects []entity.PaneRect, changed bool) Frame {
	focused := c.router.Focused()
	views := make([]PaneView, 0, len(rects))
	for _, r := range rects {
		p, ok := c.panes[r.PaneID]
		if !ok {
			continue
		}
		views = append(views, PaneView{Rect: r, Pane: p, Focused: r.PaneID == focused})
	}
	return Frame{
		Window:      window,
		Rects:       rects,
		Panes:       views,
		Borders:     c.tree.Borders(),
		Focused:     focused,
		BrowserRoot: c.browser.Root(),
		Inset:       c.opts.ContentInset,
		Changed:     changed,
		Quit:        c.quit,
	}
}

// Close publishes a final state, closes every pane and waits until their
// processes are gone or ctx is done.
func (c *Coordinator) Close(ctx context.Context) error {
	c.publish()

	g, _ := errgroup.WithContext(ctx)
	for id, p := range c.panes {
		g.Go(func() error {
			if err := p.Close(); err != nil {
				return fmt.Errorf("close pane %d: %w", id, err)
			}
			w, ok := p.(closeWaiter)
			if !ok {
				return nil
			}
			select {
			case <-w.Closed():
				return nil
			case <-ctx.Done():
				return fmt.Errorf("close pane %d: %w", id, ctx.Err())
			}
		})
	}
	err := g.Wait()
	for _, p := range c.panes {
		c.metrics.PaneClosed(ctx, p.Kind().String())
	}
	clear(c.panes)
	c.browser.Close()
	return err
}

func (c *Coordinator) spawnTerminal(id entity.PaneID, dir string) error {
	ctx := logging.WithPaneID(c.ctx, uint64(id))
	req := port.SpawnRequest{
		Command: c.opts.Shell,
		Args:    c.opts.ShellArgs,
		Dir:     dir,
		Env:     c.opts.Env,
		Term:    c.opts.Term,
	}
	sess, err := session.Start(ctx, c.deps.Spawner, req, c.opts.Session)
	if err != nil {
		return err
	}
	c.addPane(NewTerminalPane(id, sess, logging.FromContext(ctx)))
	return nil
}

func (c *Coordinator) addPane(p Pane) {
	c.panes[p.ID()] = p
	c.metrics.PaneOpened(c.ctx, p.Kind().String())
	c.dirty = true
}

// closeWaiter is implemented by panes whose Close finishes in the background.
type closeWaiter interface {
	Closed() <-chan struct{}
}

func (c *Coordinator) removePane(id entity.PaneID) {
	p, ok := c.panes[id]
	if !ok {
		return
	}
	delete(c.panes, id)
	if err := p.Close(); err != nil {
		c.log.Debug().Err(err).Uint64("pane_id", uint64(id)).Msg("close pane")
	}
	c.metrics.PaneClosed(c.ctx, p.Kind().String())
}

func (c *Coordinator) logErr(err error, msg string) {
	if errors.Is(err, entity.ErrNotFound) {
		c.log.Debug().Err(err).Msg(msg)
		return
	}
	c.log.Error().Err(err).Msg(msg)
}
