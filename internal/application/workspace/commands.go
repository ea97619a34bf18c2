package workspace

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bnema/termdeck/internal/application/input"
	"github.com/bnema/termdeck/internal/domain/entity"
)

func (c *Coordinator) apply(ctx context.Context, action input.Action, now time.Time) {
	c.metrics.RecordCommand(ctx, string(action))
	switch action {
	case input.ActionSplit:
		c.split(entity.SplitHorizontal, now)
	case input.ActionSplitVertical:
		c.split(entity.SplitVertical, now)
	case input.ActionClose:
		c.closePane(c.router.Focused(), now)
	case input.ActionTogglePanel:
		c.togglePanel(now)
	case input.ActionSwapNext:
		c.swapNext()
	case input.ActionQuit:
		c.log.Info().Msg("quit requested")
		c.quit = true
	case input.ActionCycleFocus:
		// The router already moved focus.
	}
}

// splitTarget is the focused pane, or the last content pane when the browser
// panel has focus.
func (c *Coordinator) splitTarget() entity.PaneID {
	target := c.router.Focused()
	if target == c.panel && c.tree.Contains(c.lastContent) {
		target = c.lastContent
	}
	if !c.tree.Contains(target) {
		if ids := c.tree.Panes(); len(ids) > 0 {
			target = ids[0]
		}
	}
	return target
}

// split opens a terminal next to the target pane, in the target's directory.
func (c *Coordinator) split(dir entity.SplitDirection, now time.Time) {
	target := c.splitTarget()
	cwd := c.cwdFor(target)

	id, err := c.tree.Split(target, dir)
	if err != nil {
		c.logErr(err, "split")
		return
	}
	if err := c.spawnTerminal(id, cwd); err != nil {
		c.log.Error().Err(err).Str("path", cwd).Msg("open terminal")
		if err := c.tree.Remove(id); err != nil {
			c.logErr(err, "undo split")
		}
		return
	}
	c.focus(id, now)
	c.dirty = true
}

// cwdFor is the directory a pane opened next to id starts in.
func (c *Coordinator) cwdFor(id entity.PaneID) string {
	switch p := c.panes[id].(type) {
	case *TerminalPane:
		if dir, ok := p.Session().Cwd(); ok {
			return dir
		}
	case *ViewerPane:
		return filepath.Dir(p.Path())
	case *BrowserPane:
		if root := c.browser.Root(); root != "" {
			return root
		}
	}
	return c.opts.StartDir
}

func (c *Coordinator) closePane(id entity.PaneID, now time.Time) {
	if !c.tree.Contains(id) {
		c.log.Debug().Err(entity.ErrNotFound).Uint64("pane_id", uint64(id)).Msg("close")
		return
	}
	cwd := c.cwdFor(id)
	next, _ := c.tree.Next(id)

	if err := c.tree.Remove(id); err != nil {
		c.logErr(err, "close")
		return
	}
	c.removePane(id)
	c.dirty = true

	if id == c.panel {
		c.panel = entity.NoPane
	}
	if id == c.lastContent {
		c.lastContent = entity.NoPane
	}
	if c.router.Focused() == id && next != id {
		c.focus(next, now)
	}
	c.updatePolicy()

	if !c.tree.Empty() {
		return
	}
	c.focus(entity.NoPane, now)
	if c.opts.OnLastPaneClosed == LastPaneRespawn {
		c.log.Info().Msg("last pane closed, opening a new terminal")
		err := c.openInitial(cwd, now)
		if err == nil {
			return
		}
		c.log.Error().Err(err).Msg("respawn terminal")
	}
	c.log.Info().Msg("last pane closed")
	c.quit = true
}

// togglePanel shows the browser along the left edge of the whole window, or
// hides it.
func (c *Coordinator) togglePanel(now time.Time) {
	if c.panel.Valid() {
		c.closePane(c.panel, now)
		return
	}
	if c.browser.Root() == "" {
		c.browser.SetRoot(c.cwdFor(c.router.Focused()))
	}
	id := c.tree.InsertAtRoot(entity.SplitVertical, true, c.opts.PanelRatio)
	c.addPane(NewBrowserPane(id, c.browser))
	c.panel = id
	c.focus(id, now)
}

func (c *Coordinator) swapNext() {
	f := c.router.Focused()
	if !c.tree.Contains(f) {
		return
	}
	next, ok := c.tree.Next(f)
	if !ok || next == f {
		return
	}
	if err := c.tree.Swap(f, next); err != nil {
		c.logErr(err, "swap")
		return
	}
	c.dirty = true
}

// openFile shows path in a viewer split off the last content pane. A file
// already open is focused instead.
func (c *Coordinator) openFile(ctx context.Context, path string, now time.Time) {
	for id, p := range c.panes {
		if v, ok := p.(*ViewerPane); ok && v.Path() == path {
			c.focus(id, now)
			return
		}
	}

	data, truncated, readErr := c.deps.Files.ReadFile(ctx, path, c.opts.MaxFileSize)
	if readErr != nil {
		c.log.Warn().Err(readErr).Str("path", path).Msg("read file")
		readErr = fmt.Errorf("read %s: %w", filepath.Base(path), readErr)
	}

	var id entity.PaneID
	if target := c.lastContent; target != c.panel && c.tree.Contains(target) {
		var err error
		if id, err = c.tree.Split(target, entity.SplitVertical); err != nil {
			c.logErr(err, "open viewer")
			return
		}
	} else {
		id = c.tree.InsertAtRoot(entity.SplitVertical, false, c.opts.PanelRatio)
	}
	c.addPane(NewViewerPane(id, path, data, truncated, readErr))
	c.updatePolicy()
	c.focus(id, now)
}

// updatePolicy applies the viewer policy while a viewer is open.
func (c *Coordinator) updatePolicy() {
	if c.opts.ViewerPolicy == nil {
		return
	}
	policy := c.opts.Layout.Policy
	for _, p := range c.panes {
		if p.Kind() == entity.PaneViewer {
			policy = c.opts.ViewerPolicy
			break
		}
	}
	c.tree.SetPolicy(policy)
}
