package workspace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/termdeck/internal/application/input"
	"github.com/bnema/termdeck/internal/domain/entity"
	"github.com/bnema/termdeck/internal/domain/layout"
)

// ErrAlreadyStarted is returned by Restore once panes exist.
var ErrAlreadyStarted = errors.New("workspace already started")

// State returns the last published workspace state. It is safe to call from
// any goroutine and returns nil before the first tick.
func (c *Coordinator) State() *entity.WorkspaceState {
	return c.state.Load()
}

func (c *Coordinator) publish() {
	c.state.Store(&entity.WorkspaceState{
		Version:     entity.WorkspaceStateVersion,
		ID:          c.opts.WorkspaceID,
		Root:        c.tree.Snapshot(c.describe),
		Focused:     c.router.Focused(),
		BrowserRoot: c.browser.Root(),
		Expanded:    c.browser.Expanded(),
		PanelPane:   c.panel,
	})
}

func (c *Coordinator) describe(id entity.PaneID) *entity.PaneSnapshot {
	p, ok := c.panes[id]
	if !ok {
		return nil
	}
	return p.Describe()
}

// Restore rebuilds the workspace from a saved state: the tree and its ratios
// verbatim, a fresh terminal in each terminal's saved directory, the browser
// root and expansions, and the focused pane. Panes that cannot be recreated
// are dropped from the tree. Restore must run before Start.
func (c *Coordinator) Restore(ctx context.Context, st *entity.WorkspaceState) error {
	if len(c.panes) > 0 {
		return ErrAlreadyStarted
	}
	if st == nil || st.Root == nil {
		return nil
	}
	tree, err := layout.FromSnapshot(st.Root, c.opts.Layout)
	if err != nil {
		return fmt.Errorf("restore layout: %w", err)
	}
	if st.ID != "" {
		c.opts.WorkspaceID = st.ID
	}
	c.tree = tree
	c.router = input.NewRouter(c.router.Hotkeys(), tree)
	c.focused = entity.NoPane

	if st.BrowserRoot != "" {
		c.browser.Restore(st.BrowserRoot, st.Expanded)
	}

	for _, ps := range st.Root.Panes() {
		if err := c.restorePane(ctx, ps); err != nil {
			c.log.Warn().Err(err).Uint64("pane_id", uint64(ps.ID)).Msg("dropping pane from restored layout")
			if err := c.tree.Remove(ps.ID); err != nil {
				c.logErr(err, "drop restored pane")
			}
		}
	}
	c.updatePolicy()

	now := time.Now()
	if c.tree.Empty() {
		if err := c.openInitial(c.opts.StartDir, now); err != nil {
			return err
		}
	} else {
		focus := st.Focused
		if !c.tree.Contains(focus) {
			focus = c.tree.Panes()[0]
		}
		c.focus(focus, now)
	}

	c.log.Info().Str("workspace_id", c.opts.WorkspaceID).Int("panes", c.tree.Len()).Msg("workspace restored")
	c.dirty = true
	c.publish()
	return nil
}

func (c *Coordinator) restorePane(ctx context.Context, ps *entity.PaneSnapshot) error {
	kind, ok := entity.ParsePaneKind(ps.Kind)
	if !ok {
		return fmt.Errorf("unknown pane kind %q", ps.Kind)
	}

	switch kind {
	case entity.PaneTerminal:
		dir := ps.Cwd
		if dir == "" {
			dir = c.opts.StartDir
		}
		err := c.spawnTerminal(ps.ID, dir)
		if err != nil && dir != c.opts.StartDir {
			c.log.Debug().Err(err).Str("path", dir).Msg("saved directory unusable, using start directory")
			err = c.spawnTerminal(ps.ID, c.opts.StartDir)
		}
		return err

	case entity.PaneBrowser:
		if c.panel.Valid() {
			return errors.New("duplicate browser pane")
		}
		if c.browser.Root() == "" {
			c.browser.SetRoot(c.opts.StartDir)
		}
		c.addPane(NewBrowserPane(ps.ID, c.browser))
		c.panel = ps.ID
		return nil

	case entity.PaneViewer:
		if ps.File == "" {
			return errors.New("viewer without file")
		}
		data, truncated, err := c.deps.Files.ReadFile(ctx, ps.File, c.opts.MaxFileSize)
		if err != nil {
			return fmt.Errorf("reopen %s: %w", ps.File, err)
		}
		c.addPane(NewViewerPane(ps.ID, ps.File, data, truncated, nil))
		return nil
	}
	return nil
}
