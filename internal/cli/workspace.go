package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/termdeck/internal/application/dirtree"
	"github.com/bnema/termdeck/internal/application/input"
	"github.com/bnema/termdeck/internal/application/session"
	"github.com/bnema/termdeck/internal/application/usecase"
	"github.com/bnema/termdeck/internal/application/workspace"
	"github.com/bnema/termdeck/internal/domain/layout"
	"github.com/bnema/termdeck/internal/infrastructure/config"
	"github.com/bnema/termdeck/internal/infrastructure/filesystem"
	"github.com/bnema/termdeck/internal/infrastructure/pty"
	"github.com/bnema/termdeck/internal/infrastructure/snapshot"
	"github.com/bnema/termdeck/internal/logging"
)

// contentInset is the border drawn around every pane.
const contentInset = 1

// WorkspaceOptions maps the configuration onto coordinator options.
func WorkspaceOptions(cfg *config.Config, startDir string) (workspace.Options, error) {
	viewerPolicy, ok := layout.PolicyByName(cfg.Layout.ViewerPolicy, cfg.Layout.ShrinkShare, cfg.Layout.CollapseIndicator)
	if !ok {
		return workspace.Options{}, fmt.Errorf("unknown viewer policy %q", cfg.Layout.ViewerPolicy)
	}
	anchor := layout.AnchorFree
	if cfg.Layout.PinFocus {
		anchor = layout.AnchorPinned
	}

	return workspace.Options{
		Layout: layout.Options{
			MinRatio:     cfg.Layout.MinRatio,
			MaxRatio:     cfg.Layout.MaxRatio,
			BorderMargin: cfg.Layout.BorderMargin,
			Policy:       layout.StoredRatios{},
			Anchor:       anchor,
		},
		ViewerPolicy: viewerPolicy,
		Shell:        cfg.Terminal.Shell,
		ShellArgs:    cfg.Terminal.ShellArgs,
		Term:         cfg.Terminal.Term,
		Session: session.Options{
			Scrollback: cfg.Terminal.Scrollback,
			InputQueue: cfg.Terminal.InputQueue,
		},
		PanelRatio:       cfg.Layout.PanelRatio,
		ContentInset:     contentInset,
		FollowCwd:        cfg.Browser.FollowCwd,
		CwdDebounce:      millis(cfg.Browser.FollowDebounceMs),
		CwdPollInterval:  millis(cfg.Browser.PollIntervalMs),
		MaxFileSize:      cfg.Viewer.MaxFileSize,
		OnLastPaneClosed: workspace.LastPanePolicy(cfg.OnLastPaneClosed),
		Browser: dirtree.Options{
			ShowHidden:         cfg.Browser.ShowHidden,
			MaxConcurrentReads: int64(cfg.Browser.MaxConcurrentReads),
		},
		StartDir: startDir,
	}, nil
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// Runtime is a started workspace with its background services.
type Runtime struct {
	Workspace *workspace.Coordinator
	Snapshots *snapshot.Service
	watcher   *filesystem.Watcher
}

// RuntimeOptions adjusts StartWorkspace.
type RuntimeOptions struct {
	StartDir string
	// Restore loads this snapshot id. When empty the latest snapshot is
	// loaded if session.restore is enabled.
	Restore string
	// Fresh skips restoring entirely.
	Fresh bool
}

// StartWorkspace builds the coordinator from the app configuration, restores
// the saved layout when asked to, and opens the first terminal otherwise.
func (a *App) StartWorkspace(ctx context.Context, opts RuntimeOptions) (*Runtime, error) {
	log := logging.FromContext(ctx)
	cfg := a.Config

	wsOpts, err := WorkspaceOptions(cfg, opts.StartDir)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{}
	deps := workspace.Deps{
		Spawner: pty.NewSpawner(),
		Dirs:    filesystem.New(),
		Files:   filesystem.New(),
		Hotkeys: input.BuildHotkeys(ctx, cfg.Hotkeys.Bindings()),
		OnChange: func() {
			if rt.Snapshots != nil {
				rt.Snapshots.MarkDirty()
			}
		},
	}
	if w, err := filesystem.NewWatcher(ctx, millis(cfg.Browser.WatchDebounceMs)); err != nil {
		log.Warn().Err(err).Msg("directory watcher unavailable, browser will not refresh on changes")
	} else {
		rt.watcher = w
		deps.Watcher = w
	}

	ws, err := workspace.New(ctx, wsOpts, deps)
	if err != nil {
		rt.closeWatcher()
		return nil, err
	}
	rt.Workspace = ws

	if !opts.Fresh && (cfg.Session.Restore || opts.Restore != "") {
		a.restore(ctx, ws, opts.Restore)
	}
	if err := ws.Start(); err != nil {
		rt.closeWatcher()
		return nil, fmt.Errorf("start workspace: %w", err)
	}

	rt.Snapshots = snapshot.NewService(a.SnapshotUC, ws, millis(cfg.Session.SnapshotIntervalMs))
	rt.Snapshots.Start(ctx)
	rt.Snapshots.MarkDirty()
	return rt, nil
}

// restore applies a saved layout. Failures are logged and the workspace
// starts fresh.
func (a *App) restore(ctx context.Context, ws *workspace.Coordinator, id string) {
	log := logging.FromContext(ctx)
	out, err := a.RestoreUC.Execute(ctx, usecase.RestoreInput{WorkspaceID: id})
	switch {
	case errors.Is(err, usecase.ErrWorkspaceNotFound):
		log.Debug().Str("workspace_id", id).Msg("no saved layout")
		return
	case err != nil:
		log.Warn().Err(err).Msg("load saved layout")
		return
	}
	if err := ws.Restore(ctx, out.State); err != nil {
		log.Warn().Err(err).Str("workspace_id", out.State.ID).Msg("restore saved layout")
	}
}

// Close closes every pane and the watcher, then writes the final layout.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error
	if err := r.Workspace.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	r.closeWatcher()
	if r.Snapshots != nil {
		r.Snapshots.MarkDirty()
		if err := r.Snapshots.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("save layout: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (r *Runtime) closeWatcher() {
	if r.watcher != nil {
		_ = r.watcher.Close()
		r.watcher = nil
	}
}
