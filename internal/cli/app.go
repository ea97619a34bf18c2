// Package cli wires configuration, logging, persistence and the workspace
// into the termdeck commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bnema/termdeck/internal/application/usecase"
	"github.com/bnema/termdeck/internal/cli/styles"
	"github.com/bnema/termdeck/internal/domain/build"
	"github.com/bnema/termdeck/internal/domain/repository"
	"github.com/bnema/termdeck/internal/infrastructure/config"
	"github.com/bnema/termdeck/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/termdeck/internal/logging"
)

// AppOptions selects how the app is initialized.
type AppOptions struct {
	// ConfigFile overrides the default config location.
	ConfigFile string
	// LogToFile sends logs to the log file instead of stderr. The workspace
	// UI needs this because stderr is part of the screen.
	LogToFile bool
}

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Configs   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info
	db        *sqlite.LazyDB

	Workspaces repository.WorkspaceStateRepository

	// Use cases
	SnapshotUC *usecase.SnapshotWorkspaceUseCase
	RestoreUC  *usecase.RestoreWorkspaceUseCase
	ListUC     *usecase.ListWorkspacesUseCase
	ImportUC   *usecase.ImportWorkspaceUseCase

	// Context with logger
	ctx        context.Context
	logCleanup func()
}

// NewApp loads the configuration and creates all dependencies. The database
// is opened on first use.
func NewApp(opts AppOptions) (*App, error) {
	mgr, err := config.NewManager(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()

	out, logCleanup, err := logOutput(cfg, opts.LogToFile)
	if err != nil {
		return nil, err
	}
	logger := logging.New(logging.ConfigFromEnv(logging.Config{
		Level:      logging.ParseLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		TimeFormat: "15:04:05",
		Output:     out,
	}))
	ctx := logging.WithContext(context.Background(), logger)
	logger.Debug().Str("config", mgr.ConfigFile()).Str("db_path", cfg.Database.Path).Msg("config loaded")

	db := sqlite.NewLazyDB(cfg.Database.Path)
	repo := sqlite.NewLazyWorkspaceStateRepository(db)

	return &App{
		Config:     cfg,
		Configs:    mgr,
		Theme:      styles.NewTheme(styles.DefaultPalette()),
		db:         db,
		Workspaces: repo,
		SnapshotUC: usecase.NewSnapshotWorkspaceUseCase(repo),
		RestoreUC:  usecase.NewRestoreWorkspaceUseCase(repo),
		ListUC:     usecase.NewListWorkspacesUseCase(repo),
		ImportUC:   usecase.NewImportWorkspaceUseCase(repo),
		ctx:        ctx,
		logCleanup: logCleanup,
	}, nil
}

// logOutput picks where logs go. The file defaults to the XDG state dir.
func logOutput(cfg *config.Config, toFile bool) (io.Writer, func(), error) {
	if !toFile {
		return os.Stderr, func() {}, nil
	}
	path := cfg.Logging.File
	if path == "" {
		var err error
		if path, err = config.GetLogFile(); err != nil {
			return nil, nil, fmt.Errorf("resolve log file: %w", err)
		}
	}
	w, err := logging.OpenFile(path, cfg.Logging.MaxSizeMB)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return w, func() { _ = w.Close() }, nil
}

// Close releases all resources.
func (a *App) Close() error {
	err := a.db.Close()
	if a.logCleanup != nil {
		a.logCleanup()
	}
	return err
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// DatabasePath returns the sqlite file backing saved layouts.
func (a *App) DatabasePath() string {
	return a.db.Path()
}
