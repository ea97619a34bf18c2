package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bnema/termdeck/internal/application/input"
	"github.com/bnema/termdeck/internal/cli"
	"github.com/bnema/termdeck/internal/cli/model"
	"github.com/bnema/termdeck/internal/infrastructure/config"
	"github.com/bnema/termdeck/internal/logging"
)

var (
	runRestore string
	runFresh   bool
)

func init() {
	rootCmd.Flags().StringVar(&runRestore, "restore", "", "restore the saved layout with this id")
	rootCmd.Flags().BoolVar(&runFresh, "fresh", false, "start with a single terminal instead of the saved layout")
	rootCmd.MarkFlagsMutuallyExclusive("restore", "fresh")
}

func runWorkspace(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("termdeck needs an interactive terminal")
	}

	startDir, err := resolveStartDir(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(app.Ctx())
	defer cancel()
	log := logging.FromContext(ctx)

	rt, err := app.StartWorkspace(ctx, cli.RuntimeOptions{
		StartDir: startDir,
		Restore:  runRestore,
		Fresh:    runFresh,
	})
	if err != nil {
		return err
	}
	log.Info().Str("workspace_id", rt.Workspace.ID()).Str("path", startDir).Msg("workspace started")

	m := model.NewWorkspaceModel(ctx, model.WorkspaceModelConfig{
		Workspace:    rt.Workspace,
		Theme:        app.Theme,
		TickInterval: time.Duration(app.Config.TickIntervalMs) * time.Millisecond,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	app.Configs.OnConfigChange(func(cfg *config.Config) {
		p.Send(model.HotkeysMsg{Hotkeys: input.BuildHotkeys(ctx, cfg.Hotkeys.Bindings())})
	})
	app.Configs.Watch()

	_, runErr := p.Run()
	closeErr := rt.Close(context.WithoutCancel(ctx))
	log.Info().Msg("workspace closed")
	return errors.Join(runErr, closeErr)
}

// resolveStartDir returns the absolute directory the first terminal opens in.
func resolveStartDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}
