package styles

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/termdeck/internal/application/usecase"
	"github.com/bnema/termdeck/internal/domain/build"
	"github.com/bnema/termdeck/internal/domain/entity"
)

func TestLayoutRenderer_RenderList(t *testing.T) {
	r := NewLayoutRenderer(NewTheme(DefaultPalette()))

	assert.Contains(t, r.RenderList(nil), "No saved layouts")

	out := r.RenderList([]usecase.WorkspaceSummary{
		{ID: "ws-1", Panes: 3, BrowserRoot: "/src", SavedAt: "2026-01-02 03:04:05"},
	})
	for _, want := range []string{"ID", "PANES", "ws-1", "3", "/src", "2026-01-02 03:04:05"} {
		assert.Contains(t, out, want)
	}
}

func TestLayoutRenderer_RenderState(t *testing.T) {
	r := NewLayoutRenderer(NewTheme(DefaultPalette()))
	st := &entity.WorkspaceState{
		ID:      "ws-1",
		Focused: 2,
		SavedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Root: &entity.LayoutNodeSnapshot{
			Direction: "vertical",
			Ratio:     0.25,
			First:     &entity.LayoutNodeSnapshot{Pane: &entity.PaneSnapshot{ID: 1, Kind: "browser"}},
			Second:    &entity.LayoutNodeSnapshot{Pane: &entity.PaneSnapshot{ID: 2, Kind: "terminal", Cwd: "/home"}},
		},
	}

	out := r.RenderState(st)
	assert.Contains(t, out, "ws-1")
	assert.Contains(t, out, "2026-01-02 03:04:05")
	assert.Contains(t, out, "vertical 0.25")
	assert.Contains(t, out, "  #1 browser")
	assert.Contains(t, out, "  #2 terminal /home *")

	assert.Contains(t, r.RenderState(&entity.WorkspaceState{ID: "empty"}), "(empty)")
	assert.Equal(t, "Error: boom", r.RenderError(errors.New("boom")))
}

func TestVersionRenderer(t *testing.T) {
	out := NewVersionRenderer(NewTheme(DefaultPalette())).Render(build.Info{Version: "1.2.3", GoVersion: "go1.25"})
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "go1.25")
	assert.Contains(t, out, "unknown")
	assert.Contains(t, out, build.RepoURL())
}
