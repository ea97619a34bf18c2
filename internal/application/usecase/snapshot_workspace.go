package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/bnema/termdeck/internal/domain/entity"
	"github.com/bnema/termdeck/internal/domain/repository"
	"github.com/bnema/termdeck/internal/logging"
)

// SnapshotWorkspaceUseCase handles saving workspace layout snapshots.
type SnapshotWorkspaceUseCase struct {
	stateRepo repository.WorkspaceStateRepository
	now       func() time.Time
}

// NewSnapshotWorkspaceUseCase creates a new SnapshotWorkspaceUseCase.
func NewSnapshotWorkspaceUseCase(stateRepo repository.WorkspaceStateRepository) *SnapshotWorkspaceUseCase {
	return &SnapshotWorkspaceUseCase{stateRepo: stateRepo, now: time.Now}
}

// SnapshotInput contains the parameters for creating a workspace snapshot.
type SnapshotInput struct {
	WorkspaceID string
	Layout      *entity.LayoutNodeSnapshot
	Focused     entity.PaneID
	BrowserRoot string
	Expanded    []string
	PanelPane   entity.PaneID
}

// Execute builds a snapshot of the workspace and saves it.
func (uc *SnapshotWorkspaceUseCase) Execute(ctx context.Context, input SnapshotInput) error {
	log := logging.FromContext(ctx)

	if input.WorkspaceID == "" {
		return fmt.Errorf("workspace id required")
	}

	expanded := slices.Clone(input.Expanded)
	slices.Sort(expanded)

	state := &entity.WorkspaceState{
		Version:     entity.WorkspaceStateVersion,
		ID:          input.WorkspaceID,
		Root:        input.Layout,
		Focused:     input.Focused,
		BrowserRoot: input.BrowserRoot,
		Expanded:    expanded,
		PanelPane:   input.PanelPane,
		SavedAt:     uc.now(),
	}
	if state.FindPane(state.Focused) == nil {
		state.Focused = entity.NoPane
	}

	log.Debug().
		Str("workspace_id", state.ID).
		Int("pane_count", state.CountPanes()).
		Int("expanded", len(state.Expanded)).
		Msg("creating workspace snapshot")

	if err := uc.stateRepo.SaveSnapshot(ctx, state); err != nil {
		return fmt.Errorf("save workspace snapshot: %w", err)
	}

	return nil
}
