package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/termdeck/internal/domain/entity"
	"github.com/bnema/termdeck/internal/domain/repository"
	"github.com/bnema/termdeck/internal/logging"
)

// ErrWorkspaceNotFound is returned when no snapshot matches the request.
var ErrWorkspaceNotFound = errors.New("workspace snapshot not found")

// ErrVersionMismatch is returned when the snapshot version is newer than this build understands.
var ErrVersionMismatch = errors.New("workspace state version mismatch")

// RestoreWorkspaceUseCase loads workspace snapshots for restoration.
type RestoreWorkspaceUseCase struct {
	stateRepo repository.WorkspaceStateRepository
}

// NewRestoreWorkspaceUseCase creates a new RestoreWorkspaceUseCase.
func NewRestoreWorkspaceUseCase(stateRepo repository.WorkspaceStateRepository) *RestoreWorkspaceUseCase {
	return &RestoreWorkspaceUseCase{stateRepo: stateRepo}
}

// RestoreInput selects the snapshot to restore. An empty id means the latest one.
type RestoreInput struct {
	WorkspaceID string
}

// RestoreOutput contains the restored workspace state.
type RestoreOutput struct {
	State *entity.WorkspaceState
}

// Execute loads and validates a workspace snapshot.
func (uc *RestoreWorkspaceUseCase) Execute(ctx context.Context, input RestoreInput) (*RestoreOutput, error) {
	log := logging.FromContext(ctx)

	var (
		state *entity.WorkspaceState
		err   error
	)
	if input.WorkspaceID == "" {
		state, err = uc.stateRepo.GetLatest(ctx)
	} else {
		state, err = uc.stateRepo.GetSnapshot(ctx, input.WorkspaceID)
	}
	if err != nil {
		return nil, fmt.Errorf("get workspace snapshot: %w", err)
	}
	if state == nil {
		return nil, ErrWorkspaceNotFound
	}

	if state.Version > entity.WorkspaceStateVersion {
		log.Warn().
			Int("state_version", state.Version).
			Int("current_version", entity.WorkspaceStateVersion).
			Msg("workspace state version is newer than current version")
		return nil, ErrVersionMismatch
	}

	log.Info().
		Str("workspace_id", state.ID).
		Int("pane_count", state.CountPanes()).
		Msg("workspace state loaded for restoration")

	return &RestoreOutput{State: state}, nil
}

// DeleteSnapshot removes a workspace snapshot, e.g. after a failed restore.
func (uc *RestoreWorkspaceUseCase) DeleteSnapshot(ctx context.Context, id string) error {
	return uc.stateRepo.DeleteSnapshot(ctx, id)
}
