package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bnema/termdeck/internal/domain/entity"
	"github.com/bnema/termdeck/internal/domain/layout"
	"github.com/bnema/termdeck/internal/domain/repository"
	"github.com/bnema/termdeck/internal/logging"
)

// ErrWorkspaceExists is returned when an import would replace a snapshot
// without Overwrite.
var ErrWorkspaceExists = errors.New("workspace snapshot already exists")

// ImportWorkspaceUseCase validates a layout from outside the database and
// stores it as a snapshot.
type ImportWorkspaceUseCase struct {
	stateRepo repository.WorkspaceStateRepository
	now       func() time.Time
}

// NewImportWorkspaceUseCase creates a new ImportWorkspaceUseCase.
func NewImportWorkspaceUseCase(stateRepo repository.WorkspaceStateRepository) *ImportWorkspaceUseCase {
	return &ImportWorkspaceUseCase{stateRepo: stateRepo, now: time.Now}
}

// ImportInput carries the layout to import.
type ImportInput struct {
	State *entity.WorkspaceState
	// Overwrite replaces an existing snapshot with the same id.
	Overwrite bool
}

// Execute validates and saves the layout. A missing id is generated and a
// missing version set to the current one. It returns the stored state.
func (uc *ImportWorkspaceUseCase) Execute(ctx context.Context, input ImportInput) (*entity.WorkspaceState, error) {
	log := logging.FromContext(ctx)

	if input.State == nil {
		return nil, errors.New("no layout to import")
	}
	st := *input.State
	switch {
	case st.Version == 0:
		st.Version = entity.WorkspaceStateVersion
	case st.Version > entity.WorkspaceStateVersion:
		return nil, ErrVersionMismatch
	}
	if err := validateLayout(&st); err != nil {
		return nil, err
	}

	if st.ID == "" {
		st.ID = uuid.NewString()
	} else if !input.Overwrite {
		existing, err := uc.stateRepo.GetSnapshot(ctx, st.ID)
		if err != nil {
			return nil, fmt.Errorf("get workspace snapshot: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: %s", ErrWorkspaceExists, st.ID)
		}
	}
	st.SavedAt = uc.now()

	if err := uc.stateRepo.SaveSnapshot(ctx, &st); err != nil {
		return nil, fmt.Errorf("save workspace snapshot: %w", err)
	}
	log.Info().Str("workspace_id", st.ID).Int("pane_count", st.CountPanes()).Msg("workspace layout imported")
	return &st, nil
}

// validateLayout checks the tree shape and every pane kind.
func validateLayout(st *entity.WorkspaceState) error {
	if _, err := layout.FromSnapshot(st.Root, layout.DefaultOptions()); err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}
	browsers := 0
	for _, p := range st.Root.Panes() {
		kind, ok := entity.ParsePaneKind(p.Kind)
		if !ok {
			return fmt.Errorf("invalid layout: pane %d has unknown kind %q", p.ID, p.Kind)
		}
		if kind == entity.PaneBrowser {
			browsers++
		}
	}
	if browsers > 1 {
		return errors.New("invalid layout: more than one browser pane")
	}
	if st.Focused.Valid() && st.FindPane(st.Focused) == nil {
		st.Focused = entity.NoPane
	}
	return nil
}
