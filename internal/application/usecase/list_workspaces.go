package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/termdeck/internal/domain/entity"
	"github.com/bnema/termdeck/internal/domain/repository"
)

// ListWorkspacesUseCase lists saved workspace snapshots.
type ListWorkspacesUseCase struct {
	stateRepo repository.WorkspaceStateRepository
}

// NewListWorkspacesUseCase creates a new ListWorkspacesUseCase.
func NewListWorkspacesUseCase(stateRepo repository.WorkspaceStateRepository) *ListWorkspacesUseCase {
	return &ListWorkspacesUseCase{stateRepo: stateRepo}
}

// WorkspaceSummary is a one-line description of a saved snapshot.
type WorkspaceSummary struct {
	ID          string
	Panes       int
	BrowserRoot string
	SavedAt     string
}

// Execute returns a summary of every snapshot, newest first.
func (uc *ListWorkspacesUseCase) Execute(ctx context.Context) ([]WorkspaceSummary, error) {
	states, err := uc.stateRepo.GetAllSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workspace snapshots: %w", err)
	}

	out := make([]WorkspaceSummary, 0, len(states))
	for _, s := range states {
		out = append(out, summarize(s))
	}
	return out, nil
}

func summarize(s *entity.WorkspaceState) WorkspaceSummary {
	return WorkspaceSummary{
		ID:          s.ID,
		Panes:       s.CountPanes(),
		BrowserRoot: s.BrowserRoot,
		SavedAt:     s.SavedAt.Format("2006-01-02 15:04:05"),
	}
}
