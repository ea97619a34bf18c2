package sqlite

import (
	"context"
	"sync"

	"github.com/bnema/termdeck/internal/application/port"
	"github.com/bnema/termdeck/internal/domain/entity"
	"github.com/bnema/termdeck/internal/domain/repository"
)

// LazyWorkspaceStateRepository opens the database on its first call.
type LazyWorkspaceStateRepository struct {
	provider port.DatabaseProvider
	repo     repository.WorkspaceStateRepository
	once     sync.Once
	initErr  error
}

// NewLazyWorkspaceStateRepository wraps provider in a workspace state repository.
func NewLazyWorkspaceStateRepository(provider port.DatabaseProvider) repository.WorkspaceStateRepository {
	return &LazyWorkspaceStateRepository{provider: provider}
}

func (r *LazyWorkspaceStateRepository) init(ctx context.Context) error {
	r.once.Do(func() {
		db, err := r.provider.DB(ctx)
		if err != nil {
			r.initErr = err
			return
		}
		r.repo = NewWorkspaceStateRepository(db)
	})
	return r.initErr
}

func (r *LazyWorkspaceStateRepository) SaveSnapshot(ctx context.Context, state *entity.WorkspaceState) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.SaveSnapshot(ctx, state)
}

func (r *LazyWorkspaceStateRepository) GetSnapshot(ctx context.Context, id string) (*entity.WorkspaceState, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.GetSnapshot(ctx, id)
}

func (r *LazyWorkspaceStateRepository) GetLatest(ctx context.Context) (*entity.WorkspaceState, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.GetLatest(ctx)
}

func (r *LazyWorkspaceStateRepository) DeleteSnapshot(ctx context.Context, id string) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.DeleteSnapshot(ctx, id)
}

func (r *LazyWorkspaceStateRepository) GetAllSnapshots(ctx context.Context) ([]*entity.WorkspaceState, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.GetAllSnapshots(ctx)
}
