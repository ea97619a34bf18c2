// Package repository declares the persistence contracts of the workspace.
package repository

import (
	"context"

	"github.com/bnema/termdeck/internal/domain/entity"
)

// WorkspaceStateRepository persists workspace layout snapshots.
type WorkspaceStateRepository interface {
	// SaveSnapshot saves or updates a workspace snapshot.
	SaveSnapshot(ctx context.Context, state *entity.WorkspaceState) error

	// GetSnapshot returns the snapshot with the given id, or nil when absent.
	GetSnapshot(ctx context.Context, id string) (*entity.WorkspaceState, error)

	// GetLatest returns the most recently saved snapshot, or nil when none exists.
	GetLatest(ctx context.Context) (*entity.WorkspaceState, error)

	// DeleteSnapshot removes a snapshot.
	DeleteSnapshot(ctx context.Context, id string) error

	// GetAllSnapshots returns every snapshot, newest first.
	GetAllSnapshots(ctx context.Context) ([]*entity.WorkspaceState, error)
}
