package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/termdeck/internal/domain/entity"
	"github.com/bnema/termdeck/internal/domain/repository"
	"github.com/bnema/termdeck/internal/logging"
)

const (
	upsertStateSQL = `INSERT INTO workspace_state (id, version, pane_count, state_json, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    version = excluded.version,
    pane_count = excluded.pane_count,
    state_json = excluded.state_json,
    updated_at = excluded.updated_at`
	selectStateSQL    = `SELECT id, state_json FROM workspace_state WHERE id = ?`
	selectLatestSQL   = `SELECT id, state_json FROM workspace_state ORDER BY updated_at DESC, id LIMIT 1`
	selectAllStateSQL = `SELECT id, state_json FROM workspace_state ORDER BY updated_at DESC, id`
	deleteStateSQL    = `DELETE FROM workspace_state WHERE id = ?`
)

type workspaceStateRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewWorkspaceStateRepository creates a new SQLite-backed workspace state repository.
func NewWorkspaceStateRepository(db *sql.DB) repository.WorkspaceStateRepository {
	return &workspaceStateRepo{db: db, now: time.Now}
}

func (r *workspaceStateRepo) SaveSnapshot(ctx context.Context, state *entity.WorkspaceState) error {
	if state == nil || state.ID == "" {
		return errors.New("workspace snapshot requires an id")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal workspace state: %w", err)
	}

	savedAt := state.SavedAt
	if savedAt.IsZero() {
		savedAt = r.now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, upsertStateSQL,
		state.ID, state.Version, state.CountPanes(), string(data), savedAt.UnixMilli(),
	); err != nil {
		return fmt.Errorf("upsert workspace state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	logging.FromContext(ctx).Debug().
		Str("workspace_id", state.ID).
		Int("pane_count", state.CountPanes()).
		Int("bytes", len(data)).
		Msg("saved workspace snapshot")
	return nil
}

func (r *workspaceStateRepo) GetSnapshot(ctx context.Context, id string) (*entity.WorkspaceState, error) {
	return r.queryOne(ctx, selectStateSQL, id)
}

func (r *workspaceStateRepo) GetLatest(ctx context.Context) (*entity.WorkspaceState, error) {
	return r.queryOne(ctx, selectLatestSQL)
}

func (r *workspaceStateRepo) queryOne(ctx context.Context, query string, args ...any) (*entity.WorkspaceState, error) {
	var id, data string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&id, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get workspace state: %w", err)
	}
	return decodeState(id, data)
}

func (r *workspaceStateRepo) DeleteSnapshot(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, deleteStateSQL, id); err != nil {
		return fmt.Errorf("delete workspace state: %w", err)
	}
	return nil
}

func (r *workspaceStateRepo) GetAllSnapshots(ctx context.Context) ([]*entity.WorkspaceState, error) {
	log := logging.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, selectAllStateSQL)
	if err != nil {
		return nil, fmt.Errorf("list workspace states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var states []*entity.WorkspaceState
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan workspace state: %w", err)
		}
		state, err := decodeState(id, data)
		if err != nil {
			log.Warn().Err(err).Str("workspace_id", id).Msg("skipping corrupted workspace snapshot")
			continue
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list workspace states: %w", err)
	}
	return states, nil
}

func decodeState(id, data string) (*entity.WorkspaceState, error) {
	var state entity.WorkspaceState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("unmarshal workspace state %s: %w", id, err)
	}
	return &state, nil
}
