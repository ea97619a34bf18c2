// Package snapshot saves the workspace layout in the background, debounced
// so that a burst of layout changes produces a single write.
package snapshot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bnema/termdeck/internal/application/port"
	"github.com/bnema/termdeck/internal/application/usecase"
	"github.com/bnema/termdeck/internal/domain/entity"
	"github.com/bnema/termdeck/internal/logging"
)

const (
	// DefaultInterval is the debounce applied when none is configured.
	DefaultInterval  = 2 * time.Second
	maxSaveAttempts  = 3
	defaultRetryWait = 100 * time.Millisecond
)

// Service handles debounced workspace state snapshots.
type Service struct {
	snapshotUC *usecase.SnapshotWorkspaceUseCase
	provider   port.WorkspaceStateProvider
	interval   time.Duration
	retryDelay time.Duration

	mu     sync.Mutex
	saving sync.Mutex
	timer  *time.Timer
	dirty  bool
	last   *entity.WorkspaceState
	ctx    context.Context
	cancel context.CancelFunc
}

// NewService creates a snapshot service. A non-positive interval selects
// DefaultInterval.
func NewService(
	snapshotUC *usecase.SnapshotWorkspaceUseCase,
	provider port.WorkspaceStateProvider,
	interval time.Duration,
) *Service {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Service{
		snapshotUC: snapshotUC,
		provider:   provider,
		interval:   interval,
		retryDelay: defaultRetryWait,
	}
}

// Start enables background saves. Saves scheduled before Start are kept
// pending until the next MarkDirty or SaveNow.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctx, s.cancel = context.WithCancel(ctx)
	logging.FromContext(ctx).Debug().Dur("interval", s.interval).Msg("snapshot service started")
}

// Stop cancels background saves and writes the final state.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	return s.SaveNow(ctx)
}

// MarkDirty signals that the workspace state changed. Each call restarts
// the debounce timer. Safe to call from any goroutine.
func (s *Service) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dirty = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.interval, s.flush)
}

func (s *Service) flush() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	if ctx == nil || ctx.Err() != nil {
		return
	}
	if err := s.saveSnapshot(ctx); err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("failed to save workspace snapshot")
	}
}

// SaveNow writes pending changes immediately.
func (s *Service) SaveNow(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	dirty := s.dirty
	s.mu.Unlock()

	if !dirty {
		return nil
	}
	return s.saveSnapshot(ctx)
}

func (s *Service) saveSnapshot(ctx context.Context) error {
	s.saving.Lock()
	defer s.saving.Unlock()

	state := s.provider.State()
	s.mu.Lock()
	unchanged := state == nil || state == s.last
	s.dirty = false
	s.mu.Unlock()
	if unchanged {
		return nil
	}

	input := usecase.SnapshotInput{
		WorkspaceID: state.ID,
		Layout:      state.Root,
		Focused:     state.Focused,
		BrowserRoot: state.BrowserRoot,
		Expanded:    state.Expanded,
		PanelPane:   state.PanelPane,
	}

	var err error
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		if err = s.snapshotUC.Execute(ctx, input); err == nil || !isTransient(err) {
			break
		}
		if attempt == maxSaveAttempts {
			break
		}
		logging.FromContext(ctx).Debug().Err(err).Int("attempt", attempt).Msg("retrying workspace snapshot")
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(s.retryDelay):
		}
	}
	if err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.last = state
	s.mu.Unlock()
	return nil
}

// isTransient matches SQLite lock contention, which clears once another
// process finishes its write.
func isTransient(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "sqlite_busy")
}
