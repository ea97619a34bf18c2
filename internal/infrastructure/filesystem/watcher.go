package filesystem

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/bnema/termdeck/internal/application/port"
	"github.com/bnema/termdeck/internal/domain/entity"
	"github.com/bnema/termdeck/internal/logging"
)

// DefaultWatchDebounce coalesces bursts such as a git checkout into one batch.
const DefaultWatchDebounce = 200 * time.Millisecond

// Watcher implements port.DirWatcher on fsnotify. Events are collected per
// path and delivered as one batch after the debounce interval of quiet.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	log      *zerolog.Logger

	out chan []entity.FsEvent

	mu      sync.Mutex
	pending map[string]entity.FsEventKind
	order   []string
	timer   *time.Timer
	closed  bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher starts an fsnotify watcher. A non-positive debounce uses
// DefaultWatchDebounce.
func NewWatcher(ctx context.Context, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	w := &Watcher{
		fs:       fsw,
		debounce: debounce,
		log:      logging.FromContext(logging.WithComponent(ctx, "fswatch")),
		out:      make(chan []entity.FsEvent, 16),
		pending:  make(map[string]entity.FsEventKind),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) Watch(path string) error {
	return w.fs.Add(filepath.Clean(path))
}

func (w *Watcher) Unwatch(path string) error {
	return w.fs.Remove(filepath.Clean(path))
}

// Events delivers debounced batches. It is closed by Close.
func (w *Watcher) Events() <-chan []entity.FsEvent {
	return w.out
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.record(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Debug().Err(err).Msg("fsnotify error")
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) record(ev fsnotify.Event) {
	kind, ok := eventKind(ev.Op)
	if !ok {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if _, seen := w.pending[ev.Name]; !seen {
		w.order = append(w.order, ev.Name)
	}
	w.pending[ev.Name] = kind
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.flush)
	} else {
		w.timer.Reset(w.debounce)
	}
}

func (w *Watcher) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timer = nil
	if w.closed || len(w.order) == 0 {
		return
	}
	batch := make([]entity.FsEvent, 0, len(w.order))
	for _, path := range w.order {
		batch = append(batch, entity.FsEvent{Path: path, Kind: w.pending[path]})
	}
	w.order = nil
	clear(w.pending)

	select {
	case w.out <- batch:
	default:
		w.log.Warn().Int("events", len(batch)).Msg("watch batch dropped: consumer is behind")
	}
}

func eventKind(op fsnotify.Op) (entity.FsEventKind, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return entity.FsAdded, true
	case op.Has(fsnotify.Remove):
		return entity.FsRemoved, true
	case op.Has(fsnotify.Rename):
		return entity.FsRenamed, true
	case op.Has(fsnotify.Write):
		return entity.FsModified, true
	}
	return 0, false
}

// Close stops the watcher and closes the event channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	close(w.out)
	return err
}

var _ port.DirWatcher = (*Watcher)(nil)
