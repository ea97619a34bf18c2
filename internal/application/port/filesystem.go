package port

import (
	"context"

	"github.com/bnema/termdeck/internal/domain/entity"
)

//go:generate mockgen -destination=mocks/mock_dir_reader.go -package=mocks github.com/bnema/termdeck/internal/application/port DirReader

// DirReader lists directories for the browser.
type DirReader interface {
	// ReadDir returns the entries of path. A failure wraps
	// entity.ErrFilesystemUnreadable.
	ReadDir(ctx context.Context, path string) ([]entity.DirEntry, error)
}

// FileReader loads files for the viewer.
type FileReader interface {
	// ReadFile returns at most limit bytes of path and whether the file was
	// longer than that.
	ReadFile(ctx context.Context, path string, limit int64) (data []byte, truncated bool, err error)
}

// DirWatcher reports changes inside watched directories.
// Events are delivered in debounced batches.
type DirWatcher interface {
	Watch(path string) error
	Unwatch(path string) error
	Events() <-chan []entity.FsEvent
	Close() error
}
