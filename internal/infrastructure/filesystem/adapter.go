// Package filesystem reads directories and files from the OS for the browser
// and the viewer, and watches directories with fsnotify.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bnema/termdeck/internal/application/port"
	"github.com/bnema/termdeck/internal/domain/entity"
)

// Adapter implements port.DirReader and port.FileReader on the OS filesystem.
type Adapter struct{}

// New creates a new filesystem adapter.
func New() *Adapter {
	return &Adapter{}
}

// ReadDir lists path. Symlinks to directories count as directories.
func (a *Adapter) ReadDir(ctx context.Context, path string) ([]entity.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	des, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w: %w", path, entity.ErrFilesystemUnreadable, err)
	}

	entries := make([]entity.DirEntry, 0, len(des))
	for _, de := range des {
		isDir := de.IsDir()
		if de.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(path + string(os.PathSeparator) + de.Name()); err == nil {
				isDir = info.IsDir()
			}
		}
		entries = append(entries, entity.DirEntry{Name: de.Name(), IsDir: isDir})
	}
	return entries, nil
}

// ReadFile reads at most limit bytes of path.
func (a *Adapter) ReadFile(ctx context.Context, path string, limit int64) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, false, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, false, fmt.Errorf("open %s: %w", path, errors.New("is a directory"))
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) > limit {
		return data[:limit], true, nil
	}
	return data, false, nil
}

var (
	_ port.DirReader  = (*Adapter)(nil)
	_ port.FileReader = (*Adapter)(nil)
)
