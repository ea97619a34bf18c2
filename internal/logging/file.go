package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const defaultMaxFileSize = 10 * 1024 * 1024

// FileWriter appends log lines to a file and keeps one backup: when the file
// grows past its size limit it is renamed to <name>.1 and a new one started.
type FileWriter struct {
	mu      sync.Mutex
	path    string
	maxSize int64
	file    *os.File
	size    int64
}

// OpenFile opens (or creates) the log file at path. maxSizeMB <= 0 uses 10 MB.
func OpenFile(path string, maxSizeMB int) (*FileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	w := &FileWriter{path: path, maxSize: defaultMaxFileSize}
	if maxSizeMB > 0 {
		w.maxSize = int64(maxSizeMB) * 1024 * 1024
	}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *FileWriter) open() error {
	if info, err := os.Stat(w.path); err == nil {
		w.size = info.Size()
	} else {
		w.size = 0
	}
	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	w.file = file
	return nil
}

// Write implements io.Writer.
func (w *FileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, os.ErrClosed
	}
	if w.size+int64(len(p)) > w.maxSize && w.size > 0 {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *FileWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	if err := os.Rename(w.path, w.path+".1"); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	return w.open()
}

// Close closes the underlying file.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
