package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/termdeck/internal/domain/entity"
)

func TestAdapter_ReadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(dir, "sub"), filepath.Join(dir, "link")))

	entries, err := New().ReadDir(context.Background(), dir)
	require.NoError(t, err)

	got := map[string]bool{}
	for _, e := range entries {
		got[e.Name] = e.IsDir
	}
	assert.Equal(t, map[string]bool{"sub": true, "file.txt": false, "link": true}, got)
}

func TestAdapter_ReadDirUnreadable(t *testing.T) {
	_, err := New().ReadDir(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrFilesystemUnreadable))
}

func TestAdapter_ReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))
	a := New()

	data, truncated, err := a.ReadFile(context.Background(), path, 100)
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Equal(t, "hello world", string(data))

	data, truncated, err = a.ReadFile(context.Background(), path, 5)
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.Equal(t, "hello", string(data))

	_, _, err = a.ReadFile(context.Background(), dir, 5)
	assert.Error(t, err)
}

func TestWatcher_BatchesEvents(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(context.Background(), 200*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch(dir))

	a := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(a, []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b"), []byte("2"), 0o644))
	require.NoError(t, os.Remove(a))

	select {
	case batch := <-w.Events():
		kinds := map[string]entity.FsEventKind{}
		for _, ev := range batch {
			kinds[filepath.Base(ev.Path)] = ev.Kind
		}
		assert.Equal(t, entity.FsRemoved, kinds["a"], "the last event per path wins")
		assert.Contains(t, kinds, "b")
	case <-time.After(5 * time.Second):
		t.Fatal("no batch delivered")
	}
}

func TestWatcher_CloseClosesEvents(t *testing.T) {
	w, err := NewWatcher(context.Background(), 0)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	_, ok := <-w.Events()
	assert.False(t, ok)
	assert.NoError(t, w.Close())
}
