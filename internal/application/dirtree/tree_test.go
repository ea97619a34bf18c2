package dirtree_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bnema/termdeck/internal/application/dirtree"
	"github.com/bnema/termdeck/internal/application/port/mocks"
	"github.com/bnema/termdeck/internal/domain/entity"
)

func dir(name string) entity.DirEntry  { return entity.DirEntry{Name: name, IsDir: true} }
func file(name string) entity.DirEntry { return entity.DirEntry{Name: name} }

func newTree(t *testing.T, reader *mocks.MockDirReader, opts dirtree.Options) *dirtree.Tree {
	t.Helper()
	tree := dirtree.New(context.Background(), reader, opts)
	t.Cleanup(tree.Close)
	return tree
}

func settle(t *testing.T, tree *dirtree.Tree, dirs ...string) {
	t.Helper()
	require.Eventually(t, func() bool {
		tree.ApplyPending()
		for _, d := range dirs {
			if tree.Loading(d) {
				return false
			}
		}
		return true
	}, time.Second, time.Millisecond)
}

func names(entries []dirtree.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestTree_VisibleOrdersDirsFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockDirReader(ctrl)
	reader.EXPECT().ReadDir(gomock.Any(), "/p").Return([]entity.DirEntry{
		file("b.txt"), dir("src"), file("A.md"), dir("Docs"), file(".env"),
	}, nil)

	tree := newTree(t, reader, dirtree.Options{})
	assert.Nil(t, tree.Visible(), "nothing until the root listing arrives")

	require.True(t, tree.SetRoot("/p"))
	settle(t, tree, "/p")

	got := tree.Visible()
	assert.Equal(t, []string{"Docs", "src", "A.md", "b.txt"}, names(got))
	assert.Equal(t, "/p/src", got[1].Path)
	assert.True(t, got[1].IsDir)
	assert.True(t, got[1].HasChildren, "unloaded directories may have children")
	assert.False(t, got[1].Expanded)
	assert.Equal(t, 0, got[1].Depth)
}

func TestTree_ShowHidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockDirReader(ctrl)
	reader.EXPECT().ReadDir(gomock.Any(), "/p").Return([]entity.DirEntry{file(".env"), file("a")}, nil)

	tree := newTree(t, reader, dirtree.Options{ShowHidden: true})
	tree.SetRoot("/p")
	settle(t, tree, "/p")
	assert.Equal(t, []string{".env", "a"}, names(tree.Visible()))
}

func TestTree_ToggleExpandsAndCollapses(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockDirReader(ctrl)
	reader.EXPECT().ReadDir(gomock.Any(), "/p").Return([]entity.DirEntry{dir("src"), file("go.mod")}, nil)
	reader.EXPECT().ReadDir(gomock.Any(), "/p/src").Return([]entity.DirEntry{file("main.go"), dir("empty")}, nil).Times(1)
	reader.EXPECT().ReadDir(gomock.Any(), "/p/src/empty").Return(nil, nil)

	tree := newTree(t, reader, dirtree.Options{})
	tree.SetRoot("/p")
	settle(t, tree, "/p")

	tree.Toggle("/p/src")
	settle(t, tree, "/p/src")
	got := tree.Visible()
	require.Equal(t, []string{"src", "empty", "main.go", "go.mod"}, names(got))
	assert.True(t, got[0].Expanded)
	assert.Equal(t, 1, got[1].Depth)

	tree.Expand("/p/src/empty")
	settle(t, tree, "/p/src/empty")
	assert.False(t, tree.Visible()[1].HasChildren)

	tree.Toggle("/p/src")
	assert.Equal(t, []string{"src", "go.mod"}, names(tree.Visible()))

	tree.Toggle("/p/src")
	assert.Len(t, tree.Visible(), 4, "cached listing is reused without another read")
	assert.Equal(t, []string{"/p/src", "/p/src/empty"}, tree.Expanded())
}

func TestTree_UnreadableSubtreeRendersErrorEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockDirReader(ctrl)
	reader.EXPECT().ReadDir(gomock.Any(), "/p").Return([]entity.DirEntry{dir("locked"), dir("open")}, nil)
	reader.EXPECT().ReadDir(gomock.Any(), "/p/locked").Return(nil, os.ErrPermission)
	reader.EXPECT().ReadDir(gomock.Any(), "/p/open").Return([]entity.DirEntry{file("x")}, nil)

	tree := newTree(t, reader, dirtree.Options{})
	tree.SetRoot("/p")
	settle(t, tree, "/p")
	tree.Expand("/p/locked")
	tree.Expand("/p/open")
	settle(t, tree, "/p/locked", "/p/open")

	got := tree.Visible()
	require.Len(t, got, 4)
	assert.Equal(t, "locked", got[0].Name)
	assert.True(t, got[1].IsError())
	assert.ErrorIs(t, got[1].Err, entity.ErrFilesystemUnreadable)
	assert.ErrorIs(t, got[1].Err, os.ErrPermission)
	assert.Equal(t, 1, got[1].Depth)
	assert.Equal(t, "open", got[2].Name)
	assert.Equal(t, "x", got[3].Name, "siblings are unaffected")
}

func TestTree_UnreadableRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockDirReader(ctrl)
	reader.EXPECT().ReadDir(gomock.Any(), "/root").Return(nil, os.ErrPermission)

	tree := newTree(t, reader, dirtree.Options{})
	tree.SetRoot("/root")
	settle(t, tree, "/root")

	got := tree.Visible()
	require.Len(t, got, 1)
	assert.True(t, got[0].IsError())
}

func TestTree_SetRootResetsExpansion(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockDirReader(ctrl)
	reader.EXPECT().ReadDir(gomock.Any(), "/home/u/project").Return([]entity.DirEntry{dir("src")}, nil)
	reader.EXPECT().ReadDir(gomock.Any(), "/home/u/project/src").Return([]entity.DirEntry{file("a.go")}, nil)
	reader.EXPECT().ReadDir(gomock.Any(), "/home/u/other").Return([]entity.DirEntry{dir("src")}, nil)

	tree := newTree(t, reader, dirtree.Options{})
	tree.SetRoot("/home/u/project")
	settle(t, tree, "/home/u/project")
	tree.Expand("/home/u/project/src")
	settle(t, tree, "/home/u/project/src")
	require.Len(t, tree.Visible(), 2)

	assert.False(t, tree.SetRoot("/home/u/project/"), "same root is a no-op")
	require.Len(t, tree.Expanded(), 1)

	require.True(t, tree.SetRoot("/home/u/other"))
	assert.Empty(t, tree.Expanded())
	assert.Nil(t, tree.Visible())
	settle(t, tree, "/home/u/other")

	got := tree.Visible()
	require.Len(t, got, 1)
	assert.False(t, got[0].Expanded)
}

func TestTree_StaleReadIsDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockDirReader(ctrl)

	release := make(chan struct{})
	reader.EXPECT().ReadDir(gomock.Any(), "/a").DoAndReturn(func(context.Context, string) ([]entity.DirEntry, error) {
		<-release
		return []entity.DirEntry{file("from-a")}, nil
	}).MaxTimes(1)
	reader.EXPECT().ReadDir(gomock.Any(), "/b").Return([]entity.DirEntry{file("from-b")}, nil)

	tree := dirtree.New(context.Background(), reader, dirtree.Options{})
	tree.SetRoot("/a")
	tree.SetRoot("/b")
	settle(t, tree, "/b")
	close(release)
	tree.Close()

	tree.ApplyPending()
	assert.Equal(t, []string{"from-b"}, names(tree.Visible()))
}

func TestTree_RefreshReplacesListing(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockDirReader(ctrl)
	gomock.InOrder(
		reader.EXPECT().ReadDir(gomock.Any(), "/p").Return([]entity.DirEntry{file("a")}, nil),
		reader.EXPECT().ReadDir(gomock.Any(), "/p").Return([]entity.DirEntry{file("a"), file("b")}, nil),
	)

	tree := newTree(t, reader, dirtree.Options{})
	tree.SetRoot("/p")
	settle(t, tree, "/p")
	tree.Refresh("/p")
	tree.Refresh("/elsewhere")
	settle(t, tree, "/p")
	assert.Equal(t, []string{"a", "b"}, names(tree.Visible()))
}

func TestTree_HandleEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockDirReader(ctrl)
	gomock.InOrder(
		reader.EXPECT().ReadDir(gomock.Any(), "/p").Return([]entity.DirEntry{dir("gone")}, nil),
		reader.EXPECT().ReadDir(gomock.Any(), "/p").Return([]entity.DirEntry{file("new")}, nil),
	)
	reader.EXPECT().ReadDir(gomock.Any(), "/p/gone").Return([]entity.DirEntry{file("x")}, nil)

	tree := newTree(t, reader, dirtree.Options{})
	tree.SetRoot("/p")
	settle(t, tree, "/p")
	tree.Expand("/p/gone")
	settle(t, tree, "/p/gone")
	assert.Equal(t, []string{"/p", "/p/gone"}, tree.Loaded())

	refreshed := tree.HandleEvents([]entity.FsEvent{
		{Path: "/p/gone", Kind: entity.FsRemoved},
		{Path: "/p/new", Kind: entity.FsAdded},
		{Path: "/unrelated/x", Kind: entity.FsModified},
	})
	assert.Equal(t, []string{"/p"}, refreshed)
	assert.Empty(t, tree.Expanded())

	settle(t, tree, "/p")
	assert.Equal(t, []string{"new"}, names(tree.Visible()))
}

func TestTree_Filter(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockDirReader(ctrl)
	reader.EXPECT().ReadDir(gomock.Any(), "/p").Return([]entity.DirEntry{dir("cmd"), dir("docs"), file("Makefile")}, nil)
	reader.EXPECT().ReadDir(gomock.Any(), "/p/cmd").Return([]entity.DirEntry{file("main.go")}, nil)

	tree := newTree(t, reader, dirtree.Options{})
	tree.SetRoot("/p")
	settle(t, tree, "/p")
	tree.Expand("/p/cmd")
	settle(t, tree, "/p/cmd")

	tree.SetFilter("mgo")
	assert.Equal(t, []string{"cmd", "main.go"}, names(tree.Visible()), "parents of matches stay visible")

	tree.SetFilter("mk")
	assert.Equal(t, []string{"Makefile"}, names(tree.Visible()))

	tree.SetFilter("")
	assert.Len(t, tree.Visible(), 4)
}

func TestTree_Restore(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockDirReader(ctrl)
	reader.EXPECT().ReadDir(gomock.Any(), "/p").Return([]entity.DirEntry{dir("a")}, nil)
	reader.EXPECT().ReadDir(gomock.Any(), "/p/a").Return([]entity.DirEntry{file("f")}, nil)

	tree := newTree(t, reader, dirtree.Options{})
	tree.Restore("/p", []string{"/p/a", "/outside", "/p"})
	settle(t, tree, "/p", "/p/a")

	assert.Equal(t, "/p", tree.Root())
	assert.Equal(t, []string{"/p/a"}, tree.Expanded())
	assert.Equal(t, []string{"a", "f"}, names(tree.Visible()))
}

func TestTree_ConcurrentReadsAreBounded(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockDirReader(ctrl)

	children := []entity.DirEntry{dir("a"), dir("b"), dir("c"), dir("d")}
	reader.EXPECT().ReadDir(gomock.Any(), "/p").Return(children, nil)

	var (
		running = make(chan struct{}, 8)
		gate    = make(chan struct{})
		peak    = make(chan int, 8)
	)
	reader.EXPECT().ReadDir(gomock.Any(), gomock.Not("/p")).DoAndReturn(func(context.Context, string) ([]entity.DirEntry, error) {
		running <- struct{}{}
		peak <- len(running)
		<-gate
		<-running
		return nil, nil
	}).Times(4)

	tree := newTree(t, reader, dirtree.Options{MaxConcurrentReads: 2})
	tree.SetRoot("/p")
	settle(t, tree, "/p")
	for _, c := range children {
		tree.Expand("/p/" + c.Name)
	}

	require.Eventually(t, func() bool { return len(running) == 2 }, time.Second, time.Millisecond)
	close(gate)
	settle(t, tree, "/p/a", "/p/b", "/p/c", "/p/d")

	close(peak)
	for n := range peak {
		assert.LessOrEqual(t, n, 2)
	}
}

func TestEntry_IsError(t *testing.T) {
	assert.False(t, dirtree.Entry{Name: "x"}.IsError())
	assert.True(t, dirtree.Entry{Err: errors.New("boom")}.IsError())
}
