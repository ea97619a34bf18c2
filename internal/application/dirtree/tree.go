// Package dirtree holds the directory browser state: a root, the set of
// expanded directories and the listings loaded so far.
//
// Directory reads run on goroutines; their results are buffered and applied
// in one step by ApplyPending, which the workspace tick calls. Results that
// belong to a previous root are dropped.
package dirtree

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/bnema/termdeck/internal/application/port"
	"github.com/bnema/termdeck/internal/domain/entity"
	"github.com/bnema/termdeck/internal/logging"
)

const DefaultMaxConcurrentReads = 4

// Entry is one visible row of the browser.
type Entry struct {
	Name        string
	Path        string
	IsDir       bool
	Depth       int
	Expanded    bool
	HasChildren bool
	// Err is set on the marker row that replaces an unreadable directory's contents.
	Err error
}

// IsError reports whether the row is an error marker.
func (e Entry) IsError() bool { return e.Err != nil }

// Options configures a Tree.
type Options struct {
	ShowHidden         bool
	MaxConcurrentReads int64
}

type listing struct {
	entries []entity.DirEntry
	err     error
}

type result struct {
	gen     uint64
	seq     uint64
	path    string
	entries []entity.DirEntry
	err     error
}

// Tree is the browser state. All methods except the read goroutines run on
// the workspace tick.
type Tree struct {
	reader port.DirReader
	opts   Options
	sem    *semaphore.Weighted
	log    *zerolog.Logger

	root     string
	gen      uint64
	genCtx   context.Context
	genStop  context.CancelFunc
	expanded map[string]bool
	listings map[string]*listing
	// outstanding maps a path to the sequence number of its newest read.
	outstanding map[string]uint64
	seq         uint64
	filter      string

	mu      sync.Mutex
	pending []result

	baseCtx context.Context
	wg      sync.WaitGroup
}

// New creates an empty tree. Reads inherit ctx and stop when it is cancelled.
func New(ctx context.Context, reader port.DirReader, opts Options) *Tree {
	if opts.MaxConcurrentReads <= 0 {
		opts.MaxConcurrentReads = DefaultMaxConcurrentReads
	}
	t := &Tree{
		reader:  reader,
		opts:    opts,
		sem:     semaphore.NewWeighted(opts.MaxConcurrentReads),
		log:     logging.FromContext(ctx),
		baseCtx: ctx,
	}
	t.reset()
	return t
}

func (t *Tree) reset() {
	if t.genStop != nil {
		t.genStop()
	}
	t.gen++
	t.genCtx, t.genStop = context.WithCancel(t.baseCtx)
	t.expanded = make(map[string]bool)
	t.listings = make(map[string]*listing)
	t.outstanding = make(map[string]uint64)
}

// Root returns the current root, or "" before the first SetRoot.
func (t *Tree) Root() string {
	return t.root
}

// SetRoot switches the browser to path. The expansion set and all listings
// are discarded and reads still in flight for the old root are cancelled.
// Setting the current root again is a no-op; it reports whether the root changed.
func (t *Tree) SetRoot(path string) bool {
	path = filepath.Clean(path)
	if path == t.root {
		return false
	}
	t.reset()
	t.root = path
	t.load(path)
	t.log.Debug().Str("root", path).Uint64("generation", t.gen).Msg("browser root changed")
	return true
}

// Restore sets the root and re-expands the given directories. Directories
// outside the root are ignored.
func (t *Tree) Restore(root string, expanded []string) {
	root = filepath.Clean(root)
	t.root = ""
	t.SetRoot(root)
	for _, dir := range expanded {
		dir = filepath.Clean(dir)
		if dir == root || !within(root, dir) {
			continue
		}
		t.expanded[dir] = true
		t.load(dir)
	}
}

// Expanded returns the expansion set in sorted order.
func (t *Tree) Expanded() []string {
	out := make([]string, 0, len(t.expanded))
	for dir := range t.expanded {
		out = append(out, dir)
	}
	slices.Sort(out)
	return out
}

// IsExpanded reports whether dir is expanded.
func (t *Tree) IsExpanded(dir string) bool {
	return t.expanded[filepath.Clean(dir)]
}

// Expand marks dir as expanded and loads it if needed.
func (t *Tree) Expand(dir string) {
	dir = filepath.Clean(dir)
	if t.root == "" || !within(t.root, dir) || dir == t.root {
		return
	}
	t.expanded[dir] = true
	if _, ok := t.listings[dir]; !ok {
		if _, busy := t.outstanding[dir]; !busy {
			t.load(dir)
		}
	}
}

// Collapse removes dir from the expansion set. Its listing stays cached.
func (t *Tree) Collapse(dir string) {
	delete(t.expanded, filepath.Clean(dir))
}

// Toggle flips the expansion of dir.
func (t *Tree) Toggle(dir string) {
	if t.IsExpanded(dir) {
		t.Collapse(dir)
		return
	}
	t.Expand(dir)
}

// Refresh re-reads dir if it is the root or has been loaded before.
func (t *Tree) Refresh(dir string) {
	dir = filepath.Clean(dir)
	if t.root == "" {
		return
	}
	if _, ok := t.listings[dir]; ok || dir == t.root || t.expanded[dir] {
		t.load(dir)
	}
}

// Filter returns the active fuzzy filter.
func (t *Tree) Filter() string {
	return t.filter
}

// SetFilter sets a fuzzy name filter. An empty string disables it.
func (t *Tree) SetFilter(pattern string) {
	t.filter = strings.TrimSpace(pattern)
}

// Loading reports whether a read for dir is outstanding.
func (t *Tree) Loading(dir string) bool {
	_, ok := t.outstanding[filepath.Clean(dir)]
	return ok
}

// Loaded returns the directories that currently have a listing, sorted.
func (t *Tree) Loaded() []string {
	out := make([]string, 0, len(t.listings))
	for dir, l := range t.listings {
		if l.err == nil {
			out = append(out, dir)
		}
	}
	slices.Sort(out)
	return out
}

// HandleEvents refreshes the directories touched by a batch of filesystem
// changes. It returns the directories it re-read.
func (t *Tree) HandleEvents(events []entity.FsEvent) []string {
	seen := make(map[string]bool)
	var refreshed []string
	for _, ev := range events {
		p := filepath.Clean(ev.Path)
		if ev.Kind == entity.FsRemoved || ev.Kind == entity.FsRenamed {
			t.forget(p)
		}
		dir := filepath.Dir(p)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if _, ok := t.listings[dir]; ok {
			t.load(dir)
			refreshed = append(refreshed, dir)
		}
	}
	return refreshed
}

// forget drops cached state for a path that no longer exists.
func (t *Tree) forget(path string) {
	for dir := range t.expanded {
		if dir == path || within(path, dir) {
			delete(t.expanded, dir)
		}
	}
	for dir := range t.listings {
		if dir == path || within(path, dir) {
			delete(t.listings, dir)
		}
	}
}

func (t *Tree) load(dir string) {
	t.seq++
	req := result{gen: t.gen, seq: t.seq, path: dir}
	t.outstanding[dir] = req.seq
	ctx := t.genCtx

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := t.sem.Acquire(ctx, 1); err != nil {
			return
		}
		defer t.sem.Release(1)

		req.entries, req.err = t.reader.ReadDir(ctx, dir)
		if ctx.Err() != nil {
			return
		}
		t.mu.Lock()
		t.pending = append(t.pending, req)
		t.mu.Unlock()
	}()
}

// ApplyPending installs every finished read. Each directory's listing is
// replaced as a whole. It reports whether anything visible may have changed.
func (t *Tree) ApplyPending() bool {
	t.mu.Lock()
	results := t.pending
	t.pending = nil
	t.mu.Unlock()

	changed := false
	for _, r := range results {
		if r.gen != t.gen {
			continue
		}
		if seq, ok := t.outstanding[r.path]; !ok || seq != r.seq {
			continue
		}
		delete(t.outstanding, r.path)

		if r.err != nil {
			if !errors.Is(r.err, entity.ErrFilesystemUnreadable) {
				r.err = fmt.Errorf("%w: %w", entity.ErrFilesystemUnreadable, r.err)
			}
			t.log.Debug().Err(r.err).Str("path", r.path).Msg("directory unreadable")
			t.listings[r.path] = &listing{err: r.err}
		} else {
			t.listings[r.path] = &listing{entries: t.prepare(r.entries)}
		}
		changed = true
	}
	return changed
}

func (t *Tree) prepare(entries []entity.DirEntry) []entity.DirEntry {
	out := make([]entity.DirEntry, 0, len(entries))
	for _, e := range entries {
		if !t.opts.ShowHidden && strings.HasPrefix(e.Name, ".") {
			continue
		}
		out = append(out, e)
	}
	slices.SortFunc(out, compareEntries)
	return out
}

// compareEntries orders directories before files, then by case-insensitive name.
func compareEntries(a, b entity.DirEntry) int {
	if a.IsDir != b.IsDir {
		if a.IsDir {
			return -1
		}
		return 1
	}
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}

// Visible returns the depth-first projection of the tree. It is empty until
// the root listing arrives.
func (t *Tree) Visible() []Entry {
	root, ok := t.listings[t.root]
	if !ok {
		return nil
	}
	if root.err != nil {
		return []Entry{errorEntry(t.root, 0, root.err)}
	}
	return t.project(t.root, root, 0)
}

func (t *Tree) project(dir string, l *listing, depth int) []Entry {
	var out []Entry
	for _, de := range l.entries {
		path := filepath.Join(dir, de.Name)
		e := Entry{Name: de.Name, Path: path, IsDir: de.IsDir, Depth: depth}

		if !de.IsDir {
			if t.matches(de.Name) {
				out = append(out, e)
			}
			continue
		}

		child, loaded := t.listings[path]
		e.HasChildren = !loaded || child.err != nil || len(child.entries) > 0
		e.Expanded = t.expanded[path]

		var below []Entry
		if e.Expanded && loaded {
			if child.err != nil {
				below = []Entry{errorEntry(path, depth+1, child.err)}
			} else {
				below = t.project(path, child, depth+1)
			}
		}
		if t.filter != "" && len(below) == 0 && !t.matches(de.Name) {
			continue
		}
		out = append(out, e)
		out = append(out, below...)
	}
	return out
}

func (t *Tree) matches(name string) bool {
	return t.filter == "" || fuzzy.MatchFold(t.filter, name)
}

func errorEntry(dir string, depth int, err error) Entry {
	return Entry{Name: err.Error(), Path: dir, Depth: depth, Err: err}
}

// Close cancels outstanding reads and waits for their goroutines.
func (t *Tree) Close() {
	t.genStop()
	t.wg.Wait()
}

func within(root, path string) bool {
	if root == string(filepath.Separator) {
		return strings.HasPrefix(path, root) && path != root
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
