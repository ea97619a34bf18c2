package workspace_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/bnema/termdeck/internal/application/input"
	"github.com/bnema/termdeck/internal/application/port"
	"github.com/bnema/termdeck/internal/application/port/mocks"
	"github.com/bnema/termdeck/internal/application/workspace"
	"github.com/bnema/termdeck/internal/domain/entity"
)

const startDir = "/start"

type fakeProc struct {
	outR *io.PipeReader
	outW *io.PipeWriter

	mu      sync.Mutex
	written bytes.Buffer
	cwd     string
	rows    int
	cols    int

	exit         chan int
	closeOnce    sync.Once
	ignoreHangup bool
}

func newFakeProc(dir string) *fakeProc {
	r, w := io.Pipe()
	return &fakeProc{outR: r, outW: w, cwd: dir, exit: make(chan int, 1)}
}

func (p *fakeProc) Read(b []byte) (int, error) { return p.outR.Read(b) }

func (p *fakeProc) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.Write(b)
}

func (p *fakeProc) Resize(rows, cols int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows, p.cols = rows, cols
	return nil
}

func (p *fakeProc) Wait() (int, error) { return <-p.exit, nil }
func (p *fakeProc) Pid() int           { return 100 }

func (p *fakeProc) ForegroundCwd() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cwd, p.cwd != ""
}

func (p *fakeProc) Close() error {
	p.closeOnce.Do(func() {
		_ = p.outW.Close()
		if p.ignoreHangup {
			return
		}
		select {
		case p.exit <- -1:
		default:
		}
	})
	return nil
}

func (p *fakeProc) setCwd(dir string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cwd = dir
}

func (p *fakeProc) input() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.String()
}

func (p *fakeProc) size() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rows, p.cols
}

type fakeSpawner struct {
	mu    sync.Mutex
	reqs  []port.SpawnRequest
	procs []*fakeProc
	fail  map[string]bool
	// ignoreHangup makes spawned processes keep running after Close.
	ignoreHangup bool
}

func (s *fakeSpawner) Spawn(_ context.Context, req port.SpawnRequest) (port.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reqs = append(s.reqs, req)
	if s.fail[req.Dir] {
		return nil, errors.New("no such directory")
	}
	p := newFakeProc(req.Dir)
	p.ignoreHangup = s.ignoreHangup
	s.procs = append(s.procs, p)
	return p, nil
}

func (s *fakeSpawner) proc(i int) *fakeProc {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.procs[i]
}

func (s *fakeSpawner) dirs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, r := range s.reqs {
		out = append(out, r.Dir)
	}
	return out
}

type fakeFiles map[string]string

func (f fakeFiles) ReadFile(_ context.Context, path string, limit int64) ([]byte, bool, error) {
	data, ok := f[path]
	if !ok {
		return nil, false, entity.ErrFilesystemUnreadable
	}
	if int64(len(data)) > limit {
		return []byte(data[:limit]), true, nil
	}
	return []byte(data), false, nil
}

type harness struct {
	c       *workspace.Coordinator
	spawner *fakeSpawner
	reader  *sdkmetric.ManualReader
	now     time.Time
}

func newHarness(t *testing.T, opts workspace.Options, files fakeFiles, listings map[string][]entity.DirEntry) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	dirs := mocks.NewMockDirReader(ctrl)
	dirs.EXPECT().ReadDir(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, path string) ([]entity.DirEntry, error) {
			return listings[path], nil
		}).AnyTimes()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	if opts.StartDir == "" {
		opts.StartDir = startDir
	}
	spawner := &fakeSpawner{fail: map[string]bool{}}
	c, err := workspace.New(context.Background(), opts, workspace.Deps{
		Spawner: spawner,
		Dirs:    dirs,
		Files:   files,
		Hotkeys: input.BuildHotkeys(context.Background(), input.DefaultHotkeys()),
		Meter:   provider.Meter("test"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	c.SetWindow(entity.Size{W: 200, H: 100})
	return &harness{c: c, spawner: spawner, reader: reader, now: time.Now()}
}

func (h *harness) tick(d time.Duration) workspace.Frame {
	h.now = h.now.Add(d)
	return h.c.Tick(context.Background(), h.now)
}

func (h *harness) hotkey(r rune) workspace.Frame {
	h.c.Enqueue(entity.RuneInput(r, entity.ModAlt))
	return h.tick(time.Millisecond)
}

func (h *harness) click(x, y int) {
	h.c.Enqueue(entity.PointerInput(entity.PointerPress, entity.ButtonLeft, x, y))
	h.c.Enqueue(entity.PointerInput(entity.PointerRelease, entity.ButtonLeft, x, y))
}

func rects(f workspace.Frame) []entity.PaneRect {
	return f.Rects
}

func TestCoordinator_StartAndSplit(t *testing.T) {
	h := newHarness(t, workspace.Options{}, nil, nil)
	require.NoError(t, h.c.Start())

	f := h.tick(0)
	require.Len(t, f.Panes, 1)
	assert.Equal(t, entity.PaneRect{PaneID: 1, W: 200, H: 100}, f.Panes[0].Rect)
	assert.True(t, f.Panes[0].Focused)

	f = h.hotkey('s')
	assert.Equal(t, []entity.PaneRect{
		{PaneID: 1, X: 0, Y: 0, W: 200, H: 50},
		{PaneID: 2, X: 0, Y: 50, W: 200, H: 50},
	}, rects(f))
	assert.Equal(t, entity.PaneID(2), f.Focused, "the new pane takes focus")
	assert.Equal(t, []string{startDir, startDir}, h.spawner.dirs(), "the new terminal opens in the split pane's directory")

	rows, cols := h.spawner.proc(1).size()
	assert.Equal(t, 50, rows)
	assert.Equal(t, 200, cols)

	f = h.hotkey('v')
	assert.Equal(t, []entity.PaneRect{
		{PaneID: 1, X: 0, Y: 0, W: 200, H: 50},
		{PaneID: 2, X: 0, Y: 50, W: 100, H: 50},
		{PaneID: 3, X: 100, Y: 50, W: 100, H: 50},
	}, rects(f))
}

func TestCoordinator_KeysReachFocusedTerminal(t *testing.T) {
	h := newHarness(t, workspace.Options{}, nil, nil)
	require.NoError(t, h.c.Start())
	h.hotkey('v')

	h.click(30, 30)
	h.c.Enqueue(entity.RuneInput('x', 0))
	f := h.tick(time.Millisecond)
	assert.Equal(t, entity.PaneID(1), f.Focused)

	assert.Eventually(t, func() bool {
		return h.spawner.proc(0).input() == "x"
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, h.spawner.proc(1).input())
}

func TestCoordinator_CwdFollowDebounce(t *testing.T) {
	h := newHarness(t, workspace.Options{
		FollowCwd:       true,
		CwdDebounce:     150 * time.Millisecond,
		CwdPollInterval: -1,
	}, nil, nil)
	require.NoError(t, h.c.Start())
	h.hotkey('v')
	h.tick(time.Second)

	h.spawner.proc(0).setCwd("/project")
	h.spawner.proc(1).setCwd("/other")

	h.click(30, 30)
	f := h.tick(time.Second)
	require.Equal(t, entity.PaneID(1), f.Focused)

	h.click(150, 30)
	f = h.tick(100 * time.Millisecond)
	require.Equal(t, entity.PaneID(2), f.Focused)
	assert.NotEqual(t, "/project", f.BrowserRoot)

	f = h.tick(100 * time.Millisecond)
	assert.NotEqual(t, "/project", f.BrowserRoot, "the superseded lookup never fires")
	assert.NotEqual(t, "/other", f.BrowserRoot, "the new lookup waits for the debounce")

	f = h.tick(100 * time.Millisecond)
	assert.Equal(t, "/other", f.BrowserRoot)
}

func TestCoordinator_CwdPollFollowsCd(t *testing.T) {
	h := newHarness(t, workspace.Options{
		FollowCwd:       true,
		CwdPollInterval: 500 * time.Millisecond,
	}, nil, nil)
	require.NoError(t, h.c.Start())
	h.tick(200 * time.Millisecond)

	f := h.tick(200 * time.Millisecond)
	require.Equal(t, startDir, f.BrowserRoot)

	h.spawner.proc(0).setCwd("/tmp/elsewhere")
	h.tick(100 * time.Millisecond)
	f = h.tick(600 * time.Millisecond)
	assert.Equal(t, "/tmp/elsewhere", f.BrowserRoot)
}

func TestCoordinator_ExitedTerminalStaysOpen(t *testing.T) {
	h := newHarness(t, workspace.Options{}, nil, nil)
	require.NoError(t, h.c.Start())
	h.tick(0)

	h.spawner.proc(0).exit <- 3
	p, ok := h.c.Pane(1)
	require.True(t, ok)
	tp := p.(*workspace.TerminalPane)
	require.Eventually(t, func() bool {
		return errors.Is(tp.Err(), entity.ErrProcessExited)
	}, time.Second, 5*time.Millisecond)

	h.c.Enqueue(entity.RuneInput('x', 0))
	f := h.tick(time.Millisecond)
	require.Len(t, f.Panes, 1)
	assert.Equal(t, entity.PaneID(1), f.Focused)
	assert.False(t, f.Quit)
	assert.Empty(t, h.spawner.proc(0).input())

	code, exited := tp.Session().ExitCode()
	assert.True(t, exited)
	assert.Equal(t, 3, code)
}

func TestCoordinator_TogglePanel(t *testing.T) {
	h := newHarness(t, workspace.Options{PanelRatio: 0.25}, nil, nil)
	require.NoError(t, h.c.Start())
	h.hotkey('v')

	f := h.hotkey('e')
	require.Len(t, f.Panes, 3)
	panel := f.Panes[0]
	assert.Equal(t, entity.PaneBrowser, panel.Pane.Kind())
	assert.Equal(t, entity.PaneRect{PaneID: 3, W: 50, H: 100}, panel.Rect, "the panel spans the whole left edge")
	assert.Equal(t, panel.Rect.PaneID, f.Focused)
	assert.Equal(t, startDir, f.BrowserRoot)
	assert.True(t, h.c.PanelOpen())

	f = h.hotkey('e')
	require.Len(t, f.Panes, 2)
	assert.False(t, h.c.PanelOpen())
	assert.Equal(t, entity.PaneID(1), f.Focused)
	assert.Equal(t, 200, f.Panes[0].Rect.W+f.Panes[1].Rect.W)
}

func TestCoordinator_LastPaneClosed(t *testing.T) {
	t.Run("quit", func(t *testing.T) {
		h := newHarness(t, workspace.Options{}, nil, nil)
		require.NoError(t, h.c.Start())
		f := h.hotkey('w')
		assert.Empty(t, f.Panes)
		assert.Equal(t, entity.NoPane, f.Focused)
		assert.True(t, f.Quit)
	})

	t.Run("respawn", func(t *testing.T) {
		h := newHarness(t, workspace.Options{OnLastPaneClosed: workspace.LastPaneRespawn}, nil, nil)
		require.NoError(t, h.c.Start())
		f := h.hotkey('w')
		require.Len(t, f.Panes, 1)
		assert.False(t, f.Quit)
		assert.Equal(t, entity.PaneID(2), f.Focused)
		assert.Len(t, h.spawner.dirs(), 2)
	})
}

func TestCoordinator_CloseMovesFocus(t *testing.T) {
	h := newHarness(t, workspace.Options{}, nil, nil)
	require.NoError(t, h.c.Start())
	h.hotkey('v')
	h.hotkey('v')

	f := h.hotkey('w')
	require.Len(t, f.Panes, 2)
	assert.Contains(t, []entity.PaneID{1, 2}, f.Focused)
	_, ok := h.c.Pane(3)
	assert.False(t, ok)
}

func TestCoordinator_SwapNext(t *testing.T) {
	h := newHarness(t, workspace.Options{}, nil, nil)
	require.NoError(t, h.c.Start())
	h.hotkey('v')
	h.click(30, 30)
	h.tick(time.Millisecond)

	f := h.hotkey('x')
	assert.Equal(t, entity.PaneID(2), f.Rects[0].PaneID)
	assert.Equal(t, entity.PaneID(1), f.Rects[1].PaneID)
	assert.Equal(t, entity.PaneID(1), f.Focused, "focus follows the moved pane")
}

func TestCoordinator_BorderDrag(t *testing.T) {
	h := newHarness(t, workspace.Options{}, nil, nil)
	require.NoError(t, h.c.Start())
	h.hotkey('v')

	h.c.Enqueue(entity.PointerInput(entity.PointerPress, entity.ButtonLeft, 99, 50))
	h.c.Enqueue(entity.PointerInput(entity.PointerMotion, entity.ButtonLeft, 150, 50))
	h.c.Enqueue(entity.PointerInput(entity.PointerRelease, entity.ButtonLeft, 150, 50))
	f := h.tick(time.Millisecond)

	assert.Equal(t, 150, f.Rects[0].W)
	assert.Equal(t, 50, f.Rects[1].W)
	assert.InDelta(t, 0.75, h.c.State().Root.Ratio, 0.001)
}

func TestCoordinator_OpenFileFromBrowser(t *testing.T) {
	files := fakeFiles{"/start/notes.txt": "one\ntwo\n"}
	h := newHarness(t, workspace.Options{}, files, map[string][]entity.DirEntry{
		startDir: {{Name: "notes.txt"}},
	})
	require.NoError(t, h.c.Start())

	h.hotkey('e')
	require.Eventually(t, func() bool {
		h.tick(time.Millisecond)
		return len(h.c.Browser().Visible()) == 1
	}, time.Second, 5*time.Millisecond)

	h.c.Enqueue(entity.KeyInput(entity.KeyEvent{Key: entity.KeyEnter}))
	f := h.tick(time.Millisecond)

	p, ok := h.c.Pane(f.Focused)
	require.True(t, ok)
	viewer, ok := p.(*workspace.ViewerPane)
	require.True(t, ok, "the viewer takes focus")
	assert.Equal(t, "/start/notes.txt", viewer.Path())
	assert.Equal(t, []string{"one", "two"}, viewer.Lines())
	require.Len(t, f.Panes, 3)

	h.c.Enqueue(entity.RuneInput('q', 0))
	f = h.tick(time.Millisecond)
	assert.Len(t, f.Panes, 2, "q closes the viewer")
}

func TestCoordinator_SnapshotAndRestore(t *testing.T) {
	h := newHarness(t, workspace.Options{WorkspaceID: "ws-1"}, nil, nil)
	require.NoError(t, h.c.Start())
	h.hotkey('v')
	h.spawner.proc(1).setCwd("/gone")
	h.hotkey('e')
	h.click(175, 30)
	h.tick(time.Millisecond)

	saved := h.c.State()
	require.NotNil(t, saved)
	assert.Equal(t, "ws-1", saved.ID)
	assert.Equal(t, 3, saved.CountPanes())
	assert.Equal(t, entity.PaneID(3), saved.PanelPane)
	assert.Equal(t, entity.PaneID(2), saved.Focused)
	assert.Equal(t, "/gone", saved.FindPane(2).Cwd)

	r := newHarness(t, workspace.Options{}, nil, nil)
	r.spawner.fail["/gone"] = true
	require.NoError(t, r.c.Restore(context.Background(), saved))
	require.NoError(t, r.c.Start())
	f := r.tick(0)

	assert.Equal(t, []string{startDir, "/gone", startDir}, r.spawner.dirs(), "an unusable directory falls back to the start directory")
	assert.Equal(t, entity.PaneID(2), f.Focused)
	assert.True(t, r.c.PanelOpen())
	assert.Equal(t, "ws-1", r.c.ID())
	assert.Equal(t, rects(h.tick(0)), rects(f), "tree and ratios are restored verbatim")

	r.hotkey('s')
	_, ok := r.c.Pane(4)
	assert.True(t, ok, "ids minted after restore continue above the restored ones")
}

func TestCoordinator_Metrics(t *testing.T) {
	h := newHarness(t, workspace.Options{}, nil, nil)
	require.NoError(t, h.c.Start())
	h.hotkey('v')
	h.hotkey('e')

	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))

	open := map[string]int64{}
	var ticks uint64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				if m.Name != "workspace.panes.open" {
					continue
				}
				for _, dp := range data.DataPoints {
					kind, _ := dp.Attributes.Value("pane.kind")
					open[kind.AsString()] = dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					ticks += dp.Count
				}
			}
		}
	}
	assert.Equal(t, map[string]int64{"terminal": 2, "browser": 1}, open)
	assert.Equal(t, uint64(2), ticks)
}

func TestCoordinator_SetHotkeys(t *testing.T) {
	h := newHarness(t, workspace.Options{}, nil, nil)
	require.NoError(t, h.c.Start())

	h.c.SetHotkeys(input.BuildHotkeys(context.Background(), map[string]string{"ctrl+b": "split"}))
	assert.Equal(t, map[string]input.Action{"ctrl+b": input.ActionSplit}, h.c.Hotkeys().Bindings())

	f := h.hotkey('s')
	assert.Len(t, f.Panes, 1, "the old chord is no longer bound")

	h.c.Enqueue(entity.RuneInput('b', entity.ModCtrl))
	f = h.tick(time.Millisecond)
	assert.Len(t, f.Panes, 2)
}

func TestCoordinator_ClosingStubbornPaneKeepsTicking(t *testing.T) {
	h := newHarness(t, workspace.Options{}, nil, nil)
	h.spawner.ignoreHangup = true
	require.NoError(t, h.c.Start())
	h.hotkey('v')
	stubborn := h.spawner.proc(1)
	t.Cleanup(func() { stubborn.exit <- -1 })

	done := make(chan workspace.Frame, 1)
	go func() { done <- h.hotkey('w') }()
	select {
	case f := <-done:
		require.Len(t, f.Panes, 1)
		assert.Equal(t, entity.PaneID(1), f.Focused)
	case <-time.After(time.Second):
		t.Fatal("tick blocked closing a pane whose process keeps running")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	h.spawner.proc(0).exit <- 0
	assert.NoError(t, h.c.Close(ctx), "panes whose processes exited close cleanly")
}

func TestCoordinator_CloseBoundedByContext(t *testing.T) {
	h := newHarness(t, workspace.Options{}, nil, nil)
	h.spawner.ignoreHangup = true
	require.NoError(t, h.c.Start())
	h.tick(0)
	t.Cleanup(func() { h.spawner.proc(0).exit <- -1 })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := h.c.Close(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// Random sequences of layout commands and clicks must keep the layout
// leaves, the pane registry and the focus consistent.
func TestCoordinator_RandomOperationsKeepRegistryConsistent(t *testing.T) {
	for _, seed := range []uint64{1, 7, 42, 1337} {
		t.Run(fmt.Sprint(seed), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			h := newHarness(t, workspace.Options{OnLastPaneClosed: workspace.LastPaneRespawn}, nil, nil)
			require.NoError(t, h.c.Start())
			f := h.tick(0)

			var maxID entity.PaneID
			for step := range 300 {
				switch op := rng.IntN(8); {
				case op == 0 && len(f.Panes) < 12:
					f = h.hotkey('s')
				case op == 1 && len(f.Panes) < 12:
					f = h.hotkey('v')
				case op == 2:
					f = h.hotkey('w')
				case op == 3:
					f = h.hotkey('e')
				case op == 4:
					f = h.hotkey('o')
				case op == 5:
					f = h.hotkey('x')
				default:
					h.click(rng.IntN(200), rng.IntN(100))
					f = h.tick(time.Duration(rng.IntN(200)) * time.Millisecond)
				}

				require.Len(t, f.Rects, len(f.Panes), "step %d", step)
				require.NotEmpty(t, f.Rects, "step %d: respawn keeps a pane", step)

				seen := make(map[entity.PaneID]bool, len(f.Rects))
				area := 0
				for i, r := range f.Rects {
					require.False(t, seen[r.PaneID], "step %d: duplicate pane %d", step, r.PaneID)
					seen[r.PaneID] = true
					assert.Equal(t, r, f.Panes[i].Rect, "step %d", step)
					area += r.W * r.H
					maxID = max(maxID, r.PaneID)
				}
				require.Equal(t, 200*100, area, "step %d: rects tile the window", step)
				require.True(t, seen[f.Focused], "step %d: focus %d dangles", step, f.Focused)

				for id := entity.PaneID(1); id <= maxID; id++ {
					_, ok := h.c.Pane(id)
					require.Equal(t, seen[id], ok, "step %d: registry and layout disagree on pane %d", step, id)
				}
			}
		})
	}
}
