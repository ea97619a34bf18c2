package session_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/termdeck/internal/application/port"
	"github.com/bnema/termdeck/internal/application/session"
	"github.com/bnema/termdeck/internal/domain/entity"
)

type fakeProcess struct {
	outR *io.PipeReader
	outW *io.PipeWriter

	mu      sync.Mutex
	written bytes.Buffer
	rows    int
	cols    int
	fgCwd   string
	block   chan struct{}

	exit      chan int
	closeOnce sync.Once
	// ignoreHangup keeps Wait blocked after Close, like a child that traps SIGHUP.
	ignoreHangup bool
}

func newFakeProcess() *fakeProcess {
	r, w := io.Pipe()
	return &fakeProcess{outR: r, outW: w, exit: make(chan int, 1)}
}

func (p *fakeProcess) Read(b []byte) (int, error) { return p.outR.Read(b) }

func (p *fakeProcess) Write(b []byte) (int, error) {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.Write(b)
}

func (p *fakeProcess) Resize(rows, cols int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows, p.cols = rows, cols
	return nil
}

func (p *fakeProcess) Wait() (int, error) { return <-p.exit, nil }
func (p *fakeProcess) Pid() int           { return 4242 }

func (p *fakeProcess) ForegroundCwd() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fgCwd, p.fgCwd != ""
}

func (p *fakeProcess) Close() error {
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

func (p *fakeProcess) emit(s string) {
	_, _ = p.outW.Write([]byte(s))
}

func (p *fakeProcess) input() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.String()
}

func newSession(t *testing.T, proc *fakeProcess, opts session.Options) *session.Session {
	t.Helper()
	s := session.New(context.Background(), proc, opts)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// processUntil ticks the session until cond holds.
func processUntil(t *testing.T, s *session.Session, cond func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		s.Process()
		return cond()
	}, time.Second, time.Millisecond)
}

func TestSession_ProcessAppliesOutput(t *testing.T) {
	proc := newFakeProcess()
	s := newSession(t, proc, session.Options{Rows: 4, Cols: 20})

	assert.False(t, s.Process(), "nothing pending is a no-op")

	go proc.emit("hello\r\nworld")
	processUntil(t, s, func() bool { return s.Screen().Text(1) == "world" })
	assert.Equal(t, "hello", s.Screen().Text(0))
	assert.False(t, s.Process())
}

func TestSession_WriteReachesProcess(t *testing.T) {
	proc := newFakeProcess()
	s := newSession(t, proc, session.Options{})

	require.NoError(t, s.Write([]byte("ls\r")))
	require.NoError(t, s.SendKey(entity.KeyEvent{Key: entity.KeyUp}))
	assert.Eventually(t, func() bool { return proc.input() == "ls\r\x1b[A" }, time.Second, time.Millisecond)
}

func TestSession_RepliesAreQueuedBack(t *testing.T) {
	proc := newFakeProcess()
	s := newSession(t, proc, session.Options{Rows: 5, Cols: 10})

	go proc.emit("\x1b[2;3H\x1b[6n")
	processUntil(t, s, func() bool { return s.Screen().Cursor().Row == 1 })
	assert.Eventually(t, func() bool { return proc.input() == "\x1b[2;3R" }, time.Second, time.Millisecond)
}

func TestSession_WriteNeverBlocks(t *testing.T) {
	proc := newFakeProcess()
	proc.block = make(chan struct{})
	s := newSession(t, proc, session.Options{InputQueue: 2})
	t.Cleanup(func() { close(proc.block) })

	var full bool
	for range 10 {
		if err := s.Write([]byte("x")); errors.Is(err, session.ErrInputQueueFull) {
			full = true
			break
		}
	}
	assert.True(t, full)
}

func TestSession_ExitedProcess(t *testing.T) {
	proc := newFakeProcess()
	s := newSession(t, proc, session.Options{Rows: 3, Cols: 10})

	go proc.emit("bye")
	processUntil(t, s, func() bool { return s.Screen().Text(0) == "bye" })
	assert.Equal(t, session.StatusRunning, s.Status())
	_, ok := s.ExitCode()
	assert.False(t, ok)

	proc.exit <- 3
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("session did not observe exit")
	}

	assert.Equal(t, session.StatusExited, s.Status())
	code, ok := s.ExitCode()
	require.True(t, ok)
	assert.Equal(t, 3, code)

	assert.ErrorIs(t, s.Write([]byte("x")), entity.ErrProcessExited)
	assert.ErrorIs(t, s.SendKey(entity.KeyEvent{Key: entity.KeyEnter}), entity.ErrProcessExited)
	assert.Equal(t, "bye", s.Screen().Text(0), "last grid state stays visible")
	assert.NoError(t, s.Resize(5, 20))
	assert.Equal(t, 5, s.Screen().Rows())
}

func TestSession_Resize(t *testing.T) {
	proc := newFakeProcess()
	s := newSession(t, proc, session.Options{Rows: 24, Cols: 80})

	require.NoError(t, s.Resize(10, 40))
	assert.Equal(t, 10, s.Screen().Rows())
	assert.Equal(t, 40, s.Screen().Cols())
	proc.mu.Lock()
	assert.Equal(t, 10, proc.rows)
	assert.Equal(t, 40, proc.cols)
	proc.mu.Unlock()

	require.NoError(t, s.Resize(0, 10))
	assert.Equal(t, 10, s.Screen().Rows())
}

func TestSession_Cwd(t *testing.T) {
	proc := newFakeProcess()
	s := newSession(t, proc, session.Options{})

	_, ok := s.Cwd()
	assert.False(t, ok, "undetectable cwd is absent")

	proc.mu.Lock()
	proc.fgCwd = "/var/tmp"
	proc.mu.Unlock()
	dir, ok := s.Cwd()
	require.True(t, ok)
	assert.Equal(t, "/var/tmp", dir)

	go proc.emit("\x1b]7;file://host/home/u/project\x07")
	processUntil(t, s, func() bool {
		d, _ := s.Cwd()
		return d == "/home/u/project"
	})
}

func TestSession_Paste(t *testing.T) {
	proc := newFakeProcess()
	s := newSession(t, proc, session.Options{})

	require.NoError(t, s.Paste("a"))
	go proc.emit("\x1b[?2004h")
	processUntil(t, s, func() bool { return s.Screen().BracketedPaste() })
	require.NoError(t, s.Paste("b"))

	assert.Eventually(t, func() bool { return proc.input() == "a\x1b[200~b\x1b[201~" }, time.Second, time.Millisecond)
}

func TestSession_CloseDoesNotWaitForExit(t *testing.T) {
	proc := newFakeProcess()
	proc.ignoreHangup = true
	s := session.New(context.Background(), proc, session.Options{})

	returned := make(chan error, 1)
	go func() { returned <- s.Close() }()
	select {
	case err := <-returned:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close blocked on a running process")
	}

	select {
	case <-s.Closed():
		t.Fatal("Closed before the process exited")
	case <-time.After(20 * time.Millisecond):
	}

	proc.exit <- 137
	select {
	case <-s.Closed():
	case <-time.After(time.Second):
		t.Fatal("session goroutines did not finish after exit")
	}
	assert.Equal(t, session.StatusExited, s.Status())
	require.NoError(t, s.Close(), "second Close is a no-op")
}

type fakeSpawner struct {
	req  port.SpawnRequest
	proc *fakeProcess
	err  error
}

func (f *fakeSpawner) Spawn(_ context.Context, req port.SpawnRequest) (port.Process, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return f.proc, nil
}

func TestStart(t *testing.T) {
	sp := &fakeSpawner{proc: newFakeProcess()}
	s, err := session.Start(context.Background(), sp, port.SpawnRequest{Command: "/bin/sh", Dir: "/tmp"}, session.Options{Rows: 12, Cols: 34})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.Equal(t, 12, sp.req.Rows)
	assert.Equal(t, 34, sp.req.Cols)
	assert.Equal(t, 4242, s.Pid())

	spawnErr := errors.New("no such file")
	_, err = session.Start(context.Background(), &fakeSpawner{err: spawnErr}, port.SpawnRequest{Command: "nope"}, session.Options{})
	assert.ErrorIs(t, err, spawnErr)
}
