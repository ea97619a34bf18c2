// Package session drives one PTY-backed process and its emulated screen.
//
// Output is collected by a reader goroutine and applied to the screen only in
// Process, which the workspace tick calls once per frame. Nothing here blocks
// the tick.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/bnema/termdeck/internal/application/port"
	"github.com/bnema/termdeck/internal/domain/entity"
	"github.com/bnema/termdeck/internal/domain/terminal"
	"github.com/bnema/termdeck/internal/logging"
)

const (
	DefaultInputQueue = 256
	readBufferSize    = 32 * 1024
	// maxPending caps output buffered between two ticks. Older bytes are kept
	// and the reader stalls until the tick catches up.
	maxPending = 4 * 1024 * 1024
)

// ErrInputQueueFull is returned by Write when the process is not consuming input.
var ErrInputQueueFull = errors.New("input queue full")

// Status is the lifecycle state of a session.
type Status int

const (
	StatusRunning Status = iota
	StatusExited
)

func (s Status) String() string {
	if s == StatusExited {
		return "exited"
	}
	return "running"
}

// Options sizes the screen and the input queue.
type Options struct {
	Rows       int
	Cols       int
	Scrollback int
	InputQueue int
}

// Session owns one process and the screen its output is rendered into.
type Session struct {
	proc   port.Process
	screen *terminal.Screen
	log    *zerolog.Logger

	mu       sync.Mutex
	pending  []byte
	drained  *sync.Cond
	readDone bool

	input  chan []byte
	done   chan struct{}
	closed chan struct{}

	exited   atomic.Bool
	exitCode atomic.Int64

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Start spawns a process through spawner and wraps it in a session.
func Start(ctx context.Context, spawner port.ProcessSpawner, req port.SpawnRequest, opts Options) (*Session, error) {
	if req.Rows <= 0 {
		req.Rows = opts.Rows
	}
	if req.Cols <= 0 {
		req.Cols = opts.Cols
	}
	proc, err := spawner.Spawn(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", req.Command, err)
	}
	return New(ctx, proc, opts), nil
}

// New wraps an already running process and starts its goroutines.
func New(ctx context.Context, proc port.Process, opts Options) *Session {
	if opts.Rows <= 0 {
		opts.Rows = terminal.DefaultRows
	}
	if opts.Cols <= 0 {
		opts.Cols = terminal.DefaultCols
	}
	if opts.InputQueue <= 0 {
		opts.InputQueue = DefaultInputQueue
	}

	s := &Session{
		proc:   proc,
		screen: terminal.NewScreen(opts.Rows, opts.Cols, opts.Scrollback),
		log:    logging.FromContext(ctx),
		input:  make(chan []byte, opts.InputQueue),
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	s.drained = sync.NewCond(&s.mu)

	s.wg.Add(3)
	go s.readLoop()
	go s.waitLoop()
	go s.writeLoop()
	return s
}

func (s *Session) readLoop() {
	defer s.wg.Done()
	buf := make([]byte, readBufferSize)
	for {
		n, err := s.proc.Read(buf)
		if n > 0 {
			s.mu.Lock()
			for len(s.pending) >= maxPending && !s.readDone {
				s.drained.Wait()
			}
			s.pending = append(s.pending, buf[:n]...)
			s.mu.Unlock()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Debug().Err(err).Msg("pty read ended")
			}
			s.mu.Lock()
			s.readDone = true
			s.mu.Unlock()
			return
		}
	}
}

func (s *Session) waitLoop() {
	defer s.wg.Done()
	code, err := s.proc.Wait()
	if err != nil {
		s.log.Debug().Err(err).Msg("process wait returned error")
	}
	s.exitCode.Store(int64(code))
	s.exited.Store(true)
	close(s.done)
	s.log.Info().Int("pid", s.proc.Pid()).Int("exit_code", code).Msg("process exited")
}

func (s *Session) writeLoop() {
	defer s.wg.Done()
	for {
		select {
		case b := <-s.input:
			if _, err := s.proc.Write(b); err != nil {
				s.log.Debug().Err(err).Msg("pty write failed")
			}
		case <-s.done:
			return
		}
	}
}

// Process applies all output produced since the last call to the screen and
// queues any replies the screen generated. It reports whether the screen
// changed. It never blocks on the process.
func (s *Session) Process() bool {
	s.mu.Lock()
	out := s.pending
	s.pending = nil
	s.drained.Broadcast()
	s.mu.Unlock()

	if len(out) == 0 {
		return false
	}
	s.screen.Feed(out)
	if replies := s.screen.TakeReplies(); len(replies) > 0 {
		_ = s.Write(replies)
	}
	return true
}

// Write queues input for the process. It never blocks: once the process has
// exited it returns entity.ErrProcessExited, and a full queue drops the input
// with ErrInputQueueFull.
func (s *Session) Write(b []byte) error {
	if s.exited.Load() {
		return entity.ErrProcessExited
	}
	if len(b) == 0 {
		return nil
	}
	select {
	case s.input <- append([]byte(nil), b...):
		return nil
	default:
		return ErrInputQueueFull
	}
}

// SendKey encodes a key event for the process, honoring application cursor mode.
func (s *Session) SendKey(ev entity.KeyEvent) error {
	b := terminal.EncodeKey(ev, s.screen.AppCursor())
	if b == nil {
		return nil
	}
	return s.Write(b)
}

// Paste writes text, wrapped in bracketed-paste markers when the program asked for them.
func (s *Session) Paste(text string) error {
	if s.screen.BracketedPaste() {
		return s.Write([]byte("\x1b[200~" + text + "\x1b[201~"))
	}
	return s.Write([]byte(text))
}

// Resize changes the PTY and screen dimensions. Zero or negative sizes are ignored.
func (s *Session) Resize(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return nil
	}
	if rows == s.screen.Rows() && cols == s.screen.Cols() {
		return nil
	}
	s.screen.Resize(rows, cols)
	if s.exited.Load() {
		return nil
	}
	if err := s.proc.Resize(rows, cols); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}
	return nil
}

// Cwd returns the last directory the shell reported, falling back to the
// foreground process's directory. Absence is not an error.
func (s *Session) Cwd() (string, bool) {
	if dir, ok := s.screen.Cwd(); ok {
		return dir, true
	}
	if s.exited.Load() {
		return "", false
	}
	return s.proc.ForegroundCwd()
}

// Status reports whether the process is still running.
func (s *Session) Status() Status {
	if s.exited.Load() {
		return StatusExited
	}
	return StatusRunning
}

// ExitCode returns the exit code once the process has exited.
func (s *Session) ExitCode() (int, bool) {
	if !s.exited.Load() {
		return 0, false
	}
	return int(s.exitCode.Load()), true
}

// Done is closed when the process exits.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Screen exposes the emulated screen. Only the tick goroutine may use it.
func (s *Session) Screen() *terminal.Screen {
	return s.screen
}

// Title returns the window title the program set.
func (s *Session) Title() string {
	return s.screen.Title()
}

// Pid returns the child's process id.
func (s *Session) Pid() int {
	return s.proc.Pid()
}

// Close terminates the process. It does not wait for the process to exit,
// so a child that ignores the hangup cannot stall the caller; Closed reports
// when the session goroutines have finished.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.proc.Close()
		s.mu.Lock()
		s.readDone = true
		s.drained.Broadcast()
		s.mu.Unlock()
		go func() {
			s.wg.Wait()
			close(s.closed)
		}()
	})
	return err
}

// Closed is closed once Close was called and the process and session
// goroutines are gone.
func (s *Session) Closed() <-chan struct{} {
	return s.closed
}
