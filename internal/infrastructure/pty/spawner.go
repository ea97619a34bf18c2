// Package pty starts shells on pseudo-terminals with github.com/creack/pty.
package pty

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"

	"github.com/bnema/termdeck/internal/application/port"
	"github.com/bnema/termdeck/internal/logging"
)

const (
	defaultTerm = "xterm-256color"
	// killGrace is how long a hung-up child may take to exit before its
	// process group is killed.
	killGrace = 500 * time.Millisecond
)

// Spawner implements port.ProcessSpawner.
type Spawner struct {
	// BaseEnv is the environment every child inherits. Nil means os.Environ().
	BaseEnv []string
}

// NewSpawner creates a spawner that inherits the current environment.
func NewSpawner() *Spawner {
	return &Spawner{}
}

// Spawn starts req.Command on a new PTY. The child outlives ctx; it is
// stopped by Process.Close.
func (s *Spawner) Spawn(ctx context.Context, req port.SpawnRequest) (port.Process, error) {
	if req.Command == "" {
		return nil, errors.New("empty command")
	}
	if req.Dir != "" {
		info, err := os.Stat(req.Dir)
		if err != nil {
			return nil, fmt.Errorf("working directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("working directory %s: not a directory", req.Dir)
		}
	}

	cmd := exec.Command(req.Command, req.Args...)
	cmd.Dir = req.Dir
	cmd.Env = s.env(req)

	size := &pty.Winsize{Rows: clampSize(req.Rows), Cols: clampSize(req.Cols)}
	ptmx, err := pty.StartWithSize(cmd, size)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", req.Command, err)
	}

	logging.FromContext(ctx).Debug().
		Str("command", req.Command).
		Str("dir", req.Dir).
		Int("pid", cmd.Process.Pid).
		Msg("spawned pty process")

	return &process{cmd: cmd, ptmx: ptmx, exited: make(chan struct{})}, nil
}

func (s *Spawner) env(req port.SpawnRequest) []string {
	base := s.BaseEnv
	if base == nil {
		base = os.Environ()
	}
	term := req.Term
	if term == "" {
		term = defaultTerm
	}
	env := make([]string, 0, len(base)+len(req.Env)+2)
	env = append(env, base...)
	env = append(env, "TERM="+term, "COLORTERM=truecolor")
	return append(env, req.Env...)
}

func clampSize(n int) uint16 {
	switch {
	case n <= 0:
		return 1
	case n > 0xffff:
		return 0xffff
	}
	return uint16(n)
}

// process is a child attached to the master side of a PTY. The child leads
// its own session, so its pid is also its process group id.
type process struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	exited chan struct{}

	waitOnce  sync.Once
	closeOnce sync.Once
	closeErr  error
}

func (p *process) Read(b []byte) (int, error)  { return p.ptmx.Read(b) }
func (p *process) Write(b []byte) (int, error) { return p.ptmx.Write(b) }

func (p *process) Resize(rows, cols int) error {
	return pty.Setsize(p.ptmx, &pty.Winsize{Rows: clampSize(rows), Cols: clampSize(cols)})
}

func (p *process) Wait() (int, error) {
	err := p.cmd.Wait()
	p.waitOnce.Do(func() { close(p.exited) })
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

func (p *process) Pid() int {
	return p.cmd.Process.Pid
}

func (p *process) ForegroundCwd() (string, bool) {
	return foregroundCwd(p.ptmx, p.cmd.Process.Pid)
}

// Close hangs up the terminal and releases the master side. It returns
// without waiting for the child; a child still running after killGrace has
// its process group killed.
func (p *process) Close() error {
	p.closeOnce.Do(func() {
		select {
		case <-p.exited:
		default:
			signalGroup(p.cmd.Process, syscall.SIGHUP)
			go p.reap(killGrace)
		}
		p.closeErr = p.ptmx.Close()
	})
	return p.closeErr
}

func (p *process) reap(grace time.Duration) {
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-p.exited:
	case <-timer.C:
		signalGroup(p.cmd.Process, syscall.SIGKILL)
	}
}
