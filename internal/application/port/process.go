package port

import (
	"context"
	"io"
)

// Process is a child process attached to a pseudo-terminal.
// Read returns the process output and fails once the PTY is closed.
type Process interface {
	io.Reader
	io.Writer

	// Resize updates the terminal dimensions seen by the process.
	Resize(rows, cols int) error

	// Wait blocks until the process exits and returns its exit code.
	Wait() (int, error)

	// Pid returns the process id of the direct child.
	Pid() int

	// ForegroundCwd returns the working directory of the terminal's
	// foreground process group, when the OS can tell.
	ForegroundCwd() (string, bool)

	// Close releases the PTY and terminates the process if still running.
	Close() error
}

// SpawnRequest describes a process to start.
type SpawnRequest struct {
	Command string
	Args    []string
	Dir     string
	Env     []string
	Rows    int
	Cols    int
	Term    string
}

// ProcessSpawner starts PTY-backed processes.
type ProcessSpawner interface {
	Spawn(ctx context.Context, req SpawnRequest) (Process, error)
}
