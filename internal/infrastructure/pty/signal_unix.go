//go:build !windows

package pty

import (
	"os"
	"syscall"
)

// signalGroup delivers sig to the whole process group led by proc, falling
// back to proc alone.
func signalGroup(proc *os.Process, sig syscall.Signal) {
	if err := syscall.Kill(-proc.Pid, sig); err != nil {
		_ = proc.Signal(sig)
	}
}
