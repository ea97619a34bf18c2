package pty

import (
	"os"
	"syscall"
)

func signalGroup(proc *os.Process, sig syscall.Signal) {
	if sig == syscall.SIGKILL {
		_ = proc.Kill()
		return
	}
	_ = proc.Signal(sig)
}
