//go:build linux

package pty

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// foregroundCwd asks the terminal for its foreground process group and reads
// that group leader's working directory from /proc. It falls back to the
// direct child.
func foregroundCwd(tty *os.File, pid int) (string, bool) {
	if pgrp, err := unix.IoctlGetInt(int(tty.Fd()), unix.TIOCGPGRP); err == nil && pgrp > 0 {
		if dir, err := os.Readlink("/proc/" + strconv.Itoa(pgrp) + "/cwd"); err == nil {
			return dir, true
		}
	}
	dir, err := os.Readlink("/proc/" + strconv.Itoa(pid) + "/cwd")
	if err != nil {
		return "", false
	}
	return dir, true
}
