//go:build !linux

package pty

import "os"

// foregroundCwd is unsupported here; shells can still report their
// directory with OSC 7.
func foregroundCwd(*os.File, int) (string, bool) {
	return "", false
}
