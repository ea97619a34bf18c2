package entity

import "errors"

var (
	// ErrNotFound is returned when an operation references a pane that is no
	// longer part of the layout tree. Callers recover by treating it as a no-op.
	ErrNotFound = errors.New("pane not found")

	// ErrProcessExited is returned by terminal sessions whose backing process
	// has terminated. It is surfaced to the owning pane, never to the workspace.
	ErrProcessExited = errors.New("process exited")

	// ErrFilesystemUnreadable marks a directory whose listing failed.
	ErrFilesystemUnreadable = errors.New("filesystem unreadable")
)
