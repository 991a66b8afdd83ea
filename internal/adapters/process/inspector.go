package process

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"ducker/internal/ports"
)

// Inspector implements ports.ProcessInspector against the OS process table
type Inspector struct{}

// Compile-time interface verification
var _ ports.ProcessInspector = (*Inspector)(nil)

// NewInspector creates a new process inspector
func NewInspector() *Inspector {
	return &Inspector{}
}

// Alive reports whether a process with the given PID exists. It checks
// /proc first and falls back to kill(pid, 0) where /proc is unavailable.
func (i *Inspector) Alive(pid int) bool {
	if pid <= 0 {
		return false
	}

	if _, err := os.Stat(fmt.Sprintf("/proc/%d", pid)); err == nil {
		return true
	} else if !os.IsNotExist(err) {
		return false
	}

	// No /proc entry. On systems without procfs, signal 0 probes existence;
	// EPERM still means the process is there.
	if _, err := os.Stat("/proc"); err == nil {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
