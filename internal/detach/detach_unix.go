//go:build unix

package detach

import "syscall"

// sessionAttr makes the child the leader of a new session, detaching it
// from the controlling terminal
func sessionAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
