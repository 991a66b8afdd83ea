package detach

import (
	"fmt"
	"os"
	"os/exec"

	"ducker/internal/logging"
)

// childEnv marks a process as the detached child so it does not detach
// again when it re-parses the same arguments.
const childEnv = "DUCKER_DETACHED"

// IsChild reports whether this process is a detached re-execution
func IsChild() bool {
	return os.Getenv(childEnv) == "1"
}

// Spawn re-executes the current command in a new session with its standard
// streams on the null device, then returns so the parent can exit. Go has
// no fork(); re-execution is the equivalent.
func Spawn() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", os.DevNull, err)
	}
	defer devNull.Close()

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull
	cmd.Env = append(os.Environ(), childEnv+"=1")
	cmd.SysProcAttr = sessionAttr()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to detach: %w", err)
	}

	logging.Logger.Info("Detached to background", "pid", cmd.Process.Pid)
	return nil
}
