package ports

// ProcessInspector provides methods to inspect running processes
type ProcessInspector interface {
	// Alive reports whether a process with the given PID exists
	Alive(pid int) bool
}
