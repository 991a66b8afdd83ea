package lock

import (
	"encoding/json"
	"fmt"
	"os"

	"ducker/internal/domain"
)

// Record is the persisted lock document, one per host. It identifies the
// current server and carries the single pending-request slot used for IPC.
// A record whose PID is no longer a running process is stale.
type Record struct {
	PID            int                      `json:"pid"`
	State          domain.NotificationState `json:"state"`
	PendingRequest string                   `json:"pending_request,omitempty"`
}

// File is a handle on the lock record at a fixed path. Each Read/Write is a
// single flock-serialized operation; cross-process races on the pending
// slot are last-writer-wins by design.
type File struct {
	path string
}

// NewFile returns a handle for the lock record at path
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the lock record location
func (f *File) Path() string { return f.path }

// Exists reports whether a lock record is present
func (f *File) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// Read loads and parses the lock record
func (f *File) Read() (*Record, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock record: %w", err)
	}
	defer file.Close()

	if err := lockFileShared(file); err != nil {
		return nil, fmt.Errorf("failed to lock record for reading: %w", err)
	}
	defer unlockFile(file)

	var rec Record
	if err := json.NewDecoder(file).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to parse lock record: %w", err)
	}
	return &rec, nil
}

// Write replaces the lock record contents
func (f *File) Write(rec *Record) error {
	file, err := os.OpenFile(f.path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open lock record: %w", err)
	}
	defer file.Close()

	if err := lockFile(file); err != nil {
		return fmt.Errorf("failed to lock record for writing: %w", err)
	}
	defer unlockFile(file)

	return writeRecord(file, rec)
}

// Update applies fn to the current record under an exclusive lock, then
// writes the result back. A missing or unparsable record aborts without
// calling fn.
func (f *File) Update(fn func(*Record)) error {
	file, err := os.OpenFile(f.path, os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to open lock record: %w", err)
	}
	defer file.Close()

	if err := lockFile(file); err != nil {
		return fmt.Errorf("failed to lock record for update: %w", err)
	}
	defer unlockFile(file)

	var rec Record
	if err := json.NewDecoder(file).Decode(&rec); err != nil {
		return fmt.Errorf("failed to parse lock record: %w", err)
	}

	fn(&rec)
	return writeRecord(file, &rec)
}

// Remove deletes the lock record. Missing file is not an error.
func (f *File) Remove() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock record: %w", err)
	}
	return nil
}

// readRaw returns the raw file contents, for legacy-format fallback parsing
func (f *File) readRaw() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("failed to read lock record: %w", err)
	}
	return string(data), nil
}

func writeRecord(file *os.File, rec *Record) error {
	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate lock record: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to seek lock record: %w", err)
	}
	if err := json.NewEncoder(file).Encode(rec); err != nil {
		return fmt.Errorf("failed to write lock record: %w", err)
	}
	return nil
}
