package domain

import (
	"errors"
	"fmt"
)

// ErrNoSound is returned when no sound argument was given.
var ErrNoSound = errors.New("no sound specified")

// ErrSoundNotFound is returned when the resolved sound path does not exist.
// It is reported before any lock or audio mutation happens.
var ErrSoundNotFound = errors.New("sound file not found")

// AlreadyPlayingError is returned when a legacy-format lock record points at
// a live process that cannot accept queued requests.
type AlreadyPlayingError struct {
	PID int
}

func (e *AlreadyPlayingError) Error() string {
	return fmt.Sprintf("another notification is currently playing (PID: %d)", e.PID)
}

// CommandError carries the external command line and its captured stderr so
// failures of audio-tool invocations stay diagnosable.
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command failed: %s: %v: %s", e.Command, e.Err, e.Stderr)
	}
	return fmt.Sprintf("command failed: %s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }
