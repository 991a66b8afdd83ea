package ports

import (
	"context"

	"ducker/internal/domain"
)

// AudioController abstracts the audio subsystem's command-line tools.
// Every call is a synchronous, fallible external operation.
type AudioController interface {
	// Snapshot captures the default sink, its volume and the currently
	// unmuted streams. Read-only.
	Snapshot(ctx context.Context) (domain.AudioSnapshot, error)

	// SetSinkVolume sets the sink volume to the given percentage.
	SetSinkVolume(sink string, percent int) error

	// SetInputMute mutes or unmutes a single stream.
	SetInputMute(input string, muted bool) error

	// Play plays the file until natural completion or external termination.
	Play(ctx context.Context, path string) error

	// StopPlayback terminates an in-flight Play of the given file.
	StopPlayback(path string) error
}
