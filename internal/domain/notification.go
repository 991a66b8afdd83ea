package domain

import "time"

// NotificationState tracks where the server is in the ducking cycle.
// It is written into the lock record for observation by other processes;
// local control flow never reads it back.
type NotificationState string

const (
	StateIdle      NotificationState = "idle"
	StateFadingOut NotificationState = "fading_out"
	StatePlaying   NotificationState = "playing"
	StateFadingIn  NotificationState = "fading_in"
)

// FadeSteps is the number of discrete volume steps in a fade. A fade
// position of 0 means fully ducked, FadeSteps means fully restored.
const FadeSteps = 10

// Request is a single notification to play, with the playback parameters
// that applied when it was created. Requests enqueued by other processes
// only carry the sound path; the server fills in its own parameters.
type Request struct {
	SoundPath string
	FadeOut   time.Duration
	FadeIn    time.Duration
	Volume    int
}

// PlayResult reports how a single run of the playback state machine ended.
// Completed means the full fade-out/play/fade-in cycle ran; Interrupted
// means a new request cut the cycle short and audio is still ducked.
type PlayResult struct {
	Completed   bool
	Interrupted bool
}

// AudioSnapshot is the audio state captured once per server lifetime,
// before any mutation. It is the sole source of truth for restoration.
type AudioSnapshot struct {
	DefaultSink   string
	Volume        int      // original sink volume, percent
	UnmutedInputs []string // sink-input IDs that were audible at capture
}

// PlaybackRecord is one row of playback history.
type PlaybackRecord struct {
	ServerID    string
	SoundPath   string
	Volume      int
	Completed   bool
	Interrupted bool
	StartedAt   time.Time
	FinishedAt  time.Time
}
