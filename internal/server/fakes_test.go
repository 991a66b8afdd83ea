package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ducker/internal/domain"
)

// fakeAudio implements ports.AudioController for tests, recording every
// mutation in order.
type fakeAudio struct {
	mu      sync.Mutex
	snap    domain.AudioSnapshot
	snapErr error

	volumes []int
	muteOps []string
	played  []string
	stopped []string

	// blockFirst makes the first Play block until StopPlayback is called
	// (or the context is cancelled), emulating a long sound file
	blockFirst  bool
	playStarted chan string
	stopCh      chan struct{}
	stopOnce    sync.Once
}

func newFakeAudio(snap domain.AudioSnapshot) *fakeAudio {
	return &fakeAudio{
		snap:        snap,
		playStarted: make(chan string, 8),
		stopCh:      make(chan struct{}),
	}
}

func (f *fakeAudio) Snapshot(ctx context.Context) (domain.AudioSnapshot, error) {
	if f.snapErr != nil {
		return domain.AudioSnapshot{}, f.snapErr
	}
	return f.snap, nil
}

func (f *fakeAudio) SetSinkVolume(sink string, percent int) error {
	f.mu.Lock()
	f.volumes = append(f.volumes, percent)
	f.mu.Unlock()
	return nil
}

func (f *fakeAudio) SetInputMute(input string, muted bool) error {
	state := "unmuted"
	if muted {
		state = "muted"
	}
	f.mu.Lock()
	f.muteOps = append(f.muteOps, fmt.Sprintf("%s=%s", input, state))
	f.mu.Unlock()
	return nil
}

func (f *fakeAudio) Play(ctx context.Context, path string) error {
	f.mu.Lock()
	f.played = append(f.played, path)
	first := len(f.played) == 1
	f.mu.Unlock()

	select {
	case f.playStarted <- path:
	default:
	}

	if f.blockFirst && first {
		select {
		case <-f.stopCh:
			return errors.New("playback terminated")
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	return nil
}

func (f *fakeAudio) StopPlayback(path string) error {
	f.mu.Lock()
	f.stopped = append(f.stopped, path)
	f.mu.Unlock()
	f.stopOnce.Do(func() { close(f.stopCh) })
	return nil
}

func (f *fakeAudio) Volumes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.volumes...)
}

func (f *fakeAudio) MuteOps() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.muteOps...)
}

func (f *fakeAudio) Played() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.played...)
}

func (f *fakeAudio) Stopped() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.stopped...)
}

// fakeHistory implements ports.HistoryRepository in memory
type fakeHistory struct {
	mu      sync.Mutex
	records []domain.PlaybackRecord
}

func (f *fakeHistory) Record(ctx context.Context, rec domain.PlaybackRecord) error {
	f.mu.Lock()
	f.records = append(f.records, rec)
	f.mu.Unlock()
	return nil
}

func (f *fakeHistory) Recent(ctx context.Context, limit int) ([]domain.PlaybackRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.PlaybackRecord(nil), f.records...), nil
}

func (f *fakeHistory) Close() error { return nil }

func (f *fakeHistory) Records() []domain.PlaybackRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.PlaybackRecord(nil), f.records...)
}

func testSnapshot() domain.AudioSnapshot {
	return domain.AudioSnapshot{
		DefaultSink:   "alsa_output.test",
		Volume:        50,
		UnmutedInputs: []string{"42"},
	}
}
