package server

import (
	"sync"

	"ducker/internal/domain"
	"ducker/internal/logging"
	"ducker/internal/ports"
)

// Guard owns the pre-notification audio snapshot and guarantees it is
// restored no matter how playback ends. All ducking mutations go through
// the guard so it always knows whether the real audio state diverges from
// the snapshot. It also tracks the current fade position so partial fades
// can resume or be safely abandoned.
type Guard struct {
	audio ports.AudioController
	snap  domain.AudioSnapshot

	mu      sync.Mutex
	fadePos int
	cleaned bool
}

// NewGuard wraps a captured snapshot. The fade position starts at full
// volume.
func NewGuard(audio ports.AudioController, snap domain.AudioSnapshot) *Guard {
	return &Guard{
		audio:   audio,
		snap:    snap,
		fadePos: domain.FadeSteps,
		cleaned: true, // nothing mutated yet
	}
}

// Snapshot returns the captured audio state
func (g *Guard) Snapshot() domain.AudioSnapshot { return g.snap }

// FadePosition returns the current fade position (0 = fully ducked,
// FadeSteps = fully restored)
func (g *Guard) FadePosition() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fadePos
}

// applyFadeStep sets the sink volume for the given fade position
// (original_volume * pos / FadeSteps, rounded down) and records it.
func (g *Guard) applyFadeStep(pos int) error {
	vol := g.snap.Volume * pos / domain.FadeSteps
	if err := g.audio.SetSinkVolume(g.snap.DefaultSink, vol); err != nil {
		return err
	}
	g.mu.Lock()
	g.fadePos = pos
	g.cleaned = false
	g.mu.Unlock()
	return nil
}

// SnapFadedOut records a fully-ducked position without issuing volume
// steps, used when fading is disabled or the fade-out duration is zero.
func (g *Guard) SnapFadedOut() {
	g.mu.Lock()
	g.fadePos = 0
	g.cleaned = false
	g.mu.Unlock()
}

// MuteInputs mutes every stream that was unmuted at capture time
func (g *Guard) MuteInputs() error {
	for _, input := range g.snap.UnmutedInputs {
		if err := g.audio.SetInputMute(input, true); err != nil {
			return err
		}
	}
	g.mu.Lock()
	g.cleaned = false
	g.mu.Unlock()
	return nil
}

// UnmuteInputs re-unmutes the streams recorded as previously unmuted
func (g *Guard) UnmuteInputs() error {
	for _, input := range g.snap.UnmutedInputs {
		if err := g.audio.SetInputMute(input, false); err != nil {
			return err
		}
	}
	return nil
}

// SetDuckVolume sets the sink to the notification volume
func (g *Guard) SetDuckVolume(percent int) error {
	if err := g.audio.SetSinkVolume(g.snap.DefaultSink, percent); err != nil {
		return err
	}
	g.mu.Lock()
	g.cleaned = false
	g.mu.Unlock()
	return nil
}

// RestoreVolume re-asserts the exact original volume and marks the fade
// fully restored. Used as the terminal fade-in step to eliminate rounding
// drift, and when fade-in is skipped entirely.
func (g *Guard) RestoreVolume() error {
	if err := g.audio.SetSinkVolume(g.snap.DefaultSink, g.snap.Volume); err != nil {
		return err
	}
	g.mu.Lock()
	g.fadePos = domain.FadeSteps
	g.mu.Unlock()
	return nil
}

// Cleanup restores the original volume and re-unmutes every previously
// unmuted stream, then marks itself cleaned. Idempotent: a second call is
// a no-op until another ducking mutation dirties the state again. The fade
// position is not touched; that is Restore's job.
func (g *Guard) Cleanup() error {
	g.mu.Lock()
	if g.cleaned {
		g.mu.Unlock()
		return nil
	}
	g.mu.Unlock()

	if err := g.restoreAll(); err != nil {
		return err
	}

	g.mu.Lock()
	g.cleaned = true
	g.mu.Unlock()
	return nil
}

// Restore performs the explicit full restoration: original volume and mute
// state are applied unconditionally and the fade position resets to full.
// Safe to call on every exit path, including after a partial fade.
func (g *Guard) Restore() error {
	if err := g.restoreAll(); err != nil {
		return err
	}

	g.mu.Lock()
	g.fadePos = domain.FadeSteps
	g.cleaned = true
	g.mu.Unlock()
	return nil
}

func (g *Guard) restoreAll() error {
	if err := g.audio.SetSinkVolume(g.snap.DefaultSink, g.snap.Volume); err != nil {
		return err
	}
	for _, input := range g.snap.UnmutedInputs {
		if err := g.audio.SetInputMute(input, false); err != nil {
			return err
		}
	}
	logging.Logger.Debug("Audio state restored",
		"sink", g.snap.DefaultSink, "volume", g.snap.Volume)
	return nil
}
