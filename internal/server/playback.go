package server

import (
	"context"
	"sync/atomic"
	"time"

	"ducker/internal/domain"
	"ducker/internal/logging"
)

const (
	// monitorInterval is how often the playback monitor checks the queue
	monitorInterval = 50 * time.Millisecond
	// monitorTimeout bounds the monitor regardless of queue state, so a
	// hung playback cannot pin it forever
	monitorTimeout = 10 * time.Second
)

// playNotification runs one request through the playback state machine:
// fade out and duck (unless the audio is already prepared from a previous
// interrupted run), play the sound while racing incoming requests, then
// fade back in. A cancelled context aborts the current phase and returns a
// zero result so the server loop can perform final restoration.
func (s *Server) playNotification(ctx context.Context, req domain.Request, prepared bool) (domain.PlayResult, error) {
	if !prepared {
		s.setLockState(domain.StateFadingOut)

		if s.enableFading && req.FadeOut > 0 && ctx.Err() == nil {
			if err := fadeOut(ctx, s.guard, req.FadeOut); err != nil {
				return domain.PlayResult{}, err
			}
		} else {
			s.guard.SnapFadedOut()
		}

		if ctx.Err() != nil {
			return domain.PlayResult{}, nil
		}

		if err := s.guard.MuteInputs(); err != nil {
			return domain.PlayResult{}, err
		}
		if err := s.guard.SetDuckVolume(req.Volume); err != nil {
			return domain.PlayResult{}, err
		}
	}

	s.setLockState(domain.StatePlaying)

	interrupted := s.playWithMonitor(ctx, req.SoundPath)

	// A request that arrived during playback skips the fade-in entirely;
	// the audio stays ducked for the next run.
	if interrupted || !s.queue.Empty() {
		logging.Logger.Debug("Playback interrupted by new request", "sound", req.SoundPath)
		return domain.PlayResult{Interrupted: true}, nil
	}

	if ctx.Err() != nil {
		return domain.PlayResult{}, nil
	}

	s.setLockState(domain.StateFadingIn)

	if err := s.guard.UnmuteInputs(); err != nil {
		return domain.PlayResult{}, err
	}

	if s.enableFading && req.FadeIn > 0 && ctx.Err() == nil {
		completed, err := fadeIn(ctx, s.guard, req.FadeIn, s.queue.NonEmpty)
		if err != nil {
			return domain.PlayResult{}, err
		}
		if !completed {
			if ctx.Err() != nil {
				return domain.PlayResult{}, nil
			}
			return domain.PlayResult{Interrupted: true}, nil
		}
	} else {
		if err := s.guard.RestoreVolume(); err != nil {
			return domain.PlayResult{}, err
		}
	}

	s.setLockState(domain.StateIdle)
	return domain.PlayResult{Completed: true}, nil
}

// playWithMonitor plays the sound while a monitor goroutine watches the
// queue. If a request arrives mid-playback the monitor terminates the
// in-flight player and reports an interruption. The monitor is always
// joined before returning.
func (s *Server) playWithMonitor(ctx context.Context, soundPath string) bool {
	var interrupted atomic.Bool
	playDone := make(chan struct{})
	monitorDone := make(chan struct{})

	go func() {
		defer close(monitorDone)
		ticker := time.NewTicker(monitorInterval)
		defer ticker.Stop()
		deadline := time.After(monitorTimeout)

		for {
			select {
			case <-ctx.Done():
				return
			case <-playDone:
				return
			case <-deadline:
				logging.Logger.Warn("Playback monitor timed out", "sound", soundPath)
				return
			case <-ticker.C:
				if s.queue.Empty() {
					continue
				}
				interrupted.Store(true)
				if err := s.audio.StopPlayback(soundPath); err != nil {
					logging.Logger.Debug("Failed to stop playback", "error", err)
				}
				return
			}
		}
	}()

	// Playback errors are expected when the monitor kills the player
	// mid-file, so they are logged rather than propagated.
	if err := s.audio.Play(ctx, soundPath); err != nil {
		logging.Logger.Debug("Playback ended with error", "sound", soundPath, "error", err)
	}
	close(playDone)
	<-monitorDone

	return interrupted.Load()
}
