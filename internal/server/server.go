package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"ducker/internal/domain"
	"ducker/internal/lock"
	"ducker/internal/logging"
	"ducker/internal/ports"
)

// Config carries the server's playback parameters. Requests enqueued by
// other processes only transport a sound path, so these parameters also
// apply to them.
type Config struct {
	FadeOut      time.Duration
	FadeIn       time.Duration
	Volume       int
	PollInterval time.Duration
}

// Server is the notification server: the single process that owns the
// audio state and drains the request queue. It runs until the queue is
// empty and no playback is in flight, then restores audio fully and
// deletes the lock record.
type Server struct {
	audio   ports.AudioController
	lock    *lock.File
	history ports.HistoryRepository // optional, best-effort
	cfg     Config

	id           string
	queue        *requestQueue
	guard        *Guard
	enableFading bool
}

// New creates a notification server. The lock record must already be owned
// by this process (the coordinator wrote it).
func New(audio ports.AudioController, lockFile *lock.File, history ports.HistoryRepository, cfg Config) *Server {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Millisecond
	}
	return &Server{
		audio:   audio,
		lock:    lockFile,
		history: history,
		cfg:     cfg,
		id:      uuid.New().String(),
		queue:   newRequestQueue(),
	}
}

// Run drives the server loop until the queue drains or ctx is cancelled.
// The original audio state is restored and the lock record removed on
// every exit path.
func (s *Server) Run(ctx context.Context, initial domain.Request) error {
	logging.Logger.Info("Notification server starting",
		"server_id", s.id, "sound", initial.SoundPath, "lock", s.lock.Path())

	s.queue.Push(initial)

	snap, err := s.audio.Snapshot(ctx)
	if err != nil {
		// Nothing was mutated yet; just release leadership
		if rmErr := s.lock.Remove(); rmErr != nil {
			logging.Logger.Error("Failed to remove lock record", "error", rmErr)
		}
		return err
	}
	s.guard = NewGuard(s.audio, snap)
	// Nothing to duck when no stream was audible at capture time
	s.enableFading = len(snap.UnmutedInputs) > 0

	pollCtx, cancelPoll := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go s.pollPending(pollCtx, &wg)

	defer func() {
		cancelPoll()
		wg.Wait()
		if err := s.guard.Restore(); err != nil {
			logging.Logger.Error("Failed to restore audio state", "error", err)
		}
		if err := s.lock.Remove(); err != nil {
			logging.Logger.Error("Failed to remove lock record", "error", err)
		}
		logging.Logger.Info("Notification server stopped", "server_id", s.id)
	}()

	// Whether the previous run left the audio ducked, letting the next one
	// skip its fade-out
	prepared := false

	for ctx.Err() == nil {
		req, ok := s.queue.PopLatest()
		if !ok {
			break
		}

		s.setLockState(domain.StateIdle)

		started := time.Now()
		res, err := s.playNotification(ctx, req, prepared)
		s.recordHistory(req, res, started)
		if err != nil {
			return err
		}

		if res.Interrupted {
			prepared = s.guard.FadePosition() < domain.FadeSteps/2
		} else if res.Completed {
			prepared = false
		}

		// Done (or shutting down) with audio not fully restored: restore now
		if (s.queue.Empty() || ctx.Err() != nil) && (res.Interrupted || !res.Completed) {
			if err := s.guard.Restore(); err != nil {
				return err
			}
			prepared = false
		}
	}

	return nil
}

// pollPending watches the lock record for requests written by follower
// processes and moves them into the in-memory queue. The poll interval
// bounds the worst-case hand-off latency.
func (s *Server) pollPending(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rec, err := s.lock.Read()
			if err != nil || rec.PendingRequest == "" {
				continue
			}
			sound := rec.PendingRequest

			s.queue.Push(domain.Request{
				SoundPath: sound,
				FadeOut:   s.cfg.FadeOut,
				FadeIn:    s.cfg.FadeIn,
				Volume:    s.cfg.Volume,
			})

			if err := s.lock.Update(func(r *lock.Record) {
				r.PendingRequest = ""
			}); err != nil {
				logging.Logger.Warn("Failed to clear pending request", "error", err)
			}
			logging.Logger.Info("Picked up queued request", "sound", sound)
		}
	}
}

// setLockState publishes the current phase in the lock record. Purely
// observational; failures are logged and ignored.
func (s *Server) setLockState(state domain.NotificationState) {
	if err := s.lock.Update(func(r *lock.Record) {
		r.State = state
	}); err != nil {
		logging.Logger.Warn("Failed to update lock state", "state", state, "error", err)
	}
}

// recordHistory stores the finished playback. Best-effort: failures never
// affect playback.
func (s *Server) recordHistory(req domain.Request, res domain.PlayResult, started time.Time) {
	if s.history == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := s.history.Record(ctx, domain.PlaybackRecord{
		ServerID:    s.id,
		SoundPath:   req.SoundPath,
		Volume:      req.Volume,
		Completed:   res.Completed,
		Interrupted: res.Interrupted,
		StartedAt:   started,
		FinishedAt:  time.Now(),
	})
	if err != nil {
		logging.Logger.Warn("Failed to record playback history", "error", err)
	}
}
