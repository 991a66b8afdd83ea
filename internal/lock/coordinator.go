package lock

import (
	"os"
	"strconv"
	"strings"

	"ducker/internal/domain"
	"ducker/internal/logging"
	"ducker/internal/ports"
)

// Outcome of an acquisition attempt
type Outcome int

const (
	// Leader means this process created the lock record and must run the
	// notification server itself
	Leader Outcome = iota
	// Enqueued means a live server exists and the request was written into
	// its pending slot
	Enqueued
)

// Coordinator decides, per invocation, whether to become the notification
// server or hand the request to the one already running.
type Coordinator struct {
	file      *File
	inspector ports.ProcessInspector
}

// NewCoordinator creates a coordinator over the given lock record
func NewCoordinator(file *File, inspector ports.ProcessInspector) *Coordinator {
	return &Coordinator{file: file, inspector: inspector}
}

// AcquireOrEnqueue implements the leader/follower protocol: create the lock
// record and become leader, or write the sound path into a live server's
// pending slot. Stale records (dead owner, unknown format) are discarded
// and the attempt retried.
func (c *Coordinator) AcquireOrEnqueue(soundPath string) (Outcome, error) {
	for {
		if !c.file.Exists() {
			if err := c.acquire(); err != nil {
				return Leader, err
			}
			return Leader, nil
		}

		rec, err := c.file.Read()
		if err != nil {
			// Not our JSON format; fall back to the legacy plain-PID layout
			outcome, retry, legacyErr := c.handleLegacy()
			if legacyErr != nil {
				return outcome, legacyErr
			}
			if retry {
				continue
			}
			return outcome, nil
		}

		if c.inspector.Alive(rec.PID) {
			// Live server: hand off via the pending slot. Overwriting an
			// unread pending request is last-writer-wins by design.
			err := c.file.Update(func(r *Record) {
				r.PendingRequest = soundPath
			})
			if err != nil {
				return Enqueued, err
			}
			logging.Logger.Info("Enqueued request with running server",
				"pid", rec.PID, "sound", soundPath)
			return Enqueued, nil
		}

		// Owner is gone: self-heal and retry as if no record existed
		logging.Logger.Warn("Discarding stale lock record", "pid", rec.PID)
		if err := c.file.Remove(); err != nil {
			return Leader, err
		}
	}
}

// acquire writes a fresh leader record owned by this process
func (c *Coordinator) acquire() error {
	return c.file.Write(&Record{
		PID:   os.Getpid(),
		State: domain.StateIdle,
	})
}

// handleLegacy tolerates lock files holding a bare numeric PID. A live
// owner cannot accept queued requests, so that case is an error; a dead or
// unparsable one is stale and removed. retry=true means the caller should
// attempt acquisition again.
func (c *Coordinator) handleLegacy() (Outcome, bool, error) {
	raw, err := c.file.readRaw()
	if err != nil {
		return Leader, false, err
	}

	if pid, parseErr := strconv.Atoi(strings.TrimSpace(raw)); parseErr == nil {
		if c.inspector.Alive(pid) {
			return Leader, false, &domain.AlreadyPlayingError{PID: pid}
		}
	}

	// Dead owner or unrecognized content: treat as stale
	if err := c.file.Remove(); err != nil {
		return Leader, false, err
	}
	return Leader, true, nil
}
