package server

import (
	"context"
	"time"

	"ducker/internal/domain"
)

// The fade scheduler drives the sink volume between the guard's current
// fade position and an endpoint in FadeSteps discrete steps. Fades are
// interruptible between steps; the position always reflects the last fully
// applied step, never a fractional one.

// fadeOut steps the volume from the guard's current position down to fully
// ducked. Cancellation stops the fade immediately, leaving the position at
// the last applied step. Volume-set failures propagate.
func fadeOut(ctx context.Context, g *Guard, duration time.Duration) error {
	start := g.FadePosition()
	if start <= 0 {
		return nil
	}

	stepDuration := duration / domain.FadeSteps
	for pos := start - 1; pos >= 0; pos-- {
		if ctx.Err() != nil {
			return nil
		}
		if err := g.applyFadeStep(pos); err != nil {
			return err
		}
		if !sleepCtx(ctx, stepDuration) {
			return nil
		}
	}
	return nil
}

// fadeIn steps the volume from the guard's current position up to full,
// then re-asserts the exact original volume to remove rounding drift.
// A request appearing in the queue aborts the fade at the last applied
// step; completed reports whether the fade ran to the end.
func fadeIn(ctx context.Context, g *Guard, duration time.Duration, queueNonEmpty func() bool) (completed bool, err error) {
	stepDuration := duration / domain.FadeSteps
	for pos := g.FadePosition(); pos <= domain.FadeSteps; pos++ {
		if queueNonEmpty() {
			return false, nil
		}
		if ctx.Err() != nil {
			return false, nil
		}
		if err := g.applyFadeStep(pos); err != nil {
			return false, err
		}
		if !sleepCtx(ctx, stepDuration) {
			return false, nil
		}
	}

	if err := g.RestoreVolume(); err != nil {
		return false, err
	}
	return true, nil
}

// sleepCtx sleeps for d or until the context is cancelled. Returns false
// on cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
