package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ducker/internal/domain"
)

func TestFadeOutMonotonic(t *testing.T) {
	audio := newFakeAudio(testSnapshot())
	g := NewGuard(audio, audio.snap)

	require.NoError(t, fadeOut(context.Background(), g, 10*time.Millisecond))

	volumes := audio.Volumes()
	require.Len(t, volumes, domain.FadeSteps)
	for i := 1; i < len(volumes); i++ {
		assert.LessOrEqual(t, volumes[i], volumes[i-1], "fade-out must be non-increasing")
	}
	assert.Equal(t, 45, volumes[0], "first step is original * 9/10")
	assert.Equal(t, 0, volumes[len(volumes)-1])
	assert.Equal(t, 0, g.FadePosition())
}

func TestFadeOutFromPartialPosition(t *testing.T) {
	audio := newFakeAudio(testSnapshot())
	g := NewGuard(audio, audio.snap)
	for pos := domain.FadeSteps - 1; pos >= 4; pos-- {
		require.NoError(t, g.applyFadeStep(pos))
	}
	before := len(audio.Volumes())

	// Resumes from position 4, not from the top
	require.NoError(t, fadeOut(context.Background(), g, 5*time.Millisecond))
	assert.Len(t, audio.Volumes(), before+4)
	assert.Equal(t, 0, g.FadePosition())
}

func TestFadeOutCancelledKeepsPosition(t *testing.T) {
	audio := newFakeAudio(testSnapshot())
	g := NewGuard(audio, audio.snap)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, fadeOut(ctx, g, 10*time.Millisecond))
	assert.Empty(t, audio.Volumes(), "no step may run after cancellation")
	assert.Equal(t, domain.FadeSteps, g.FadePosition())
}

func TestFadeInEndsAtExactOriginalVolume(t *testing.T) {
	audio := newFakeAudio(testSnapshot())
	g := NewGuard(audio, audio.snap)
	g.SnapFadedOut()

	completed, err := fadeIn(context.Background(), g, 10*time.Millisecond, func() bool { return false })
	require.NoError(t, err)
	assert.True(t, completed)

	volumes := audio.Volumes()
	require.NotEmpty(t, volumes)
	for i := 1; i < len(volumes); i++ {
		assert.GreaterOrEqual(t, volumes[i], volumes[i-1], "fade-in must be non-decreasing")
	}
	// Terminal step re-asserts the exact original volume
	assert.Equal(t, 50, volumes[len(volumes)-1])
	assert.Equal(t, domain.FadeSteps, g.FadePosition())
}

func TestFadeInAbortsOnQueuedRequest(t *testing.T) {
	audio := newFakeAudio(testSnapshot())
	g := NewGuard(audio, audio.snap)
	g.SnapFadedOut()

	calls := 0
	queueNonEmpty := func() bool {
		calls++
		return calls > 3 // request arrives mid-fade
	}

	completed, err := fadeIn(context.Background(), g, 10*time.Millisecond, queueNonEmpty)
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Less(t, g.FadePosition(), domain.FadeSteps,
		"aborted fade leaves the position where it stopped")
}

func TestSleepCtx(t *testing.T) {
	assert.True(t, sleepCtx(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleepCtx(ctx, time.Hour))
}
