package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ducker/internal/domain"
)

func TestCleanupIdempotent(t *testing.T) {
	audio := newFakeAudio(testSnapshot())
	g := NewGuard(audio, audio.snap)

	require.NoError(t, g.MuteInputs())
	require.NoError(t, g.SetDuckVolume(75))

	require.NoError(t, g.Cleanup())
	volumesAfterFirst := audio.Volumes()
	mutesAfterFirst := audio.MuteOps()

	// Second cleanup must not re-issue any audio commands
	require.NoError(t, g.Cleanup())
	assert.Equal(t, volumesAfterFirst, audio.Volumes())
	assert.Equal(t, mutesAfterFirst, audio.MuteOps())

	// End state: original volume asserted last, stream unmuted last
	assert.Equal(t, 50, volumesAfterFirst[len(volumesAfterFirst)-1])
	assert.Equal(t, "42=unmuted", mutesAfterFirst[len(mutesAfterFirst)-1])
}

func TestCleanupDoesNotResetFadePosition(t *testing.T) {
	audio := newFakeAudio(testSnapshot())
	g := NewGuard(audio, audio.snap)

	g.SnapFadedOut()
	require.NoError(t, g.Cleanup())

	// Only an explicit full restoration moves the position back to full
	assert.Equal(t, 0, g.FadePosition())
}

func TestRestoreResetsFadePosition(t *testing.T) {
	audio := newFakeAudio(testSnapshot())
	g := NewGuard(audio, audio.snap)

	g.SnapFadedOut()
	require.NoError(t, g.Restore())

	assert.Equal(t, domain.FadeSteps, g.FadePosition())
	volumes := audio.Volumes()
	require.NotEmpty(t, volumes)
	assert.Equal(t, 50, volumes[len(volumes)-1])
}

func TestGuardRearmsAfterNewDucking(t *testing.T) {
	audio := newFakeAudio(testSnapshot())
	g := NewGuard(audio, audio.snap)

	require.NoError(t, g.SetDuckVolume(75))
	require.NoError(t, g.Cleanup())

	// A later request ducks again; cleanup must apply again
	require.NoError(t, g.SetDuckVolume(75))
	before := len(audio.Volumes())
	require.NoError(t, g.Cleanup())
	assert.Greater(t, len(audio.Volumes()), before)
}

func TestNewGuardStartsClean(t *testing.T) {
	audio := newFakeAudio(testSnapshot())
	g := NewGuard(audio, audio.snap)

	// Nothing mutated yet: cleanup is a no-op
	require.NoError(t, g.Cleanup())
	assert.Empty(t, audio.Volumes())
	assert.Empty(t, audio.MuteOps())
	assert.Equal(t, domain.FadeSteps, g.FadePosition())
}
