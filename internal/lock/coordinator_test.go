package lock

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ducker/internal/domain"
)

// fakeInspector reports liveness from a fixed table
type fakeInspector struct {
	alive map[int]bool
}

func (f *fakeInspector) Alive(pid int) bool { return f.alive[pid] }

func TestAcquireWhenNoRecord(t *testing.T) {
	f := tempLockFile(t)
	c := NewCoordinator(f, &fakeInspector{})

	outcome, err := c.AcquireOrEnqueue("/tmp/beep.wav")
	require.NoError(t, err)
	assert.Equal(t, Leader, outcome)

	rec, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), rec.PID)
	assert.Equal(t, domain.StateIdle, rec.State)
	assert.Empty(t, rec.PendingRequest)
}

func TestEnqueueWithRunningServer(t *testing.T) {
	f := tempLockFile(t)
	require.NoError(t, f.Write(&Record{PID: 4321, State: domain.StatePlaying}))

	c := NewCoordinator(f, &fakeInspector{alive: map[int]bool{4321: true}})

	outcome, err := c.AcquireOrEnqueue("/tmp/ding.wav")
	require.NoError(t, err)
	assert.Equal(t, Enqueued, outcome)

	rec, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, 4321, rec.PID, "the running server still owns the record")
	assert.Equal(t, "/tmp/ding.wav", rec.PendingRequest)
}

func TestEnqueueOverwritesPending(t *testing.T) {
	f := tempLockFile(t)
	require.NoError(t, f.Write(&Record{PID: 4321, PendingRequest: "/tmp/old.wav"}))

	c := NewCoordinator(f, &fakeInspector{alive: map[int]bool{4321: true}})

	// Only one pending slot exists: last writer wins
	_, err := c.AcquireOrEnqueue("/tmp/new.wav")
	require.NoError(t, err)

	rec, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/new.wav", rec.PendingRequest)
}

func TestStaleRecordRecovery(t *testing.T) {
	f := tempLockFile(t)
	require.NoError(t, f.Write(&Record{PID: 4321, State: domain.StatePlaying}))

	// Owner is dead: the record is stale and a new leader is elected
	c := NewCoordinator(f, &fakeInspector{alive: map[int]bool{}})

	outcome, err := c.AcquireOrEnqueue("/tmp/beep.wav")
	require.NoError(t, err)
	assert.Equal(t, Leader, outcome)

	rec, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), rec.PID)
}

func TestLegacyRecordAliveOwner(t *testing.T) {
	f := tempLockFile(t)
	require.NoError(t, os.WriteFile(f.Path(), []byte("5555\n"), 0644))

	c := NewCoordinator(f, &fakeInspector{alive: map[int]bool{5555: true}})

	_, err := c.AcquireOrEnqueue("/tmp/beep.wav")
	require.Error(t, err)

	var alreadyPlaying *domain.AlreadyPlayingError
	require.ErrorAs(t, err, &alreadyPlaying)
	assert.Equal(t, 5555, alreadyPlaying.PID)
}

func TestLegacyRecordDeadOwner(t *testing.T) {
	f := tempLockFile(t)
	require.NoError(t, os.WriteFile(f.Path(), []byte("5555\n"), 0644))

	c := NewCoordinator(f, &fakeInspector{alive: map[int]bool{}})

	outcome, err := c.AcquireOrEnqueue("/tmp/beep.wav")
	require.NoError(t, err)
	assert.Equal(t, Leader, outcome)
}

func TestUnparsableRecordTreatedAsStale(t *testing.T) {
	f := tempLockFile(t)
	require.NoError(t, os.WriteFile(f.Path(), []byte("!!garbage!!"), 0644))

	c := NewCoordinator(f, &fakeInspector{})

	outcome, err := c.AcquireOrEnqueue("/tmp/beep.wav")
	require.NoError(t, err)
	assert.Equal(t, Leader, outcome)

	rec, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), rec.PID)
}
