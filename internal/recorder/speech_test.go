package recorder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindscreen/internal/catalog"
)

func speechTasks() []catalog.SpeechTask {
	return []catalog.SpeechTask{
		{ID: "immediate", MaxDurationMs: 60_000},
		{ID: "delayed", MaxDurationMs: 60_000, UnlockAfterTaskID: "immediate", UnlockDelayMs: 3 * 60 * 1000},
	}
}

func TestDelayedTaskLockedUntilPrerequisite(t *testing.T) {
	clock := newFakeClock()
	f := NewSpeechFlowWithClock(speechTasks(), clock.Now)

	// Before the prerequisite completes the unlock time is undefined.
	remaining, scheduled, err := f.RemainingLock("delayed")
	require.NoError(t, err)
	assert.False(t, scheduled)
	assert.Zero(t, remaining)

	locked, err := f.Locked("delayed")
	require.NoError(t, err)
	assert.True(t, locked)

	require.NoError(t, f.Complete("immediate", 45_000))

	remaining, scheduled, err = f.RemainingLock("delayed")
	require.NoError(t, err)
	assert.True(t, scheduled)
	assert.Equal(t, 3*time.Minute, remaining)

	// Still locked halfway through the delay.
	clock.Advance(90 * time.Second)
	locked, err = f.Locked("delayed")
	require.NoError(t, err)
	assert.True(t, locked)
	assert.ErrorIs(t, f.Complete("delayed", 10_000), ErrTaskLocked)

	clock.Advance(90 * time.Second)
	locked, err = f.Locked("delayed")
	require.NoError(t, err)
	assert.False(t, locked)

	require.NoError(t, f.Complete("delayed", 50_000))
	assert.True(t, f.Finished())
}

func TestCompleteAdvancesInOrder(t *testing.T) {
	clock := newFakeClock()
	f := NewSpeechFlowWithClock(speechTasks(), clock.Now)

	current, ok := f.CurrentTask()
	require.True(t, ok)
	assert.Equal(t, "immediate", current.ID)

	// Completing out of order is rejected.
	assert.ErrorIs(t, f.Complete("delayed", 10_000), ErrUnknownTask)

	require.NoError(t, f.Complete("immediate", 30_000))
	current, ok = f.CurrentTask()
	require.True(t, ok)
	assert.Equal(t, "delayed", current.ID)
}

func TestDurations(t *testing.T) {
	clock := newFakeClock()
	f := NewSpeechFlowWithClock(speechTasks(), clock.Now)

	require.NoError(t, f.Complete("immediate", 42_000))
	assert.Equal(t, map[string]int64{"immediate": 42_000}, f.Durations())

	expected := f.ExpectedDurations()
	assert.Equal(t, int64(60_000), expected["immediate"])
	assert.Equal(t, int64(60_000), expected["delayed"])
}

func TestExpectedDurationDefault(t *testing.T) {
	f := NewSpeechFlow([]catalog.SpeechTask{{ID: "no-max"}})
	assert.Equal(t, int64(60_000), f.ExpectedDurations()["no-max"])
}

func TestUnknownTask(t *testing.T) {
	f := NewSpeechFlow(speechTasks())
	_, _, err := f.RemainingLock("nope")
	assert.ErrorIs(t, err, ErrUnknownTask)
}

func TestCatalogDelayedRecallGating(t *testing.T) {
	// The shipped catalog wires delayed recall behind immediate recall.
	clock := newFakeClock()
	f := NewSpeechFlowWithClock(catalog.SpeechTasks(), clock.Now)

	locked, err := f.Locked("story-delayed-recall")
	require.NoError(t, err)
	assert.True(t, locked)
}
