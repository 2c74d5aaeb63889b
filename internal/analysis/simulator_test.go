package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindscreen/internal/models"
)

// fastConfig shrinks the reveal timing so the suite stays quick while
// keeping the ordering guarantees intact.
func fastConfig() Config {
	return Config{
		TickInterval:    2 * time.Millisecond,
		MinimumDuration: 80 * time.Millisecond,
		FinalizeHold:    10 * time.Millisecond,
	}
}

func TestProgressClimbsAndCaps(t *testing.T) {
	s := NewSimulator(fastConfig())
	s.Start()
	defer s.Stop()

	state, progress := s.Snapshot()
	assert.Equal(t, StatePending, state)
	assert.GreaterOrEqual(t, progress, float64(12))

	// 92/5 ticks at most; give it plenty.
	assert.Eventually(t, func() bool {
		_, p := s.Snapshot()
		return p == 92
	}, time.Second, time.Millisecond)

	// Parked at the cap, still pending.
	time.Sleep(10 * time.Millisecond)
	state, progress = s.Snapshot()
	assert.Equal(t, StatePending, state)
	assert.Equal(t, float64(92), progress)
}

func TestNeverCompletesBeforeMinimumDuration(t *testing.T) {
	s := NewSimulator(fastConfig())
	started := time.Now()
	s.Start()
	defer s.Stop()

	s.Finalize()

	assert.Eventually(t, func() bool {
		state, _ := s.Snapshot()
		return state == StateComplete
	}, time.Second, time.Millisecond)

	elapsed := time.Since(started)
	assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond)

	_, progress := s.Snapshot()
	assert.Equal(t, float64(100), progress)
}

func TestLateFinalizeCompletesAfterHold(t *testing.T) {
	s := NewSimulator(fastConfig())
	s.Start()
	defer s.Stop()

	// Let the minimum pass first; finalize should then only take the hold.
	time.Sleep(100 * time.Millisecond)
	s.Finalize()

	assert.Eventually(t, func() bool {
		state, _ := s.Snapshot()
		return state == StateComplete
	}, 200*time.Millisecond, time.Millisecond)
}

func TestStopCancelsEverything(t *testing.T) {
	s := NewSimulator(fastConfig())
	s.Start()
	s.Finalize()
	s.Stop()

	state, progress := s.Snapshot()
	assert.Equal(t, StateIdle, state)
	assert.Equal(t, float64(0), progress)

	// No stale timer may resurrect the run.
	time.Sleep(150 * time.Millisecond)
	state, _ = s.Snapshot()
	assert.Equal(t, StateIdle, state)
}

func TestOnCompleteFires(t *testing.T) {
	s := NewSimulator(Config{
		TickInterval:    2 * time.Millisecond,
		MinimumDuration: 10 * time.Millisecond,
		FinalizeHold:    5 * time.Millisecond,
	})
	done := make(chan struct{})
	s.OnComplete(func() { close(done) })
	s.Start()
	defer s.Stop()
	s.Finalize()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("completion callback never fired")
	}
}

func TestManagerHoldsResultUntilComplete(t *testing.T) {
	m := NewManager(fastConfig())
	result := models.AssessmentResult{AssessmentID: "a1", Probability: 0.4475}

	m.Begin("a1")
	m.Deliver("a1", result)

	status, ok := m.Status("a1")
	require.True(t, ok)
	assert.NotEqual(t, StateComplete, status.State)
	assert.Nil(t, status.Result)

	assert.Eventually(t, func() bool {
		status, _ := m.Status("a1")
		return status.State == StateComplete && status.Result != nil
	}, time.Second, time.Millisecond)

	status, _ = m.Status("a1")
	assert.Equal(t, "a1", status.Result.AssessmentID)
}

func TestManagerReset(t *testing.T) {
	m := NewManager(fastConfig())
	m.Begin("a1")
	m.Reset("a1")

	_, ok := m.Status("a1")
	assert.False(t, ok)
}
