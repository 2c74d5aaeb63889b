package recorder

import (
	"errors"
	"sync"
	"time"

	"mindscreen/internal/catalog"
)

// LockPollInterval is how often clients should re-check a locked task's
// countdown. The lock clearing may be observed up to one interval late.
const LockPollInterval = 500 * time.Millisecond

var (
	ErrTaskLocked   = errors.New("recorder: task is locked behind its unlock delay")
	ErrUnknownTask  = errors.New("recorder: unknown task id")
	ErrFlowFinished = errors.New("recorder: speech flow already finished")
)

// SpeechFlow tracks the speech task sequence for one assessment, including
// the unlock gating for delayed-recall tasks. A dependent task has no
// eligibility timestamp at all until its prerequisite completes; completing
// the prerequisite schedules the unlock at now + delay.
type SpeechFlow struct {
	mu          sync.Mutex
	tasks       []catalog.SpeechTask
	byID        map[string]catalog.SpeechTask
	dependents  map[string][]string
	availableAt map[string]time.Time
	durations   map[string]int64
	current     int
	finished    bool
	now         func() time.Time
}

func NewSpeechFlow(tasks []catalog.SpeechTask) *SpeechFlow {
	f := &SpeechFlow{
		tasks:       tasks,
		byID:        make(map[string]catalog.SpeechTask, len(tasks)),
		dependents:  make(map[string][]string),
		availableAt: make(map[string]time.Time, len(tasks)),
		durations:   make(map[string]int64, len(tasks)),
		now:         time.Now,
	}
	now := time.Now()
	for _, task := range tasks {
		f.byID[task.ID] = task
		if task.UnlockAfterTaskID != "" {
			f.dependents[task.UnlockAfterTaskID] = append(f.dependents[task.UnlockAfterTaskID], task.ID)
		} else {
			f.availableAt[task.ID] = now
		}
	}
	return f
}

// NewSpeechFlowWithClock injects a time source for tests.
func NewSpeechFlowWithClock(tasks []catalog.SpeechTask, now func() time.Time) *SpeechFlow {
	f := NewSpeechFlow(tasks)
	f.now = now
	for id := range f.availableAt {
		f.availableAt[id] = now()
	}
	return f
}

// CurrentTask returns the active task, or false once the flow finished.
func (f *SpeechFlow) CurrentTask() (catalog.SpeechTask, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.finished || f.current >= len(f.tasks) {
		return catalog.SpeechTask{}, false
	}
	return f.tasks[f.current], true
}

// RemainingLock reports how long a task stays locked. scheduled is false
// while the prerequisite has not completed, i.e. the unlock time is still
// undefined.
func (f *SpeechFlow) RemainingLock(taskID string) (remaining time.Duration, scheduled bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.byID[taskID]
	if !ok {
		return 0, false, ErrUnknownTask
	}
	if task.UnlockAfterTaskID == "" {
		return 0, true, nil
	}
	unlockAt, ok := f.availableAt[taskID]
	if !ok {
		return 0, false, nil
	}
	remaining = unlockAt.Sub(f.now())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true, nil
}

// Locked reports whether recording may start on the task right now.
func (f *SpeechFlow) Locked(taskID string) (bool, error) {
	remaining, scheduled, err := f.RemainingLock(taskID)
	if err != nil {
		return false, err
	}
	return !scheduled || remaining > 0, nil
}

// Complete records the captured duration for the current task, schedules
// unlocks for its dependents, and advances. The last task flips finished.
func (f *SpeechFlow) Complete(taskID string, durationMs int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.finished {
		return ErrFlowFinished
	}
	if f.current >= len(f.tasks) || f.tasks[f.current].ID != taskID {
		return ErrUnknownTask
	}
	if locked := f.lockedLocked(taskID); locked {
		return ErrTaskLocked
	}

	f.durations[taskID] = durationMs

	now := f.now()
	for _, dep := range f.dependents[taskID] {
		delay := time.Duration(f.byID[dep].UnlockDelayMs) * time.Millisecond
		f.availableAt[dep] = now.Add(delay)
	}

	if f.current < len(f.tasks)-1 {
		f.current++
	} else {
		f.finished = true
	}
	return nil
}

func (f *SpeechFlow) Finished() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.finished
}

// Durations returns recorded milliseconds per completed task id.
func (f *SpeechFlow) Durations() map[string]int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]int64, len(f.durations))
	for id, d := range f.durations {
		out[id] = d
	}
	return out
}

// ExpectedDurations returns the catalog maximum duration per task id, the
// denominator of the coverage metric.
func (f *SpeechFlow) ExpectedDurations() map[string]int64 {
	out := make(map[string]int64, len(f.tasks))
	for _, task := range f.tasks {
		max := task.MaxDurationMs
		if max <= 0 {
			max = 60_000
		}
		out[task.ID] = max
	}
	return out
}

func (f *SpeechFlow) lockedLocked(taskID string) bool {
	task := f.byID[taskID]
	if task.UnlockAfterTaskID == "" {
		return false
	}
	unlockAt, ok := f.availableAt[taskID]
	if !ok {
		return true
	}
	return f.now().Before(unlockAt)
}
