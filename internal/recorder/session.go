// Package recorder captures per-task timing, correctness, and responses
// during an assessment session. Each task moves not-started -> started ->
// completed, and completion only ever advances the current-task pointer;
// there is no way back.
package recorder

import (
	"errors"
	"strings"
	"sync"
	"time"

	"mindscreen/internal/catalog"
	"mindscreen/internal/models"
	"mindscreen/internal/scoring"
)

var (
	ErrNotCurrentTask     = errors.New("recorder: task is not the current task")
	ErrNotStarted         = errors.New("recorder: task has not been started")
	ErrAlreadyFinished    = errors.New("recorder: session already finished")
	ErrIncompleteSequence = errors.New("recorder: sequence response incomplete")
	ErrEmptyResponse      = errors.New("recorder: free-text response required")
	ErrOptionUnavailable  = errors.New("recorder: option already used or out of range")
)

// TaskState is the mutable capture for one task while the session runs. It
// becomes immutable once the task completes.
type TaskState struct {
	StartedAt      time.Time
	ResponseTimeMs int
	Correct        *bool
	Errors         int
	SelectedOption *int
	Sequence       []int
	FreeResponse   string
	Completed      bool
}

// Session owns the cognitive task flow for one assessment. All methods are
// safe for concurrent use, though the flow itself is strictly sequential.
type Session struct {
	mu       sync.Mutex
	tasks    []catalog.CognitiveTask
	states   map[string]*TaskState
	current  int
	finished bool
	now      func() time.Time
}

func NewSession(tasks []catalog.CognitiveTask) *Session {
	return &Session{
		tasks:  tasks,
		states: make(map[string]*TaskState, len(tasks)),
		now:    time.Now,
	}
}

// NewSessionWithClock injects a time source for tests.
func NewSessionWithClock(tasks []catalog.CognitiveTask, now func() time.Time) *Session {
	s := NewSession(tasks)
	s.now = now
	return s
}

// CurrentTask returns the task the session points at, or false once finished.
func (s *Session) CurrentTask() (catalog.CognitiveTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished || s.current >= len(s.tasks) {
		return catalog.CognitiveTask{}, false
	}
	return s.tasks[s.current], true
}

func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Begin starts the response timer for the current task. Beginning an
// already-started task is a no-op.
func (s *Session) Begin(taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.requireCurrent(taskID); err != nil {
		return err
	}
	state := s.state(taskID)
	if state.StartedAt.IsZero() {
		state.StartedAt = s.now()
	}
	return nil
}

// SelectOption answers a single-choice task and completes it immediately.
func (s *Session) SelectOption(taskID string, optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, err := s.requireCurrent(taskID)
	if err != nil {
		return err
	}
	state := s.state(taskID)
	if state.StartedAt.IsZero() {
		return ErrNotStarted
	}
	if optionIndex < 0 || optionIndex >= len(task.Options) {
		return ErrOptionUnavailable
	}

	state.SelectedOption = &optionIndex
	if task.CorrectAnswer != nil {
		correct := optionIndex == *task.CorrectAnswer
		state.Correct = &correct
	}
	s.complete(taskID, nil)
	return nil
}

// AppendSequence records the next tap of a sequence task. Repeated indices
// and taps beyond the expected length are rejected.
func (s *Session) AppendSequence(taskID string, optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, err := s.requireCurrent(taskID)
	if err != nil {
		return err
	}
	state := s.state(taskID)
	if state.StartedAt.IsZero() {
		return ErrNotStarted
	}
	if optionIndex < 0 || optionIndex >= len(task.Options) {
		return ErrOptionUnavailable
	}
	for _, chosen := range state.Sequence {
		if chosen == optionIndex {
			return ErrOptionUnavailable
		}
	}
	if len(state.Sequence) >= len(task.SequenceAnswer) {
		return ErrOptionUnavailable
	}
	state.Sequence = append(state.Sequence, optionIndex)
	return nil
}

// UndoSequence removes the most recent tap.
func (s *Session) UndoSequence(taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.requireCurrent(taskID); err != nil {
		return err
	}
	state := s.state(taskID)
	if n := len(state.Sequence); n > 0 {
		state.Sequence = state.Sequence[:n-1]
	}
	return nil
}

// SetFreeText records the clock-drawing description. Typing implicitly
// starts the task timer, matching the form behavior.
func (s *Session) SetFreeText(taskID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.requireCurrent(taskID); err != nil {
		return err
	}
	state := s.state(taskID)
	if state.StartedAt.IsZero() {
		state.StartedAt = s.now()
	}
	state.FreeResponse = text
	return nil
}

// Complete finishes the current task. Sequence tasks must have the full
// expected length; mismatches are counted position by position and recorded
// as the error count. Clock-drawing requires non-empty trimmed text. When
// autoStopMs is non-nil the task was cut off at its maximum duration and
// that duration is recorded instead of wall-clock elapsed.
func (s *Session) Complete(taskID string, autoStopMs *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, err := s.requireCurrent(taskID)
	if err != nil {
		return err
	}
	state := s.state(taskID)

	switch {
	case len(task.SequenceAnswer) > 0:
		if state.StartedAt.IsZero() {
			return ErrNotStarted
		}
		if len(state.Sequence) != len(task.SequenceAnswer) {
			return ErrIncompleteSequence
		}
		mismatches := CountMismatches(task.SequenceAnswer, state.Sequence)
		correct := mismatches == 0
		state.Correct = &correct
		state.Errors = mismatches

	case task.Type == catalog.TypeClockDrawing:
		if strings.TrimSpace(state.FreeResponse) == "" {
			return ErrEmptyResponse
		}
		if state.StartedAt.IsZero() {
			state.StartedAt = s.now()
		}
		correct := true
		state.Correct = &correct

	default:
		if state.StartedAt.IsZero() {
			return ErrNotStarted
		}
	}

	s.complete(taskID, autoStopMs)
	return nil
}

// Logs produces one immutable InteractionLog per task, completed or not.
func (s *Session) Logs() []models.InteractionLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := make([]models.InteractionLog, 0, len(s.tasks))
	for _, task := range s.tasks {
		state := s.state(task.ID)
		var metadata map[string]any
		switch {
		case len(task.SequenceAnswer) > 0:
			metadata = map[string]any{
				"expectedSequence": task.SequenceAnswer,
				"selectedSequence": append([]int{}, state.Sequence...),
			}
		case task.Type == catalog.TypeClockDrawing:
			metadata = map[string]any{"description": state.FreeResponse}
		}
		logs = append(logs, models.InteractionLog{
			TaskID:         task.ID,
			TaskType:       "cognitive",
			Prompt:         task.Prompt,
			ResponseTimeMs: state.ResponseTimeMs,
			Correct:        state.Correct,
			Errors:         state.Errors,
			Metadata:       metadata,
		})
	}
	return logs
}

// Outcomes exposes the captured end state for the scoring aggregator.
func (s *Session) Outcomes() map[string]scoring.TaskOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	outcomes := make(map[string]scoring.TaskOutcome, len(s.tasks))
	for _, task := range s.tasks {
		state := s.state(task.ID)
		outcomes[task.ID] = scoring.TaskOutcome{Correct: state.Correct, Errors: state.Errors}
	}
	return outcomes
}

// ClockDrawing returns the trimmed free-text response of the clock task.
func (s *Session) ClockDrawing() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, task := range s.tasks {
		if task.Type == catalog.TypeClockDrawing {
			return strings.TrimSpace(s.state(task.ID).FreeResponse)
		}
	}
	return ""
}

func (s *Session) Tasks() []catalog.CognitiveTask {
	return s.tasks
}

// Index returns how many tasks have completed, which is also the position
// of the current task while the session runs.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return len(s.tasks)
	}
	return s.current
}

// CountMismatches compares two index sequences position by position up to
// the longer length. A missing position counts as a mismatch.
func CountMismatches(expected, selected []int) int {
	n := len(expected)
	if len(selected) > n {
		n = len(selected)
	}
	mismatches := 0
	for i := 0; i < n; i++ {
		var e, sel = -1, -1
		if i < len(expected) {
			e = expected[i]
		}
		if i < len(selected) {
			sel = selected[i]
		}
		if e != sel {
			mismatches++
		}
	}
	return mismatches
}

func (s *Session) requireCurrent(taskID string) (catalog.CognitiveTask, error) {
	if s.finished {
		return catalog.CognitiveTask{}, ErrAlreadyFinished
	}
	if s.current >= len(s.tasks) || s.tasks[s.current].ID != taskID {
		return catalog.CognitiveTask{}, ErrNotCurrentTask
	}
	return s.tasks[s.current], nil
}

func (s *Session) state(taskID string) *TaskState {
	state, ok := s.states[taskID]
	if !ok {
		state = &TaskState{}
		s.states[taskID] = state
	}
	return state
}

// complete stamps the response time and advances, or flips finished on the
// last task.
func (s *Session) complete(taskID string, autoStopMs *int) {
	state := s.states[taskID]
	if autoStopMs != nil {
		state.ResponseTimeMs = *autoStopMs
	} else if !state.StartedAt.IsZero() {
		state.ResponseTimeMs = int(s.now().Sub(state.StartedAt).Milliseconds())
	}
	state.StartedAt = time.Time{}
	state.Completed = true

	if s.current < len(s.tasks)-1 {
		s.current++
	} else {
		s.finished = true
	}
}
