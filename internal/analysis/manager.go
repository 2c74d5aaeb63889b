package analysis

import (
	"sync"

	"mindscreen/internal/models"
)

// Status is what the result endpoint reports while the analysis animation
// runs. Result is nil until the simulator reaches complete.
type Status struct {
	State    State                    `json:"state"`
	Progress float64                  `json:"progress"`
	Result   *models.AssessmentResult `json:"result,omitempty"`
}

// Manager tracks one simulator per assessment and holds the computed result
// back until the minimum visible duration has passed.
type Manager struct {
	mu      sync.Mutex
	cfg     Config
	entries map[string]*entry
}

type entry struct {
	sim    *Simulator
	result *models.AssessmentResult
}

func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg, entries: make(map[string]*entry)}
}

// Begin starts the progress animation for an assessment. Calling it again
// for the same id restarts nothing; the running simulator is kept.
func (m *Manager) Begin(assessmentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[assessmentID]; ok {
		return
	}
	e := &entry{sim: NewSimulator(m.cfg)}
	m.entries[assessmentID] = e
	e.sim.Start()
}

// Deliver hands the computed result to the manager and requests finalize.
// The result stays hidden until the simulator completes.
func (m *Manager) Deliver(assessmentID string, result models.AssessmentResult) {
	m.mu.Lock()
	e, ok := m.entries[assessmentID]
	if !ok {
		e = &entry{sim: NewSimulator(m.cfg)}
		m.entries[assessmentID] = e
		e.sim.Start()
	}
	e.result = &result
	m.mu.Unlock()
	e.sim.Finalize()
}

// Status reports the simulator state; once complete it includes the result.
func (m *Manager) Status(assessmentID string) (Status, bool) {
	m.mu.Lock()
	e, ok := m.entries[assessmentID]
	m.mu.Unlock()
	if !ok {
		return Status{}, false
	}
	state, progress := e.sim.Snapshot()
	status := Status{State: state, Progress: progress}
	if state == StateComplete {
		status.Result = e.result
	}
	return status, true
}

// Reset cancels the simulator and forgets the assessment. Every timer is
// stopped so no stale callback can fire afterwards.
func (m *Manager) Reset(assessmentID string) {
	m.mu.Lock()
	e, ok := m.entries[assessmentID]
	delete(m.entries, assessmentID)
	m.mu.Unlock()
	if ok {
		e.sim.Stop()
	}
}
