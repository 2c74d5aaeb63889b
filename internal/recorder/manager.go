package recorder

import (
	"sync"
	"time"

	"mindscreen/internal/catalog"
	"mindscreen/internal/models"
)

// Assessment bundles the in-memory session state for one running
// assessment: the immutable profile plus the speech and cognitive flows.
// It lives only as long as the session; results are persisted separately.
type Assessment struct {
	ID        string
	Identity  string
	Profile   models.UserProfile
	Speech    *SpeechFlow
	Cognitive *Session
	CreatedAt time.Time
}

// Manager is the registry of active assessments. Session state is owned
// exclusively by this process; nothing here survives a restart.
type Manager struct {
	mu     sync.RWMutex
	active map[string]*Assessment
}

func NewManager() *Manager {
	return &Manager{active: make(map[string]*Assessment)}
}

func (m *Manager) Create(id, identity string, profile models.UserProfile, speech []catalog.SpeechTask, cognitive []catalog.CognitiveTask) *Assessment {
	a := &Assessment{
		ID:        id,
		Identity:  identity,
		Profile:   profile,
		Speech:    NewSpeechFlow(speech),
		Cognitive: NewSession(cognitive),
		CreatedAt: time.Now(),
	}
	m.mu.Lock()
	m.active[id] = a
	m.mu.Unlock()
	return a
}

func (m *Manager) Get(id string) (*Assessment, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.active[id]
	return a, ok
}

// Remove drops the session on reset or completion.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.active, id)
	m.mu.Unlock()
}
