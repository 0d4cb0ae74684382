package session

import "sync"

// Step is the position of a user inside the content-generation dialogue.
type Step int

const (
	StepNone Step = iota
	StepAwaitingTopic
	StepAwaitingPlatform
)

const (
	FieldTopic    = "topic"
	FieldPlatform = "platform"
)

// Session is the ephemeral per-user dialogue state: the current step and
// the answers collected so far.
type Session struct {
	Step      Step
	Collected map[string]string
}

// Manager keeps one active session per user. Starting a new dialogue
// discards any incomplete one; completion and cancel clear it. Safe for
// concurrent use across distinct user ids.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]*Session)}
}

// Start resets the user's session to the first step.
func (m *Manager) Start(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = &Session{
		Step:      StepAwaitingTopic,
		Collected: make(map[string]string),
	}
}

// Get returns a copy of the user's session. Absent sessions read as
// StepNone with no collected fields.
func (m *Manager) Get(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	if !ok {
		return Session{Step: StepNone, Collected: map[string]string{}}
	}
	out := Session{Step: s.Step, Collected: make(map[string]string, len(s.Collected))}
	for k, v := range s.Collected {
		out.Collected[k] = v
	}
	return out
}

// Advance stores a collected field and moves the session to the next
// step. It is a no-op for users without an active session.
func (m *Manager) Advance(userID int64, field, value string, next Step) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return
	}
	s.Collected[field] = value
	s.Step = next
}

// Clear drops the user's session unconditionally.
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
