package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerLifecycle(t *testing.T) {
	m := NewManager()
	userID := int64(1)

	// No session yet.
	s := m.Get(userID)
	assert.Equal(t, StepNone, s.Step)
	assert.Empty(t, s.Collected)

	m.Start(userID)
	s = m.Get(userID)
	assert.Equal(t, StepAwaitingTopic, s.Step)

	m.Advance(userID, FieldTopic, "Launch", StepAwaitingPlatform)
	s = m.Get(userID)
	assert.Equal(t, StepAwaitingPlatform, s.Step)
	assert.Equal(t, "Launch", s.Collected[FieldTopic])

	m.Clear(userID)
	s = m.Get(userID)
	assert.Equal(t, StepNone, s.Step)
}

func TestManagerStartDiscardsPriorSession(t *testing.T) {
	m := NewManager()
	userID := int64(1)

	m.Start(userID)
	m.Advance(userID, FieldTopic, "Old topic", StepAwaitingPlatform)

	m.Start(userID)
	s := m.Get(userID)
	assert.Equal(t, StepAwaitingTopic, s.Step)
	assert.Empty(t, s.Collected)
}

func TestManagerIsolatesUsers(t *testing.T) {
	m := NewManager()

	m.Start(1)
	m.Advance(1, FieldTopic, "A", StepAwaitingPlatform)
	m.Start(2)

	assert.Equal(t, StepAwaitingPlatform, m.Get(1).Step)
	assert.Equal(t, StepAwaitingTopic, m.Get(2).Step)

	m.Clear(1)
	assert.Equal(t, StepNone, m.Get(1).Step)
	assert.Equal(t, StepAwaitingTopic, m.Get(2).Step)
}

func TestManagerAdvanceWithoutSessionIsNoop(t *testing.T) {
	m := NewManager()
	m.Advance(5, FieldTopic, "stray", StepAwaitingPlatform)
	assert.Equal(t, StepNone, m.Get(5).Step)
}

func TestManagerGetReturnsCopy(t *testing.T) {
	m := NewManager()
	m.Start(1)
	m.Advance(1, FieldTopic, "Launch", StepAwaitingPlatform)

	s := m.Get(1)
	s.Collected[FieldTopic] = "mutated"

	assert.Equal(t, "Launch", m.Get(1).Collected[FieldTopic])
}
