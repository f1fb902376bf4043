package statemachine

import (
	"context"
	"slices"
	"sync"
)

// Machine is one run over a Definition.
type Machine struct {
	def *Definition

	mu      sync.RWMutex
	current State
	history []State
}

func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// History returns every state entered, starting with the initial one.
func (m *Machine) History() []State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.history)
}

func (m *Machine) Done() bool {
	return m.def.IsFinal(m.Current())
}

func (m *Machine) Fire(ctx context.Context, event Event, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.def.match(ctx, m.current, event, data)
	if err != nil {
		return err
	}
	for _, action := range t.Actions {
		if err := action(ctx, t.From, t.To, event, data); err != nil {
			return &ActionError{From: t.From, To: t.To, Err: err}
		}
	}
	m.current = t.To
	m.history = append(m.history, t.To)
	return nil
}

func (m *Machine) CanFire(ctx context.Context, event Event, data any) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, err := m.def.match(ctx, m.current, event, data)
	return err == nil
}

func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.def.initial
	m.history = []State{m.def.initial}
}
