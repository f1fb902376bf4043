package statemachine

import (
	"context"
	"fmt"
	"maps"
	"slices"
)

type (
	State string
	Event string
)

// Guard reports whether a transition may proceed.
type Guard func(ctx context.Context, from State, event Event, data any) bool

// Action runs a side effect before the state changes. An error aborts the
// transition.
type Action func(ctx context.Context, from, to State, event Event, data any) error

type Transition struct {
	From    State
	To      State
	Event   Event
	Guards  []Guard
	Actions []Action
}

// Definition is an immutable transition table. It is safe for concurrent use.
type Definition struct {
	initial State
	table   map[State]map[Event][]Transition
	final   map[State]struct{}
}

type Option func(*Definition) error

type TransitionOption func(*Transition)

func NewDefinition(initial State, opts ...Option) (*Definition, error) {
	if initial == "" {
		return nil, ErrInvalidInitial
	}
	d := &Definition{
		initial: initial,
		table:   make(map[State]map[Event][]Transition),
		final:   make(map[State]struct{}),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// MustNewDefinition panics on an invalid definition.
func MustNewDefinition(initial State, opts ...Option) *Definition {
	d, err := NewDefinition(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("statemachine: %v", err))
	}
	return d
}

func WithTransition(from, to State, event Event, opts ...TransitionOption) Option {
	return func(d *Definition) error {
		if from == "" || to == "" || event == "" {
			return ErrInvalidTransition
		}
		t := Transition{From: from, To: to, Event: event}
		for _, opt := range opts {
			opt(&t)
		}
		if d.table[from] == nil {
			d.table[from] = make(map[Event][]Transition)
		}
		d.table[from][event] = append(d.table[from][event], t)
		return nil
	}
}

// WithTransitionFromAny registers event -> to from every listed state.
func WithTransitionFromAny(from []State, to State, event Event, opts ...TransitionOption) Option {
	return func(d *Definition) error {
		for _, f := range from {
			if err := WithTransition(f, to, event, opts...)(d); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithFinal marks states that accept no further events.
func WithFinal(states ...State) Option {
	return func(d *Definition) error {
		for _, s := range states {
			d.final[s] = struct{}{}
		}
		return nil
	}
}

func WithGuard(g Guard) TransitionOption {
	return func(t *Transition) {
		if g != nil {
			t.Guards = append(t.Guards, g)
		}
	}
}

func WithAction(a Action) TransitionOption {
	return func(t *Transition) {
		if a != nil {
			t.Actions = append(t.Actions, a)
		}
	}
}

func (d *Definition) IsFinal(s State) bool {
	_, ok := d.final[s]
	return ok
}

// Events lists the events accepted from s, sorted.
func (d *Definition) Events(s State) []Event {
	return slices.Sorted(maps.Keys(d.table[s]))
}

// Start returns a new machine positioned at the initial state.
func (d *Definition) Start() *Machine {
	return &Machine{def: d, current: d.initial, history: []State{d.initial}}
}

func (d *Definition) match(ctx context.Context, from State, event Event, data any) (*Transition, error) {
	if d.IsFinal(from) {
		return nil, ErrFinalState
	}
	candidates := d.table[from][event]
	if len(candidates) == 0 {
		return nil, &NoTransitionError{State: from, Event: event}
	}
	for i := range candidates {
		if guardsPass(ctx, candidates[i].Guards, from, event, data) {
			return &candidates[i], nil
		}
	}
	return nil, &RejectedError{State: from, Event: event}
}

func guardsPass(ctx context.Context, guards []Guard, from State, event Event, data any) bool {
	for _, g := range guards {
		if !g(ctx, from, event, data) {
			return false
		}
	}
	return true
}
