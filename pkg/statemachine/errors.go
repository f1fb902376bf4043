package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("statemachine: from, to and event must be non-empty")
	ErrInvalidInitial    = errors.New("statemachine: initial state must be non-empty")
	ErrFinalState        = errors.New("statemachine: machine is in a final state")
)

// NoTransitionError means nothing is registered for the state/event pair.
type NoTransitionError struct {
	State State
	Event Event
}

func (e *NoTransitionError) Error() string {
	return fmt.Sprintf("statemachine: no transition from %q on %q", e.State, e.Event)
}

// RejectedError means transitions exist but every one was blocked by a guard.
type RejectedError struct {
	State State
	Event Event
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("statemachine: transition from %q on %q rejected by guards", e.State, e.Event)
}

// ActionError wraps a failing action.
type ActionError struct {
	From, To State
	Err      error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("statemachine: action %q -> %q failed: %v", e.From, e.To, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

func IsNoTransition(err error) bool {
	var e *NoTransitionError
	return errors.As(err, &e)
}

func IsRejected(err error) bool {
	var e *RejectedError
	return errors.As(err, &e)
}
