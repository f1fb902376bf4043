// Package statemachine provides a small finite state machine split into an
// immutable Definition, built once and shared, and per-run Machine instances
// that track the current state and the path taken.
//
// Example:
//
//	def := statemachine.MustNewDefinition("draft",
//		statemachine.WithTransition("draft", "sent", "send",
//			statemachine.WithGuard(hasRecipient),
//		),
//		statemachine.WithFinal("sent"),
//	)
//
//	m := def.Start()
//	if err := m.Fire(ctx, "send", msg); err != nil {
//		// handle error
//	}
//
// Several transitions may share a from-state and event; the first one whose
// guards all pass is taken. Actions run before the state changes and any
// action error leaves the machine where it was. Final states accept no events.
package statemachine
