// Package audit implements an append-only file journal of JSON records.
//
// A Journal[T] serialises each record to JSON and appends it to a single file
// with one write call while holding an exclusive in-process lock, so records
// from concurrent requests never interleave. The parent directory is created
// on first use. Records are never rewritten or removed; rotation is left to
// external tooling.
//
// Two layouts are supported: JSON lines (the default) and pretty-printed
// blocks separated by a blank line (WithPretty). Read and Tail decode both.
//
//	j := audit.NewJournal[Record]("logs/contact_log.txt")
//	if err := j.Append(ctx, rec); err != nil {
//	    log.ErrorContext(ctx, "audit append failed", logger.Error(err))
//	}
//
//	last, err := j.Tail(ctx, 20)
package audit
