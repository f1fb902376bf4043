package audit

import "errors"

var (
	// ErrAppend wraps any failure to persist a record.
	ErrAppend = errors.New("audit: failed to append record")

	// ErrRead wraps failures while reading the journal back.
	ErrRead = errors.New("audit: failed to read journal")

	// ErrNoPath is returned when a journal is created without a file path.
	ErrNoPath = errors.New("audit: journal path is empty")
)
