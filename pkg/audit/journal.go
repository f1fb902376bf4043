package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Appender is the write side of a journal.
type Appender[T any] interface {
	Append(ctx context.Context, record T) error
}

const (
	fileMode fs.FileMode = 0o640
	dirMode  fs.FileMode = 0o750
)

// Journal is a file-backed append-only log of T records.
type Journal[T any] struct {
	path   string
	pretty bool

	mu sync.Mutex
}

// Option configures a Journal.
type Option func(*journalOptions)

type journalOptions struct {
	pretty bool
}

// WithPretty writes indented JSON blocks separated by a blank line instead of
// one record per line.
func WithPretty() Option {
	return func(o *journalOptions) { o.pretty = true }
}

// NewJournal creates a journal writing to path. The file is not touched until
// the first Append.
func NewJournal[T any](path string, opts ...Option) *Journal[T] {
	var o journalOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Journal[T]{
		path:   path,
		pretty: o.pretty,
	}
}

// Path returns the journal file location.
func (j *Journal[T]) Path() string {
	return j.path
}

// Append encodes record and appends it in a single write.
func (j *Journal[T]) Append(ctx context.Context, record T) error {
	if j.path == "" {
		return errors.Join(ErrAppend, ErrNoPath)
	}
	if err := ctx.Err(); err != nil {
		return errors.Join(ErrAppend, err)
	}

	data, err := j.encode(record)
	if err != nil {
		return errors.Join(ErrAppend, err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.path), dirMode); err != nil {
		return errors.Join(ErrAppend, err)
	}

	f, err := os.OpenFile(j.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, fileMode)
	if err != nil {
		return errors.Join(ErrAppend, err)
	}

	_, werr := f.Write(data)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		return errors.Join(ErrAppend, werr, cerr)
	}
	return nil
}

func (j *Journal[T]) encode(record T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// keep Japanese text and escaped entities readable in the file
	enc.SetEscapeHTML(false)
	if j.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(record); err != nil {
		return nil, err
	}
	if j.pretty {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Read streams every record to fn in file order. A missing file yields no
// records. Returning an error from fn stops the iteration and is passed
// through unchanged.
func (j *Journal[T]) Read(ctx context.Context, fn func(T) error) error {
	f, err := os.Open(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Join(ErrRead, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var record T
		err := dec.Decode(&record)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.Join(ErrRead, err)
		}
		if err := fn(record); err != nil {
			return err
		}
	}
}

// Tail returns the last n records, oldest first.
func (j *Journal[T]) Tail(ctx context.Context, n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}

	ring := make([]T, 0, n)
	start := 0
	err := j.Read(ctx, func(record T) error {
		if len(ring) < n {
			ring = append(ring, record)
			return nil
		}
		ring[start] = record
		start = (start + 1) % n
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(ring))
	out = append(out, ring[start:]...)
	out = append(out, ring[:start]...)
	return out, nil
}
