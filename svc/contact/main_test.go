package contact_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/webtailor/contactkit/pkg/email"
	"github.com/webtailor/contactkit/svc/contact"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recordingSender keeps every message and fails when err is set.
type recordingSender struct {
	mu    sync.Mutex
	sent  []email.SendEmailParams
	err   error
	panic bool
}

func (s *recordingSender) SendEmail(_ context.Context, p email.SendEmailParams) error {
	s.mu.Lock()
	s.sent = append(s.sent, p)
	s.mu.Unlock()
	if s.panic {
		panic("transport exploded")
	}
	return s.err
}

func (s *recordingSender) calls() []email.SendEmailParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]email.SendEmailParams(nil), s.sent...)
}

func (s *recordingSender) byTag(tag string) (email.SendEmailParams, bool) {
	for _, p := range s.calls() {
		if p.Tag == tag {
			return p, true
		}
	}
	return email.SendEmailParams{}, false
}

// memoryJournal is an in-memory audit appender.
type memoryJournal struct {
	mu      sync.Mutex
	records []contact.AuditRecord
	err     error
}

func (j *memoryJournal) Append(_ context.Context, r contact.AuditRecord) error {
	if j.err != nil {
		return j.err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, r)
	return nil
}

func (j *memoryJournal) all() []contact.AuditRecord {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]contact.AuditRecord(nil), j.records...)
}

var errTransport = errors.New("smtp: connection refused")

func validSubmission() contact.Submission {
	return contact.Submission{
		Name:    "Taro",
		Email:   "taro@example.com",
		Subject: "Inquiry",
		Message: "Hello",
		Privacy: "agree",
	}
}
