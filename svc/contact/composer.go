package contact

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/webtailor/contactkit/pkg/sanitizer"
)

var mailTemplates = template.Must(template.New("mail").Parse(`
{{- define "rows" -}}
{{.StampLabel}}: {{.Stamp}}
{{if .RemoteAddr}}{{.RemoteLabel}}: {{.RemoteAddr}}
{{end}}{{range .Rows}}{{.Label}}: {{.Value}}
{{end}}
{{.MessageHeading}}
{{.Message}}
{{end -}}

{{- define "admin" -}}
{{.Intro}}

{{.Heading}}
{{template "rows" .}}
---
{{.Footer}}
{{end -}}

{{- define "reply" -}}
{{.Greeting}}

{{.Intro}}

{{.Heading}}
{{template "rows" .}}
{{.Closing}}

---
{{.Footer}}
{{end -}}
`))

type row struct {
	Label string
	Value string
}

type mailView struct {
	Greeting       string
	Intro          string
	Heading        string
	StampLabel     string
	Stamp          string
	RemoteLabel    string
	RemoteAddr     string
	Rows           []row
	MessageHeading string
	Message        string
	Closing        string
	Footer         string
}

// Composer renders the admin notice and the auto-reply as plain UTF-8 text.
// Submissions are expected to be sanitized already; values are written as
// they are.
type Composer struct {
	labels *Labels
}

// NewComposer returns a composer using labels, or the embedded defaults when
// labels is nil.
func NewComposer(labels *Labels) *Composer {
	if labels == nil {
		labels = DefaultLabels()
	}
	return &Composer{labels: labels}
}

func (c *Composer) Labels() *Labels { return c.labels }

// AdminSubject is the notice subject line. Header values are MIME encoded
// on the wire, so the submitted subject is unescaped and folded to one line.
func (c *Composer) AdminSubject(sub Submission) string {
	s := c.labels.expand(c.labels.Admin.Subject, "{subject}", headerValue(sub.Subject))
	return strings.TrimSpace(sanitizer.SingleLine(s))
}

// ReplySubject is the fixed auto-reply subject line.
func (c *Composer) ReplySubject() string {
	return strings.TrimSpace(sanitizer.SingleLine(c.labels.expand(c.labels.Reply.Subject)))
}

// AdminNotice renders the site owner's notification.
func (c *Composer) AdminNotice(sub Submission, remoteAddr string, at time.Time) (string, error) {
	l := c.labels
	return c.render("admin", mailView{
		Intro:          l.expand(l.Admin.Intro),
		Heading:        l.Admin.Heading,
		StampLabel:     l.Admin.SentAt,
		Stamp:          l.FormatTime(at),
		RemoteLabel:    l.Admin.RemoteAddr,
		RemoteAddr:     remoteAddr,
		Rows:           c.rows(sub),
		MessageHeading: l.Admin.MessageHeading,
		Message:        sub.Message,
		Footer:         l.expand(l.Admin.Footer),
	})
}

// AutoReply renders the acknowledgement sent to the submitter.
func (c *Composer) AutoReply(sub Submission, at time.Time) (string, error) {
	l := c.labels
	return c.render("reply", mailView{
		Greeting:       l.expand(l.Reply.Greeting, "{name}", sub.Name),
		Intro:          l.expand(l.Reply.Intro),
		Heading:        l.Reply.Heading,
		StampLabel:     l.Reply.ReceivedAt,
		Stamp:          l.FormatTime(at),
		Rows:           c.rows(sub),
		MessageHeading: l.Reply.MessageHeading,
		Message:        sub.Message,
		Closing:        l.expand(l.Reply.Closing),
		Footer:         l.expand(l.Reply.Footer),
	})
}

// rows lists name, email and subject always; phone, budget and deadline only
// when present.
func (c *Composer) rows(sub Submission) []row {
	f := c.labels.Fields
	rows := []row{
		{f.Name, sub.Name},
		{f.Email, sub.Email},
	}
	if present(sub.Phone) {
		rows = append(rows, row{f.Phone, sub.Phone})
	}
	rows = append(rows, row{f.Subject, sub.Subject})
	if present(sub.Budget) {
		rows = append(rows, row{f.Budget, sub.Budget})
	}
	if present(sub.Deadline) {
		rows = append(rows, row{f.Deadline, sub.Deadline})
	}
	return rows
}

func (c *Composer) render(name string, v mailView) (string, error) {
	var buf bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&buf, name, v); err != nil {
		return "", fmt.Errorf("contact: render %s mail: %w", name, err)
	}
	return buf.String(), nil
}

// headerValue turns a sanitized field into a mail header value.
func headerValue(s string) string {
	return strings.TrimSpace(sanitizer.SingleLine(sanitizer.RemoveControlChars(sanitizer.UnescapeHTML(s))))
}
