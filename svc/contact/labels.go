package contact

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

//go:embed locale/ja.yaml
var defaultLabelsYAML []byte

// Labels is every natural-language string used in mail bodies, subjects and
// user-facing messages. Values may contain {site}, {url}, {name},
// {subject}, {field} and {max} placeholders where noted in the default file.
type Labels struct {
	Site       Site        `yaml:"site"`
	DateFormat string      `yaml:"date_format"`
	TimeZone   string      `yaml:"time_zone"`
	Fields     FieldLabels `yaml:"fields"`
	Admin      AdminText   `yaml:"admin"`
	Reply      ReplyText   `yaml:"reply"`
	Messages   Messages    `yaml:"messages"`

	location *time.Location
}

type Site struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type FieldLabels struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Subject  string `yaml:"subject"`
	Budget   string `yaml:"budget"`
	Deadline string `yaml:"deadline"`
	Message  string `yaml:"message"`
	Privacy  string `yaml:"privacy"`
}

type AdminText struct {
	Subject        string `yaml:"subject"`
	Intro          string `yaml:"intro"`
	Heading        string `yaml:"heading"`
	SentAt         string `yaml:"sent_at"`
	RemoteAddr     string `yaml:"remote_addr"`
	MessageHeading string `yaml:"message_heading"`
	Footer         string `yaml:"footer"`
}

type ReplyText struct {
	Subject        string `yaml:"subject"`
	Greeting       string `yaml:"greeting"`
	Intro          string `yaml:"intro"`
	Heading        string `yaml:"heading"`
	ReceivedAt     string `yaml:"received_at"`
	MessageHeading string `yaml:"message_heading"`
	Closing        string `yaml:"closing"`
	Footer         string `yaml:"footer"`
}

type Messages struct {
	Required    map[string]string `yaml:"required"`
	RequiredAny string            `yaml:"required_any"`
	Email       string            `yaml:"email"`
	Consent     string            `yaml:"consent"`
	MaxLength   string            `yaml:"max_length"`
	Forgery     string            `yaml:"forgery"`
	SendFailed  string            `yaml:"send_failed"`
	System      string            `yaml:"system"`
	Success     string            `yaml:"success"`
}

// DefaultLabels returns the embedded Japanese labels.
func DefaultLabels() *Labels {
	l, err := ParseLabels(defaultLabelsYAML)
	if err != nil {
		panic(fmt.Sprintf("contact: embedded labels: %v", err))
	}
	return l
}

// LoadLabels reads a YAML file and overlays it on the defaults, so an
// override file only needs the keys it changes.
func LoadLabels(path string) (*Labels, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrLabels, err)
	}
	return ParseLabels(defaultLabelsYAML, data)
}

// ParseLabels decodes each document in order onto the same value.
func ParseLabels(docs ...[]byte) (*Labels, error) {
	l := &Labels{}
	for _, doc := range docs {
		dec := yaml.NewDecoder(bytes.NewReader(doc))
		dec.KnownFields(true)
		if err := dec.Decode(l); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Join(ErrLabels, err)
		}
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Labels) validate() error {
	switch {
	case l.Site.Name == "":
		return fmt.Errorf("%w: site.name is required", ErrLabels)
	case l.DateFormat == "":
		return fmt.Errorf("%w: date_format is required", ErrLabels)
	case l.Admin.Subject == "" || l.Reply.Subject == "":
		return fmt.Errorf("%w: admin.subject and reply.subject are required", ErrLabels)
	}
	l.location = time.Local
	if l.TimeZone != "" {
		loc, err := time.LoadLocation(l.TimeZone)
		if err != nil {
			return errors.Join(ErrLabels, err)
		}
		l.location = loc
	}
	return nil
}

// FormatTime renders t with the configured layout and zone.
func (l *Labels) FormatTime(t time.Time) string {
	if l.location != nil {
		t = t.In(l.location)
	}
	return t.Format(l.DateFormat)
}

// expand substitutes placeholders in one pass; inserted values are never
// expanded again.
func (l *Labels) expand(s string, pairs ...string) string {
	base := []string{"{site}", l.Site.Name, "{url}", l.Site.URL}
	return strings.NewReplacer(append(base, pairs...)...).Replace(s)
}

func (l *Labels) required(field string) string {
	if msg, ok := l.Messages.Required[field]; ok && msg != "" {
		return msg
	}
	return l.Messages.RequiredAny
}

func (l *Labels) maxLength(field string, max int) string {
	return l.expand(l.Messages.MaxLength, "{field}", l.fieldLabel(field), "{max}", strconv.Itoa(max))
}

func (l *Labels) fieldLabel(field string) string {
	switch field {
	case FieldName:
		return l.Fields.Name
	case FieldEmail:
		return l.Fields.Email
	case FieldPhone:
		return l.Fields.Phone
	case FieldSubject:
		return l.Fields.Subject
	case FieldBudget:
		return l.Fields.Budget
	case FieldDeadline:
		return l.Fields.Deadline
	case FieldMessage:
		return l.Fields.Message
	case FieldPrivacy:
		return l.Fields.Privacy
	}
	return field
}
