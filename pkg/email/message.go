package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"net/mail"
	"strings"
	"time"
)

const lineLength = 76

// Header is an ordered list of rendered message headers.
type Header [][2]string

// Get returns the first value for name.
func (h Header) Get(name string) string {
	for _, kv := range h {
		if strings.EqualFold(kv[0], name) {
			return kv[1]
		}
	}
	return ""
}

// Map returns the headers keyed by name.
func (h Header) Map() map[string]string {
	m := make(map[string]string, len(h))
	for _, kv := range h {
		m[kv[0]] = kv[1]
	}
	return m
}

// EncodeHeader returns s as a MIME encoded-word when it contains non-ASCII
// text and unchanged otherwise.
func EncodeHeader(s string) string {
	return mime.BEncoding.Encode("UTF-8", s)
}

// FormatAddress renders `"Display Name" <addr>` with the name encoded when
// needed.
func FormatAddress(name, addr string) string {
	if name == "" {
		return addr
	}
	encoded := EncodeHeader(name)
	if encoded != name {
		return encoded + " <" + addr + ">"
	}
	return (&mail.Address{Name: name, Address: addr}).String()
}

// BuildHeader renders the headers for params.
func BuildHeader(params SendEmailParams, date time.Time, messageID string) Header {
	h := Header{
		{"From", FormatAddress(params.FromName, params.From)},
		{"To", params.To},
	}
	if params.ReplyTo != "" {
		h = append(h, [2]string{"Reply-To", params.ReplyTo})
	}
	h = append(h,
		[2]string{"Subject", EncodeHeader(params.Subject)},
		[2]string{"Date", date.Format(time.RFC1123Z)},
	)
	if messageID != "" {
		h = append(h, [2]string{"Message-ID", "<" + messageID + ">"})
	}
	if params.Tag != "" {
		h = append(h, [2]string{"X-Tag", params.Tag})
	}
	return append(h,
		[2]string{"MIME-Version", "1.0"},
		[2]string{"Content-Type", "text/plain; charset=UTF-8"},
		[2]string{"Content-Transfer-Encoding", "base64"},
	)
}

// BuildMessage renders a complete RFC 5322 message with a base64 body.
func BuildMessage(params SendEmailParams, date time.Time, messageID string) []byte {
	var buf bytes.Buffer
	for _, kv := range BuildHeader(params, date, messageID) {
		fmt.Fprintf(&buf, "%s: %s\r\n", kv[0], kv[1])
	}
	buf.WriteString("\r\n")

	body := strings.ReplaceAll(params.BodyText, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\n", "\r\n")
	encoded := base64.StdEncoding.EncodeToString([]byte(body))
	for len(encoded) > lineLength {
		buf.WriteString(encoded[:lineLength])
		buf.WriteString("\r\n")
		encoded = encoded[lineLength:]
	}
	buf.WriteString(encoded)
	buf.WriteString("\r\n")

	return buf.Bytes()
}
