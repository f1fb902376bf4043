package contact_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtailor/contactkit/svc/contact"
)

var sentAt = time.Date(2026, 4, 1, 9, 30, 15, 0, time.FixedZone("JST", 9*60*60))

func TestComposerOptionalFields(t *testing.T) {
	t.Parallel()

	c := contact.NewComposer(nil)
	labels := c.Labels()

	optional := map[string]struct {
		label string
		set   func(*contact.Submission, string)
	}{
		"phone":    {labels.Fields.Phone, func(s *contact.Submission, v string) { s.Phone = v }},
		"budget":   {labels.Fields.Budget, func(s *contact.Submission, v string) { s.Budget = v }},
		"deadline": {labels.Fields.Deadline, func(s *contact.Submission, v string) { s.Deadline = v }},
	}

	for name, field := range optional {
		t.Run(name+" present", func(t *testing.T) {
			t.Parallel()

			sub := validSubmission()
			field.set(&sub, "value-"+name)
			sub = sub.Sanitized()

			admin, err := c.AdminNotice(sub, "203.0.113.7", sentAt)
			require.NoError(t, err)
			reply, err := c.AutoReply(sub, sentAt)
			require.NoError(t, err)

			line := field.label + ": value-" + name + "\n"
			assert.Contains(t, admin, line)
			assert.Contains(t, reply, line)
		})

		t.Run(name+" absent", func(t *testing.T) {
			t.Parallel()

			sub := validSubmission()
			field.set(&sub, "   ")
			sub = sub.Sanitized()

			admin, err := c.AdminNotice(sub, "203.0.113.7", sentAt)
			require.NoError(t, err)
			reply, err := c.AutoReply(sub, sentAt)
			require.NoError(t, err)

			assert.NotContains(t, admin, field.label+":")
			assert.NotContains(t, reply, field.label+":")
		})
	}
}

func TestComposerAdminNotice(t *testing.T) {
	t.Parallel()

	c := contact.NewComposer(nil)
	sub := validSubmission()
	sub.Message = "一行目\n二行目 <b>"
	sub = sub.Sanitized()

	body, err := c.AdminNotice(sub, "203.0.113.7", sentAt)
	require.NoError(t, err)

	want := strings.Join([]string{
		"WEBテーラーのサイトからお問い合わせがありました。",
		"",
		"【お問い合わせ内容】",
		"送信日時: 2026年04月01日 09:30:15",
		"送信元IP: 203.0.113.7",
		"お名前: Taro",
		"メールアドレス: taro@example.com",
		"件名: Inquiry",
		"",
		"【メッセージ・ご要望】",
		"一行目",
		"二行目 &lt;b&gt;",
		"",
		"---",
		"このメールは WEBテーラー のお問い合わせフォームから送信されました。",
		"サイトURL: https://webtailor.jp",
		"",
	}, "\n")
	assert.Equal(t, want, body)
}

func TestComposerAutoReply(t *testing.T) {
	t.Parallel()

	c := contact.NewComposer(nil)
	body, err := c.AutoReply(validSubmission().Sanitized(), sentAt)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(body, "Taro 様\n\nこの度は、WEBテーラーにお問い合わせいただき"))
	assert.Contains(t, body, "受付日時: 2026年04月01日 09:30:15\n")
	assert.Contains(t, body, "【メッセージ・ご要望】\nHello\n\n内容を確認の上")
	assert.True(t, strings.HasSuffix(body, "---\nWEBテーラー\nサイト: https://webtailor.jp\n"))
	assert.NotContains(t, body, "送信元IP")
}

func TestComposerSubjects(t *testing.T) {
	t.Parallel()

	c := contact.NewComposer(nil)
	sub := validSubmission()
	sub.Subject = "Q&A\r\nBcc: victim@example.com"

	subject := c.AdminSubject(sub.Sanitized())
	assert.Equal(t, "【WEBテーラー】お問い合わせがありました - Q&A Bcc: victim@example.com", subject)
	assert.NotContains(t, subject, "\n")

	assert.Equal(t, "【WEBテーラー】お問い合わせありがとうございます", c.ReplySubject())
}

func TestComposerCustomLabels(t *testing.T) {
	t.Parallel()

	labels, err := contact.ParseLabels([]byte(`
site:
  name: Example Studio
  url: https://studio.example
date_format: "2006-01-02 15:04"
time_zone: UTC
admin:
  subject: "[{site}] {subject}"
reply:
  subject: "Thanks from {site}"
  greeting: "Dear {name},"
`))
	require.NoError(t, err)

	c := contact.NewComposer(labels)
	assert.Equal(t, "[Example Studio] Inquiry", c.AdminSubject(validSubmission()))
	assert.Equal(t, "Thanks from Example Studio", c.ReplySubject())

	reply, err := c.AutoReply(validSubmission(), sentAt)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reply, "Dear Taro,\n"))
	assert.Contains(t, reply, "2026-04-01 00:30")
}
