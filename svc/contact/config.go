package contact

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/webtailor/contactkit/pkg/audit"
	"github.com/webtailor/contactkit/pkg/email"
	"github.com/webtailor/contactkit/pkg/validator"
)

// Blank modes for required-field checks.
const (
	BlankStrict = "strict" // only empty or whitespace is missing
	BlankLoose  = "loose"  // "0" is missing too
)

// Config is the contact service configuration.
type Config struct {
	Policy      string `env:"CONTACT_POLICY" envDefault:"strict"`
	AdminEmail  string `env:"CONTACT_ADMIN_EMAIL"`
	AdminNotify bool   `env:"CONTACT_ADMIN_NOTIFY" envDefault:"true"`

	ReplyFrom     string `env:"CONTACT_REPLY_FROM" envDefault:"noreply@webtailor.jp"`
	ReplyFromName string `env:"CONTACT_REPLY_FROM_NAME"`

	// MailTimeout bounds each mail call. Zero leaves the transport's own
	// limits in place.
	MailTimeout time.Duration `env:"CONTACT_MAIL_TIMEOUT" envDefault:"10s"`

	FormPath    string `env:"CONTACT_FORM_PATH" envDefault:"/contact"`
	ConfirmPath string `env:"CONTACT_CONFIRM_PATH" envDefault:"/contact-confirm"`
	ThanksPath  string `env:"CONTACT_THANKS_PATH" envDefault:"/contact-thanks"`

	AuditLogPath string `env:"CONTACT_AUDIT_LOG_PATH" envDefault:"logs/contact_log.txt"`
	AuditPretty  bool   `env:"CONTACT_AUDIT_PRETTY" envDefault:"false"`

	LabelsFile string `env:"CONTACT_LABELS_FILE"`
	SiteName   string `env:"CONTACT_SITE_NAME"`
	SiteURL    string `env:"CONTACT_SITE_URL"`

	NameMaxLen    int    `env:"CONTACT_NAME_MAX_LEN" envDefault:"100"`
	MessageMaxLen int    `env:"CONTACT_MESSAGE_MAX_LEN" envDefault:"2000"`
	ConsentValue  string `env:"CONTACT_CONSENT_VALUE" envDefault:"agree"`
	BlankMode     string `env:"CONTACT_BLANK_MODE" envDefault:"strict"`
}

// Validate reports the first configuration problem.
func (c Config) Validate() error {
	policy, err := ParsePolicy(c.Policy)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if policy == PolicyConfirm {
		return fmt.Errorf("%w: the send step cannot use the confirm policy", ErrInvalidConfig)
	}
	if c.AdminNotify && c.AdminEmail == "" {
		return fmt.Errorf("%w: CONTACT_ADMIN_EMAIL is required when admin notification is on", ErrInvalidConfig)
	}
	if c.AdminEmail != "" {
		if err := validator.ApplyFirst(validator.ValidEmail("admin_email", c.AdminEmail)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if c.BlankMode != BlankStrict && c.BlankMode != BlankLoose && c.BlankMode != "" {
		return fmt.Errorf("%w: unknown blank mode %q", ErrInvalidConfig, c.BlankMode)
	}
	if c.MailTimeout < 0 {
		return fmt.Errorf("%w: CONTACT_MAIL_TIMEOUT must not be negative", ErrInvalidConfig)
	}
	if c.AuditLogPath == "" {
		return fmt.Errorf("%w: CONTACT_AUDIT_LOG_PATH is required", ErrInvalidConfig)
	}
	return nil
}

func (c Config) Redirects() Redirects {
	return Redirects{Form: c.FormPath, Confirm: c.ConfirmPath, Thanks: c.ThanksPath}
}

func (c Config) RuleConfig() RuleConfig {
	rc := RuleConfig{
		NameMaxLen:    c.NameMaxLen,
		MessageMaxLen: c.MessageMaxLen,
		ConsentValue:  c.ConsentValue,
		Blank:         validator.IsBlank,
	}
	if c.BlankMode == BlankLoose {
		rc.Blank = validator.IsEmptyLoose
	}
	return rc.withDefaults()
}

// Labels loads the labels file when set, then applies the site overrides.
func (c Config) Labels() (*Labels, error) {
	labels := DefaultLabels()
	if c.LabelsFile != "" {
		var err error
		if labels, err = LoadLabels(c.LabelsFile); err != nil {
			return nil, err
		}
	}
	if c.SiteName != "" {
		labels.Site.Name = c.SiteName
	}
	if c.SiteURL != "" {
		labels.Site.URL = c.SiteURL
	}
	return labels, nil
}

// NewJournal opens the audit journal described by c.
func (c Config) NewJournal() *audit.Journal[AuditRecord] {
	var opts []audit.Option
	if c.AuditPretty {
		opts = append(opts, audit.WithPretty())
	}
	return audit.NewJournal[AuditRecord](c.AuditLogPath, opts...)
}

// NewPipelinesFromConfig builds the send pipeline for the configured policy
// and the confirm pipeline.
func NewPipelinesFromConfig(cfg Config, sender email.EmailSender, journal audit.Appender[AuditRecord], log *slog.Logger) (send, confirm *Pipeline, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	labels, err := cfg.Labels()
	if err != nil {
		return nil, nil, err
	}
	policy, _ := ParsePolicy(cfg.Policy)

	opts := []PipelineOption{
		WithLogger(log),
		WithLabels(labels),
		WithRedirects(cfg.Redirects()),
		WithRuleConfig(cfg.RuleConfig()),
		WithAdminAddress(cfg.AdminEmail),
		WithAdminNotify(cfg.AdminNotify),
		WithReplyFrom(cfg.ReplyFrom, cfg.ReplyFromName),
		WithMailTimeout(cfg.MailTimeout),
	}
	send = NewPipeline(policy, sender, journal, opts...)
	confirm = NewPipeline(PolicyConfirm, nil, nil, opts...)
	return send, confirm, nil
}
