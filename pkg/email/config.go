package email

const (
	TransportPostmark = "postmark"
	TransportSMTP     = "smtp"
	TransportDev      = "dev"
	TransportLog      = "log"
)

// Config selects and configures the mail transport.
type Config struct {
	Transport   string        `env:"MAIL_TRANSPORT" envDefault:"dev"`
	SenderEmail string        `env:"MAIL_SENDER_EMAIL" envDefault:"noreply@webtailor.jp"`
	SenderName  string        `env:"MAIL_SENDER_NAME"`

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPStartTLS bool   `env:"SMTP_STARTTLS" envDefault:"true"`
	SMTPHelo     string `env:"SMTP_HELO" envDefault:"localhost"`

	DevLogPath string `env:"MAIL_DEV_LOG_PATH" envDefault:"logs/mail_log.txt"`
}
