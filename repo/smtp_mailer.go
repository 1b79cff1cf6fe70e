package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// Mail is one outbound plain-text message.
type Mail struct {
	Subject string
	From    string
	To      string
	Body    string
}

// SMTPConfig describes the submission endpoint. Port 465 means implicit TLS.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// SMTPMailer submits mail over an implicit-TLS SMTP connection with PLAIN auth.
// A new connection is dialed per message.
type SMTPMailer struct {
	config SMTPConfig
}

func NewSMTPMailer(config SMTPConfig) (*SMTPMailer, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("smtp host must be provided")
	}
	if config.Username == "" || config.Password == "" {
		return nil, fmt.Errorf("smtp username and password must be provided")
	}
	if config.Port == 0 {
		config.Port = 465
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &SMTPMailer{config: config}, nil
}

func (m *SMTPMailer) client() (*mail.Client, error) {
	return mail.NewClient(m.config.Host,
		mail.WithPort(m.config.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.config.Username),
		mail.WithPassword(m.config.Password),
		mail.WithTimeout(m.config.Timeout),
	)
}

// Send builds the message and delivers it. Nothing is retried.
func (m *SMTPMailer) Send(ctx context.Context, msg Mail) error {
	out := mail.NewMsg()
	if err := out.From(msg.From); err != nil {
		return fmt.Errorf("error setting from address: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return fmt.Errorf("error setting to address: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.Body)

	client, err := m.client()
	if err != nil {
		return fmt.Errorf("error creating smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("error sending mail via %s:%d: %w", m.config.Host, m.config.Port, err)
	}
	return nil
}
