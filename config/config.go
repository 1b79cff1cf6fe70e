// Package config loads the bot's settings from the process environment.
package config

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	BotToken      string `env:"BOT_TOKEN,required"`
	BotURL        string `env:"BOT_URL"`
	Port          int    `env:"PORT" envDefault:"8443"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	EmailServer    string        `env:"EMAIL_SERVER" envDefault:"smtp.gmail.com"`
	EmailPort      int           `env:"EMAIL_PORT" envDefault:"465"`
	EmailUser      string        `env:"EMAIL_USER,required"`
	EmailPassword  string        `env:"EMAIL_PASSWD,required"`
	EmailTimeout   time.Duration `env:"EMAIL_TIMEOUT" envDefault:"30s"`
	SendMessagesTo string        `env:"SEND_MESSAGES_TO,required"`

	ConfirmContacts bool          `env:"CONFIRM_CONTACTS" envDefault:"true"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"0"`
	RedisURL        string        `env:"REDIS_URL"`

	Languages    []string `env:"LANGUAGES" envSeparator:"," envDefault:"en,uk,ro"`
	LanguageMode string   `env:"LANGUAGE_MODE" envDefault:"all"`

	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string `env:"TWILIO_FROM_NUMBER"`
	SMSAlertTo       string `env:"SMS_ALERT_TO"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads an optional .env file, then the environment, and validates the
// result. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	// a missing .env is normal in production
	_ = godotenv.Load()
	return Parse(env.Options{})
}

// Parse builds a Config from opts; tests pass their own Environment.
func Parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	for i, lang := range cfg.Languages {
		cfg.Languages[i] = strings.TrimSpace(lang)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the rules env tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}
	if c.EmailPort <= 0 || c.EmailPort > 65535 {
		errs = append(errs, fmt.Errorf("EMAIL_PORT %d is out of range", c.EmailPort))
	}
	if _, err := mail.ParseAddress(c.EmailUser); err != nil {
		errs = append(errs, fmt.Errorf("EMAIL_USER is not an e-mail address: %w", err))
	}
	if _, err := mail.ParseAddress(c.SendMessagesTo); err != nil {
		errs = append(errs, fmt.Errorf("SEND_MESSAGES_TO is not an e-mail address: %w", err))
	}
	if c.SessionTTL < 0 {
		errs = append(errs, errors.New("SESSION_TTL must not be negative"))
	}
	if len(c.Languages) == 0 {
		errs = append(errs, errors.New("LANGUAGES must name at least one language"))
	}
	if c.LanguageMode != "all" && c.LanguageMode != "user" {
		errs = append(errs, fmt.Errorf("LANGUAGE_MODE must be all or user, got %q", c.LanguageMode))
	}
	if c.BotURL != "" {
		if u, err := url.Parse(c.BotURL); err != nil || u.Scheme != "https" || u.Host == "" {
			errs = append(errs, fmt.Errorf("BOT_URL must be an https URL, got %q", c.BotURL))
		}
	}
	twilio := []string{c.TwilioAccountSID, c.TwilioAuthToken, c.TwilioFrom, c.SMSAlertTo}
	set := 0
	for _, v := range twilio {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != len(twilio) {
		errs = append(errs, errors.New("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_FROM_NUMBER and SMS_ALERT_TO must be set together"))
	}
	return errors.Join(errs...)
}

// RequireWebhook checks the settings only the webhook mode needs.
func (c *Config) RequireWebhook() error {
	if c.BotURL == "" {
		return errors.New("BOT_URL is required to serve the webhook")
	}
	return nil
}

// WebhookURL is where Telegram posts updates: the public base URL followed
// by the bot token.
func (c *Config) WebhookURL() string {
	return strings.TrimSuffix(c.BotURL, "/") + "/" + c.BotToken
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}

func (c *Config) SMSEnabled() bool {
	return c.TwilioAccountSID != ""
}
