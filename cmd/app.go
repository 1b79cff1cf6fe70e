package cmd

import (
	"context"
	"fmt"
	"time"

	"HelpBot/config"
	"HelpBot/conversation"
	"HelpBot/handler"
	"HelpBot/locale"
	"HelpBot/metrics"
	"HelpBot/notifier"
	"HelpBot/repo"

	"github.com/go-telegram/bot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

// app is everything a running bot needs, wired from the configuration.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	registry *prometheus.Registry
	notifier *notifier.Multi
	engine   *conversation.Engine
	handler  *handler.IntakeBotHandler
	closers  []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	n, err := newNotifier(cfg, logger)
	if err != nil {
		return nil, err
	}
	a.notifier = n

	store, err := a.newSessionStore(ctx)
	if err != nil {
		return nil, err
	}

	bundle, err := locale.LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("error loading locale catalogs: %w", err)
	}
	renderer, err := locale.NewRenderer(bundle, cfg.Languages, locale.Mode(cfg.LanguageMode))
	if err != nil {
		return nil, fmt.Errorf("error preparing locale renderer: %w", err)
	}

	a.engine = conversation.NewEngine(store, a.notifier,
		conversation.WithFlow(conversation.Flow{ConfirmContacts: cfg.ConfirmContacts}),
		conversation.WithMetrics(metrics.NewIntake(a.registry)),
		conversation.WithLogger(logger.With().Str("component", "conversation").Logger()),
	)
	a.handler = handler.NewIntakeBotHandler(a.engine, renderer, logger.With().Str("component", "handler").Logger())
	return a, nil
}

func (a *app) newSessionStore(ctx context.Context) (conversation.SessionStore, error) {
	if a.cfg.RedisURL == "" {
		a.logger.Info().Dur("session_ttl", a.cfg.SessionTTL).Msg("using in-memory session store")
		return repo.NewMemorySessionStore(repo.WithSessionTTL(a.cfg.SessionTTL)), nil
	}
	store, err := repo.NewRedisSessionStore(ctx, a.cfg.RedisURL,
		repo.WithRedisSessionTTL(a.cfg.SessionTTL),
		repo.WithRedisLogger(a.logger.With().Str("component", "redis").Logger()),
	)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.Close)
	a.logger.Info().Dur("session_ttl", a.cfg.SessionTTL).Msg("using redis session store")
	return store, nil
}

// newNotifier wires e-mail, plus an SMS alert when Twilio is configured.
func newNotifier(cfg *config.Config, logger zerolog.Logger) (*notifier.Multi, error) {
	mailer, err := repo.NewSMTPMailer(repo.SMTPConfig{
		Host:     cfg.EmailServer,
		Port:     cfg.EmailPort,
		Username: cfg.EmailUser,
		Password: cfg.EmailPassword,
		Timeout:  cfg.EmailTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating mailer: %w", err)
	}
	multi := notifier.NewMulti(logger.With().Str("component", "notifier").Logger())
	multi.Add("email", notifier.NewEmail(mailer, cfg.EmailUser, cfg.SendMessagesTo))

	if cfg.SMSEnabled() {
		sms, err := repo.NewTwilioSMS(repo.TwilioConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			From:       cfg.TwilioFrom,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating twilio client: %w", err)
		}
		multi.Add("sms", notifier.NewSMS(sms, cfg.SMSAlertTo))
	}
	return multi, nil
}

func (a *app) botOptions() []bot.Option {
	opts := []bot.Option{
		bot.WithDefaultHandler(a.handler.Handler),
		bot.WithErrorsHandler(func(err error) {
			a.logger.Error().Err(err).Msg("telegram error")
		}),
	}
	if a.cfg.WebhookSecret != "" {
		opts = append(opts, bot.WithWebhookSecretToken(a.cfg.WebhookSecret))
	}
	return opts
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn().Err(err).Msg("error closing resource")
		}
	}
}

// sweepInterval is how often stalled sessions are dropped; zero disables it.
func (a *app) sweepInterval() time.Duration {
	if a.cfg.SessionTTL <= 0 {
		return 0
	}
	interval := a.cfg.SessionTTL / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}
