package cmd

import (
	"fmt"

	"HelpBot/server"

	"github.com/go-telegram/bot"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Register the webhook with Telegram and serve updates over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireWebhook(); err != nil {
				return err
			}

			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.close()

			b, err := bot.New(cfg.BotToken, a.botOptions()...)
			if err != nil {
				return fmt.Errorf("error creating bot: %w", err)
			}
			if _, err := b.SetWebhook(ctx, &bot.SetWebhookParams{
				URL:         cfg.WebhookURL(),
				SecretToken: cfg.WebhookSecret,
			}); err != nil {
				return fmt.Errorf("error setting webhook: %w", err)
			}

			go b.StartWebhook(ctx)
			go a.engine.RunSweeper(ctx, a.sweepInterval())

			logger.Info().Str("addr", cfg.ListenAddr()).Msg("serving webhook")
			srv := server.New(cfg.BotToken, b.WebhookHandler(), a.registry, logger.With().Str("component", "server").Logger())
			if err := srv.ListenAndServe(ctx, cfg.ListenAddr()); err != nil {
				return err
			}
			logger.Info().Msg("bot stopped")
			return nil
		},
	}
}
