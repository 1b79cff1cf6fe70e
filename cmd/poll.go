package cmd

import (
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/spf13/cobra"
)

// newPollCommand runs the bot with long polling, for local development where
// no public HTTPS endpoint exists.
func newPollCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Fetch updates with long polling instead of a webhook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, logger, err := loadConfig()
			if err != nil {
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
			// updates are not delivered by getUpdates while a webhook is set
			if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{}); err != nil {
				return fmt.Errorf("error deleting webhook: %w", err)
			}

			go a.engine.RunSweeper(ctx, a.sweepInterval())

			logger.Info().Msg("polling for updates")
			b.Start(ctx)
			logger.Info().Msg("bot stopped")
			return nil
		},
	}
}
