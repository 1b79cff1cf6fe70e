package cmd

import (
	"fmt"
	"time"

	"HelpBot/model"

	"github.com/spf13/cobra"
)

func newTestReportCommand() *cobra.Command {
	var help string
	c := &cobra.Command{
		Use:   "test-report",
		Short: "Send a sample help request through the configured notifiers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			n, err := newNotifier(cfg, logger)
			if err != nil {
				return err
			}
			if err := n.Notify(cmd.Context(), sampleRecord(help)); err != nil {
				return fmt.Errorf("error sending test report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "test report sent to %s via %d notifier(s)\n", cfg.SendMessagesTo, n.Len())
			return nil
		},
	}
	c.Flags().StringVar(&help, "help-needed", "This is a test request, please ignore.", "text of the sample request")
	return c
}

func sampleRecord(help string) model.IntakeRecord {
	return model.IntakeRecord{
		UserID:             0,
		DisplayName:        "Test User",
		Username:           "",
		HelpNeeded:         help,
		Location:           model.SkippedLocation(),
		Contacts:           "Test User: +40 700 000 000",
		AdditionalContacts: "",
		StartedAt:          time.Now(),
	}
}
