// Package cmd holds the helpbot command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"HelpBot/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the helpbot command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "helpbot",
		Short:         "Telegram intake bot that forwards help requests to a support desk",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newPollCommand(), newTestReportCommand())
	return root
}

// Execute runs the command line with ctx, which is canceled on SIGINT/SIGTERM
// by main.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// loadConfig reads the environment and sets up the global logger from it.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, log.Logger, err
	}
	logger, err := newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, log.Logger, err
	}
	log.Logger = logger
	return cfg, logger, nil
}

func newLogger(out io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	switch format {
	case "json":
	case "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	default:
		return zerolog.Logger{}, fmt.Errorf("LOG_FORMAT must be json or console, got %q", format)
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
