package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"HelpBot/cmd"

	"github.com/rs/zerolog/log"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx); err != nil {
		log.Fatal().Err(err).Msg("helpbot stopped with an error")
	}
}
