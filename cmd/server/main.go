package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"portal/internal/app/server"
	"portal/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		logger.L().Fatal().Err(err).Msg("server stopped")
	}
}
