package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophticket/internal/buildinfo"
	"github.com/dmitrijs2005/gophticket/internal/client/cli"
	"github.com/dmitrijs2005/gophticket/internal/client/config"
	"github.com/dmitrijs2005/gophticket/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error(ctx, "close", "error", err)
		}
	}()

	logger.Debug(ctx, "starting", "build", buildinfo.Full(), "storage", cfg.StorageDriver, "payment", cfg.PaymentProvider)
	app.Run(ctx)
}
