package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/clipsync/app/clipsync"
	"github.com/dmitrymomot/clipsync/core/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := clipsync.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "clipsync: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := cfg.Logger()
	logger.SetAsDefault(log)

	app, err := clipsync.New(cfg, clipsync.WithLogger(log))
	if err != nil {
		log.Error("Failed to create app", logger.Component("app"), logger.Error(err))
		os.Exit(1)
	}

	log.Info("clipsync starting", logger.Key("addr", cfg.Server.Addr), logger.Key("env", cfg.Env))

	if err := app.Run(ctx); err != nil {
		log.Error("Failed to run server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}
	log.Info("clipsync stopped")
}
