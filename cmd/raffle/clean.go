package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"holderRaffle/internal/config"
	"holderRaffle/internal/ingest"
)

func runClean(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadClean(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Store, true)
	switch {
	case isNoData(err):
		logger.Info("holder store not found, nothing to delete", zap.String("location", storeLocation(cfg.Store)))
	case err != nil:
		return err
	default:
		defer store.Close()
		deleted, err := store.DeleteAll(ctx)
		if err != nil {
			return err
		}
		logger.Info("holders deleted", zap.Int("holders", deleted), zap.String("location", storeLocation(cfg.Store)))
	}

	if err := ingest.RemoveCheckpoint(cfg.Checkpoint); err != nil {
		return err
	}
	logger.Info("clean complete", zap.String("checkpoint", cfg.Checkpoint))
	return nil
}
