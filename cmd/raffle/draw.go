package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"holderRaffle/internal/config"
	"holderRaffle/internal/holders"
	"holderRaffle/internal/ingest"
	"holderRaffle/internal/report"
	"holderRaffle/internal/sampler"
	"holderRaffle/internal/storage"
)

func runDraw(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadDraw(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Winners < 0 {
		return fmt.Errorf("%w: %d", sampler.ErrInvalidWinnerCount, cfg.Winners)
	}
	tokens, err := config.ParseTokens(cfg.Tokens)
	if err != nil {
		return err
	}
	excluded, err := ingest.ParseAddresses(cfg.Exclude)
	if err != nil {
		return fmt.Errorf("parse exclude: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Store, true)
	if err != nil {
		if isNoData(err) {
			logger.Error("holder store not found", zap.String("location", storeLocation(cfg.Store)))
		}
		return err
	}
	defer store.Close()

	records, err := storage.LoadAll(ctx, store, cfg.PageSize)
	if err != nil {
		if isNoData(err) {
			logger.Error("holder store is empty", zap.String("location", storeLocation(cfg.Store)))
		}
		return err
	}

	pool, err := holders.Aggregate(records, holders.ExclusionSet(excluded))
	if err != nil {
		return err
	}
	total := holders.PoolTotal(pool)

	var src sampler.Source = sampler.CryptoSource{}
	if cfg.Seed != 0 {
		src = sampler.NewSeededSource(cfg.Seed)
	}

	logger.Info("draw start",
		zap.Int("records", len(records)),
		zap.Int("excluded", len(excluded)),
		zap.Int("eligible", len(pool)),
		zap.String("total_weight", total.String()),
		zap.Int("winners", cfg.Winners),
		zap.Int64("seed", cfg.Seed),
	)

	winners, err := sampler.SelectWinners(pool, cfg.Winners, src)
	if err != nil {
		return err
	}
	if len(pool) == 0 {
		logger.Warn("no eligible holders, nothing to draw")
	} else if len(winners) < cfg.Winners {
		logger.Warn("fewer eligible holders than winners requested",
			zap.Int("requested", cfg.Winners),
			zap.Int("drawn", len(winners)),
		)
	}

	rows := report.BuildRows(winners, tokens, total, report.Options{
		Decimals:  cfg.Decimals,
		Precision: cfg.Precision,
	})

	out, err := report.OpenOutput(cfg.Out)
	if err != nil {
		return err
	}
	if err := report.Render(out, cfg.Format, rows, report.Symbols(tokens)); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	logger.Info("draw complete",
		zap.Int("drawn", len(winners)),
		zap.String("format", cfg.Format),
		zap.String("out", cfg.Out),
	)
	return nil
}
