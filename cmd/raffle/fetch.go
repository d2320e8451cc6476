package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"holderRaffle/internal/chain"
	"holderRaffle/internal/config"
	"holderRaffle/internal/covalent"
	"holderRaffle/internal/ingest"
	"holderRaffle/internal/storage"
)

func runFetch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFetch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tokens, err := config.ParseTokens(cfg.Tokens)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return fmt.Errorf("token list is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var source ingest.HolderSource
	switch strings.ToLower(cfg.Source) {
	case "covalent":
		if cfg.APIKey == "" {
			return fmt.Errorf("api key is required")
		}
		client, err := covalent.NewClient(covalent.Config{
			BaseURL:     cfg.APIURL,
			APIKey:      cfg.APIKey,
			ChainName:   cfg.ChainName,
			BlockHeight: cfg.BlockHeight,
			PageSize:    cfg.PageSize,
		})
		if err != nil {
			return err
		}
		source = client
	case "chain":
		if cfg.RPCURL == "" {
			return fmt.Errorf("rpc url is required")
		}
		chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			return fmt.Errorf("connect rpc: %w", err)
		}
		defer chainClient.Close()

		chainID, err := chainClient.GetChainID(ctx)
		if err != nil {
			return fmt.Errorf("get chain id: %w", err)
		}
		for _, token := range tokens {
			decimals, err := chain.Decimals(ctx, chainClient, common.HexToAddress(token.Address))
			if err != nil {
				logger.Warn("read token decimals failed", zap.String("token", token.Symbol), zap.Error(err))
				continue
			}
			if decimals != token.Decimals {
				logger.Warn("configured decimals differ from chain",
					zap.String("token", token.Symbol),
					zap.Uint8("configured", token.Decimals),
					zap.Uint8("chain", decimals),
				)
			}
		}

		chainSource, err := ingest.NewChainSource(ingest.ChainSourceConfig{
			FromBlock:     cfg.FromBlock,
			SnapshotBlock: cfg.BlockHeight,
			BatchSize:     cfg.BatchSize,
		}, chainClient)
		if err != nil {
			return err
		}
		snapshotBlock, err := chainSource.SnapshotBlock(ctx)
		if err != nil {
			return err
		}
		logger.Info("chain snapshot", zap.String("chain_id", chainID.String()), zap.Uint64("block", snapshotBlock), zap.Uint64("from", cfg.FromBlock))
		source = chainSource
	default:
		return fmt.Errorf("unsupported source: %s", cfg.Source)
	}

	store, err := openStore(ctx, cfg.Store, false)
	if err != nil {
		return err
	}
	defer store.Close()

	var snapshot storage.SnapshotSink
	if cfg.Snapshot != "" {
		snapshot = storage.NewJsonlSnapshot(cfg.Snapshot)
	}

	runner := ingest.NewRunner(ingest.RunConfig{
		Tokens:            tokens,
		CheckpointPath:    cfg.Checkpoint,
		CheckpointEnabled: cfg.CheckpointEnabled,
		MaxRetries:        cfg.MaxRetries,
		RetryBackoff:      cfg.RetryBackoff,
	}, source, store, snapshot, logger)

	logger.Info("fetch start",
		zap.String("source", source.Name()),
		zap.Int("tokens", len(tokens)),
		zap.String("block", cfg.BlockHeight),
		zap.String("store", cfg.Store.Kind),
		zap.String("location", storeLocation(cfg.Store)),
		zap.String("snapshot", cfg.Snapshot),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
		zap.String("checkpoint", cfg.Checkpoint),
	)

	if err := runner.Run(ctx); err != nil {
		return err
	}

	holders, err := store.CountHolders(ctx)
	if err != nil {
		return err
	}
	logger.Info("fetch complete", zap.Int("holders", holders))
	return nil
}
