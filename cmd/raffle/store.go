package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"holderRaffle/internal/config"
	"holderRaffle/internal/storage"
	"holderRaffle/internal/storage/pebblestore"
	"holderRaffle/internal/storage/postgres"
)

// openStore opens the configured holder store. Read-only commands pass
// mustExist so a store that was never fetched reports storage.ErrNoData.
func openStore(ctx context.Context, cfg config.StoreConfig, mustExist bool) (storage.HolderStore, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", "pebble":
		if cfg.DBPath == "" {
			return nil, fmt.Errorf("db path is required")
		}
		store, err := pebblestore.Open(cfg.DBPath, mustExist)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "postgres":
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if !mustExist {
			if err := store.EnsureSchema(ctx); err != nil {
				store.Close()
				return nil, err
			}
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store: %s", cfg.Kind)
	}
}

func storeLocation(cfg config.StoreConfig) string {
	if strings.ToLower(cfg.Kind) == "postgres" {
		return redactDSN(cfg.PGDSN)
	}
	return cfg.DBPath
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}

func isNoData(err error) bool {
	return errors.Is(err, storage.ErrNoData)
}
