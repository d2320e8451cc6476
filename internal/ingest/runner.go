package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"holderRaffle/internal/model"
	"holderRaffle/internal/storage"
)

// HolderSource returns pages of holder balances for a token. Pages are 0-based.
type HolderSource interface {
	Name() string
	FetchPage(ctx context.Context, token model.Token, page int) (model.HolderPage, error)
}

// RunConfig holds runtime settings for a fetch run.
type RunConfig struct {
	Tokens            []model.Token
	CheckpointPath    string
	CheckpointEnabled bool
	MaxRetries        int
	RetryBackoff      time.Duration
}

// Runner pages holders from a source into the holder store.
type Runner struct {
	cfg        RunConfig
	source     HolderSource
	store      storage.HolderStore
	snapshot   storage.SnapshotSink
	logger     *zap.Logger
	checkpoint *CheckpointStore
}

// NewRunner builds a Runner with its dependencies. snapshot may be nil.
func NewRunner(cfg RunConfig, source HolderSource, store storage.HolderStore, snapshot storage.SnapshotSink, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	var sourceName string
	if source != nil {
		sourceName = source.Name()
	}
	return &Runner{
		cfg:        cfg,
		source:     source,
		store:      store,
		snapshot:   snapshot,
		logger:     logger,
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, sourceName, cfg.CheckpointEnabled),
	}
}

// Run fetches every configured token.
func (r *Runner) Run(ctx context.Context) error {
	if r.source == nil {
		return fmt.Errorf("holder source is nil")
	}
	if r.store == nil {
		return fmt.Errorf("holder store is nil")
	}
	if len(r.cfg.Tokens) == 0 {
		return fmt.Errorf("at least one token is required")
	}

	for _, token := range r.cfg.Tokens {
		if err := r.runToken(ctx, token); err != nil {
			return fmt.Errorf("fetch %s: %w", token.Symbol, err)
		}
	}
	return nil
}

func (r *Runner) runToken(ctx context.Context, token model.Token) error {
	page := 0
	cp, ok, err := r.checkpoint.Load(token.Symbol)
	if err != nil {
		return err
	}
	if ok {
		if cp.Complete {
			r.logger.Info("token already fetched", zap.String("token", token.Symbol), zap.Int("last_page", cp.LastPage))
			return nil
		}
		page = cp.LastPage + 1
		r.logger.Info("resume from checkpoint", zap.String("token", token.Symbol), zap.Int("page", page))
	}

	r.logger.Info("fetch token", zap.String("token", token.Symbol), zap.String("address", token.Address), zap.String("source", r.source.Name()))

	var stored, skipped, invalid int
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := r.fetchPageWithRetry(ctx, token, page)
		if err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}

		balances, zero, bad := cleanBalances(result.Balances)
		skipped += zero
		invalid += bad
		if bad > 0 {
			r.logger.Warn("invalid holder addresses", zap.String("token", token.Symbol), zap.Int("page", page), zap.Int("count", bad))
		}

		if err := r.store.UpsertBalances(ctx, token.Symbol, balances); err != nil {
			return fmt.Errorf("store balances: %w", err)
		}
		if r.snapshot != nil {
			records := buildSnapshotRecords(r.source.Name(), token.Symbol, balances, time.Now())
			if err := r.snapshot.PutSnapshotBatch(records); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
		}
		stored += len(balances)

		if err := r.checkpoint.Save(token.Symbol, page, !result.HasMore); err != nil {
			return err
		}

		r.logger.Info("page complete",
			zap.String("token", token.Symbol),
			zap.Int("page", page),
			zap.Int("holders", len(balances)),
			zap.Bool("has_more", result.HasMore),
		)

		if !result.HasMore {
			break
		}
		page++
	}

	r.logger.Info("token complete",
		zap.String("token", token.Symbol),
		zap.Int("pages", page+1),
		zap.Int("stored", stored),
		zap.Int("skipped_zero", skipped),
		zap.Int("invalid", invalid),
	)
	return nil
}

func (r *Runner) fetchPageWithRetry(ctx context.Context, token model.Token, page int) (model.HolderPage, error) {
	var result model.HolderPage
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		result, err = r.source.FetchPage(ctx, token, page)
		if err != nil {
			r.logger.Warn("fetch page failed", zap.Error(err), zap.String("token", token.Symbol), zap.Int("page", page))
		}
		return err
	})
	return result, err
}
