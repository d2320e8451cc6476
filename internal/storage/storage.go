package storage

import (
	"context"
	"errors"

	"holderRaffle/internal/model"
)

// ErrNoData is returned when the holder store was never created or holds no rows.
var ErrNoData = errors.New("no holder data, run fetch first")

// HolderStore persists per-token balances keyed by address.
type HolderStore interface {
	// UpsertBalances sets the token balance for each address, creating holders as needed.
	UpsertBalances(ctx context.Context, token string, balances []model.TokenBalance) error
	CountHolders(ctx context.Context) (int, error)
	// ListHolders returns holders ordered by address.
	ListHolders(ctx context.Context, limit, offset int) ([]model.HolderRecord, error)
	DeleteAll(ctx context.Context) (int, error)
	Close() error
}

// SnapshotSink receives fetched rows for auditing.
type SnapshotSink interface {
	PutSnapshotBatch(records []model.SnapshotRecord) error
}

// LoadAll pages through the store and returns every holder.
func LoadAll(ctx context.Context, store HolderStore, pageSize int) ([]model.HolderRecord, error) {
	if pageSize <= 0 {
		pageSize = 1000
	}

	count, err := store.CountHolders(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoData
	}

	records := make([]model.HolderRecord, 0, count)
	for offset := 0; ; offset += pageSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := store.ListHolders(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		records = append(records, page...)
		if len(page) < pageSize {
			break
		}
	}
	return records, nil
}
