package pebblestore

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/pebble"

	"holderRaffle/internal/model"
	"holderRaffle/internal/storage"
)

var (
	holderPrefix = []byte("h/")
	// upper bound of the holder keyspace: '/'+1
	holderEnd = []byte("h0")
)

// Store keeps balances in a local Pebble database.
// Keys are h/<address>/<token>, values the balance string.
type Store struct {
	db *pebble.DB
}

// Open opens the store at path. With mustExist set, a missing database
// yields storage.ErrNoData instead of being created.
func Open(path string, mustExist bool) (*Store, error) {
	if mustExist {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, storage.ErrNoData
			}
			return nil, fmt.Errorf("stat db: %w", err)
		}
	}

	opts := &pebble.Options{
		Cache:            pebble.NewCache(32 << 20),
		ErrorIfNotExists: mustExist,
	}
	defer opts.Cache.Unref()

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("open pebble: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// UpsertBalances writes one batch per call.
func (s *Store) UpsertBalances(ctx context.Context, token string, balances []model.TokenBalance) error {
	if len(balances) == 0 {
		return nil
	}
	if token == "" || strings.Contains(token, "/") {
		return fmt.Errorf("invalid token key: %q", token)
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	for _, b := range balances {
		if b.Address == "" || strings.Contains(b.Address, "/") {
			return fmt.Errorf("invalid address key: %q", b.Address)
		}
		if err := batch.Set(balanceKey(b.Address, token), []byte(b.Balance), nil); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}

func (s *Store) CountHolders(ctx context.Context) (int, error) {
	count := 0
	err := s.scan(ctx, func(model.HolderRecord) bool {
		count++
		return true
	})
	return count, err
}

func (s *Store) ListHolders(ctx context.Context, limit, offset int) ([]model.HolderRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	out := make([]model.HolderRecord, 0, limit)
	index := 0
	err := s.scan(ctx, func(record model.HolderRecord) bool {
		if index >= offset {
			out = append(out, record)
		}
		index++
		return len(out) < limit
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	count, err := s.CountHolders(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.db.DeleteRange(holderPrefix, holderEnd, pebble.Sync); err != nil {
		return 0, fmt.Errorf("delete holders: %w", err)
	}
	return count, nil
}

// scan visits holders in address order. Keys of one address are contiguous.
func (s *Store) scan(ctx context.Context, fn func(model.HolderRecord) bool) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: holderPrefix,
		UpperBound: holderEnd,
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	var current *model.HolderRecord
	for iter.First(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}

		address, token, ok := splitKey(iter.Key())
		if !ok {
			continue
		}
		value, err := iter.ValueAndErr()
		if err != nil {
			return err
		}

		if current != nil && current.Address != address {
			if !fn(*current) {
				return nil
			}
			current = nil
		}
		if current == nil {
			current = &model.HolderRecord{Address: address, Balances: make(map[string]string)}
		}
		current.Balances[token] = string(value)
	}
	if err := iter.Error(); err != nil {
		return err
	}
	if current != nil {
		fn(*current)
	}
	return nil
}

func balanceKey(address, token string) []byte {
	key := make([]byte, 0, len(holderPrefix)+len(address)+1+len(token))
	key = append(key, holderPrefix...)
	key = append(key, address...)
	key = append(key, '/')
	key = append(key, token...)
	return key
}

func splitKey(key []byte) (string, string, bool) {
	if !bytes.HasPrefix(key, holderPrefix) {
		return "", "", false
	}
	rest := key[len(holderPrefix):]
	idx := bytes.LastIndexByte(rest, '/')
	if idx <= 0 || idx == len(rest)-1 {
		return "", "", false
	}
	return string(rest[:idx]), string(rest[idx+1:]), true
}
