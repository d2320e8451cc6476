package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"holderRaffle/internal/model"
	"holderRaffle/internal/storage"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS holder_balances (
	address    TEXT NOT NULL,
	token      TEXT NOT NULL,
	balance    TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (address, token)
)`

// Store provides Postgres persistence for holder balances.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// EnsureSchema creates the holder_balances table if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Exists reports whether the holder_balances table is present.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	var exists bool
	row := s.pool.QueryRow(ctx, `SELECT to_regclass('holder_balances') IS NOT NULL`)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// UpsertBalances inserts or updates balances for a token.
func (s *Store) UpsertBalances(ctx context.Context, token string, balances []model.TokenBalance) error {
	if len(balances) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, b := range balances {
		batch.Queue(`
			INSERT INTO holder_balances (address, token, balance, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (address, token)
			DO UPDATE SET
				balance = EXCLUDED.balance,
				updated_at = now()
		`,
			b.Address,
			token,
			b.Balance,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range balances {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) CountHolders(ctx context.Context) (int, error) {
	if err := s.requireTable(ctx); err != nil {
		return 0, err
	}
	var count int
	row := s.pool.QueryRow(ctx, `SELECT count(DISTINCT address) FROM holder_balances`)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListHolders returns a page of holders ordered bytewise by address.
func (s *Store) ListHolders(ctx context.Context, limit, offset int) ([]model.HolderRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	if err := s.requireTable(ctx); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT address, jsonb_object_agg(token, balance)
		FROM holder_balances
		GROUP BY address
		ORDER BY address COLLATE "C"
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.HolderRecord, 0, limit)
	for rows.Next() {
		var record model.HolderRecord
		if err := rows.Scan(&record.Address, &record.Balances); err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAll removes every balance row and returns the number of holders removed.
func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	exists, err := s.Exists(ctx)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}

	var count int
	row := s.pool.QueryRow(ctx, `
		WITH deleted AS (DELETE FROM holder_balances RETURNING address)
		SELECT count(DISTINCT address) FROM deleted
	`)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) requireTable(ctx context.Context) error {
	exists, err := s.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return storage.ErrNoData
	}
	return nil
}
