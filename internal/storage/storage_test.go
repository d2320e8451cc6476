package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"holderRaffle/internal/model"
)

type memStore struct {
	rows map[string]map[string]string
}

func (m *memStore) UpsertBalances(ctx context.Context, token string, balances []model.TokenBalance) error {
	for _, b := range balances {
		if m.rows[b.Address] == nil {
			m.rows[b.Address] = map[string]string{}
		}
		m.rows[b.Address][token] = b.Balance
	}
	return nil
}

func (m *memStore) CountHolders(ctx context.Context) (int, error) { return len(m.rows), nil }

func (m *memStore) ListHolders(ctx context.Context, limit, offset int) ([]model.HolderRecord, error) {
	addresses := make([]string, 0, len(m.rows))
	for address := range m.rows {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)
	var out []model.HolderRecord
	for i := offset; i < len(addresses) && len(out) < limit; i++ {
		out = append(out, model.HolderRecord{Address: addresses[i], Balances: m.rows[addresses[i]]})
	}
	return out, nil
}

func (m *memStore) DeleteAll(ctx context.Context) (int, error) {
	n := len(m.rows)
	m.rows = map[string]map[string]string{}
	return n, nil
}

func (m *memStore) Close() error { return nil }

func TestLoadAllPages(t *testing.T) {
	store := &memStore{rows: map[string]map[string]string{}}
	balances := make([]model.TokenBalance, 0, 25)
	for i := 0; i < 25; i++ {
		balances = append(balances, model.TokenBalance{Address: fmt.Sprintf("0x%02d", i), Balance: "1"})
	}
	if err := store.UpsertBalances(context.Background(), "ar", balances); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	records, err := LoadAll(context.Background(), store, 10)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(records) != 25 {
		t.Fatalf("expected 25 records, got %d", len(records))
	}
	if records[0].Address != "0x00" || records[24].Address != "0x24" {
		t.Fatalf("order mismatch: %s .. %s", records[0].Address, records[24].Address)
	}
}

func TestLoadAllEmpty(t *testing.T) {
	store := &memStore{rows: map[string]map[string]string{}}
	if _, err := LoadAll(context.Background(), store, 10); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}
