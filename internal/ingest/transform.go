package ingest

import (
	"strings"
	"time"

	"holderRaffle/internal/model"
)

// cleanBalances normalizes addresses and drops rows that hold nothing.
// Later rows win when an address repeats within a page.
func cleanBalances(balances []model.TokenBalance) (kept []model.TokenBalance, skipped int, invalid int) {
	kept = make([]model.TokenBalance, 0, len(balances))
	index := make(map[string]int, len(balances))
	for _, b := range balances {
		address, ok := NormalizeAddress(b.Address)
		if !ok {
			invalid++
			continue
		}
		balance := strings.TrimSpace(b.Balance)
		if isZeroBalance(balance) {
			skipped++
			continue
		}
		if i, dup := index[address]; dup {
			kept[i].Balance = balance
			continue
		}
		index[address] = len(kept)
		kept = append(kept, model.TokenBalance{Address: address, Balance: balance})
	}
	return kept, skipped, invalid
}

func isZeroBalance(balance string) bool {
	return strings.Trim(balance, "0") == ""
}

func buildSnapshotRecords(source, token string, balances []model.TokenBalance, fetchedAt time.Time) []model.SnapshotRecord {
	records := make([]model.SnapshotRecord, 0, len(balances))
	ts := fetchedAt.UTC().Format(time.RFC3339Nano)
	for _, b := range balances {
		records = append(records, model.SnapshotRecord{
			Source:    source,
			Token:     token,
			Address:   b.Address,
			Balance:   b.Balance,
			FetchedAt: ts,
		})
	}
	return records
}
