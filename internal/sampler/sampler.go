package sampler

import (
	"errors"
	"fmt"
	"math/big"

	"holderRaffle/internal/model"
)

// ErrInvalidWinnerCount is returned for a negative winner count.
var ErrInvalidWinnerCount = errors.New("invalid winner count")

// SelectWinners draws up to numWinners distinct holders, each draw weighted by
// Total against the weight still left in the pool. Winners are returned in draw order.
//
// The pool slice is copied; callers keep their aggregated set intact.
// Holders with a nil or non-positive Total are never eligible.
func SelectWinners(pool []model.AggregatedHolder, numWinners int, src Source) ([]model.AggregatedHolder, error) {
	if numWinners < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWinnerCount, numWinners)
	}

	working := make([]model.AggregatedHolder, 0, len(pool))
	remaining := new(big.Int)
	for _, holder := range pool {
		if holder.Total == nil || holder.Total.Sign() <= 0 {
			continue
		}
		working = append(working, holder)
		remaining.Add(remaining, holder.Total)
	}

	count := numWinners
	if count > len(working) {
		count = len(working)
	}
	winners := make([]model.AggregatedHolder, 0, count)
	if count == 0 {
		return winners, nil
	}
	if src == nil {
		return nil, fmt.Errorf("random source is nil")
	}

	for len(winners) < count {
		r, err := src.Int(remaining)
		if err != nil {
			return nil, fmt.Errorf("draw %d: %w", len(winners)+1, err)
		}
		if r == nil || r.Sign() < 0 || r.Cmp(remaining) >= 0 {
			return nil, fmt.Errorf("draw %d: random value out of range [0, %s)", len(winners)+1, remaining)
		}

		idx := pick(working, r)
		winner := working[idx]
		winners = append(winners, winner)

		working = append(working[:idx], working[idx+1:]...)
		remaining.Sub(remaining, winner.Total)
	}

	return winners, nil
}

// pick returns the index whose cumulative-weight interval contains r.
// r must lie in [0, sum of weights).
func pick(working []model.AggregatedHolder, r *big.Int) int {
	offset := new(big.Int).Set(r)
	for i, holder := range working {
		if offset.Cmp(holder.Total) < 0 {
			return i
		}
		offset.Sub(offset, holder.Total)
	}
	// unreachable while r < sum
	return len(working) - 1
}

// Share returns weight/total as a float for display only.
func Share(weight, total *big.Int) float64 {
	if weight == nil || total == nil || total.Sign() <= 0 {
		return 0
	}
	share, _ := new(big.Rat).SetFrac(weight, total).Float64()
	return share
}
