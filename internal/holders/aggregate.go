package holders

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"holderRaffle/internal/model"
)

// ErrMalformedBalance is returned when a balance is not a non-negative base-10 integer.
var ErrMalformedBalance = errors.New("malformed balance")

// BalanceError describes the record that failed to parse.
type BalanceError struct {
	Address string
	Token   string
	Value   string
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("%s: address %s token %s value %q", ErrMalformedBalance, e.Address, e.Token, e.Value)
}

func (e *BalanceError) Unwrap() error {
	return ErrMalformedBalance
}

// Aggregate parses per-token balances and sums them per address.
// Excluded addresses and addresses with a zero total are dropped.
// Output follows input order.
func Aggregate(records []model.HolderRecord, excluded map[string]struct{}) ([]model.AggregatedHolder, error) {
	out := make([]model.AggregatedHolder, 0, len(records))
	for _, record := range records {
		if _, skip := excluded[record.Address]; skip {
			continue
		}

		holder, err := aggregateRecord(record)
		if err != nil {
			return nil, err
		}
		if holder.Total.Sign() == 0 {
			continue
		}
		out = append(out, holder)
	}
	return out, nil
}

func aggregateRecord(record model.HolderRecord) (model.AggregatedHolder, error) {
	holder := model.AggregatedHolder{
		Address: record.Address,
		Amounts: make(map[string]*big.Int, len(record.Balances)),
		Total:   new(big.Int),
	}

	// map order is random; parse in token order so the reported error is stable
	tokens := make([]string, 0, len(record.Balances))
	for token := range record.Balances {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	for _, token := range tokens {
		value := record.Balances[token]
		amount, err := ParseBalance(value)
		if err != nil {
			return model.AggregatedHolder{}, &BalanceError{Address: record.Address, Token: token, Value: value}
		}
		holder.Amounts[token] = amount
		holder.Total.Add(holder.Total, amount)
	}
	return holder, nil
}

// ParseBalance parses a base-unit balance. Empty input is zero.
func ParseBalance(value string) (*big.Int, error) {
	if value == "" {
		return new(big.Int), nil
	}
	// SetString alone would accept a sign
	for _, r := range value {
		if r < '0' || r > '9' {
			return nil, ErrMalformedBalance
		}
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, ErrMalformedBalance
	}
	return parsed, nil
}

// ExclusionSet builds a lookup set from addresses.
func ExclusionSet(addresses []string) map[string]struct{} {
	set := make(map[string]struct{}, len(addresses))
	for _, address := range addresses {
		set[address] = struct{}{}
	}
	return set
}

// PoolTotal returns the sum of holder totals.
func PoolTotal(pool []model.AggregatedHolder) *big.Int {
	total := new(big.Int)
	for _, holder := range pool {
		if holder.Total != nil {
			total.Add(total, holder.Total)
		}
	}
	return total
}
