package model

import "math/big"

// HolderRecord is the stored shape of one address: token symbol -> balance in base units.
// An empty balance string means no balance was recorded for that token.
type HolderRecord struct {
	Address  string            `json:"address"`
	Balances map[string]string `json:"balances"`
}

// AggregatedHolder is a holder with parsed per-token amounts and their sum.
type AggregatedHolder struct {
	Address string
	Amounts map[string]*big.Int
	Total   *big.Int
}

// Amount returns the amount held of token, or zero.
func (h AggregatedHolder) Amount(token string) *big.Int {
	if amount, ok := h.Amounts[token]; ok && amount != nil {
		return amount
	}
	return new(big.Int)
}
