package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"holderRaffle/internal/model"
)

const defaultDecimals = 18

// DefaultTokens are the Base mainnet tokens counted toward holdings.
var DefaultTokens = []string{
	"ar=0x3e43cB385A6925986e7ea0f0dcdAEc06673d4e10",
	"aistr=0x20ef84969f6d81Ff74AE4591c331858b20AD82CD",
	"alch=0x2b0772BEa2757624287ffc7feB92D03aeAE6F12D",
}

// ParseTokens parses "symbol=address[:decimals]" entries, keeping their order.
// Symbols are lower-cased; they key stored balances.
func ParseTokens(entries []string) ([]model.Token, error) {
	tokens := make([]model.Token, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid token %q: want symbol=address", entry)
		}

		symbol := strings.ToLower(strings.TrimSpace(parts[0]))
		if symbol == "" {
			return nil, fmt.Errorf("invalid token %q: empty symbol", entry)
		}
		if _, dup := seen[symbol]; dup {
			return nil, fmt.Errorf("duplicate token symbol: %s", symbol)
		}

		address := strings.TrimSpace(parts[1])
		decimals := uint8(defaultDecimals)
		if idx := strings.LastIndex(address, ":"); idx >= 0 {
			parsed, err := strconv.ParseUint(strings.TrimSpace(address[idx+1:]), 10, 8)
			if err != nil {
				return nil, fmt.Errorf("invalid token %q decimals: %w", entry, err)
			}
			decimals = uint8(parsed)
			address = strings.TrimSpace(address[:idx])
		}
		if !common.IsHexAddress(address) {
			return nil, fmt.Errorf("invalid token %q address: %s", entry, address)
		}

		seen[symbol] = struct{}{}
		tokens = append(tokens, model.Token{
			Symbol:   symbol,
			Address:  common.HexToAddress(address).Hex(),
			Decimals: decimals,
		})
	}
	return tokens, nil
}
