package ingest

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress returns the lower-case hex form used as the holder key.
func NormalizeAddress(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if !common.IsHexAddress(input) {
		return "", false
	}
	return strings.ToLower(common.HexToAddress(input).Hex()), true
}

// ParseAddresses normalizes a list of hex addresses.
func ParseAddresses(inputs []string) ([]string, error) {
	addresses := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if strings.TrimSpace(input) == "" {
			continue
		}
		address, ok := NormalizeAddress(input)
		if !ok {
			return nil, fmt.Errorf("invalid address: %s", input)
		}
		addresses = append(addresses, address)
	}
	return addresses, nil
}
