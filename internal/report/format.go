package report

import "math/big"

// FormatUnits shifts a base-unit amount by decimals for display.
// precision 0 truncates to whole units; a positive precision keeps that many
// fraction digits (rounded).
func FormatUnits(value *big.Int, decimals uint8, precision int) string {
	if value == nil {
		return "0"
	}
	if decimals == 0 {
		return value.String()
	}
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	if precision <= 0 {
		return new(big.Int).Quo(value, denom).String()
	}

	sign := value.Sign()
	abs := new(big.Int).Abs(value)
	text := new(big.Rat).SetFrac(abs, denom).FloatString(precision)
	if sign < 0 {
		return "-" + text
	}
	return text
}

// FormatShare renders a probability as a percentage with four decimals.
func FormatShare(weight, total *big.Int) string {
	if weight == nil || total == nil || total.Sign() <= 0 {
		return "0.0000"
	}
	pct := new(big.Rat).SetFrac(new(big.Int).Mul(weight, big.NewInt(100)), total)
	return pct.FloatString(4)
}
