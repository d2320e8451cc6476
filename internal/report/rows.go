package report

import (
	"math/big"

	"holderRaffle/internal/model"
)

// TokenAmount is a per-token display amount.
type TokenAmount struct {
	Symbol string `json:"symbol"`
	Amount string `json:"amount"`
}

// WinnerRow is one rendered winner.
type WinnerRow struct {
	Rank    int           `json:"rank"`
	Address string        `json:"address"`
	Total   string        `json:"total"`
	Weight  string        `json:"weight"`
	Share   string        `json:"share_pct"`
	Tokens  []TokenAmount `json:"tokens"`
}

// Options controls display formatting. Nothing here affects the draw.
// Decimals applies to the total; token columns use each token's own decimals.
type Options struct {
	Decimals  uint8
	Precision int
}

// BuildRows turns winners into display rows. total is the weight of the whole
// eligible pool before the draw; share is each winner's first-draw probability.
// tokens fixes the per-token column order.
func BuildRows(winners []model.AggregatedHolder, tokens []model.Token, total *big.Int, opts Options) []WinnerRow {
	rows := make([]WinnerRow, 0, len(winners))
	for i, winner := range winners {
		amounts := make([]TokenAmount, 0, len(tokens))
		for _, token := range tokens {
			amounts = append(amounts, TokenAmount{
				Symbol: token.Symbol,
				Amount: FormatUnits(winner.Amount(token.Symbol), token.Decimals, opts.Precision),
			})
		}
		weight := winner.Total
		if weight == nil {
			weight = new(big.Int)
		}
		rows = append(rows, WinnerRow{
			Rank:    i + 1,
			Address: winner.Address,
			Total:   FormatUnits(weight, opts.Decimals, opts.Precision),
			Weight:  weight.String(),
			Share:   FormatShare(weight, total),
			Tokens:  amounts,
		})
	}
	return rows
}
