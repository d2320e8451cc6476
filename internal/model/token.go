package model

// Token is a configured ERC20 token.
type Token struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
}

// TokenBalance is one holder row returned by an ingestion source.
type TokenBalance struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

// HolderPage is a page of holder balances for one token.
type HolderPage struct {
	Balances []TokenBalance
	HasMore  bool
}
