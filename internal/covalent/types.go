package covalent

// holdersResponse is the envelope of the token_holders_v2 endpoint.
type holdersResponse struct {
	Data         *holdersData `json:"data"`
	Error        bool         `json:"error"`
	ErrorMessage string       `json:"error_message"`
	ErrorCode    int          `json:"error_code"`
}

type holdersData struct {
	UpdatedAt  string       `json:"updated_at"`
	ChainName  string       `json:"chain_name"`
	Items      []holderItem `json:"items"`
	Pagination *pagination  `json:"pagination"`
}

type holderItem struct {
	ContractDecimals int     `json:"contract_decimals"`
	ContractTicker   string  `json:"contract_ticker_symbol"`
	Address          *string `json:"address"`
	Balance          *string `json:"balance"`
	BlockHeight      int64   `json:"block_height"`
}

type pagination struct {
	HasMore    bool `json:"has_more"`
	PageNumber int  `json:"page_number"`
	PageSize   int  `json:"page_size"`
}
