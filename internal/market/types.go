package market

// TrendingToken is one entry of the ranked trending list.
type TrendingToken struct {
	Address               string  `json:"address"`
	Decimals              int     `json:"decimals"`
	Liquidity             float64 `json:"liquidity"`
	LogoURI               string  `json:"logoURI"`
	Name                  string  `json:"name"`
	Symbol                string  `json:"symbol"`
	Volume24hUSD          float64 `json:"volume24hUSD"`
	Rank                  int     `json:"rank"`
	Price                 float64 `json:"price"`
	Price24hChangePercent float64 `json:"price24hChangePercent"`
}

// TokenMetadata carries descriptive metadata including optional social links.
type TokenMetadata struct {
	Address    string             `json:"address"`
	ChainID    int                `json:"chainId"`
	Decimals   int                `json:"decimals"`
	LogoURI    string             `json:"logo_uri"`
	Name       string             `json:"name"`
	Symbol     string             `json:"symbol"`
	Extensions MetadataExtensions `json:"extensions"`
}

type MetadataExtensions struct {
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
	Discord     string `json:"discord,omitempty"`
	Medium      string `json:"medium,omitempty"`
}

// TokenBalance is a single balance/value/price record. ValueUsd and PriceUsd
// are nil when the upstream has no price for the token.
type TokenBalance struct {
	Address  string   `json:"address"`
	UIAmount float64  `json:"uiAmount"`
	ValueUsd *float64 `json:"valueUsd"`
	PriceUsd *float64 `json:"priceUsd"`
	Name     string   `json:"name,omitempty"`
	Symbol   string   `json:"symbol,omitempty"`
}

// WalletPortfolio is a wallet's full holdings plus total USD value.
type WalletPortfolio struct {
	TotalUsd float64        `json:"totalUsd"`
	Items    []TokenBalance `json:"items"`
}
