package domain

// SwapEvent is a structured trade event posted to the notification relay.
type SwapEvent struct {
	Wallet    string  `json:"wallet"`
	Signature string  `json:"signature"`
	InSymbol  string  `json:"inSymbol"`
	InMint    string  `json:"inMint"`
	InAmount  float64 `json:"inAmount"`
	OutSymbol string  `json:"outSymbol"`
	OutMint   string  `json:"outMint"`
	OutAmount float64 `json:"outAmount"`
}

// BuyEvent is a structured buy event posted to the notification relay.
type BuyEvent struct {
	Wallet      string  `json:"wallet"`
	Signature   string  `json:"signature"`
	TokenSymbol string  `json:"tokenSymbol"`
	TokenMint   string  `json:"tokenMint"`
	SolAmount   float64 `json:"solAmount"`
	TokenAmount float64 `json:"tokenAmount"`
	PriceUSD    float64 `json:"priceUsd"`
}
