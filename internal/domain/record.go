package domain

import "encoding/json"

// TransactionRecord is a single normalized transaction as returned by a
// provider. The engine treats it as opaque JSON and only orders it within a
// sequence; field interpretation is left to the caller.
type TransactionRecord = json.RawMessage

// Source identifies which retrieval path produced a wallet activity response.
type Source string

const (
	SourceCache        Source = "cache"
	SourceSlowCooldown Source = "slow-fallback-cooldown"
	SourceSlow429      Source = "slow-fallback-429"
	SourceFastEmpty    Source = "fast-empty"
	SourceFastParse    Source = "fast-rpc+parse"
)

// String returns the string representation of Source.
func (s Source) String() string {
	return string(s)
}
