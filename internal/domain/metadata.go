package domain

// TokenMetadata is the best-known metadata for a token mint. All fields are
// optional; an all-empty value is the explicit "unknown" sentinel, not an
// error.
type TokenMetadata struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
}

// Empty reports whether no provider contributed any field.
func (m TokenMetadata) Empty() bool {
	return m.Symbol == "" && m.Name == "" && m.Logo == ""
}
