package domain

// AssetDescriptor describes an Algorand Standard Asset (ASA). The native
// ALGO token uses asset id 0.
type AssetDescriptor struct {
	ID       uint64 `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint   `json:"decimals"`
}
