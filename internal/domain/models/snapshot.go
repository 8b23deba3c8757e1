package models

// SymbolSnapshot captures one market's quoting inputs at the start of a
// cycle. Snapshots are built fresh from live reads, never mutated, and
// discarded when the cycle ends. The json names are part of the analysis
// prompt contract.
type SymbolSnapshot struct {
	Symbol            string   `json:"symbol"`
	MidPrice          float64  `json:"midPrice"`
	SizeDecimals      int      `json:"sizeDecimals"`
	Inventory         float64  `json:"inventory"` // signed, positive = long
	Change24h         *float64 `json:"change24h"`
	NotionalLiquidity *float64 `json:"notionalLiquidity"`
}

// Ticker is the exchange's current view of one tradable symbol.
type Ticker struct {
	Price        float64
	SizeDecimals int
}

// Position is an open position as reported by the exchange.
type Position struct {
	Symbol   string
	Quantity float64 // signed, positive = long
}
