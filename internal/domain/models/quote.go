package models

// QuoteDecision is the calculator's output for one symbol. Spreads are
// fractions of mid, already clamped; sizes are rounded to the symbol's
// size decimals. A non-empty SkipReason means neither side is submitted.
type QuoteDecision struct {
	Symbol     string
	BidSpread  float64
	AskSpread  float64
	BidPrice   float64
	AskPrice   float64
	BidSize    float64
	AskSize    float64
	SkipReason string
}

// Skipped reports whether the symbol yields no orders this cycle.
func (q QuoteDecision) Skipped() bool {
	return q.SkipReason != ""
}

// CycleSummary aggregates the outcome of one full quoting pass.
type CycleSummary struct {
	CycleID       string
	PlacedOrders  int
	SkippedOrders int
	DryRun        bool
}
