package strategy

import (
	"math"

	"HyperMaker/internal/domain/models"
)

// Settings are the capital-allocation knobs shared by every symbol in a
// cycle: total capital spread evenly across the configured markets, and
// the venue's minimum order notional.
type Settings struct {
	PortfolioValue float64
	MarketCount    int
	MinOrderValue  float64
}

// Side selects which quote a size is computed for.
type Side string

const (
	SideBid Side = "bid"
	SideAsk Side = "ask"
)

// CalculateSpreads computes the raw Avellaneda-Stoikov half-spreads:
// base = gamma * sigma^2 * T with T in hours, then skewed by inventory as
// bid = base - skew, ask = base + skew where skew = weight * inv/maxInv.
// The result is unclamped; callers bound it with ClampSpread.
func CalculateSpreads(params models.StrategyParameters, inventory, maxInventory float64) (bid, ask float64) {
	base := params.Gamma * params.Sigma * params.Sigma * (params.TimeHorizon / 60.0)
	ratio := 0.0
	if maxInventory != 0 {
		ratio = inventory / maxInventory
	}
	skew := params.InventoryRiskWeight * ratio
	return base - skew, base + skew
}

// ClampSpread bounds a spread into [lo, hi].
func ClampSpread(spread, lo, hi float64) float64 {
	return math.Max(lo, math.Min(spread, hi))
}

// PositionSize computes the raw (unrounded) quantity for one side. At most
// half of one market's capital share sits on the book, capped by the
// position limit. Held inventory dampens the side that would grow the
// position, floored at 0.3; the reducing side quotes full size.
func PositionSize(price, maxPosition, inventory float64, s Settings, side Side) float64 {
	markets := s.MarketCount
	if markets < 1 {
		markets = 1
	}
	capitalPerMarket := s.PortfolioValue / float64(markets)
	maxNotional := capitalPerMarket * 0.5
	if maxPosition <= 0 {
		return 0
	}
	maxQty := math.Min(maxNotional/price, maxPosition)

	factor := 1.0
	if (side == SideBid && inventory > 0) || (side == SideAsk && inventory < 0) {
		factor = math.Max(0.3, 1-math.Abs(inventory)/maxPosition)
	}
	return maxQty * factor
}

// RoundPrice applies the venue's tiered price precision: nearest 10 above
// 10000, integer above 100, then 1, 2 and 4 decimals as the price shrinks.
func RoundPrice(price float64) float64 {
	switch {
	case price >= 10000:
		return math.Round(price/10) * 10
	case price >= 100:
		return math.Round(price)
	case price >= 10:
		return roundTo(price, 1)
	case price >= 1:
		return roundTo(price, 2)
	default:
		return roundTo(price, 4)
	}
}

// RoundSize rounds a quantity to the symbol's size precision.
func RoundSize(size float64, decimals int) float64 {
	return roundTo(size, decimals)
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// BuildQuote turns one snapshot plus the cycle's analysis into a full
// two-sided quote decision. A side whose rounded quantity falls under the
// minimum order notional is zeroed; either zero side marks the whole
// symbol as skipped.
func BuildQuote(analysis *models.AnalysisResult, snap models.SymbolSnapshot, s Settings) models.QuoteDecision {
	rec := analysis.StrategyRecommendations

	bidSpread, askSpread := CalculateSpreads(analysis.Parameters, snap.Inventory, rec.MaxPosition)
	bidSpread = ClampSpread(bidSpread, rec.MinSpread, rec.MaxSpread)
	askSpread = ClampSpread(askSpread, rec.MinSpread, rec.MaxSpread)

	bidPrice := RoundPrice(snap.MidPrice * (1 - bidSpread))
	askPrice := RoundPrice(snap.MidPrice * (1 + askSpread))

	bidSize := RoundSize(PositionSize(snap.MidPrice, rec.MaxPosition, snap.Inventory, s, SideBid), snap.SizeDecimals)
	askSize := RoundSize(PositionSize(snap.MidPrice, rec.MaxPosition, snap.Inventory, s, SideAsk), snap.SizeDecimals)
	if bidSize*snap.MidPrice < s.MinOrderValue {
		bidSize = 0
	}
	if askSize*snap.MidPrice < s.MinOrderValue {
		askSize = 0
	}

	decision := models.QuoteDecision{
		Symbol:    snap.Symbol,
		BidSpread: bidSpread,
		AskSpread: askSpread,
		BidPrice:  bidPrice,
		AskPrice:  askPrice,
		BidSize:   bidSize,
		AskSize:   askSize,
	}
	if bidSize == 0 || askSize == 0 {
		decision.SkipReason = "quantities below minimum"
	}
	return decision
}
