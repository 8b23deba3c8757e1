package repository

import (
	"context"

	"HyperMaker/internal/domain/models"
)

// Exchange is the venue surface one cycle needs: current tickers, open
// positions, and limit-order submission. Read failures propagate as
// transport errors, never as empty results.
type Exchange interface {
	Tickers(ctx context.Context) (map[string]models.Ticker, error)
	Positions(ctx context.Context) ([]models.Position, error)
	PlaceOrder(ctx context.Context, req models.OrderRequest) (*models.OrderResult, error)
}

// ChangeSource resolves 24h percentage moves for symbols. Best effort:
// callers must tolerate an empty map.
type ChangeSource interface {
	Changes24h(ctx context.Context, symbols []string) (map[string]float64, error)
}

// OrderEventPublisher emits per-order events to the event bus.
type OrderEventPublisher interface {
	Publish(ctx context.Context, e *models.OrderEvent) error
	Close() error
}

// Metrics records operational measurements for a run.
type Metrics interface {
	RecordCycle(result string, seconds float64)
	RecordOrderPlaced(symbol, side string)
	RecordOrderSkipped(symbol string)
	RecordAnalysisRequest(provider, result string)
	RecordLastMid(symbol string, price float64)
	RecordError(kind string)
}
