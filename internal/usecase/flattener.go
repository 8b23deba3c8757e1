package usecase

import (
	"context"
	"fmt"
	"math"

	"HyperMaker/internal/domain/models"
	drepo "HyperMaker/internal/domain/repository"
	applogger "HyperMaker/pkg/logger"
)

// Flattener closes every open position with a reduce-only IOC limit
// order priced through the mid by the configured slippage fraction, so
// the order crosses far enough to fill.
type Flattener struct {
	exchange drepo.Exchange
	metrics  drepo.Metrics
	settings Settings
	logger   *applogger.Logger
}

// NewFlattener creates a new Flattener instance.
func NewFlattener(exchange drepo.Exchange, metrics drepo.Metrics, settings Settings, l *applogger.Logger) *Flattener {
	return &Flattener{exchange: exchange, metrics: metrics, settings: settings, logger: l}
}

// CloseAll flattens every nonzero position and returns one record per
// position. Per-order failures are captured in the record, never aborting
// the remaining closes.
func (f *Flattener) CloseAll(ctx context.Context) ([]models.CloseOrder, error) {
	dryRun := !f.settings.Execute
	f.logger.Info("closing all positions", applogger.Bool("dry_run", dryRun))

	positions, err := f.exchange.Positions(ctx)
	if err != nil {
		f.metrics.RecordError("exchange")
		return nil, fmt.Errorf("fetch positions: %w", err)
	}

	open := positions[:0:0]
	for _, pos := range positions {
		if pos.Quantity != 0 {
			open = append(open, pos)
		}
	}
	if len(open) == 0 {
		f.logger.Info("no open positions to close")
		return nil, nil
	}

	tickers, err := f.exchange.Tickers(ctx)
	if err != nil {
		f.metrics.RecordError("exchange")
		return nil, fmt.Errorf("fetch tickers: %w", err)
	}

	orders := make([]models.CloseOrder, 0, len(open))
	for _, pos := range open {
		order := f.closeOne(ctx, tickers, pos, dryRun)
		f.logger.Info("close order",
			applogger.String("symbol", order.Symbol),
			applogger.String("side", string(order.Side)),
			applogger.Float64("size", order.Quantity),
			applogger.Float64("limit_price", order.LimitPrice),
			applogger.String("status", order.Status),
			applogger.String("detail", order.Detail))
		orders = append(orders, order)
	}
	return orders, nil
}

func (f *Flattener) closeOne(ctx context.Context, tickers map[string]models.Ticker, pos models.Position, dryRun bool) models.CloseOrder {
	isBuy := pos.Quantity < 0
	side := models.SideSell
	if isBuy {
		side = models.SideBuy
	}
	order := models.CloseOrder{
		Symbol:   pos.Symbol,
		Side:     side,
		Quantity: math.Abs(pos.Quantity),
	}

	ticker, ok := tickers[pos.Symbol]
	if !ok || ticker.Price <= 0 {
		order.Status = "skipped"
		order.Detail = "no price available"
		return order
	}

	if isBuy {
		order.LimitPrice = ticker.Price * (1 + f.settings.CloseSlippage)
	} else {
		order.LimitPrice = ticker.Price * (1 - f.settings.CloseSlippage)
	}

	if dryRun {
		order.Status = "simulated"
		return order
	}

	price := order.LimitPrice
	if _, err := f.exchange.PlaceOrder(ctx, models.OrderRequest{
		Symbol:      pos.Symbol,
		Side:        side,
		Quantity:    order.Quantity,
		OrderType:   "LMT",
		LimitPrice:  &price,
		TimeInForce: "IOC",
		ReduceOnly:  true,
	}); err != nil {
		order.Status = "error"
		order.Detail = err.Error()
		f.metrics.RecordError("close")
		return order
	}
	order.Status = "submitted"
	f.metrics.RecordOrderPlaced(pos.Symbol, string(side))
	return order
}
