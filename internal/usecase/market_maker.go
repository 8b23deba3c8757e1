package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"HyperMaker/internal/domain/models"
	drepo "HyperMaker/internal/domain/repository"
	domsvc "HyperMaker/internal/domain/service"
	"HyperMaker/internal/services/strategy"
	applogger "HyperMaker/pkg/logger"
)

//go:generate mockgen -destination mock_repository_test.go -package usecase_test HyperMaker/internal/domain/repository Exchange,ChangeSource,OrderEventPublisher,Metrics
//go:generate mockgen -destination mock_service_test.go -package usecase_test HyperMaker/internal/domain/service AnalysisSource

// Settings carries the per-run strategy knobs.
type Settings struct {
	Markets        []string
	PortfolioValue float64
	MinOrderValue  float64
	CloseSlippage  float64
	Execute        bool
}

// MarketMaker runs the quoting cycle: read venue state, acquire
// Avellaneda parameters, quote every configured market in order.
type MarketMaker struct {
	exchange drepo.Exchange
	changes  drepo.ChangeSource
	sources  []domsvc.AnalysisSource
	events   drepo.OrderEventPublisher
	metrics  drepo.Metrics
	settings Settings
	logger   *applogger.Logger
}

// NewMarketMaker creates a new MarketMaker instance. changes may be nil
// when the 24h-change feed is disabled.
func NewMarketMaker(
	exchange drepo.Exchange,
	changes drepo.ChangeSource,
	sources []domsvc.AnalysisSource,
	events drepo.OrderEventPublisher,
	metrics drepo.Metrics,
	settings Settings,
	l *applogger.Logger,
) *MarketMaker {
	return &MarketMaker{
		exchange: exchange,
		changes:  changes,
		sources:  sources,
		events:   events,
		metrics:  metrics,
		settings: settings,
		logger:   l,
	}
}

// RunCycle executes one quoting pass and returns its summary. Dry-run
// counts both sides of every quoted symbol as placed without touching the
// gateway; execute counts a symbol only after both submissions succeed.
func (m *MarketMaker) RunCycle(ctx context.Context) (*models.CycleSummary, error) {
	start := time.Now()
	dryRun := !m.settings.Execute
	cycleID := uuid.NewString()

	m.logger.Info("starting quoting cycle",
		applogger.String("cycle_id", cycleID),
		applogger.Bool("dry_run", dryRun))

	tickers, inventory, changes, err := m.readVenue(ctx)
	if err != nil {
		m.failCycle(start, "exchange")
		return nil, err
	}

	snapshots := m.buildSnapshots(tickers, inventory, changes)
	if len(snapshots) == 0 {
		m.failCycle(start, "snapshot")
		return nil, errors.New("no market snapshots available; check tickers or markets config")
	}

	analysis, err := m.fetchAnalysis(ctx, snapshots)
	if err != nil {
		m.failCycle(start, "analysis")
		return nil, fmt.Errorf("acquire analysis: %w", err)
	}

	params := analysis.Parameters
	recs := analysis.StrategyRecommendations
	m.logger.Info("analysis acquired",
		applogger.Float64("gamma", params.Gamma),
		applogger.Float64("sigma", params.Sigma),
		applogger.Float64("kappa", params.Kappa),
		applogger.Float64("time_horizon_min", params.TimeHorizon),
		applogger.String("risk_level", analysis.RiskAssessment.Level))
	m.logger.Info("spread bounds",
		applogger.Float64("min_pct", recs.MinSpread*100),
		applogger.Float64("max_pct", recs.MaxSpread*100),
		applogger.Float64("max_position", recs.MaxPosition))

	summary := &models.CycleSummary{CycleID: cycleID, DryRun: dryRun}
	quoteSettings := strategy.Settings{
		PortfolioValue: m.settings.PortfolioValue,
		MarketCount:    len(m.settings.Markets),
		MinOrderValue:  m.settings.MinOrderValue,
	}

	for _, snap := range snapshots {
		m.metrics.RecordLastMid(snap.Symbol, snap.MidPrice)

		quote := strategy.BuildQuote(analysis, snap, quoteSettings)
		m.logger.Info("quote computed",
			applogger.String("symbol", snap.Symbol),
			applogger.Float64("mid", snap.MidPrice),
			applogger.Float64("inventory", snap.Inventory),
			applogger.Float64("bid_spread_pct", quote.BidSpread*100),
			applogger.Float64("ask_spread_pct", quote.AskSpread*100),
			applogger.Float64("bid", quote.BidPrice),
			applogger.Float64("bid_size", quote.BidSize),
			applogger.Float64("ask", quote.AskPrice),
			applogger.Float64("ask_size", quote.AskSize))

		if quote.Skipped() {
			m.logger.Warn("skipping symbol",
				applogger.String("symbol", snap.Symbol),
				applogger.String("reason", quote.SkipReason))
			m.metrics.RecordOrderSkipped(snap.Symbol)
			summary.SkippedOrders++
			continue
		}

		if dryRun {
			m.recordOrder(ctx, cycleID, snap.Symbol, models.SideBuy, quote.BidPrice, quote.BidSize, true)
			m.recordOrder(ctx, cycleID, snap.Symbol, models.SideSell, quote.AskPrice, quote.AskSize, true)
			summary.PlacedOrders += 2
			continue
		}

		if err := m.submitQuote(ctx, cycleID, snap.Symbol, quote); err != nil {
			m.logger.Error("order placement failed",
				applogger.String("symbol", snap.Symbol),
				applogger.Error(err))
			m.metrics.RecordError("order")
			continue
		}
		summary.PlacedOrders += 2
	}

	m.metrics.RecordCycle("success", time.Since(start).Seconds())
	m.logger.Info("cycle completed",
		applogger.String("cycle_id", cycleID),
		applogger.Int("placed", summary.PlacedOrders),
		applogger.Int("skipped", summary.SkippedOrders),
		applogger.Bool("dry_run", dryRun),
		applogger.Duration("elapsed", time.Since(start)))
	return summary, nil
}

// readVenue runs the three independent pre-cycle reads in parallel.
// Tickers and positions are required; the change feed degrades to an
// empty map with a warning.
func (m *MarketMaker) readVenue(ctx context.Context) (map[string]models.Ticker, map[string]float64, map[string]float64, error) {
	var (
		tickers   map[string]models.Ticker
		inventory map[string]float64
		changes   map[string]float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := m.exchange.Tickers(gctx)
		if err != nil {
			return fmt.Errorf("fetch tickers: %w", err)
		}
		tickers = t
		return nil
	})
	g.Go(func() error {
		positions, err := m.exchange.Positions(gctx)
		if err != nil {
			return fmt.Errorf("fetch positions: %w", err)
		}
		inventory = make(map[string]float64, len(positions))
		for _, pos := range positions {
			inventory[pos.Symbol] = pos.Quantity
		}
		return nil
	})
	g.Go(func() error {
		if m.changes == nil {
			return nil
		}
		ch, err := m.changes.Changes24h(gctx, m.settings.Markets)
		if err != nil {
			m.logger.Warn("24h change lookup failed", applogger.Error(err))
			return nil
		}
		changes = ch
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return tickers, inventory, changes, nil
}

// buildSnapshots keeps the configured market order, dropping symbols the
// exchange has no usable price for. Inventory defaults to 0.
func (m *MarketMaker) buildSnapshots(tickers map[string]models.Ticker, inventory, changes map[string]float64) []models.SymbolSnapshot {
	snapshots := make([]models.SymbolSnapshot, 0, len(m.settings.Markets))
	for _, symbol := range m.settings.Markets {
		ticker, ok := tickers[symbol]
		if !ok || ticker.Price <= 0 {
			m.logger.Warn("skipping symbol without usable ticker", applogger.String("symbol", symbol))
			continue
		}
		snap := models.SymbolSnapshot{
			Symbol:       symbol,
			MidPrice:     ticker.Price,
			SizeDecimals: ticker.SizeDecimals,
			Inventory:    inventory[symbol],
		}
		if change, ok := changes[symbol]; ok {
			snap.Change24h = &change
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots
}

// fetchAnalysis walks the source chain in order. When every source fails
// the first failure is the one surfaced.
func (m *MarketMaker) fetchAnalysis(ctx context.Context, snapshots []models.SymbolSnapshot) (*models.AnalysisResult, error) {
	var primaryErr error
	for i, source := range m.sources {
		slot := sourceSlot(i)
		result, err := source.FetchAnalysis(ctx, snapshots)
		if err == nil {
			m.metrics.RecordAnalysisRequest(slot, "success")
			return result, nil
		}
		m.metrics.RecordAnalysisRequest(slot, "error")
		m.logger.Warn("analysis source failed",
			applogger.String("slot", slot),
			applogger.Error(err))
		if primaryErr == nil {
			primaryErr = err
		}
	}
	if primaryErr == nil {
		primaryErr = errors.New("no analysis sources configured")
	}
	return nil, primaryErr
}

func sourceSlot(i int) string {
	if i == 0 {
		return "primary"
	}
	return fmt.Sprintf("fallback_%d", i)
}

// submitQuote places buy-at-bid then sell-at-ask. An error on either side
// aborts the symbol; the bid may already rest on the book at that point,
// matching the sequential submission of the gateway contract.
func (m *MarketMaker) submitQuote(ctx context.Context, cycleID, symbol string, quote models.QuoteDecision) error {
	bid := quote.BidPrice
	if _, err := m.exchange.PlaceOrder(ctx, models.OrderRequest{
		Symbol:     symbol,
		Side:       models.SideBuy,
		Quantity:   quote.BidSize,
		OrderType:  "LMT",
		LimitPrice: &bid,
	}); err != nil {
		return fmt.Errorf("buy side: %w", err)
	}
	m.recordOrder(ctx, cycleID, symbol, models.SideBuy, quote.BidPrice, quote.BidSize, false)

	ask := quote.AskPrice
	if _, err := m.exchange.PlaceOrder(ctx, models.OrderRequest{
		Symbol:     symbol,
		Side:       models.SideSell,
		Quantity:   quote.AskSize,
		OrderType:  "LMT",
		LimitPrice: &ask,
	}); err != nil {
		return fmt.Errorf("sell side: %w", err)
	}
	m.recordOrder(ctx, cycleID, symbol, models.SideSell, quote.AskPrice, quote.AskSize, false)
	return nil
}

// recordOrder counts one submitted or simulated order and emits its bus
// event. Publish failures degrade to a warning.
func (m *MarketMaker) recordOrder(ctx context.Context, cycleID, symbol string, side models.OrderSide, price, size float64, dryRun bool) {
	m.metrics.RecordOrderPlaced(symbol, string(side))
	event := &models.OrderEvent{
		CycleID:   cycleID,
		Symbol:    symbol,
		Side:      string(side),
		Price:     price,
		Size:      size,
		DryRun:    dryRun,
		Timestamp: time.Now().UTC(),
	}
	if err := m.events.Publish(ctx, event); err != nil {
		m.logger.Warn("order event publish failed",
			applogger.String("symbol", symbol),
			applogger.Error(err))
	}
}

func (m *MarketMaker) failCycle(start time.Time, stage string) {
	m.metrics.RecordError(stage)
	m.metrics.RecordCycle("error", time.Since(start).Seconds())
}
