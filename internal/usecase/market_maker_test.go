package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"HyperMaker/internal/domain/models"
	domsvc "HyperMaker/internal/domain/service"
	"HyperMaker/internal/usecase"
	applogger "HyperMaker/pkg/logger"
)

func newTestLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return l
}

// relaxedMetrics accepts any recording; behavior is asserted through the
// summary and the collaborator expectations instead.
func relaxedMetrics(ctrl *gomock.Controller) *MockMetrics {
	m := NewMockMetrics(ctrl)
	m.EXPECT().RecordCycle(gomock.Any(), gomock.Any()).AnyTimes()
	m.EXPECT().RecordOrderPlaced(gomock.Any(), gomock.Any()).AnyTimes()
	m.EXPECT().RecordOrderSkipped(gomock.Any()).AnyTimes()
	m.EXPECT().RecordAnalysisRequest(gomock.Any(), gomock.Any()).AnyTimes()
	m.EXPECT().RecordLastMid(gomock.Any(), gomock.Any()).AnyTimes()
	m.EXPECT().RecordError(gomock.Any()).AnyTimes()
	return m
}

func relaxedEvents(ctrl *gomock.Controller) *MockOrderEventPublisher {
	m := NewMockOrderEventPublisher(ctrl)
	m.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	return m
}

func testAnalysis() *models.AnalysisResult {
	return &models.AnalysisResult{
		Parameters: models.StrategyParameters{
			Gamma: 0.2, Kappa: 1.5, Sigma: 0.3, TimeHorizon: 60, InventoryRiskWeight: 0.2,
		},
		StrategyRecommendations: models.StrategyRecommendations{
			MinSpread: 0.001, MaxSpread: 0.05, MaxPosition: 5,
		},
		RiskAssessment: models.RiskAssessment{Level: "LOW"},
	}
}

func testSettings(execute bool) usecase.Settings {
	return usecase.Settings{
		Markets:        []string{"BTC-PERP", "ETH-PERP", "SOL-PERP"},
		PortfolioValue: 997.5,
		MinOrderValue:  10,
		CloseSlippage:  0.02,
		Execute:        execute,
	}
}

func TestRunCycleDryRunCountsBothSides(t *testing.T) {
	t.Parallel()

	// Arrange: two quotable markets, an open short, and a change value.
	ctrl := gomock.NewController(t)
	exchange := NewMockExchange(ctrl)
	exchange.EXPECT().Tickers(gomock.Any()).Return(map[string]models.Ticker{
		"BTC-PERP": {Price: 100, SizeDecimals: 2},
		"ETH-PERP": {Price: 100, SizeDecimals: 2},
	}, nil)
	exchange.EXPECT().Positions(gomock.Any()).Return([]models.Position{
		{Symbol: "ETH-PERP", Quantity: -2.5},
	}, nil)

	changes := NewMockChangeSource(ctrl)
	changes.EXPECT().Changes24h(gomock.Any(), gomock.Any()).Return(map[string]float64{"BTC-PERP": 1.8}, nil)

	source := NewMockAnalysisSource(ctrl)
	source.EXPECT().
		FetchAnalysis(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, snapshots []models.SymbolSnapshot) (*models.AnalysisResult, error) {
			// Configured order preserved, inventory merged, change attached.
			require.Len(t, snapshots, 2)
			require.Equal(t, "BTC-PERP", snapshots[0].Symbol)
			require.Equal(t, "ETH-PERP", snapshots[1].Symbol)
			require.NotNil(t, snapshots[0].Change24h)
			require.InDelta(t, 1.8, *snapshots[0].Change24h, 1e-12)
			require.Nil(t, snapshots[1].Change24h)
			require.InDelta(t, -2.5, snapshots[1].Inventory, 1e-12)
			return testAnalysis(), nil
		})

	events := NewMockOrderEventPublisher(ctrl)
	events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(4)

	maker := usecase.NewMarketMaker(exchange, changes, []domsvc.AnalysisSource{source},
		events, relaxedMetrics(ctrl), testSettings(false), newTestLogger(t))

	// Act
	summary, err := maker.RunCycle(context.Background())

	// Assert: two orders per quoted symbol, gateway untouched.
	require.NoError(t, err)
	require.True(t, summary.DryRun)
	require.Equal(t, 4, summary.PlacedOrders)
	require.Zero(t, summary.SkippedOrders)
}

func TestRunCycleExecutePlacesBothSides(t *testing.T) {
	t.Parallel()

	// Arrange: only BTC quotable out of three configured markets, so the
	// capital split still divides by three.
	ctrl := gomock.NewController(t)
	exchange := NewMockExchange(ctrl)
	exchange.EXPECT().Tickers(gomock.Any()).Return(map[string]models.Ticker{
		"BTC-PERP": {Price: 100, SizeDecimals: 2},
	}, nil)
	exchange.EXPECT().Positions(gomock.Any()).Return(nil, nil)

	source := NewMockAnalysisSource(ctrl)
	source.EXPECT().FetchAnalysis(gomock.Any(), gomock.Any()).Return(testAnalysis(), nil)

	gomock.InOrder(
		exchange.EXPECT().
			PlaceOrder(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req models.OrderRequest) (*models.OrderResult, error) {
				require.Equal(t, "BTC-PERP", req.Symbol)
				require.Equal(t, models.SideBuy, req.Side)
				require.Equal(t, "LMT", req.OrderType)
				require.NotNil(t, req.LimitPrice)
				require.InDelta(t, 98.2, *req.LimitPrice, 1e-9)
				require.InDelta(t, 1.66, req.Quantity, 1e-9)
				require.False(t, req.ReduceOnly)
				return &models.OrderResult{Status: "ok", OrderID: "1"}, nil
			}),
		exchange.EXPECT().
			PlaceOrder(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req models.OrderRequest) (*models.OrderResult, error) {
				require.Equal(t, models.SideSell, req.Side)
				require.NotNil(t, req.LimitPrice)
				require.InDelta(t, 102.0, *req.LimitPrice, 1e-9)
				require.InDelta(t, 1.66, req.Quantity, 1e-9)
				return &models.OrderResult{Status: "ok", OrderID: "2"}, nil
			}),
	)

	maker := usecase.NewMarketMaker(exchange, nil, []domsvc.AnalysisSource{source},
		relaxedEvents(ctrl), relaxedMetrics(ctrl), testSettings(true), newTestLogger(t))

	// Act
	summary, err := maker.RunCycle(context.Background())

	// Assert
	require.NoError(t, err)
	require.False(t, summary.DryRun)
	require.Equal(t, 2, summary.PlacedOrders)
}

func TestRunCycleIsolatesSubmissionFailures(t *testing.T) {
	t.Parallel()

	// Arrange: BTC's bid is rejected by the gateway; ETH must still quote.
	ctrl := gomock.NewController(t)
	exchange := NewMockExchange(ctrl)
	exchange.EXPECT().Tickers(gomock.Any()).Return(map[string]models.Ticker{
		"BTC-PERP": {Price: 100, SizeDecimals: 2},
		"ETH-PERP": {Price: 100, SizeDecimals: 2},
	}, nil)
	exchange.EXPECT().Positions(gomock.Any()).Return(nil, nil)

	source := NewMockAnalysisSource(ctrl)
	source.EXPECT().FetchAnalysis(gomock.Any(), gomock.Any()).Return(testAnalysis(), nil)

	exchange.EXPECT().
		PlaceOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.OrderRequest) (*models.OrderResult, error) {
			if req.Symbol == "BTC-PERP" {
				return nil, errors.New("gateway rejected")
			}
			return &models.OrderResult{Status: "ok"}, nil
		}).
		Times(3) // BTC bid fails, ETH bid and ask succeed

	maker := usecase.NewMarketMaker(exchange, nil, []domsvc.AnalysisSource{source},
		relaxedEvents(ctrl), relaxedMetrics(ctrl), testSettings(true), newTestLogger(t))

	// Act
	summary, err := maker.RunCycle(context.Background())

	// Assert: the failed symbol contributes nothing to the placed count.
	require.NoError(t, err)
	require.Equal(t, 2, summary.PlacedOrders)
}

func TestRunCycleFallsBackToSecondSource(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	exchange := NewMockExchange(ctrl)
	exchange.EXPECT().Tickers(gomock.Any()).Return(map[string]models.Ticker{
		"BTC-PERP": {Price: 100, SizeDecimals: 2},
	}, nil)
	exchange.EXPECT().Positions(gomock.Any()).Return(nil, nil)

	primary := NewMockAnalysisSource(ctrl)
	primary.EXPECT().FetchAnalysis(gomock.Any(), gomock.Any()).Return(nil, errors.New("primary boom"))
	fallback := NewMockAnalysisSource(ctrl)
	fallback.EXPECT().FetchAnalysis(gomock.Any(), gomock.Any()).Return(testAnalysis(), nil)

	maker := usecase.NewMarketMaker(exchange, nil, []domsvc.AnalysisSource{primary, fallback},
		relaxedEvents(ctrl), relaxedMetrics(ctrl), testSettings(false), newTestLogger(t))

	// Act
	summary, err := maker.RunCycle(context.Background())

	// Assert
	require.NoError(t, err)
	require.Equal(t, 2, summary.PlacedOrders)
}

func TestRunCycleSurfacesPrimaryFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	exchange := NewMockExchange(ctrl)
	exchange.EXPECT().Tickers(gomock.Any()).Return(map[string]models.Ticker{
		"BTC-PERP": {Price: 100, SizeDecimals: 2},
	}, nil)
	exchange.EXPECT().Positions(gomock.Any()).Return(nil, nil)

	primary := NewMockAnalysisSource(ctrl)
	primary.EXPECT().FetchAnalysis(gomock.Any(), gomock.Any()).Return(nil, errors.New("primary boom"))
	fallback := NewMockAnalysisSource(ctrl)
	fallback.EXPECT().FetchAnalysis(gomock.Any(), gomock.Any()).Return(nil, errors.New("fallback boom"))

	maker := usecase.NewMarketMaker(exchange, nil, []domsvc.AnalysisSource{primary, fallback},
		relaxedEvents(ctrl), relaxedMetrics(ctrl), testSettings(false), newTestLogger(t))

	// Act
	_, err := maker.RunCycle(context.Background())

	// Assert: when every source fails, the primary's error is the one seen.
	require.ErrorContains(t, err, "primary boom")
	require.NotContains(t, err.Error(), "fallback boom")
}

func TestRunCycleFailsWithoutSnapshots(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	exchange := NewMockExchange(ctrl)
	exchange.EXPECT().Tickers(gomock.Any()).Return(map[string]models.Ticker{}, nil)
	exchange.EXPECT().Positions(gomock.Any()).Return(nil, nil)

	// No analysis source may be consulted for an empty snapshot set.
	source := NewMockAnalysisSource(ctrl)

	maker := usecase.NewMarketMaker(exchange, nil, []domsvc.AnalysisSource{source},
		relaxedEvents(ctrl), relaxedMetrics(ctrl), testSettings(false), newTestLogger(t))

	// Act
	_, err := maker.RunCycle(context.Background())

	// Assert
	require.ErrorContains(t, err, "no market snapshots available")
}

func TestRunCycleToleratesChangeLookupFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	exchange := NewMockExchange(ctrl)
	exchange.EXPECT().Tickers(gomock.Any()).Return(map[string]models.Ticker{
		"BTC-PERP": {Price: 100, SizeDecimals: 2},
	}, nil)
	exchange.EXPECT().Positions(gomock.Any()).Return(nil, nil)

	changes := NewMockChangeSource(ctrl)
	changes.EXPECT().Changes24h(gomock.Any(), gomock.Any()).Return(nil, errors.New("rate limited"))

	source := NewMockAnalysisSource(ctrl)
	source.EXPECT().
		FetchAnalysis(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, snapshots []models.SymbolSnapshot) (*models.AnalysisResult, error) {
			require.Len(t, snapshots, 1)
			require.Nil(t, snapshots[0].Change24h)
			return testAnalysis(), nil
		})

	maker := usecase.NewMarketMaker(exchange, changes, []domsvc.AnalysisSource{source},
		relaxedEvents(ctrl), relaxedMetrics(ctrl), testSettings(false), newTestLogger(t))

	// Act
	summary, err := maker.RunCycle(context.Background())

	// Assert: the dead change feed cost nothing but the change values.
	require.NoError(t, err)
	require.Equal(t, 2, summary.PlacedOrders)
}

func TestRunCycleSkipsBelowMinimumSymbols(t *testing.T) {
	t.Parallel()

	// Arrange: a mid so low that both rounded sizes fall under the
	// minimum order value.
	ctrl := gomock.NewController(t)
	exchange := NewMockExchange(ctrl)
	exchange.EXPECT().Tickers(gomock.Any()).Return(map[string]models.Ticker{
		"BTC-PERP": {Price: 1.2, SizeDecimals: 0},
	}, nil)
	exchange.EXPECT().Positions(gomock.Any()).Return(nil, nil)

	source := NewMockAnalysisSource(ctrl)
	analysis := testAnalysis()
	analysis.StrategyRecommendations.MaxPosition = 4
	source.EXPECT().FetchAnalysis(gomock.Any(), gomock.Any()).Return(analysis, nil)

	settings := testSettings(true)
	settings.MinOrderValue = 10

	maker := usecase.NewMarketMaker(exchange, nil, []domsvc.AnalysisSource{source},
		relaxedEvents(ctrl), relaxedMetrics(ctrl), settings, newTestLogger(t))

	// Act
	summary, err := maker.RunCycle(context.Background())

	// Assert: counted as skipped, no gateway call for the symbol.
	require.NoError(t, err)
	require.Zero(t, summary.PlacedOrders)
	require.Equal(t, 1, summary.SkippedOrders)
}
