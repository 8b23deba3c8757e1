//go:build wireinject
// +build wireinject

package di

import (
	"HyperMaker/pkg/config"
	"HyperMaker/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config, opts Options) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,
		ProvideRateLimiter,

		// Venue and provider clients
		ProvideExchange,
		ProvideChangeSource,
		ProvideAnalysisSources,
		ProvideOrderEventPublisher,

		// Use cases
		ProvideUsecaseSettings,
		ProvideMarketMaker,
		ProvideFlattener,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
