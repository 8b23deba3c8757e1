package di

import (
	"fmt"

	drepo "HyperMaker/internal/domain/repository"
	domsvc "HyperMaker/internal/domain/service"
	internalrepo "HyperMaker/internal/repository"
	"HyperMaker/internal/service/coingecko"
	"HyperMaker/internal/service/hyperliquid"
	"HyperMaker/internal/service/ratelimit"
	"HyperMaker/internal/services/analysis"
	"HyperMaker/internal/usecase"
	"HyperMaker/pkg/cache"
	"HyperMaker/pkg/config"
	pkghttp "HyperMaker/pkg/http"
	pkgkafka "HyperMaker/pkg/kafka"
	applogger "HyperMaker/pkg/logger"
	"HyperMaker/pkg/metrics"
	"HyperMaker/pkg/server"
)

// Options are the run-scoped switches the CLI hands into the graph.
type Options struct {
	Execute bool
}

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideCache creates the cache backend selected by cache.mode.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Mode {
	case "redis":
		return cache.NewRedisCache(redisOptions(cfg)...)
	case "layered":
		redisCache, err := cache.NewRedisCache(redisOptions(cfg)...)
		if err != nil {
			return nil, err
		}
		return cache.NewLayeredCache(redisCache), nil
	default:
		return cache.NewMemoryCache(), nil
	}
}

func redisOptions(cfg *config.Config) []cache.RedisOption {
	return []cache.RedisOption{
		cache.WithRedisAddr(cfg.Cache.Redis.Addr),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	}
}

// ProvideRateLimiter creates the shared token-bucket limiter.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideExchange creates the Hyperliquid client with its own HTTP client
// so the exchange timeout applies only to venue traffic.
func ProvideExchange(cfg *config.Config, l *applogger.Logger) (drepo.Exchange, error) {
	httpc := pkghttp.NewClient(pkghttp.WithTimeout(cfg.Exchange.RequestTimeout))
	return hyperliquid.New(hyperliquid.Config{
		Network:       cfg.Exchange.Network,
		APIURL:        cfg.Exchange.APIURL,
		WalletAddress: cfg.Exchange.WalletAddress,
		Dex:           cfg.Exchange.Dex,
		GatewayURL:    cfg.Exchange.GatewayURL,
		GatewayAPIKey: cfg.Exchange.GatewayAPIKey,
	}, httpc, l)
}

// ProvideChangeSource creates the 24h-change source, or nil when the feed
// is disabled. The orchestrator tolerates a nil source.
func ProvideChangeSource(cfg *config.Config, cacheSvc cache.Service, limiter *ratelimit.Limiter, l *applogger.Logger) drepo.ChangeSource {
	if !cfg.Changes.Enabled {
		return nil
	}
	httpc := pkghttp.NewClient(pkghttp.WithTimeout(cfg.Changes.RequestTimeout))
	return coingecko.New(coingecko.Config{
		BaseURL:       cfg.Changes.BaseURL,
		CacheTTL:      cfg.Changes.CacheTTL,
		RatePerMinute: cfg.Changes.RatePerMinute,
	}, httpc, cacheSvc, limiter, l)
}

// ProvideAnalysisSources builds the ordered analysis source chain.
func ProvideAnalysisSources(cfg *config.Config, l *applogger.Logger) ([]domsvc.AnalysisSource, error) {
	am := cfg.Analysis.AgentMarket
	settings := analysis.Settings{
		BaseURL:          am.BaseURL,
		APIKey:           am.APIKey,
		MaxCredit:        am.MaxCredit,
		InstanceTimeout:  am.InstanceTimeout,
		RewardTimeout:    am.RewardTimeout,
		PollInterval:     am.PollInterval,
		MaxPolls:         am.MaxPolls,
		PercentageReward: am.PercentageReward,
		SideEffectFree:   am.SideEffectFree,
		MaxProviders:     am.MaxProviders,
		ContestMode:      am.ContestMode,
	}
	return analysis.BuildSources(cfg.Analysis.Provider, settings, pkghttp.NewClient(), l)
}

// ProvideOrderEventPublisher creates the Kafka order event publisher, or
// a no-op one when the event bus is disabled.
func ProvideOrderEventPublisher(cfg *config.Config) (drepo.OrderEventPublisher, error) {
	if !cfg.Events.Enabled {
		return internalrepo.NewNopOrderPublisher(), nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithClientID(cfg.Events.ClientID),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaOrderPublisher(producer, cfg.Events.Topic), nil
}

// ProvideUsecaseSettings merges strategy config with the CLI switches.
func ProvideUsecaseSettings(cfg *config.Config, opts Options) usecase.Settings {
	return usecase.Settings{
		Markets:        cfg.Strategy.Markets,
		PortfolioValue: cfg.Strategy.PortfolioValue,
		MinOrderValue:  cfg.Strategy.MinOrderValue,
		CloseSlippage:  cfg.Strategy.CloseSlippage,
		Execute:        opts.Execute,
	}
}

// ProvideMarketMaker creates the quoting cycle use case.
func ProvideMarketMaker(
	exchange drepo.Exchange,
	changes drepo.ChangeSource,
	sources []domsvc.AnalysisSource,
	events drepo.OrderEventPublisher,
	m drepo.Metrics,
	settings usecase.Settings,
	l *applogger.Logger,
) *usecase.MarketMaker {
	return usecase.NewMarketMaker(exchange, changes, sources, events, m, settings, l)
}

// ProvideFlattener creates the close-only use case.
func ProvideFlattener(
	exchange drepo.Exchange,
	m drepo.Metrics,
	settings usecase.Settings,
	l *applogger.Logger,
) *usecase.Flattener {
	return usecase.NewFlattener(exchange, m, settings, l)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	maker *usecase.MarketMaker,
	flattener *usecase.Flattener,
	events drepo.OrderEventPublisher,
	cacheSvc cache.Service,
	l *applogger.Logger,
) *server.App {
	return server.New(cfg, maker, flattener, events, cacheSvc, l)
}
