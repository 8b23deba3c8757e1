package coingecko

import (
	"context"
	"strings"
	"time"

	"HyperMaker/internal/domain/apperror"
	drepo "HyperMaker/internal/domain/repository"
	"HyperMaker/internal/service/ratelimit"
	"HyperMaker/pkg/cache"
	pkghttp "HyperMaker/pkg/http"
	applogger "HyperMaker/pkg/logger"
)

const limiterKey = "coingecko"

// coinIDs maps tradable symbols to CoinGecko asset ids. Symbols outside
// this map are omitted from the lookup, never errored on.
var coinIDs = map[string]string{
	"BTC-PERP":  "bitcoin",
	"ETH-PERP":  "ethereum",
	"SOL-PERP":  "solana",
	"ARB-PERP":  "arbitrum",
	"AVAX-PERP": "avalanche-2",
	"OP-PERP":   "optimism",
}

// Config carries the lookup endpoint and throttling knobs.
type Config struct {
	BaseURL       string
	CacheTTL      time.Duration
	RatePerMinute int
}

// Client resolves 24h percentage moves from the CoinGecko simple-price
// endpoint, cached per symbol and throttled to the free-tier budget.
type Client struct {
	baseURL string
	ttl     time.Duration
	rate    float64

	httpc   *pkghttp.Client
	cache   cache.Service
	limiter *ratelimit.Limiter
	logger  *applogger.Logger
}

// New creates a CoinGecko change source.
func New(cfg Config, httpc *pkghttp.Client, cacheSvc cache.Service, limiter *ratelimit.Limiter, l *applogger.Logger) drepo.ChangeSource {
	rate := float64(cfg.RatePerMinute)
	if rate <= 0 {
		rate = 10
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		ttl:     cfg.CacheTTL,
		rate:    rate,
		httpc:   httpc,
		cache:   cacheSvc,
		limiter: limiter,
		logger:  l,
	}
}

// Changes24h returns symbol -> 24h percentage change for every requested
// symbol it can resolve. Cached values are served without a network call.
func (c *Client) Changes24h(ctx context.Context, symbols []string) (map[string]float64, error) {
	mapped := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if _, ok := coinIDs[s]; ok {
			mapped = append(mapped, s)
		}
	}
	if len(mapped) == 0 {
		return map[string]float64{}, nil
	}

	out := make(map[string]float64, len(mapped))
	missing := make([]string, 0, len(mapped))

	keys := make([]string, 0, len(mapped))
	for _, s := range mapped {
		keys = append(keys, cache.GenerateKey("changes", s))
	}
	cached, err := cache.MGetTyped[float64](ctx, c.cache, keys...)
	if err != nil {
		cached = map[string]float64{}
	}
	for _, s := range mapped {
		if v, ok := cached[cache.GenerateKey("changes", s)]; ok {
			out[s] = v
		} else {
			missing = append(missing, s)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	if err := c.limiter.Wait(ctx, limiterKey, c.rate, c.rate/60); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(missing))
	for _, s := range missing {
		ids = append(ids, coinIDs[s])
	}

	var resp map[string]map[string]float64
	err = c.httpc.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.baseURL + "/api/v3/simple/price",
		QueryParams: map[string][]string{
			"ids":                 {strings.Join(ids, ",")},
			"vs_currencies":       {"usd"},
			"include_24hr_change": {"true"},
		},
	}, &resp)
	if err != nil {
		return nil, apperror.TransportError("coingecko simple price").WithError(err)
	}

	for _, s := range missing {
		entry, ok := resp[coinIDs[s]]
		if !ok {
			continue
		}
		chg, ok := entry["usd_24h_change"]
		if !ok {
			continue
		}
		out[s] = chg
		if c.ttl > 0 {
			_ = c.cache.Set(ctx, cache.GenerateKey("changes", s), chg, c.ttl)
		}
	}

	c.logger.Debug("24h changes resolved",
		applogger.Int("requested", len(symbols)),
		applogger.Int("resolved", len(out)))
	return out, nil
}
