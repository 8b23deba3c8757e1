package hyperliquid

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"HyperMaker/internal/domain/apperror"
	"HyperMaker/internal/domain/models"
	drepo "HyperMaker/internal/domain/repository"
	pkghttp "HyperMaker/pkg/http"
	applogger "HyperMaker/pkg/logger"
)

const (
	mainnetAPIURL = "https://api.hyperliquid.xyz"
	testnetAPIURL = "https://api.hyperliquid-testnet.xyz"

	defaultSizeDecimals = 5
)

// Config carries endpoints and identity for one exchange client.
type Config struct {
	Network       string
	APIURL        string
	WalletAddress string
	Dex           string
	GatewayURL    string
	GatewayAPIKey string
}

// Client implements the Exchange surface: market reads go straight to the
// public info API, order submission goes through the signing gateway. The
// gateway holds the key; this process never sees it.
type Client struct {
	baseURL    string
	gatewayURL string
	gatewayKey string
	wallet     string
	dex        string

	httpc  *pkghttp.Client
	logger *applogger.Logger

	mu       sync.Mutex
	szByCoin map[string]int
}

// New creates a Hyperliquid exchange client.
func New(cfg Config, httpc *pkghttp.Client, l *applogger.Logger) (drepo.Exchange, error) {
	base, err := resolveBaseURL(cfg)
	if err != nil {
		return nil, err
	}
	wallet := strings.TrimSpace(cfg.WalletAddress)
	if wallet == "" {
		return nil, apperror.ConfigurationError("wallet address must be configured to read positions")
	}
	return &Client{
		baseURL:    base,
		gatewayURL: strings.TrimRight(strings.TrimSpace(cfg.GatewayURL), "/"),
		gatewayKey: cfg.GatewayAPIKey,
		wallet:     wallet,
		dex:        cfg.Dex,
		httpc:      httpc,
		logger:     l,
	}, nil
}

func resolveBaseURL(cfg Config) (string, error) {
	if u := strings.TrimSpace(cfg.APIURL); u != "" {
		return strings.TrimRight(u, "/"), nil
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Network)) {
	case "", "mainnet":
		return mainnetAPIURL, nil
	case "testnet":
		return testnetAPIURL, nil
	default:
		return "", apperror.ConfigurationErrorf("unsupported hyperliquid network %q (expected mainnet or testnet)", cfg.Network)
	}
}

// Tickers returns symbol -> {mid price, size decimals} for every listed coin.
func (c *Client) Tickers(ctx context.Context) (map[string]models.Ticker, error) {
	sz, err := c.sizeDecimals(ctx)
	if err != nil {
		return nil, err
	}

	var mids map[string]string
	if err := c.info(ctx, c.infoPayload("allMids"), &mids); err != nil {
		return nil, err
	}

	tickers := make(map[string]models.Ticker, len(mids))
	for coin, raw := range mids {
		dec, ok := sz[coin]
		if !ok {
			dec = defaultSizeDecimals
		}
		tickers[coinToSymbol(coin)] = models.Ticker{
			Price:        safeFloat(raw),
			SizeDecimals: dec,
		}
	}
	return tickers, nil
}

// Positions returns all open positions with signed quantities (positive = long).
func (c *Client) Positions(ctx context.Context) ([]models.Position, error) {
	payload := c.infoPayload("clearinghouseState")
	payload["user"] = c.wallet

	var state struct {
		AssetPositions []struct {
			Position struct {
				Coin string `json:"coin"`
				Szi  string `json:"szi"`
			} `json:"position"`
		} `json:"assetPositions"`
	}
	if err := c.info(ctx, payload, &state); err != nil {
		return nil, err
	}

	positions := make([]models.Position, 0, len(state.AssetPositions))
	for _, ap := range state.AssetPositions {
		if ap.Position.Coin == "" {
			continue
		}
		positions = append(positions, models.Position{
			Symbol:   coinToSymbol(ap.Position.Coin),
			Quantity: safeFloat(ap.Position.Szi),
		})
	}
	return positions, nil
}

type gatewayOrder struct {
	Coin       string `json:"coin"`
	IsBuy      bool   `json:"isBuy"`
	Size       string `json:"size"`
	LimitPrice string `json:"limitPrice"`
	Tif        string `json:"tif"`
	ReduceOnly bool   `json:"reduceOnly"`
}

// PlaceOrder submits one limit order through the gateway. Only LMT/LIMIT
// order types are supported; validation failures are raised before any
// network call.
func (c *Client) PlaceOrder(ctx context.Context, req models.OrderRequest) (*models.OrderResult, error) {
	orderType := strings.ToUpper(req.OrderType)
	if orderType != "LMT" && orderType != "LIMIT" {
		return nil, apperror.ConfigurationErrorf("unsupported order type %q for hyperliquid", req.OrderType)
	}
	if req.LimitPrice == nil {
		return nil, apperror.ConfigurationError("limit price is required for limit orders")
	}
	tif, err := normalizeTIF(req.TimeInForce)
	if err != nil {
		return nil, err
	}
	if c.gatewayURL == "" {
		return nil, apperror.ConfigurationError("order gateway must be configured to submit orders")
	}

	order := gatewayOrder{
		Coin:       symbolToCoin(req.Symbol),
		IsBuy:      req.Side == models.SideBuy,
		Size:       decimal.NewFromFloat(req.Quantity).String(),
		LimitPrice: decimal.NewFromFloat(*req.LimitPrice).String(),
		Tif:        tif,
		ReduceOnly: req.ReduceOnly,
	}

	var result models.OrderResult
	err = c.httpc.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:  pkghttp.MethodPost,
		URL:     c.gatewayURL + "/orders",
		Headers: map[string]string{"x-api-key": c.gatewayKey},
		Body:    order,
	}, &result)
	if err != nil {
		return nil, apperror.TransportErrorf("gateway order %s %s", req.Side, req.Symbol).WithError(err)
	}

	c.logger.Debug("order accepted",
		applogger.String("symbol", req.Symbol),
		applogger.String("side", string(req.Side)),
		applogger.String("order_id", result.OrderID))
	return &result, nil
}

// sizeDecimals fetches the perp universe metadata once and caches the
// per-coin size precision for the life of the client.
func (c *Client) sizeDecimals(ctx context.Context) (map[string]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.szByCoin != nil {
		return c.szByCoin, nil
	}

	var meta struct {
		Universe []struct {
			Name       string `json:"name"`
			SzDecimals int    `json:"szDecimals"`
		} `json:"universe"`
	}
	if err := c.info(ctx, c.infoPayload("meta"), &meta); err != nil {
		return nil, err
	}

	sz := make(map[string]int, len(meta.Universe))
	for _, u := range meta.Universe {
		sz[u.Name] = u.SzDecimals
	}
	c.szByCoin = sz
	return sz, nil
}

func (c *Client) info(ctx context.Context, payload map[string]interface{}, dest interface{}) error {
	err := c.httpc.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodPost,
		URL:    c.baseURL + "/info",
		Body:   payload,
	}, dest)
	if err != nil {
		return apperror.TransportErrorf("hyperliquid info %v", payload["type"]).WithError(err)
	}
	return nil
}

func (c *Client) infoPayload(kind string) map[string]interface{} {
	p := map[string]interface{}{"type": kind}
	if c.dex != "" {
		p["dex"] = c.dex
	}
	return p
}

func normalizeTIF(value string) (string, error) {
	key := strings.ToUpper(strings.TrimSpace(value))
	if key == "" {
		key = "GTC"
	}
	switch key {
	case "GTC":
		return "Gtc", nil
	case "IOC":
		return "Ioc", nil
	case "ALO":
		return "Alo", nil
	}
	return "", apperror.ConfigurationErrorf("unsupported time-in-force %q", value)
}

func symbolToCoin(symbol string) string {
	return strings.TrimSuffix(strings.ToUpper(symbol), "-PERP")
}

// coinToSymbol maps an exchange coin id to the tradable symbol form:
// "BTC" -> "BTC-PERP", builder pairs "dex:COIN" -> "COIN-PERP".
func coinToSymbol(coin string) string {
	base := coin
	if i := strings.LastIndex(coin, ":"); i >= 0 {
		base = coin[i+1:]
	}
	return base + "-PERP"
}

func safeFloat(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return f
}
