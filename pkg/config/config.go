package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"HyperMaker/pkg/util"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Exchange ExchangeConfig `yaml:"exchange"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Strategy StrategyConfig `yaml:"strategy"`
	Changes  ChangesConfig  `yaml:"changes"`
	Cache    CacheConfig    `yaml:"cache"`
	Events   EventsConfig   `yaml:"events"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"console"`
	Output string `yaml:"output" default:"stdout"`
}

// ExchangeConfig covers both halves of exchange access: reads go straight
// to the public info API of the selected network, writes go through the
// order gateway that holds the signing key.
type ExchangeConfig struct {
	Network        string        `yaml:"network" default:"mainnet" validate:"oneof=mainnet testnet"`
	APIURL         string        `yaml:"api_url"`
	WalletAddress  string        `yaml:"wallet_address"`
	Dex            string        `yaml:"dex"`
	GatewayURL     string        `yaml:"gateway_url"`
	GatewayAPIKey  string        `yaml:"gateway_api_key"`
	RequestTimeout time.Duration `yaml:"request_timeout" default:"10s"`
}

type AnalysisConfig struct {
	Provider    string            `yaml:"provider" default:"auto"`
	AgentMarket AgentMarketConfig `yaml:"agent_market"`
}

// AgentMarketConfig mirrors the provider's instance-creation payload; the
// timeout and interval fields are integer seconds because that is what the
// wire format and the AGENT_MARKET_* environment contract use.
type AgentMarketConfig struct {
	BaseURL          string  `yaml:"base_url" default:"https://api.agent.market"`
	APIKey           string  `yaml:"api_key"`
	MaxCredit        float64 `yaml:"max_credit" default:"0.05"`
	InstanceTimeout  int     `yaml:"instance_timeout" default:"90" validate:"gt=0"`
	RewardTimeout    int     `yaml:"reward_timeout" default:"172800" validate:"gt=0"`
	PollInterval     int     `yaml:"poll_interval" default:"5" validate:"gte=0"`
	MaxPolls         int     `yaml:"max_polls" default:"18" validate:"gt=0"`
	PercentageReward float64 `yaml:"percentage_reward" default:"0.5"`
	SideEffectFree   bool    `yaml:"side_effect_free"`
	MaxProviders     int     `yaml:"max_providers" default:"1" validate:"gt=0"`
	ContestMode      bool    `yaml:"contest_mode"`
}

type StrategyConfig struct {
	Markets        []string `yaml:"markets" default:"[\"BTC-PERP\",\"ETH-PERP\",\"SOL-PERP\"]" validate:"min=1,dive,required"`
	PortfolioValue float64  `yaml:"portfolio_value" default:"997.5" validate:"gt=0"`
	MinOrderValue  float64  `yaml:"min_order_value" default:"10" validate:"gte=0"`
	CloseSlippage  float64  `yaml:"close_slippage" default:"0.02" validate:"gte=0"`
}

type ChangesConfig struct {
	Enabled        bool          `yaml:"enabled" default:"true"`
	BaseURL        string        `yaml:"base_url" default:"https://api.coingecko.com"`
	RequestTimeout time.Duration `yaml:"request_timeout" default:"10s"`
	CacheTTL       time.Duration `yaml:"cache_ttl" default:"5m"`
	RatePerMinute  int           `yaml:"rate_per_minute" default:"10" validate:"gt=0"`
}

type CacheConfig struct {
	Mode  string      `yaml:"mode" default:"memory" validate:"oneof=memory redis layered"`
	Redis RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" default:"localhost:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix" default:"hypermaker"`
}

type EventsConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Brokers  []string `yaml:"brokers" default:"[\"localhost:9092\"]"`
	Topic    string   `yaml:"topic" default:"maker.orders"`
	ClientID string   `yaml:"client_id" default:"hypermaker"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host" default:"0.0.0.0"`
	Port    int    `yaml:"port" default:"9090" validate:"gt=0,lte=65535"`
}

// Load parses a YAML configuration file over the struct defaults. A missing
// file is not an error: the returned config then carries defaults only,
// ready for the environment pass.
func Load(path string) (*Config, error) {
	c := &Config{}
	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables. A .env file in the working directory is honored first.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Exchange
	if v := os.Getenv("HYPERLIQUID_NETWORK"); v != "" {
		c.Exchange.Network = strings.ToLower(v)
	}
	if v := os.Getenv("HYPERLIQUID_API_URL"); v != "" {
		c.Exchange.APIURL = v
	}
	if v := os.Getenv("HYPERLIQUID_WALLET_ADDRESS"); v != "" {
		c.Exchange.WalletAddress = v
	}
	if v := os.Getenv("HYPERLIQUID_DEX"); v != "" {
		c.Exchange.Dex = v
	}
	if v := os.Getenv("HYPERLIQUID_GATEWAY_URL"); v != "" {
		c.Exchange.GatewayURL = v
	}
	if v := os.Getenv("HYPERLIQUID_GATEWAY_KEY"); v != "" {
		c.Exchange.GatewayAPIKey = v
	}

	// Strategy
	if v := os.Getenv("HYPERLIQUID_SYMBOLS"); v != "" {
		c.Strategy.Markets = util.SplitCSV(strings.ToUpper(v))
	}
	if v := os.Getenv("HYPERLIQUID_PORTFOLIO_VALUE"); v != "" {
		c.Strategy.PortfolioValue = util.ParseFloatDefault(v, c.Strategy.PortfolioValue)
	}
	if v := os.Getenv("HYPERLIQUID_MIN_ORDER_VALUE"); v != "" {
		c.Strategy.MinOrderValue = util.ParseFloatDefault(v, c.Strategy.MinOrderValue)
	}

	// Analysis
	if v := os.Getenv("ANALYSIS_PROVIDER"); v != "" {
		c.Analysis.Provider = strings.ToLower(v)
	}
	am := &c.Analysis.AgentMarket
	if v := os.Getenv("AGENT_MARKET_API_KEY"); v != "" {
		am.APIKey = v
	}
	if v := os.Getenv("AGENT_MARKET_BASE_URL"); v != "" {
		am.BaseURL = v
	}
	if v := os.Getenv("AGENT_MARKET_MAX_CREDIT"); v != "" {
		am.MaxCredit = util.ParseFloatDefault(v, am.MaxCredit)
	}
	if v := os.Getenv("AGENT_MARKET_INSTANCE_TIMEOUT"); v != "" {
		am.InstanceTimeout = util.ParseIntDefault(v, am.InstanceTimeout)
	}
	if v := os.Getenv("AGENT_MARKET_REWARD_TIMEOUT"); v != "" {
		am.RewardTimeout = util.ParseIntDefault(v, am.RewardTimeout)
	}
	if v := os.Getenv("AGENT_MARKET_POLL_INTERVAL"); v != "" {
		am.PollInterval = util.ParseIntDefault(v, am.PollInterval)
	}
	if v := os.Getenv("AGENT_MARKET_MAX_POLLS"); v != "" {
		am.MaxPolls = util.ParseIntDefault(v, am.MaxPolls)
	}
	if v := os.Getenv("AGENT_MARKET_PERCENTAGE_REWARD"); v != "" {
		am.PercentageReward = util.ParseFloatDefault(v, am.PercentageReward)
	}
	if v := os.Getenv("AGENT_MARKET_SIDE_EFFECT_FREE"); v != "" {
		am.SideEffectFree = util.ParseBoolDefault(v, am.SideEffectFree)
	}
	if v := os.Getenv("AGENT_MARKET_MAX_PROVIDERS"); v != "" {
		am.MaxProviders = util.ParseIntDefault(v, am.MaxProviders)
	}
	if v := os.Getenv("AGENT_MARKET_CONTEST_MODE"); v != "" {
		am.ContestMode = util.ParseBoolDefault(v, am.ContestMode)
	}

	// Infrastructure
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Events.Brokers = util.SplitCSV(v)
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Events.Topic = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			parts := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				parts = append(parts, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%s", strings.Join(parts, "; "))
		}
		return err
	}
	return nil
}
