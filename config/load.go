package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"options-maker-go/infrastructure/logger"
	"options-maker-go/pricing"
	"options-maker-go/strategy"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env         string         `yaml:"env"`
	Logger      logger.Config  `yaml:"logger"`
	MetricsAddr string         `yaml:"metricsAddr"`
	Venue       VenueConfig    `yaml:"venue"`
	Trading     TradingConfig  `yaml:"trading"`
	Options     []OptionConfig `yaml:"options"`
}

type VenueConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AuthToken string `yaml:"authToken"`
}

// TradingConfig 保存报价与对冲的全部静态假设。
type TradingConfig struct {
	Underlying      string  `yaml:"underlying"`      // 标的股票的品种 ID
	InterestRate    float64 `yaml:"interestRate"`    // 固定利率假设
	Volatility      float64 `yaml:"volatility"`      // 固定波动率假设
	TickSize        float64 `yaml:"tickSize"`        // 最小报价增量
	BaseVolume      int     `yaml:"baseVolume"`      // 基础报价数量
	PositionLimit   int     `yaml:"positionLimit"`   // 全局硬性仓位上限
	HedgeDeadband   float64 `yaml:"hedgeDeadband"`   // 净敞口死区（绝对值）
	StanceThreshold int     `yaml:"stanceThreshold"` // 方向压制的进入阈值
	QuotePauseMs    int     `yaml:"quotePauseMs"`    // 相邻期权报价之间的停顿
	LoopPauseMs     int     `yaml:"loopPauseMs"`     // 相邻迭代之间的停顿
}

type OptionConfig struct {
	ID     string    `yaml:"id"`
	Expiry time.Time `yaml:"expiry"`
	Strike float64   `yaml:"strike"`
	Kind   string    `yaml:"kind"` // call 或 put
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides sensitive fields from env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("MM_VENUE_ENDPOINT"); v != "" {
		cfg.Venue.Endpoint = v
	}
	if v := os.Getenv("MM_VENUE_AUTH_TOKEN"); v != "" {
		cfg.Venue.AuthToken = v
	}
	return cfg, Validate(cfg)
}

// Validate ensures required fields are present.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if cfg.Venue.Endpoint == "" {
		return errors.New("venue.endpoint is required (or MM_VENUE_ENDPOINT)")
	}
	t := cfg.Trading
	if t.Underlying == "" {
		return errors.New("trading.underlying is required")
	}
	if t.TickSize <= 0 {
		return errors.New("trading.tickSize must be > 0")
	}
	if t.BaseVolume <= 0 {
		return errors.New("trading.baseVolume must be > 0")
	}
	if t.PositionLimit <= 0 {
		return errors.New("trading.positionLimit must be > 0")
	}
	if t.Volatility <= 0 {
		return errors.New("trading.volatility must be > 0")
	}
	if t.HedgeDeadband < 0 {
		return errors.New("trading.hedgeDeadband must be >= 0")
	}
	if t.StanceThreshold < 0 {
		return errors.New("trading.stanceThreshold must be >= 0")
	}
	if t.QuotePauseMs < 0 || t.LoopPauseMs < 0 {
		return errors.New("trading pauses must be >= 0")
	}
	if len(cfg.Options) == 0 {
		return errors.New("options config is required")
	}
	seen := make(map[string]bool, len(cfg.Options))
	for _, oc := range cfg.Options {
		if oc.ID == "" {
			return errors.New("option id is required")
		}
		if seen[oc.ID] {
			return fmt.Errorf("duplicate option id %s", oc.ID)
		}
		seen[oc.ID] = true
		if oc.Strike <= 0 {
			return fmt.Errorf("option %s strike must be > 0", oc.ID)
		}
		if oc.Expiry.IsZero() {
			return fmt.Errorf("option %s expiry is required", oc.ID)
		}
		if _, err := pricing.ParseKind(oc.Kind); err != nil {
			return fmt.Errorf("option %s: %w", oc.ID, err)
		}
	}
	return nil
}

// BuildOptions 把校验过的配置转换成策略持有的期权列表。
func BuildOptions(cfg AppConfig) ([]*strategy.Option, error) {
	options := make([]*strategy.Option, 0, len(cfg.Options))
	for _, oc := range cfg.Options {
		kind, err := pricing.ParseKind(oc.Kind)
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", oc.ID, err)
		}
		options = append(options, &strategy.Option{
			ID:     oc.ID,
			Expiry: oc.Expiry,
			Strike: oc.Strike,
			Kind:   kind,
		})
	}
	return options, nil
}
