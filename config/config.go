package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Indicator types understood by indicator.New
// -----------------------------------------------------------------------------
const (
	TypeSMA        = "sma"
	TypeEMA        = "ema"
	TypeRSI        = "rsi"
	TypeMACD       = "macd"
	TypeBollinger  = "bollinger"
	TypeStochastic = "stochastic"
	TypeATR        = "atr"
	TypeADX        = "adx"
	TypeCCI        = "cci"
	TypeWilliamsR  = "williams_r"
	TypeOBV        = "obv"
)

// KnownTypes lists every indicator type in registration order.
var KnownTypes = []string{
	TypeSMA, TypeEMA, TypeRSI, TypeMACD, TypeBollinger, TypeStochastic,
	TypeATR, TypeADX, TypeCCI, TypeWilliamsR, TypeOBV,
}

// Environment variables read by ApplyEnv.
const (
	EnvMarketDataAPI = "MARKET_DATA_API"
	EnvLogLevel      = "GOQUANT_LOG_LEVEL"
)

const (
	DefaultMarketDataAPI = "http://localhost:8080/api"
	DefaultInterval      = "1d"
	DefaultCount         = 100
	DefaultPrecision     = 6
	DefaultLogLevel      = "info"

	maxPrecision = 12
)

// -----------------------------------------------------------------------------
// IndicatorSpec – one entry of the registration table
// -----------------------------------------------------------------------------

// IndicatorSpec names a configured indicator instance. Only the fields the
// Type uses are read; zero values fall back to that indicator's defaults.
type IndicatorSpec struct {
	Name         string  `yaml:"name"`
	Type         string  `yaml:"type"`
	Period       int     `yaml:"period,omitempty"`
	FastPeriod   int     `yaml:"fast_period,omitempty"`
	SlowPeriod   int     `yaml:"slow_period,omitempty"`
	SignalPeriod int     `yaml:"signal_period,omitempty"`
	KPeriod      int     `yaml:"k_period,omitempty"`
	DPeriod      int     `yaml:"d_period,omitempty"`
	StdDev       float64 `yaml:"std_dev,omitempty"`
}

// -----------------------------------------------------------------------------
// IndicatorConfig – registration table plus service settings
// -----------------------------------------------------------------------------
type IndicatorConfig struct {
	Indicators []IndicatorSpec `yaml:"indicators"`

	MarketDataAPI   string `yaml:"market_data_api"`
	LogLevel        string `yaml:"log_level"`
	DefaultInterval string `yaml:"default_interval"`
	DefaultCount    int    `yaml:"default_count"`
	// Precision is the number of decimal places values are rounded to in
	// responses.
	Precision int `yaml:"precision"`
}

// DefaultConfig returns the standard registration table.
func DefaultConfig() IndicatorConfig {
	return IndicatorConfig{
		Indicators:      DefaultIndicators(),
		MarketDataAPI:   DefaultMarketDataAPI,
		LogLevel:        DefaultLogLevel,
		DefaultInterval: DefaultInterval,
		DefaultCount:    DefaultCount,
		Precision:       DefaultPrecision,
	}
}

// DefaultIndicators returns the built-in set of named indicator instances.
func DefaultIndicators() []IndicatorSpec {
	return []IndicatorSpec{
		{Name: "sma_5", Type: TypeSMA, Period: 5},
		{Name: "sma_10", Type: TypeSMA, Period: 10},
		{Name: "sma_20", Type: TypeSMA, Period: 20},
		{Name: "sma_50", Type: TypeSMA, Period: 50},
		{Name: "sma_200", Type: TypeSMA, Period: 200},

		{Name: "ema_5", Type: TypeEMA, Period: 5},
		{Name: "ema_10", Type: TypeEMA, Period: 10},
		{Name: "ema_12", Type: TypeEMA, Period: 12},
		{Name: "ema_20", Type: TypeEMA, Period: 20},
		{Name: "ema_26", Type: TypeEMA, Period: 26},
		{Name: "ema_50", Type: TypeEMA, Period: 50},

		{Name: "rsi_14", Type: TypeRSI, Period: 14},
		{Name: "rsi_9", Type: TypeRSI, Period: 9},

		{Name: "macd", Type: TypeMACD, FastPeriod: 12, SlowPeriod: 26, SignalPeriod: 9},
		{Name: "macd_fast", Type: TypeMACD, FastPeriod: 5, SlowPeriod: 13, SignalPeriod: 5},

		{Name: "bb_20", Type: TypeBollinger, Period: 20, StdDev: 2},
		{Name: "bb_20_3std", Type: TypeBollinger, Period: 20, StdDev: 3},

		{Name: "atr_14", Type: TypeATR, Period: 14},

		{Name: "stoch_14_3", Type: TypeStochastic, KPeriod: 14, DPeriod: 3},
		{Name: "stoch_5_3", Type: TypeStochastic, KPeriod: 5, DPeriod: 3},

		{Name: "adx_14", Type: TypeADX, Period: 14},

		{Name: "cci_20", Type: TypeCCI, Period: 20},
		{Name: "cci_14", Type: TypeCCI, Period: 14},

		{Name: "williams_r_14", Type: TypeWilliamsR, Period: 14},

		{Name: "obv", Type: TypeOBV},
	}
}

// Load reads a YAML file on top of DefaultConfig. Keys missing from the file
// keep their defaults; an indicators list replaces the default table.
func Load(path string) (IndicatorConfig, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return IndicatorConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return IndicatorConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv loads the given .env files (".env" when none are given) and then
// overrides settings from the process environment. Missing files are ignored.
func (c *IndicatorConfig) ApplyEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvMarketDataAPI)); v != "" {
		c.MarketDataAPI = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Lookup returns the entry registered under name.
func (c IndicatorConfig) Lookup(name string) (IndicatorSpec, bool) {
	for _, s := range c.Indicators {
		if s.Name == name {
			return s, true
		}
	}
	return IndicatorSpec{}, false
}

// -------------------------------------------------------------------
// Validate – checks that the configuration values are sensible.
// Indicator parameters themselves are checked by the constructors.
// -------------------------------------------------------------------
func (c IndicatorConfig) Validate() error {
	if len(c.Indicators) == 0 {
		return errors.New("at least one indicator must be configured")
	}
	seen := make(map[string]struct{}, len(c.Indicators))
	for i, s := range c.Indicators {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("indicator %d: name must not be empty", i)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("indicator %q registered twice", s.Name)
		}
		seen[s.Name] = struct{}{}
		if !IsKnownType(s.Type) {
			return fmt.Errorf("indicator %q: unknown type %q", s.Name, s.Type)
		}
	}
	if c.DefaultCount <= 0 {
		return fmt.Errorf("default_count must be greater than 0, got %d", c.DefaultCount)
	}
	if c.Precision < 0 || c.Precision > maxPrecision {
		return fmt.Errorf("precision must be within [0, %d], got %d", maxPrecision, c.Precision)
	}
	if strings.TrimSpace(c.DefaultInterval) == "" {
		return errors.New("default_interval must not be empty")
	}
	return nil
}

// IsKnownType reports whether t is one of KnownTypes.
func IsKnownType(t string) bool {
	for _, k := range KnownTypes {
		if k == t {
			return true
		}
	}
	return false
}
