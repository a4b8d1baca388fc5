package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"poolreturns/internal/calculator"
)

// Config is the service configuration. The price override table is
// configuration rather than baked-in constants so alternate networks
// (and tests) can supply their own.
type Config struct {
	SubgraphURL string `mapstructure:"subgraph_url"`
	Port        int    `mapstructure:"port"`

	PriceDiscoveryCutoff int64    `mapstructure:"price_discovery_cutoff"`
	StablecoinOverrides  []string `mapstructure:"stablecoin_overrides"`
	WrappedNativeToken   string   `mapstructure:"wrapped_native_token"`
	LegacyNativePriceUSD float64  `mapstructure:"legacy_native_price_usd"`
}

const DefaultPort = 3009

// Load reads configuration from the given file (optional) and from
// POOLRETURNS_* environment variables, over mainnet defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	mainnet := calculator.DefaultConfig()
	stablecoins := []string{}
	for token := range mainnet.StablecoinOverrides {
		stablecoins = append(stablecoins, token)
	}
	// register the key so AutomaticEnv can populate it
	v.SetDefault("subgraph_url", "")
	v.SetDefault("port", DefaultPort)
	v.SetDefault("price_discovery_cutoff", mainnet.PriceDiscoveryCutoff)
	v.SetDefault("stablecoin_overrides", stablecoins)
	v.SetDefault("wrapped_native_token", mainnet.WrappedNativeToken)
	v.SetDefault("legacy_native_price_usd", mainnet.LegacyNativePriceUSD)

	v.SetEnvPrefix("POOLRETURNS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.SubgraphURL == "" {
		return nil, errors.New("missing subgraph_url in configuration")
	}

	return &cfg, nil
}

// CalculatorConfig converts the loaded overrides into the calculator's
// injected form.
func (c Config) CalculatorConfig() calculator.Config {
	overrides := map[string]bool{}
	for _, token := range c.StablecoinOverrides {
		overrides[strings.ToLower(token)] = true
	}
	return calculator.Config{
		PriceDiscoveryCutoff: c.PriceDiscoveryCutoff,
		StablecoinOverrides:  overrides,
		WrappedNativeToken:   strings.ToLower(c.WrappedNativeToken),
		LegacyNativePriceUSD: c.LegacyNativePriceUSD,
	}
}
