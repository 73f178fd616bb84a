// Package conf loads the daemon configuration from defaults, an optional
// YAML file and WEBEDGE_-prefixed environment variables, in that order of
// increasing precedence.
package conf

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// RedisConfig selects the shared cache backend. An empty Addr falls back to
// the in-process memory store.
type RedisConfig struct {
	Addr string `mapstructure:"addr"`
	DB   int    `mapstructure:"db"`
}

// FlagsConfig locates the persisted dismissal flags.
type FlagsConfig struct {
	Path string `mapstructure:"path"`
}

// BeaconConfig tunes the analytics beacon.
type BeaconConfig struct {
	Endpoint  string        `mapstructure:"endpoint"`
	Heartbeat time.Duration `mapstructure:"heartbeat"`
}

// PromptConfig tunes the install-prompt controller.
type PromptConfig struct {
	GenericBannerDelay time.Duration `mapstructure:"generic_banner_delay"`
}

// BillingConfig tunes the monetization poller.
type BillingConfig struct {
	DiscountDelay time.Duration `mapstructure:"discount_delay"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Config is the full daemon configuration.
type Config struct {
	Listen  string        `mapstructure:"listen"`
	Origin  string        `mapstructure:"origin"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Flags   FlagsConfig   `mapstructure:"flags"`
	Beacon  BeaconConfig  `mapstructure:"beacon"`
	Prompt  PromptConfig  `mapstructure:"prompt"`
	Billing BillingConfig `mapstructure:"billing"`
	Log     LogConfig     `mapstructure:"log"`
}

// Load reads the configuration. configFile may be empty, in which case only
// defaults and environment variables apply.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen", ":8080")
	v.SetDefault("origin", "http://localhost:5000")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("flags.path", "webedge-flags.db")
	v.SetDefault("beacon.endpoint", "")
	v.SetDefault("beacon.heartbeat", 30*time.Second)
	v.SetDefault("prompt.generic_banner_delay", 5*time.Second)
	v.SetDefault("billing.discount_delay", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetEnvPrefix("WEBEDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The beacon reports to the origin unless pointed elsewhere.
	if cfg.Beacon.Endpoint == "" {
		cfg.Beacon.Endpoint = cfg.Origin
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields no component can default for itself.
func (c *Config) Validate() error {
	if c.Origin == "" {
		return errors.New("origin must not be empty")
	}
	if !strings.HasPrefix(c.Origin, "http://") && !strings.HasPrefix(c.Origin, "https://") {
		return fmt.Errorf("origin %q must be an absolute http(s) URL", c.Origin)
	}
	if c.Beacon.Heartbeat <= 0 {
		return errors.New("beacon.heartbeat must be positive")
	}
	return nil
}
