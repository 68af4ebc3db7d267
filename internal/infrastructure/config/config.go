package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs.
// Loaded once per process and treated as an immutable snapshot for the
// duration of a scan.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	API      APIConfig      `mapstructure:"api"`
	Fees     FeesConfig     `mapstructure:"fees"`
	Filters  FiltersConfig  `mapstructure:"filters"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Regions  []RegionConfig `mapstructure:"regions" validate:"min=1,dive"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (config.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env if present; missing is fine
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/eve-arbitrage")
	}

	v.SetEnvPrefix("EVEARB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is OK - env vars and defaults cover everything
	}

	// DATABASE_URL works without the EVEARB_ prefix for hosted setups
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// RegionMap returns the configured region name→id table.
func (c *Config) RegionMap() map[string]int {
	m := make(map[string]int, len(c.Regions))
	for _, r := range c.Regions {
		m[r.Name] = r.ID
	}
	return m
}
