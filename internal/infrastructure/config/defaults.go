package config

import "time"

// SetDefaults sets default values for all configuration fields.
func SetDefaults(cfg *Config) {
	// Database defaults: local SQLite file, zero setup
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "data/eve_arbitrage.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// API defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://esi.evetech.net/latest"
	}
	if cfg.API.UserAgent == "" {
		cfg.API.UserAgent = "eve-arbitrage-bot/1.0 (github.com/PVAGR/eve-arbitrage-bot)"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 15 * time.Second
	}
	if cfg.API.MaxAttempts == 0 {
		cfg.API.MaxAttempts = 3
	}
	if cfg.API.BackoffBase == 0 {
		cfg.API.BackoffBase = time.Second
	}
	if cfg.API.RateLimit == 0 {
		cfg.API.RateLimit = 10
	}
	if cfg.API.RateBurst == 0 {
		cfg.API.RateBurst = 10
	}

	// Typical NPC-station rates plus a conservative hauling cost
	if cfg.Fees.BrokerFeeBuy == 0 {
		cfg.Fees.BrokerFeeBuy = 0.03
	}
	if cfg.Fees.BrokerFeeSell == 0 {
		cfg.Fees.BrokerFeeSell = 0.03
	}
	if cfg.Fees.SalesTax == 0 {
		cfg.Fees.SalesTax = 0.08
	}
	if cfg.Fees.HaulingISKPerM3 == 0 {
		cfg.Fees.HaulingISKPerM3 = 800.0
	}

	// Filter defaults
	if cfg.Filters.MinProfitMarginPct == 0 {
		cfg.Filters.MinProfitMarginPct = 10
	}
	if cfg.Filters.MinNetISKProfit == 0 {
		cfg.Filters.MinNetISKProfit = 1_000_000
	}
	if cfg.Filters.MinVolumeAvailable == 0 {
		cfg.Filters.MinVolumeAvailable = 1
	}

	// Scan defaults
	if cfg.Scan.CacheTTLMinutes == 0 {
		cfg.Scan.CacheTTLMinutes = 5
	}
	if cfg.Scan.MaxRouteWorkers == 0 {
		cfg.Scan.MaxRouteWorkers = 4
	}
	if cfg.Scan.CandidateWorkers == 0 {
		cfg.Scan.CandidateWorkers = 8
	}

	// Region defaults: the major trade hub regions
	if len(cfg.Regions) == 0 {
		cfg.Regions = []RegionConfig{
			{Name: "The Forge", ID: 10000002},
			{Name: "Domain", ID: 10000043},
			{Name: "Sinq Laison", ID: 10000032},
			{Name: "Heimatar", ID: 10000030},
			{Name: "Metropolis", ID: 10000042},
		}
	}
	if len(cfg.Scan.Pairs) == 0 {
		cfg.Scan.Pairs = [][]string{
			{"The Forge", "Domain"},
			{"The Forge", "Sinq Laison"},
			{"The Forge", "Heimatar"},
		}
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
}
