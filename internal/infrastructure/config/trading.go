package config

import (
	"fmt"

	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/trading"
)

// FeesConfig holds the transaction cost model. Rates are fractions in [0,1].
type FeesConfig struct {
	BrokerFeeBuy    float64 `mapstructure:"broker_fee_buy" validate:"min=0,max=1"`
	BrokerFeeSell   float64 `mapstructure:"broker_fee_sell" validate:"min=0,max=1"`
	SalesTax        float64 `mapstructure:"sales_tax" validate:"min=0,max=1"`
	HaulingISKPerM3 float64 `mapstructure:"hauling_isk_per_m3" validate:"min=0"`
}

// FeeConfig converts to the domain cost model.
func (c FeesConfig) FeeConfig() trading.FeeConfig {
	return trading.FeeConfig{
		BrokerFeeBuy:    c.BrokerFeeBuy,
		BrokerFeeSell:   c.BrokerFeeSell,
		SalesTax:        c.SalesTax,
		HaulingISKPerM3: c.HaulingISKPerM3,
	}
}

// FiltersConfig holds the acceptance thresholds for scans.
type FiltersConfig struct {
	MinProfitMarginPct   float64 `mapstructure:"min_profit_margin_pct" validate:"min=0"`
	MinNetISKProfit      float64 `mapstructure:"min_net_isk_profit" validate:"min=0"`
	MaxInvestmentPerItem float64 `mapstructure:"max_investment_per_item" validate:"min=0"`
	MinVolumeAvailable   int     `mapstructure:"min_volume_available" validate:"min=1"`
}

// Filters converts to the domain thresholds.
func (c FiltersConfig) Filters() trading.Filters {
	return trading.Filters{
		MinProfitMarginPct:   c.MinProfitMarginPct,
		MinNetISKProfit:      c.MinNetISKProfit,
		MaxInvestmentPerItem: c.MaxInvestmentPerItem,
		MinVolumeAvailable:   c.MinVolumeAvailable,
	}
}

// ScanConfig holds scan orchestration settings.
type ScanConfig struct {
	// Pairs are unordered region name pairs; a scan covers both directions
	// of each pair
	Pairs [][]string `mapstructure:"pairs" validate:"dive,len=2"`

	// CacheTTLMinutes is how long cached order-book pages stay valid
	CacheTTLMinutes int `mapstructure:"cache_ttl_minutes" validate:"min=1"`

	// MaxRouteWorkers caps concurrent route scans
	MaxRouteWorkers int `mapstructure:"max_route_workers" validate:"min=0"`

	// CandidateWorkers caps parallel candidate evaluation inside one route
	CandidateWorkers int `mapstructure:"candidate_workers" validate:"min=0"`
}

// RegionPairs converts the configured pairs into the fixed-size form the
// orchestrator expands into directed routes.
func (c ScanConfig) RegionPairs() ([][2]string, error) {
	pairs := make([][2]string, len(c.Pairs))
	for i, p := range c.Pairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("scan pair %d must name exactly two regions, got %d", i, len(p))
		}
		pairs[i] = [2]string{p[0], p[1]}
	}
	return pairs, nil
}

// RegionConfig is one entry of the region name→id table.
type RegionConfig struct {
	Name string `mapstructure:"name" validate:"required"`
	ID   int    `mapstructure:"id" validate:"required,gt=0"`
}
