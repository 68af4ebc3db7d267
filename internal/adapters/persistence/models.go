package persistence

import (
	"time"
)

// MarketOrderPageModel represents the market_order_pages table: one cached
// page of a region's order book. Orders are stored as raw JSON because the
// page is only ever read back wholesale.
type MarketOrderPageModel struct {
	RegionID   int       `gorm:"column:region_id;primaryKey"`
	Page       int       `gorm:"column:page;primaryKey"`
	FetchedAt  time.Time `gorm:"column:fetched_at;not null"`
	OrdersJSON string    `gorm:"column:orders_json;type:text;not null"`
}

func (MarketOrderPageModel) TableName() string {
	return "market_order_pages"
}

// ItemInfoModel represents the item_infos table: long-lived item metadata.
// Placeholder marks degraded fallback entries written after a failed
// metadata fetch; they expire on a shorter TTL than real data.
type ItemInfoModel struct {
	TypeID      int       `gorm:"column:type_id;primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	VolumeM3    float64   `gorm:"column:volume_m3;not null;default:1.0"`
	Placeholder bool      `gorm:"column:placeholder;not null;default:false"`
	FetchedAt   time.Time `gorm:"column:fetched_at;not null"`
}

func (ItemInfoModel) TableName() string {
	return "item_infos"
}

// OpportunityModel represents the arbitrage_results table. Rows for one
// (buy_region, sell_region) route are replaced wholesale per scan of that
// route, never merged.
type OpportunityModel struct {
	ID                   int       `gorm:"column:id;primaryKey;autoIncrement"`
	ScanID               string    `gorm:"column:scan_id;not null"`
	ScannedAt            time.Time `gorm:"column:scanned_at;not null"`
	BuyRegion            string    `gorm:"column:buy_region;not null;index:idx_results_route"`
	SellRegion           string    `gorm:"column:sell_region;not null;index:idx_results_route"`
	TypeID               int       `gorm:"column:type_id;not null"`
	ItemName             string    `gorm:"column:item_name;not null"`
	ItemVolumeM3         float64   `gorm:"column:item_volume_m3;not null"`
	BuyPrice             float64   `gorm:"column:buy_price;not null"`
	SellPrice            float64   `gorm:"column:sell_price;not null"`
	VolumeAvailable      int       `gorm:"column:volume_available;not null"`
	NetProfitPerUnit     float64   `gorm:"column:net_profit_per_unit;not null"`
	ProfitMarginPct      float64   `gorm:"column:profit_margin_pct;not null"`
	TotalProfitPotential float64   `gorm:"column:total_profit_potential;not null;index"`
}

func (OpportunityModel) TableName() string {
	return "arbitrage_results"
}

// InventoryModel represents the inventory table: the trader's tracked stock.
type InventoryModel struct {
	ID           int       `gorm:"column:id;primaryKey;autoIncrement"`
	TypeID       int       `gorm:"column:type_id;not null"`
	ItemName     string    `gorm:"column:item_name;not null"`
	Quantity     int       `gorm:"column:quantity;not null"`
	CostBasisISK float64   `gorm:"column:cost_basis_isk;not null"`
	Station      string    `gorm:"column:station;not null;default:''"`
	AddedAt      time.Time `gorm:"column:added_at;not null"`
}

func (InventoryModel) TableName() string {
	return "inventory"
}
