package trading

import (
	"context"
	"time"

	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/market"
)

// MarketDataProvider is the narrow capability set the matcher depends on:
// side-split order books, item metadata, and name search. It is implemented
// once by the application layer pairing the ESI client with the market
// cache; consumers depend on this interface, never on the concrete pairing.
type MarketDataProvider interface {
	// SellOrders returns the source region's sell-side book keyed by type ID.
	SellOrders(ctx context.Context, regionID int, ttl time.Duration) (map[int][]market.Order, error)

	// BuyOrders returns the destination region's buy-side book keyed by type ID.
	BuyOrders(ctx context.Context, regionID int, ttl time.Duration) (map[int][]market.Order, error)

	// ItemInfo resolves metadata for one item, falling back to placeholder
	// data when the upstream fetch fails.
	ItemInfo(ctx context.Context, typeID int) (market.ItemInfo, error)

	// ItemInfoBulk resolves metadata for a candidate set up front, avoiding
	// per-item sequential round-trips during matching.
	ItemInfoBulk(ctx context.Context, typeIDs []int) (map[int]market.ItemInfo, error)

	// SearchItems finds items by display name.
	SearchItems(ctx context.Context, query string) ([]market.ItemRef, error)
}

// OpportunityRepository owns the persisted scan result set. The orchestrator
// is its only writer.
type OpportunityRepository interface {
	// ReplaceForRoute atomically replaces the stored result set for one
	// route: no reader may observe a mix of old and new results for that
	// route, and results for other routes are untouched.
	ReplaceForRoute(ctx context.Context, route Route, scanID string, scannedAt time.Time, opportunities []*Opportunity) error

	// FindByRoute returns the stored results for one route, ordered by
	// total profit potential descending.
	FindByRoute(ctx context.Context, route Route) ([]*Opportunity, error)

	// FindTop returns the best stored results across all routes, ordered by
	// total profit potential descending.
	FindTop(ctx context.Context, limit int) ([]*Opportunity, error)

	// LastScanTime returns the most recent scan timestamp, or nil when no
	// scan has been persisted yet.
	LastScanTime(ctx context.Context) (*time.Time, error)
}

// InventoryRepository manages the trader's stock-tracking entries.
type InventoryRepository interface {
	Add(ctx context.Context, entry *InventoryEntry) (int, error)
	List(ctx context.Context) ([]*InventoryEntry, error)
	UpdateQuantity(ctx context.Context, id, quantity int) error
	Delete(ctx context.Context, id int) error
}
