package ports

import (
	"context"

	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/market"
)

// OrdersPage is one page of a region's order book together with the
// upstream-reported total page count (only meaningful on page 1, which
// drives the pagination loop).
type OrdersPage struct {
	Orders     []market.Order
	TotalPages int
}

// ESIClient is the boundary to the remote market API. Implementations own
// retries, timeouts and rate-limit self-throttling; callers never retry at
// this layer.
type ESIClient interface {
	// FetchOrdersPage fetches one page of all (buy and sell) orders for a
	// region.
	FetchOrdersPage(ctx context.Context, regionID, page int) (*OrdersPage, error)

	// FetchItemInfo fetches display name and packaged volume for one item.
	FetchItemInfo(ctx context.Context, typeID int) (*market.ItemInfo, error)

	// FetchAdjustedPrices fetches the universe-wide adjusted price map,
	// keyed by type ID. Reference data, not used for matching directly.
	FetchAdjustedPrices(ctx context.Context) (map[int]float64, error)

	// SearchTypeIDs finds type IDs whose names match the query.
	SearchTypeIDs(ctx context.Context, query string) ([]int, error)
}
