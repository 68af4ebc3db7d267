package market

import (
	"context"
	"time"
)

// CachedPage is one cached page of a region's order book, keyed by
// (region id, page number). A page is valid for use while
// now - FetchedAt <= ttl; past that it must be treated as absent.
type CachedPage struct {
	RegionID  int
	Page      int
	FetchedAt time.Time
	Orders    []Order
}

// OrderPageCache is the TTL-keyed store for raw order-book pages.
// Get returns (nil, nil) when the entry is missing or older than the
// caller-supplied TTL; staleness is not an error, the caller refetches.
// Put is an upsert: a conflicting write replaces the prior orders and
// timestamp for that (region, page) key.
type OrderPageCache interface {
	GetPage(ctx context.Context, regionID, page int, ttl time.Duration) (*CachedPage, error)
	PutPage(ctx context.Context, regionID, page int, orders []Order) error
}

// ItemInfoCache is the long-TTL store for item metadata, keyed by type ID.
// Same absence contract as OrderPageCache.
type ItemInfoCache interface {
	GetItem(ctx context.Context, typeID int, ttl time.Duration) (*ItemInfo, error)
	PutItem(ctx context.Context, info ItemInfo) error
}
