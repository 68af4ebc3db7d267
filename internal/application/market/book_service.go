package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	domainmarket "github.com/PVAGR/eve-arbitrage-bot/internal/domain/market"
	"github.com/PVAGR/eve-arbitrage-bot/internal/infrastructure/ports"
)

// itemInfoTTL is how long real item metadata stays valid. Items change
// rarely, so this is long; placeholder entries expire sooner (the cache
// enforces that).
const itemInfoTTL = 24 * time.Hour

// BookService pairs the ESI client with the market cache and exposes the
// narrow market-data capability set (side-split books, item metadata, name
// search) the matcher depends on. It implements trading.MarketDataProvider.
type BookService struct {
	client ports.ESIClient
	pages  domainmarket.OrderPageCache
	items  domainmarket.ItemInfoCache
	logger zerolog.Logger
}

// NewBookService creates an order-book service.
func NewBookService(
	client ports.ESIClient,
	pages domainmarket.OrderPageCache,
	items domainmarket.ItemInfoCache,
	logger zerolog.Logger,
) *BookService {
	return &BookService{
		client: client,
		pages:  pages,
		items:  items,
		logger: logger.With().Str("component", "book_service").Logger(),
	}
}

// FetchRegionOrders returns the full (buy and sell) order book for a
// region. Page 1 determines the total page count from the upstream page
// header; subsequent pages are fetched sequentially. Every page is checked
// against the cache first, so one book request may mix cached and freshly
// fetched pages.
func (s *BookService) FetchRegionOrders(ctx context.Context, regionID int, ttl time.Duration) ([]domainmarket.Order, error) {
	var all []domainmarket.Order

	page := 1
	totalPages := 1
	cacheHits := 0

	for page <= totalPages {
		cached, err := s.pages.GetPage(ctx, regionID, page, ttl)
		if err != nil {
			return nil, fmt.Errorf("cache read failed for region %d page %d: %w", regionID, page, err)
		}
		if cached != nil {
			all = append(all, cached.Orders...)
			if page == 1 {
				// Page 1 came from cache, so the upstream page-count header
				// is unavailable. All pages of a book are written together,
				// so the consecutive cached run is the book.
				totalPages = s.cachedPageCount(ctx, regionID, ttl)
			}
			cacheHits++
			page++
			continue
		}

		fetched, err := s.client.FetchOrdersPage(ctx, regionID, page)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch region %d page %d: %w", regionID, page, err)
		}

		if page == 1 {
			totalPages = fetched.TotalPages
		}

		if err := s.pages.PutPage(ctx, regionID, page, fetched.Orders); err != nil {
			return nil, fmt.Errorf("cache write failed for region %d page %d: %w", regionID, page, err)
		}
		all = append(all, fetched.Orders...)
		page++
	}

	s.logger.Debug().Int("region_id", regionID).Int("pages", totalPages).
		Int("cache_hits", cacheHits).Int("orders", len(all)).
		Msg("region order book loaded")

	return all, nil
}

// cachedPageCount walks the cache forward from page 2 to find how many
// consecutive valid pages exist for a region. Used when page 1 is served
// from cache, so the upstream page-count header is unavailable.
func (s *BookService) cachedPageCount(ctx context.Context, regionID int, ttl time.Duration) int {
	count := 1
	for {
		cached, err := s.pages.GetPage(ctx, regionID, count+1, ttl)
		if err != nil || cached == nil {
			return count
		}
		count++
	}
}

// SellOrders returns the region's sell-side book keyed by type ID.
func (s *BookService) SellOrders(ctx context.Context, regionID int, ttl time.Duration) (map[int][]domainmarket.Order, error) {
	orders, err := s.FetchRegionOrders(ctx, regionID, ttl)
	if err != nil {
		return nil, err
	}
	sells, _ := domainmarket.SplitBySide(orders)
	return sells, nil
}

// BuyOrders returns the region's buy-side book keyed by type ID.
func (s *BookService) BuyOrders(ctx context.Context, regionID int, ttl time.Duration) (map[int][]domainmarket.Order, error) {
	orders, err := s.FetchRegionOrders(ctx, regionID, ttl)
	if err != nil {
		return nil, err
	}
	_, buys := domainmarket.SplitBySide(orders)
	return buys, nil
}

// ItemInfo resolves metadata for one item through the cache. A failed
// upstream fetch degrades to placeholder data (name "Item {id}", volume
// 1.0) instead of failing the caller; the placeholder is cached so repeat
// lookups stay cheap, but on a shorter TTL than real data.
func (s *BookService) ItemInfo(ctx context.Context, typeID int) (domainmarket.ItemInfo, error) {
	cached, err := s.items.GetItem(ctx, typeID, itemInfoTTL)
	if err != nil {
		return domainmarket.ItemInfo{}, fmt.Errorf("cache read failed for item %d: %w", typeID, err)
	}
	if cached != nil {
		return *cached, nil
	}

	info, err := s.client.FetchItemInfo(ctx, typeID)
	if err != nil {
		if ctx.Err() != nil {
			return domainmarket.ItemInfo{}, ctx.Err()
		}
		s.logger.Warn().Err(err).Int("type_id", typeID).
			Msg("item metadata fetch failed, using placeholder")
		fallback := domainmarket.PlaceholderItemInfo(typeID)
		if putErr := s.items.PutItem(ctx, fallback); putErr != nil {
			return domainmarket.ItemInfo{}, fmt.Errorf("cache write failed for item %d: %w", typeID, putErr)
		}
		return fallback, nil
	}

	if putErr := s.items.PutItem(ctx, *info); putErr != nil {
		return domainmarket.ItemInfo{}, fmt.Errorf("cache write failed for item %d: %w", typeID, putErr)
	}
	return *info, nil
}

// ItemInfoBulk resolves metadata for a whole candidate set, serving what it
// can from cache and fetching only the misses. Matching calls this up front
// to avoid per-item sequential round-trips during evaluation.
func (s *BookService) ItemInfoBulk(ctx context.Context, typeIDs []int) (map[int]domainmarket.ItemInfo, error) {
	result := make(map[int]domainmarket.ItemInfo, len(typeIDs))

	var misses []int
	for _, typeID := range typeIDs {
		cached, err := s.items.GetItem(ctx, typeID, itemInfoTTL)
		if err != nil {
			return nil, fmt.Errorf("cache read failed for item %d: %w", typeID, err)
		}
		if cached != nil {
			result[typeID] = *cached
			continue
		}
		misses = append(misses, typeID)
	}

	for _, typeID := range misses {
		info, err := s.ItemInfo(ctx, typeID)
		if err != nil {
			return nil, err
		}
		result[typeID] = info
	}

	if len(misses) > 0 {
		s.logger.Debug().Int("cached", len(typeIDs)-len(misses)).
			Int("fetched", len(misses)).Msg("item metadata resolved")
	}

	return result, nil
}

// SearchItems finds items by display name, resolving each hit's metadata
// through the cache.
func (s *BookService) SearchItems(ctx context.Context, query string) ([]domainmarket.ItemRef, error) {
	if query == "" {
		return nil, errors.New("search query required")
	}

	typeIDs, err := s.client.SearchTypeIDs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search failed for %q: %w", query, err)
	}

	refs := make([]domainmarket.ItemRef, 0, len(typeIDs))
	for _, typeID := range typeIDs {
		info, err := s.ItemInfo(ctx, typeID)
		if err != nil {
			return nil, err
		}
		refs = append(refs, domainmarket.ItemRef{TypeID: typeID, Name: info.Name})
	}
	return refs, nil
}

// AdjustedPrices returns the universe-wide adjusted price map. Reference
// data only; matching never uses it.
func (s *BookService) AdjustedPrices(ctx context.Context) (map[int]float64, error) {
	return s.client.FetchAdjustedPrices(ctx)
}

// BestPrices returns the best sell and buy prices for one item in one
// region, for ad hoc single-item lookups outside a full scan.
func (s *BookService) BestPrices(ctx context.Context, regionID, typeID int, ttl time.Duration) (bestSell, bestBuy float64, err error) {
	orders, err := s.FetchRegionOrders(ctx, regionID, ttl)
	if err != nil {
		return 0, 0, err
	}
	sells, buys := domainmarket.SplitBySide(orders)
	if price, _, ok := domainmarket.BestSell(sells[typeID]); ok {
		bestSell = price
	}
	if price, _, ok := domainmarket.BestBuy(buys[typeID]); ok {
		bestBuy = price
	}
	return bestSell, bestBuy, nil
}
