package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/market"
	"github.com/PVAGR/eve-arbitrage-bot/internal/infrastructure/ports"
)

// MockESIClient is a test double for the ports.ESIClient interface. Region
// books and item metadata are seeded up front; every network-shaped call is
// counted so tests can assert cache behaviour.
type MockESIClient struct {
	mu sync.RWMutex

	// Seeded data
	pages    map[int][][]market.Order // regionID -> pages, index 0 is page 1
	items    map[int]market.ItemInfo  // typeID -> metadata
	searches map[string][]int         // query -> type IDs
	adjusted map[int]float64

	// Error injection
	pageErrors map[int]error // regionID -> error for any page fetch
	itemErrors map[int]error // typeID -> error

	// Call tracking
	orderPageCalls []string // "regionID/page"
	itemInfoCalls  []int
}

// NewMockESIClient creates an empty mock.
func NewMockESIClient() *MockESIClient {
	return &MockESIClient{
		pages:      make(map[int][][]market.Order),
		items:      make(map[int]market.ItemInfo),
		searches:   make(map[string][]int),
		adjusted:   make(map[int]float64),
		pageErrors: make(map[int]error),
		itemErrors: make(map[int]error),
	}
}

// SetRegionBook seeds a region's order book, one slice per page.
func (m *MockESIClient) SetRegionBook(regionID int, pages ...[]market.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[regionID] = pages
}

// SetItemInfo seeds metadata for one item.
func (m *MockESIClient) SetItemInfo(info market.ItemInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[info.TypeID] = info
}

// SetSearchResult seeds the type IDs returned for a query.
func (m *MockESIClient) SetSearchResult(query string, typeIDs []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches[query] = typeIDs
}

// FailRegion makes every page fetch for a region return err.
func (m *MockESIClient) FailRegion(regionID int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageErrors[regionID] = err
}

// FailItem makes the metadata fetch for one item return err.
func (m *MockESIClient) FailItem(typeID int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.itemErrors[typeID] = err
}

// OrderPageCalls returns the "region/page" keys fetched, in order.
func (m *MockESIClient) OrderPageCalls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.orderPageCalls))
	copy(out, m.orderPageCalls)
	return out
}

// ItemInfoCalls returns the type IDs fetched, in order.
func (m *MockESIClient) ItemInfoCalls() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int, len(m.itemInfoCalls))
	copy(out, m.itemInfoCalls)
	return out
}

func (m *MockESIClient) FetchOrdersPage(ctx context.Context, regionID, page int) (*ports.OrdersPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.orderPageCalls = append(m.orderPageCalls, fmt.Sprintf("%d/%d", regionID, page))

	if err := m.pageErrors[regionID]; err != nil {
		return nil, err
	}

	pages, ok := m.pages[regionID]
	if !ok || page < 1 || page > len(pages) {
		return nil, fmt.Errorf("no seeded page %d for region %d", page, regionID)
	}

	return &ports.OrdersPage{
		Orders:     pages[page-1],
		TotalPages: len(pages),
	}, nil
}

func (m *MockESIClient) FetchItemInfo(ctx context.Context, typeID int) (*market.ItemInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.itemInfoCalls = append(m.itemInfoCalls, typeID)

	if err := m.itemErrors[typeID]; err != nil {
		return nil, err
	}

	info, ok := m.items[typeID]
	if !ok {
		return nil, fmt.Errorf("no seeded metadata for type %d", typeID)
	}
	return &info, nil
}

func (m *MockESIClient) FetchAdjustedPrices(ctx context.Context) (map[int]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prices := make(map[int]float64, len(m.adjusted))
	for k, v := range m.adjusted {
		prices[k] = v
	}
	return prices, nil
}

func (m *MockESIClient) SearchTypeIDs(ctx context.Context, query string) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.searches[query], nil
}
