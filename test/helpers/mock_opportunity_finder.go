package helpers

import (
	"context"
	"sync"
	"time"

	"github.com/PVAGR/eve-arbitrage-bot/internal/application/trading/services"
	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/trading"
)

// MockOpportunityFinder is a test double for the orchestrator's finder
// dependency. Results and errors are seeded per directed route.
type MockOpportunityFinder struct {
	mu sync.Mutex

	results map[string][]*trading.Opportunity // "src→dst" -> result set
	errors  map[string]error

	calls []trading.Route
}

// NewMockOpportunityFinder creates an empty mock.
func NewMockOpportunityFinder() *MockOpportunityFinder {
	return &MockOpportunityFinder{
		results: make(map[string][]*trading.Opportunity),
		errors:  make(map[string]error),
	}
}

// SetResult seeds the opportunities returned for one route.
func (m *MockOpportunityFinder) SetResult(route trading.Route, opps []*trading.Opportunity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[route.String()] = opps
}

// SetError seeds a failure for one route.
func (m *MockOpportunityFinder) SetError(route trading.Route, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[route.String()] = err
}

// Calls returns the routes scanned, in request order.
func (m *MockOpportunityFinder) Calls() []trading.Route {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]trading.Route, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockOpportunityFinder) FindOpportunities(
	ctx context.Context,
	source services.RegionRef,
	destination services.RegionRef,
	fees trading.FeeConfig,
	filters trading.Filters,
	ttl time.Duration,
) ([]*trading.Opportunity, error) {
	route := trading.Route{Source: source.Name, Destination: destination.Name}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, route)

	if err := m.errors[route.String()]; err != nil {
		return nil, err
	}
	return m.results[route.String()], nil
}
