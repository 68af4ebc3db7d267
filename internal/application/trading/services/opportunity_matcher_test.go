package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PVAGR/eve-arbitrage-bot/internal/application/trading/services"
	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/market"
	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/trading"
)

// fakeProvider is a canned trading.MarketDataProvider for matcher tests.
type fakeProvider struct {
	sells map[int]map[int][]market.Order // regionID -> typeID -> orders
	buys  map[int]map[int][]market.Order
	items map[int]market.ItemInfo

	sellErr error
	buyErr  error
}

func (f *fakeProvider) SellOrders(ctx context.Context, regionID int, ttl time.Duration) (map[int][]market.Order, error) {
	if f.sellErr != nil {
		return nil, f.sellErr
	}
	return f.sells[regionID], nil
}

func (f *fakeProvider) BuyOrders(ctx context.Context, regionID int, ttl time.Duration) (map[int][]market.Order, error) {
	if f.buyErr != nil {
		return nil, f.buyErr
	}
	return f.buys[regionID], nil
}

func (f *fakeProvider) ItemInfo(ctx context.Context, typeID int) (market.ItemInfo, error) {
	if info, ok := f.items[typeID]; ok {
		return info, nil
	}
	return market.PlaceholderItemInfo(typeID), nil
}

func (f *fakeProvider) ItemInfoBulk(ctx context.Context, typeIDs []int) (map[int]market.ItemInfo, error) {
	result := make(map[int]market.ItemInfo, len(typeIDs))
	for _, id := range typeIDs {
		info, _ := f.ItemInfo(ctx, id)
		result[id] = info
	}
	return result, nil
}

func (f *fakeProvider) SearchItems(ctx context.Context, query string) ([]market.ItemRef, error) {
	return nil, nil
}

const (
	sourceRegionID = 10000002
	destRegionID   = 10000043
)

var (
	sourceRef = services.RegionRef{Name: "The Forge", ID: sourceRegionID}
	destRef   = services.RegionRef{Name: "Domain", ID: destRegionID}
)

func matcherFees() trading.FeeConfig {
	return trading.FeeConfig{
		BrokerFeeBuy:    0.03,
		BrokerFeeSell:   0.03,
		SalesTax:        0.08,
		HaulingISKPerM3: 10.0,
	}
}

func openFilters() trading.Filters {
	return trading.Filters{MinVolumeAvailable: 1}
}

func TestOpportunityMatcher_FindsProfitableSpread(t *testing.T) {
	// Arrange - item 34 sells at 100 in the source, buys at 150 in the
	// destination
	provider := &fakeProvider{
		sells: map[int]map[int][]market.Order{
			sourceRegionID: {
				34: {{OrderID: 1, TypeID: 34, Price: 100.0, VolumeRemain: 50}},
			},
		},
		buys: map[int]map[int][]market.Order{
			destRegionID: {
				34: {{OrderID: 2, TypeID: 34, Price: 150.0, VolumeRemain: 30, IsBuyOrder: true}},
			},
		},
		items: map[int]market.ItemInfo{
			34: {TypeID: 34, Name: "Tritanium", VolumeM3: 1.0},
		},
	}
	matcher := services.NewOpportunityMatcher(provider, 1, zerolog.Nop())

	// Act
	opps, err := matcher.FindOpportunities(context.Background(),
		sourceRef, destRef, matcherFees(), openFilters(), 5*time.Minute)

	// Assert
	require.NoError(t, err)
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.Equal(t, 34, opp.TypeID())
	assert.Equal(t, "Tritanium", opp.ItemName())
	assert.Equal(t, 100.0, opp.BuyPrice())
	assert.Equal(t, 150.0, opp.SellPrice())
	// Available volume is what the best source order offers
	assert.Equal(t, 50, opp.VolumeAvailable())
	assert.InDelta(t, 20.5, opp.NetProfitPerUnit(), 1e-9)
	assert.InDelta(t, 1025.0, opp.TotalProfitPotential(), 1e-9)
}

func TestOpportunityMatcher_OnlyIntersectionIsEvaluated(t *testing.T) {
	// Arrange - item 35 only exists in the source, item 36 only in the
	// destination; neither is a candidate
	provider := &fakeProvider{
		sells: map[int]map[int][]market.Order{
			sourceRegionID: {
				34: {{OrderID: 1, TypeID: 34, Price: 100.0, VolumeRemain: 50}},
				35: {{OrderID: 2, TypeID: 35, Price: 1.0, VolumeRemain: 1000}},
			},
		},
		buys: map[int]map[int][]market.Order{
			destRegionID: {
				34: {{OrderID: 3, TypeID: 34, Price: 150.0, VolumeRemain: 30, IsBuyOrder: true}},
				36: {{OrderID: 4, TypeID: 36, Price: 900.0, VolumeRemain: 10, IsBuyOrder: true}},
			},
		},
		items: map[int]market.ItemInfo{
			34: {TypeID: 34, Name: "Tritanium", VolumeM3: 1.0},
		},
	}
	matcher := services.NewOpportunityMatcher(provider, 4, zerolog.Nop())

	// Act
	opps, err := matcher.FindOpportunities(context.Background(),
		sourceRef, destRef, matcherFees(), openFilters(), 5*time.Minute)

	// Assert
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, 34, opps[0].TypeID())
}

func TestOpportunityMatcher_RejectsUnprofitableSpread(t *testing.T) {
	// Arrange - the gross spread exists but fees eat it
	provider := &fakeProvider{
		sells: map[int]map[int][]market.Order{
			sourceRegionID: {
				34: {{OrderID: 1, TypeID: 34, Price: 100.0, VolumeRemain: 50}},
			},
		},
		buys: map[int]map[int][]market.Order{
			destRegionID: {
				34: {{OrderID: 2, TypeID: 34, Price: 105.0, VolumeRemain: 30, IsBuyOrder: true}},
			},
		},
		items: map[int]market.ItemInfo{
			34: {TypeID: 34, Name: "Tritanium", VolumeM3: 1.0},
		},
	}
	matcher := services.NewOpportunityMatcher(provider, 1, zerolog.Nop())

	opps, err := matcher.FindOpportunities(context.Background(),
		sourceRef, destRef, matcherFees(), openFilters(), 5*time.Minute)

	require.NoError(t, err)
	assert.Empty(t, opps)
}

func TestOpportunityMatcher_AppliesVolumeAndInvestmentFilters(t *testing.T) {
	provider := &fakeProvider{
		sells: map[int]map[int][]market.Order{
			sourceRegionID: {
				// Profitable but thin
				34: {{OrderID: 1, TypeID: 34, Price: 100.0, VolumeRemain: 3}},
				// Profitable but too expensive per unit
				35: {{OrderID: 2, TypeID: 35, Price: 5_000_000.0, VolumeRemain: 100}},
			},
		},
		buys: map[int]map[int][]market.Order{
			destRegionID: {
				34: {{OrderID: 3, TypeID: 34, Price: 200.0, VolumeRemain: 50, IsBuyOrder: true}},
				35: {{OrderID: 4, TypeID: 35, Price: 9_000_000.0, VolumeRemain: 50, IsBuyOrder: true}},
			},
		},
		items: map[int]market.ItemInfo{
			34: {TypeID: 34, Name: "Tritanium", VolumeM3: 1.0},
			35: {TypeID: 35, Name: "Pyerite", VolumeM3: 1.0},
		},
	}
	matcher := services.NewOpportunityMatcher(provider, 1, zerolog.Nop())

	filters := trading.Filters{
		MinVolumeAvailable:   10,
		MaxInvestmentPerItem: 1_000_000.0,
	}

	opps, err := matcher.FindOpportunities(context.Background(),
		sourceRef, destRef, matcherFees(), filters, 5*time.Minute)

	require.NoError(t, err)
	assert.Empty(t, opps)
}

func TestOpportunityMatcher_RanksByTotalProfitPotential(t *testing.T) {
	// Arrange - item 35 has the better per-unit margin, item 34 the bigger
	// total
	provider := &fakeProvider{
		sells: map[int]map[int][]market.Order{
			sourceRegionID: {
				34: {{OrderID: 1, TypeID: 34, Price: 100.0, VolumeRemain: 1000}},
				35: {{OrderID: 2, TypeID: 35, Price: 100.0, VolumeRemain: 5}},
			},
		},
		buys: map[int]map[int][]market.Order{
			destRegionID: {
				34: {{OrderID: 3, TypeID: 34, Price: 150.0, VolumeRemain: 900, IsBuyOrder: true}},
				35: {{OrderID: 4, TypeID: 35, Price: 300.0, VolumeRemain: 50, IsBuyOrder: true}},
			},
		},
		items: map[int]market.ItemInfo{
			34: {TypeID: 34, Name: "Tritanium", VolumeM3: 1.0},
			35: {TypeID: 35, Name: "Pyerite", VolumeM3: 1.0},
		},
	}
	matcher := services.NewOpportunityMatcher(provider, 4, zerolog.Nop())

	opps, err := matcher.FindOpportunities(context.Background(),
		sourceRef, destRef, matcherFees(), openFilters(), 5*time.Minute)

	require.NoError(t, err)
	require.Len(t, opps, 2)
	assert.Equal(t, 34, opps[0].TypeID())
	assert.Equal(t, 35, opps[1].TypeID())
	assert.Greater(t, opps[0].TotalProfitPotential(), opps[1].TotalProfitPotential())
}

func TestOpportunityMatcher_RejectsInvalidFilters(t *testing.T) {
	matcher := services.NewOpportunityMatcher(&fakeProvider{}, 1, zerolog.Nop())

	_, err := matcher.FindOpportunities(context.Background(),
		sourceRef, destRef, matcherFees(), trading.Filters{MinVolumeAvailable: 0}, 5*time.Minute)

	assert.ErrorIs(t, err, trading.ErrInvalidFilters)
}

func TestOpportunityMatcher_PropagatesBookFailure(t *testing.T) {
	matcher := services.NewOpportunityMatcher(
		&fakeProvider{sellErr: errors.New("region unreachable")}, 1, zerolog.Nop())

	_, err := matcher.FindOpportunities(context.Background(),
		sourceRef, destRef, matcherFees(), openFilters(), 5*time.Minute)

	assert.Error(t, err)
}
