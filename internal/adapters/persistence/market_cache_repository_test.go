package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PVAGR/eve-arbitrage-bot/internal/adapters/persistence"
	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/market"
	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/shared"
	"github.com/PVAGR/eve-arbitrage-bot/test/helpers"
)

func TestMarketCache_PageRoundTrip(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	repo := persistence.NewMarketCacheRepository(db, clock)

	orders := []market.Order{
		{OrderID: 1, TypeID: 34, Price: 5.0, VolumeRemain: 100, IsBuyOrder: false},
		{OrderID: 2, TypeID: 34, Price: 4.5, VolumeRemain: 50, IsBuyOrder: true},
	}

	// Act
	require.NoError(t, repo.PutPage(context.Background(), 10000002, 1, orders))
	cached, err := repo.GetPage(context.Background(), 10000002, 1, 5*time.Minute)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, 10000002, cached.RegionID)
	assert.Equal(t, 1, cached.Page)
	assert.Equal(t, orders, cached.Orders)
}

func TestMarketCache_MissingPageIsNilNil(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewMarketCacheRepository(db, nil)

	cached, err := repo.GetPage(context.Background(), 10000002, 7, 5*time.Minute)

	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestMarketCache_PageTTLBoundary(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	repo := persistence.NewMarketCacheRepository(db, clock)
	ttl := 5 * time.Minute

	require.NoError(t, repo.PutPage(context.Background(), 10000002, 1,
		[]market.Order{{OrderID: 1, TypeID: 34, Price: 5.0}}))

	// Act - exactly at the TTL the page is still valid
	clock.Advance(ttl)
	atBoundary, err := repo.GetPage(context.Background(), 10000002, 1, ttl)
	require.NoError(t, err)
	assert.NotNil(t, atBoundary)

	// Act - one tick past the TTL it is treated as absent
	clock.Advance(time.Nanosecond)
	pastBoundary, err := repo.GetPage(context.Background(), 10000002, 1, ttl)
	require.NoError(t, err)
	assert.Nil(t, pastBoundary)
}

func TestMarketCache_PutPageUpserts(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	repo := persistence.NewMarketCacheRepository(db, clock)

	require.NoError(t, repo.PutPage(context.Background(), 10000002, 1,
		[]market.Order{{OrderID: 1, TypeID: 34, Price: 5.0}}))

	// Act - second write for the same key replaces the first
	clock.Advance(10 * time.Minute)
	require.NoError(t, repo.PutPage(context.Background(), 10000002, 1,
		[]market.Order{{OrderID: 2, TypeID: 35, Price: 9.0}}))

	cached, err := repo.GetPage(context.Background(), 10000002, 1, 5*time.Minute)

	// Assert - the refetch also refreshed the timestamp
	require.NoError(t, err)
	require.NotNil(t, cached)
	require.Len(t, cached.Orders, 1)
	assert.Equal(t, int64(2), cached.Orders[0].OrderID)
}

func TestMarketCache_PagesAreIndependentKeys(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewMarketCacheRepository(db, nil)

	require.NoError(t, repo.PutPage(context.Background(), 10000002, 1,
		[]market.Order{{OrderID: 1}}))
	require.NoError(t, repo.PutPage(context.Background(), 10000002, 2,
		[]market.Order{{OrderID: 2}}))
	require.NoError(t, repo.PutPage(context.Background(), 10000043, 1,
		[]market.Order{{OrderID: 3}}))

	page2, err := repo.GetPage(context.Background(), 10000002, 2, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, page2)
	assert.Equal(t, int64(2), page2.Orders[0].OrderID)

	otherRegion, err := repo.GetPage(context.Background(), 10000043, 1, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, otherRegion)
	assert.Equal(t, int64(3), otherRegion.Orders[0].OrderID)
}

func TestMarketCache_ItemRoundTrip(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewMarketCacheRepository(db, nil)

	info := market.ItemInfo{TypeID: 34, Name: "Tritanium", VolumeM3: 0.01}
	require.NoError(t, repo.PutItem(context.Background(), info))

	cached, err := repo.GetItem(context.Background(), 34, 24*time.Hour)

	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, info, *cached)
}

func TestMarketCache_PlaceholderExpiresEarly(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	repo := persistence.NewMarketCacheRepository(db, clock)

	require.NoError(t, repo.PutItem(context.Background(), market.PlaceholderItemInfo(99999)))
	require.NoError(t, repo.PutItem(context.Background(),
		market.ItemInfo{TypeID: 34, Name: "Tritanium", VolumeM3: 0.01}))

	// Act - two hours later, well inside the caller's 24h TTL
	clock.Advance(2 * time.Hour)

	placeholder, err := repo.GetItem(context.Background(), 99999, 24*time.Hour)
	require.NoError(t, err)
	realEntry, err := repo.GetItem(context.Background(), 34, 24*time.Hour)
	require.NoError(t, err)

	// Assert - the placeholder aged out, the real entry did not
	assert.Nil(t, placeholder)
	assert.NotNil(t, realEntry)
}

func TestMarketCache_PutItemUpsertReplacesPlaceholder(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewMarketCacheRepository(db, nil)

	require.NoError(t, repo.PutItem(context.Background(), market.PlaceholderItemInfo(34)))
	require.NoError(t, repo.PutItem(context.Background(),
		market.ItemInfo{TypeID: 34, Name: "Tritanium", VolumeM3: 0.01}))

	cached, err := repo.GetItem(context.Background(), 34, 24*time.Hour)

	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Tritanium", cached.Name)
	assert.False(t, cached.Placeholder)
}
