package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PVAGR/eve-arbitrage-bot/internal/adapters/persistence"
	"github.com/PVAGR/eve-arbitrage-bot/internal/application/trading/services"
	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/shared"
	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/trading"
	"github.com/PVAGR/eve-arbitrage-bot/test/helpers"
)

func scanConfig() services.ScanConfig {
	return services.ScanConfig{
		Regions: map[string]int{
			"The Forge":   10000002,
			"Domain":      10000043,
			"Sinq Laison": 10000032,
		},
		Pairs: [][2]string{{"The Forge", "Domain"}},
		Fees: trading.FeeConfig{
			BrokerFeeBuy:  0.03,
			BrokerFeeSell: 0.03,
			SalesTax:      0.08,
		},
		Filters:  trading.Filters{MinVolumeAvailable: 1},
		OrderTTL: 5 * time.Minute,
	}
}

func scanOpportunity(t *testing.T, typeID int, name, buyRegion, sellRegion string) *trading.Opportunity {
	t.Helper()
	opp, err := trading.NewOpportunity(typeID, name, 1.0, buyRegion, sellRegion,
		100.0, 150.0, 50, trading.FeeConfig{
			BrokerFeeBuy:  0.03,
			BrokerFeeSell: 0.03,
			SalesTax:      0.08,
		})
	require.NoError(t, err)
	return opp
}

func newOrchestratorFixture(t *testing.T, cfg services.ScanConfig) (*services.ScanOrchestrator, *helpers.MockOpportunityFinder, *persistence.OpportunityRepositoryGORM) {
	t.Helper()
	db := helpers.NewTestDB(t)
	repo := persistence.NewOpportunityRepository(db)
	finder := helpers.NewMockOpportunityFinder()
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	orch := services.NewScanOrchestrator(finder, repo, cfg, clock, zerolog.Nop())
	return orch, finder, repo
}

func TestScanOrchestrator_ExpandsConfiguredPairs(t *testing.T) {
	// Arrange
	orch, finder, _ := newOrchestratorFixture(t, scanConfig())
	finder.SetResult(trading.Route{Source: "The Forge", Destination: "Domain"},
		[]*trading.Opportunity{scanOpportunity(t, 34, "Tritanium", "The Forge", "Domain")})

	// Act - nil routes means scan the configured pairs, both directions
	summary, err := orch.RunScan(context.Background(), nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Attempted)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Zero(t, summary.Failed())
	assert.Len(t, finder.Calls(), 2)
	assert.NotEmpty(t, summary.ScanID)
}

func TestScanOrchestrator_PartialFailure(t *testing.T) {
	// Arrange - three routes, the middle one fails
	orch, finder, repo := newOrchestratorFixture(t, scanConfig())

	routes := []trading.Route{
		{Source: "The Forge", Destination: "Domain"},
		{Source: "Domain", Destination: "Sinq Laison"},
		{Source: "Sinq Laison", Destination: "The Forge"},
	}
	finder.SetResult(routes[0],
		[]*trading.Opportunity{scanOpportunity(t, 34, "Tritanium", "The Forge", "Domain")})
	finder.SetError(routes[1], errors.New("region unreachable"))
	finder.SetResult(routes[2],
		[]*trading.Opportunity{scanOpportunity(t, 35, "Pyerite", "Sinq Laison", "The Forge")})

	// Act
	summary, err := orch.RunScan(context.Background(), routes)

	// Assert - the failed route is reported, the others completed
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, 2, summary.Succeeded)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, routes[1], summary.Failures[0].Route)
	assert.Contains(t, summary.Failures[0].Reason, "region unreachable")
	assert.Len(t, summary.Opportunities, 2)

	// Succeeded routes were persisted; the failed one stored nothing
	stored, err := repo.FindByRoute(context.Background(), routes[0])
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	stored, err = repo.FindByRoute(context.Background(), routes[1])
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestScanOrchestrator_FailedRouteKeepsPriorResults(t *testing.T) {
	// Arrange - a first scan stores results for both routes
	orch, finder, repo := newOrchestratorFixture(t, scanConfig())

	forward := trading.Route{Source: "The Forge", Destination: "Domain"}
	reverse := trading.Route{Source: "Domain", Destination: "The Forge"}

	finder.SetResult(forward,
		[]*trading.Opportunity{scanOpportunity(t, 34, "Tritanium", "The Forge", "Domain")})
	finder.SetResult(reverse,
		[]*trading.Opportunity{scanOpportunity(t, 35, "Pyerite", "Domain", "The Forge")})

	_, err := orch.RunScan(context.Background(), []trading.Route{forward, reverse})
	require.NoError(t, err)

	// Act - the reverse route fails on the second scan
	finder.SetError(reverse, errors.New("region unreachable"))
	summary, err := orch.RunScan(context.Background(), []trading.Route{forward, reverse})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)

	// Assert - the failed route's previous results survive
	stored, err := repo.FindByRoute(context.Background(), reverse)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 35, stored[0].TypeID())
}

func TestScanOrchestrator_SkipsUnknownRegions(t *testing.T) {
	// Arrange
	orch, finder, _ := newOrchestratorFixture(t, scanConfig())

	known := trading.Route{Source: "The Forge", Destination: "Domain"}
	unknown := trading.Route{Source: "The Forge", Destination: "Atlantis"}
	finder.SetResult(known,
		[]*trading.Opportunity{scanOpportunity(t, 34, "Tritanium", "The Forge", "Domain")})

	// Act
	summary, err := orch.RunScan(context.Background(), []trading.Route{known, unknown})

	// Assert - the unknown region never reaches the finder
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Attempted)
	assert.Equal(t, 1, summary.Succeeded)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, unknown, summary.Failures[0].Route)
	assert.Contains(t, summary.Failures[0].Reason, "Atlantis")
	assert.Equal(t, []trading.Route{known}, finder.Calls())
}

func TestScanOrchestrator_NoRoutes(t *testing.T) {
	cfg := scanConfig()
	cfg.Pairs = nil
	orch, _, _ := newOrchestratorFixture(t, cfg)

	_, err := orch.RunScan(context.Background(), nil)

	assert.ErrorIs(t, err, trading.ErrNoRoutes)
}

func TestScanOrchestrator_RanksAcrossRoutes(t *testing.T) {
	// Arrange - two routes, the second holds the better opportunity
	orch, finder, _ := newOrchestratorFixture(t, scanConfig())

	forward := trading.Route{Source: "The Forge", Destination: "Domain"}
	reverse := trading.Route{Source: "Domain", Destination: "The Forge"}

	small, err := trading.NewOpportunity(34, "Tritanium", 1.0, "The Forge", "Domain",
		100.0, 150.0, 10, trading.FeeConfig{})
	require.NoError(t, err)
	big, err := trading.NewOpportunity(35, "Pyerite", 1.0, "Domain", "The Forge",
		100.0, 150.0, 1000, trading.FeeConfig{})
	require.NoError(t, err)

	finder.SetResult(forward, []*trading.Opportunity{small})
	finder.SetResult(reverse, []*trading.Opportunity{big})

	// Act
	summary, err := orch.RunScan(context.Background(), []trading.Route{forward, reverse})

	// Assert - globally sorted, best first
	require.NoError(t, err)
	require.Len(t, summary.Opportunities, 2)
	assert.Equal(t, 35, summary.Opportunities[0].TypeID())
	assert.Equal(t, 34, summary.Opportunities[1].TypeID())
}

func TestScanOrchestrator_EmptyResultClearsStaleRows(t *testing.T) {
	// Arrange - a first scan stores one opportunity
	orch, finder, repo := newOrchestratorFixture(t, scanConfig())
	route := trading.Route{Source: "The Forge", Destination: "Domain"}
	finder.SetResult(route,
		[]*trading.Opportunity{scanOpportunity(t, 34, "Tritanium", "The Forge", "Domain")})

	_, err := orch.RunScan(context.Background(), []trading.Route{route})
	require.NoError(t, err)

	// Act - the market dried up; the route succeeds with no opportunities
	finder.SetResult(route, nil)
	summary, err := orch.RunScan(context.Background(), []trading.Route{route})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)

	// Assert - the stale row is gone
	stored, err := repo.FindByRoute(context.Background(), route)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
