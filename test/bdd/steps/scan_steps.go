package steps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/cucumber/godog"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/PVAGR/eve-arbitrage-bot/internal/adapters/persistence"
	appmarket "github.com/PVAGR/eve-arbitrage-bot/internal/application/market"
	"github.com/PVAGR/eve-arbitrage-bot/internal/application/trading/services"
	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/market"
	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/trading"
	"github.com/PVAGR/eve-arbitrage-bot/internal/infrastructure/database"
	"github.com/PVAGR/eve-arbitrage-bot/test/helpers"
)

type scanContext struct {
	db      *gorm.DB
	client  *helpers.MockESIClient
	repo    *persistence.OpportunityRepositoryGORM
	regions map[string]int

	sellOrders map[int][]market.Order // regionID -> seeded sell side
	buyOrders  map[int][]market.Order

	summary *scanSummaryOrErr
}

type scanSummaryOrErr struct {
	summary *services.ScanSummary
	err     error
}

func (sc *scanContext) reset() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to create scenario database: %w", err)
	}
	sc.db = db
	sc.client = helpers.NewMockESIClient()
	sc.repo = persistence.NewOpportunityRepository(db)
	sc.regions = make(map[string]int)
	sc.sellOrders = make(map[int][]market.Order)
	sc.buyOrders = make(map[int][]market.Order)
	sc.summary = nil
	return nil
}

func (sc *scanContext) close() {
	if sc.db != nil {
		database.Close(sc.db)
		sc.db = nil
	}
}

func (sc *scanContext) theFollowingRegionsAreConfigured(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		id, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return fmt.Errorf("bad region id %q: %w", row.Cells[1].Value, err)
		}
		sc.regions[row.Cells[0].Value] = id
	}
	return nil
}

func (sc *scanContext) itemIsNamedWithVolume(typeID int, name string, volume float64) error {
	sc.client.SetItemInfo(market.ItemInfo{TypeID: typeID, Name: name, VolumeM3: volume})
	return nil
}

func (sc *scanContext) parseOrderTable(table *godog.Table, isBuy bool) ([]market.Order, error) {
	orders := make([]market.Order, 0, len(table.Rows)-1)
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		typeID, err := strconv.Atoi(row.Cells[0].Value)
		if err != nil {
			return nil, fmt.Errorf("bad type id %q: %w", row.Cells[0].Value, err)
		}
		price, err := strconv.ParseFloat(row.Cells[1].Value, 64)
		if err != nil {
			return nil, fmt.Errorf("bad price %q: %w", row.Cells[1].Value, err)
		}
		volume, err := strconv.Atoi(row.Cells[2].Value)
		if err != nil {
			return nil, fmt.Errorf("bad volume %q: %w", row.Cells[2].Value, err)
		}
		orders = append(orders, market.Order{
			OrderID:      int64(len(orders) + 1),
			TypeID:       typeID,
			Price:        price,
			VolumeRemain: volume,
			IsBuyOrder:   isBuy,
		})
	}
	return orders, nil
}

func (sc *scanContext) regionHasSellOrders(regionName string, table *godog.Table) error {
	regionID, ok := sc.regions[regionName]
	if !ok {
		return fmt.Errorf("region %q is not configured", regionName)
	}
	orders, err := sc.parseOrderTable(table, false)
	if err != nil {
		return err
	}
	sc.sellOrders[regionID] = append(sc.sellOrders[regionID], orders...)
	return nil
}

func (sc *scanContext) regionHasBuyOrders(regionName string, table *godog.Table) error {
	regionID, ok := sc.regions[regionName]
	if !ok {
		return fmt.Errorf("region %q is not configured", regionName)
	}
	orders, err := sc.parseOrderTable(table, true)
	if err != nil {
		return err
	}
	sc.buyOrders[regionID] = append(sc.buyOrders[regionID], orders...)
	return nil
}

func (sc *scanContext) regionIsUnreachable(regionName string) error {
	regionID, ok := sc.regions[regionName]
	if !ok {
		return fmt.Errorf("region %q is not configured", regionName)
	}
	sc.client.FailRegion(regionID, errors.New("region unreachable"))
	return nil
}

func (sc *scanContext) runScan(routes []trading.Route) error {
	// Seed the mock's order books: each region gets one page holding both
	// sides.
	seeded := make(map[int]bool)
	for regionID, orders := range sc.sellOrders {
		book := append([]market.Order{}, orders...)
		book = append(book, sc.buyOrders[regionID]...)
		sc.client.SetRegionBook(regionID, book)
		seeded[regionID] = true
	}
	for regionID, orders := range sc.buyOrders {
		if !seeded[regionID] {
			sc.client.SetRegionBook(regionID, append([]market.Order{}, orders...))
		}
	}

	cache := persistence.NewMarketCacheRepository(sc.db, nil)
	book := appmarket.NewBookService(sc.client, cache, cache, zerolog.Nop())
	matcher := services.NewOpportunityMatcher(book, 2, zerolog.Nop())

	orch := services.NewScanOrchestrator(matcher, sc.repo, services.ScanConfig{
		Regions:  sc.regions,
		Fees:     sharedProfit.fees,
		Filters:  trading.Filters{MinVolumeAvailable: 1},
		OrderTTL: 5 * time.Minute,
	}, nil, zerolog.Nop())

	summary, err := orch.RunScan(context.Background(), routes)
	sc.summary = &scanSummaryOrErr{summary: summary, err: err}
	return nil
}

func (sc *scanContext) iScanTheRoute(source, destination string) error {
	return sc.runScan([]trading.Route{{Source: source, Destination: destination}})
}

func (sc *scanContext) iScanTheRoutes(table *godog.Table) error {
	routes := make([]trading.Route, 0, len(table.Rows)-1)
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		routes = append(routes, trading.Route{
			Source:      row.Cells[0].Value,
			Destination: row.Cells[1].Value,
		})
	}
	return sc.runScan(routes)
}

func (sc *scanContext) requireSummary() (*services.ScanSummary, error) {
	if sc.summary == nil {
		return nil, errors.New("no scan has run yet")
	}
	if sc.summary.err != nil {
		return nil, fmt.Errorf("scan failed: %w", sc.summary.err)
	}
	return sc.summary.summary, nil
}

func (sc *scanContext) theScanShouldFindOpportunities(count int) error {
	summary, err := sc.requireSummary()
	if err != nil {
		return err
	}
	if len(summary.Opportunities) != count {
		return fmt.Errorf("expected %d opportunities, got %d", count, len(summary.Opportunities))
	}
	return nil
}

func (sc *scanContext) theScanShouldReport(succeeded, failed int) error {
	summary, err := sc.requireSummary()
	if err != nil {
		return err
	}
	if summary.Succeeded != succeeded {
		return fmt.Errorf("expected %d succeeded routes, got %d", succeeded, summary.Succeeded)
	}
	if summary.Failed() != failed {
		return fmt.Errorf("expected %d failed routes, got %d", failed, summary.Failed())
	}
	return nil
}

func (sc *scanContext) topOpportunity() (*trading.Opportunity, error) {
	summary, err := sc.requireSummary()
	if err != nil {
		return nil, err
	}
	if len(summary.Opportunities) == 0 {
		return nil, errors.New("scan found no opportunities")
	}
	return summary.Opportunities[0], nil
}

func (sc *scanContext) theTopOpportunityShouldBe(name string, buyPrice, sellPrice float64) error {
	opp, err := sc.topOpportunity()
	if err != nil {
		return err
	}
	if opp.ItemName() != name {
		return fmt.Errorf("expected item %q, got %q", name, opp.ItemName())
	}
	if opp.BuyPrice() != buyPrice {
		return fmt.Errorf("expected buy price %.2f, got %.2f", buyPrice, opp.BuyPrice())
	}
	if opp.SellPrice() != sellPrice {
		return fmt.Errorf("expected sell price %.2f, got %.2f", sellPrice, opp.SellPrice())
	}
	return nil
}

func (sc *scanContext) theTopOpportunityShouldHaveUnitsAvailable(units int) error {
	opp, err := sc.topOpportunity()
	if err != nil {
		return err
	}
	if opp.VolumeAvailable() != units {
		return fmt.Errorf("expected %d units available, got %d", units, opp.VolumeAvailable())
	}
	return nil
}

func (sc *scanContext) theTopOpportunityTotalProfitShouldBe(total float64) error {
	opp, err := sc.topOpportunity()
	if err != nil {
		return err
	}
	if math.Abs(opp.TotalProfitPotential()-total) > 0.01 {
		return fmt.Errorf("expected total profit %.2f, got %.4f", total, opp.TotalProfitPotential())
	}
	return nil
}

func (sc *scanContext) theStoredResultsShouldContain(source, destination string, count int) error {
	stored, err := sc.repo.FindByRoute(context.Background(),
		trading.Route{Source: source, Destination: destination})
	if err != nil {
		return fmt.Errorf("failed to query stored results: %w", err)
	}
	if len(stored) != count {
		return fmt.Errorf("expected %d stored opportunities for %s to %s, got %d",
			count, source, destination, len(stored))
	}
	return nil
}

// RegisterScanSteps registers the end-to-end scan step definitions
func RegisterScanSteps(sc *godog.ScenarioContext) {
	ctx := &scanContext{}

	sc.Before(func(c context.Context, scn *godog.Scenario) (context.Context, error) {
		return c, ctx.reset()
	})
	sc.After(func(c context.Context, scn *godog.Scenario, err error) (context.Context, error) {
		ctx.close()
		return c, nil
	})

	sc.Step(`^the following regions are configured:$`, ctx.theFollowingRegionsAreConfigured)
	sc.Step(`^item (\d+) is named "([^"]*)" with volume ([\d.]+)$`, ctx.itemIsNamedWithVolume)
	sc.Step(`^region "([^"]*)" has sell orders:$`, ctx.regionHasSellOrders)
	sc.Step(`^region "([^"]*)" has buy orders:$`, ctx.regionHasBuyOrders)
	sc.Step(`^region "([^"]*)" is unreachable$`, ctx.regionIsUnreachable)
	sc.Step(`^I scan the route from "([^"]*)" to "([^"]*)"$`, ctx.iScanTheRoute)
	sc.Step(`^I scan the routes:$`, ctx.iScanTheRoutes)
	sc.Step(`^the scan should find (\d+) opportunit(?:y|ies)$`, ctx.theScanShouldFindOpportunities)
	sc.Step(`^the scan should report (\d+) succeeded routes? and (\d+) failed routes?$`, ctx.theScanShouldReport)
	sc.Step(`^the top opportunity should be "([^"]*)" bought at ([\d.]+) and sold at ([\d.]+)$`, ctx.theTopOpportunityShouldBe)
	sc.Step(`^the top opportunity should have (\d+) units available$`, ctx.theTopOpportunityShouldHaveUnitsAvailable)
	sc.Step(`^the top opportunity total profit should be ([\d.]+)$`, ctx.theTopOpportunityTotalProfitShouldBe)
	sc.Step(`^the stored results for "([^"]*)" to "([^"]*)" should contain (\d+) opportunit(?:y|ies)$`, ctx.theStoredResultsShouldContain)
}
