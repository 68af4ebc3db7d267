package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/market"
	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/trading"
)

// defaultCandidateWorkers bounds parallel candidate evaluation. Candidates
// are independent and side-effect-free after the bulk metadata prefetch, so
// ordering does not matter; the final sort restores determinism.
const defaultCandidateWorkers = 8

// OpportunityMatcher computes the set of profitable trades across one
// directed region pair and ranks them. It has no recovery logic for fetch
// or cache failures; retries live in the fetch client.
type OpportunityMatcher struct {
	provider trading.MarketDataProvider
	workers  int
	logger   zerolog.Logger
}

// NewOpportunityMatcher creates a matcher. workers bounds candidate-level
// parallelism; non-positive selects the default.
func NewOpportunityMatcher(provider trading.MarketDataProvider, workers int, logger zerolog.Logger) *OpportunityMatcher {
	if workers <= 0 {
		workers = defaultCandidateWorkers
	}
	return &OpportunityMatcher{
		provider: provider,
		workers:  workers,
		logger:   logger.With().Str("component", "opportunity_matcher").Logger(),
	}
}

// FindOpportunities finds items that can be bought at the best sell price
// in the source region and resold at the best buy price in the destination
// region at a profit, net of fees and hauling.
//
// Algorithm:
//  1. Load (cache-or-fetch) the source sell-side and destination buy-side maps.
//  2. Intersect the type IDs present in both; only those are candidates.
//  3. Prefetch item metadata for the whole candidate set.
//  4. Evaluate candidates independently in parallel: best prices, volume
//     and investment filters, fee model, profitability thresholds.
//  5. Sort accepted trades by total profit potential descending.
func (m *OpportunityMatcher) FindOpportunities(
	ctx context.Context,
	source RegionRef,
	destination RegionRef,
	fees trading.FeeConfig,
	filters trading.Filters,
	ttl time.Duration,
) ([]*trading.Opportunity, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	sourceSells, err := m.provider.SellOrders(ctx, source.ID, ttl)
	if err != nil {
		return nil, err
	}
	destBuys, err := m.provider.BuyOrders(ctx, destination.ID, ttl)
	if err != nil {
		return nil, err
	}

	// Only items tradable in both directions are candidates. Regions carry
	// tens of thousands of distinct items; the intersection is the dominant
	// cost reduction.
	candidates := make([]int, 0)
	for typeID := range sourceSells {
		if _, ok := destBuys[typeID]; ok {
			candidates = append(candidates, typeID)
		}
	}

	m.logger.Debug().Str("source", source.Name).Str("destination", destination.Name).
		Int("candidates", len(candidates)).Msg("matching candidate items")

	infos, err := m.provider.ItemInfoBulk(ctx, candidates)
	if err != nil {
		return nil, err
	}

	var (
		mu            sync.Mutex
		opportunities []*trading.Opportunity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	for _, typeID := range candidates {
		typeID := typeID
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			opp := m.evaluate(typeID, sourceSells[typeID], destBuys[typeID],
				source.Name, destination.Name, infos[typeID], fees, filters)
			if opp == nil {
				return nil
			}

			mu.Lock()
			opportunities = append(opportunities, opp)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Sole ranking criterion; the stable sort keeps emission order
	// irrelevant.
	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].TotalProfitPotential() > opportunities[j].TotalProfitPotential()
	})

	return opportunities, nil
}

// evaluate applies the acceptance pipeline to one candidate item. Returns
// nil when any filter rejects it.
func (m *OpportunityMatcher) evaluate(
	typeID int,
	sells []market.Order,
	buys []market.Order,
	sourceName string,
	destName string,
	info market.ItemInfo,
	fees trading.FeeConfig,
	filters trading.Filters,
) *trading.Opportunity {
	// We pay the source book's lowest sell price and receive the
	// destination book's highest buy price.
	buyPrice, availableVolume, ok := market.BestSell(sells)
	if !ok {
		return nil
	}
	sellPrice, _, ok := market.BestBuy(buys)
	if !ok {
		return nil
	}

	if availableVolume < filters.MinVolumeAvailable {
		return nil
	}
	if filters.MaxInvestmentPerItem > 0 && buyPrice > filters.MaxInvestmentPerItem {
		return nil
	}

	netProfit, marginPct := trading.CalculateProfit(buyPrice, sellPrice, info.VolumeM3, fees)
	if !trading.IsProfitable(netProfit, marginPct, filters.MinProfitMarginPct, filters.MinNetISKProfit) {
		return nil
	}

	opp, err := trading.NewOpportunity(typeID, info.Name, info.VolumeM3,
		sourceName, destName, buyPrice, sellPrice, availableVolume, fees)
	if err != nil {
		m.logger.Warn().Err(err).Int("type_id", typeID).Msg("rejected malformed candidate")
		return nil
	}
	return opp
}
