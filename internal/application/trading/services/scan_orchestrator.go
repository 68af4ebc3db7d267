package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/shared"
	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/trading"
)

// RegionRef pairs a configured region name with its upstream region ID.
type RegionRef struct {
	Name string
	ID   int
}

// OpportunityFinder is what the orchestrator needs from the matcher.
type OpportunityFinder interface {
	FindOpportunities(
		ctx context.Context,
		source RegionRef,
		destination RegionRef,
		fees trading.FeeConfig,
		filters trading.Filters,
		ttl time.Duration,
	) ([]*trading.Opportunity, error)
}

// ScanConfig is the immutable configuration snapshot one scan runs under.
type ScanConfig struct {
	// Regions maps configured region names to upstream region IDs.
	Regions map[string]int
	// Pairs are the unordered region pairs expanded into both directed
	// routes when no explicit route list is given.
	Pairs [][2]string
	// Fees is the transaction cost model.
	Fees trading.FeeConfig
	// Filters are the acceptance thresholds.
	Filters trading.Filters
	// OrderTTL is the cache TTL for order-book pages.
	OrderTTL time.Duration
	// MaxWorkers caps concurrent route scans. Non-positive means one
	// worker per route up to a small cap.
	MaxWorkers int
}

// RouteFailure records why one route produced no results.
type RouteFailure struct {
	Route  trading.Route
	Reason string
}

// ScanSummary is the outcome of one scan: the globally ranked opportunity
// list plus per-route accounting.
type ScanSummary struct {
	ScanID        string
	StartedAt     time.Time
	CompletedAt   time.Time
	Attempted     int
	Succeeded     int
	Failures      []RouteFailure
	Opportunities []*trading.Opportunity
}

// Failed returns the number of routes that produced a failure.
func (s *ScanSummary) Failed() int {
	return len(s.Failures)
}

// ScanOrchestrator drives the matcher across a set of routes, tolerates
// per-route failure, and commits a consistent result set per route. It is
// the only component with cross-route state and the only writer to the
// persisted opportunity set.
type ScanOrchestrator struct {
	finder  OpportunityFinder
	results trading.OpportunityRepository
	cfg     ScanConfig
	clock   shared.Clock
	logger  zerolog.Logger
}

// NewScanOrchestrator creates an orchestrator. A nil clock selects the real
// clock.
func NewScanOrchestrator(
	finder OpportunityFinder,
	results trading.OpportunityRepository,
	cfg ScanConfig,
	clock shared.Clock,
	logger zerolog.Logger,
) *ScanOrchestrator {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ScanOrchestrator{
		finder:  finder,
		results: results,
		cfg:     cfg,
		clock:   clock,
		logger:  logger.With().Str("component", "scan_orchestrator").Logger(),
	}
}

// RunScan scans the given routes, or the configured pairs expanded into
// both directions when routes is nil. Routes fail independently: one
// unreachable region never blanks out results for the others. Completed
// routes' results replace the stored set for exactly those routes; stored
// results for routes not attempted here are left untouched.
//
// A persistence failure is fatal for the scan and is returned as an error;
// per-route matcher failures are recorded in the summary instead.
func (o *ScanOrchestrator) RunScan(ctx context.Context, routes []trading.Route) (*ScanSummary, error) {
	if routes == nil {
		routes = trading.ExpandPairs(o.cfg.Pairs)
	}
	if len(routes) == 0 {
		return nil, trading.ErrNoRoutes
	}

	summary := &ScanSummary{
		ScanID:    uuid.NewString(),
		StartedAt: o.clock.Now(),
		Attempted: len(routes),
	}

	// Validation happens before any network activity. Unknown regions are
	// skipped with a warning; they never abort the scan.
	type routeJob struct {
		route  trading.Route
		source RegionRef
		dest   RegionRef
	}
	jobs := make([]routeJob, 0, len(routes))
	for _, route := range routes {
		sourceID, ok := o.cfg.Regions[route.Source]
		if !ok {
			o.recordFailure(summary, route, fmt.Errorf("%w: %s", trading.ErrUnknownRegion, route.Source))
			continue
		}
		destID, ok := o.cfg.Regions[route.Destination]
		if !ok {
			o.recordFailure(summary, route, fmt.Errorf("%w: %s", trading.ErrUnknownRegion, route.Destination))
			continue
		}
		jobs = append(jobs, routeJob{
			route:  route,
			source: RegionRef{Name: route.Source, ID: sourceID},
			dest:   RegionRef{Name: route.Destination, ID: destID},
		})
	}

	type routeResult struct {
		opportunities []*trading.Opportunity
		err           error
	}
	results := make([]routeResult, len(jobs))

	g := new(errgroup.Group)
	g.SetLimit(o.routeWorkers(len(jobs)))

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			opps, err := o.finder.FindOpportunities(ctx, job.source, job.dest,
				o.cfg.Fees, o.cfg.Filters, o.cfg.OrderTTL)
			results[i] = routeResult{opportunities: opps, err: err}
			// Route failures are recorded, never propagated: partial
			// failure is a deliberate design, not an omission.
			return nil
		})
	}
	_ = g.Wait()

	scannedAt := o.clock.Now()
	for i, job := range jobs {
		res := results[i]
		if res.err != nil {
			o.recordFailure(summary, job.route, res.err)
			continue
		}

		if err := o.results.ReplaceForRoute(ctx, job.route, summary.ScanID, scannedAt, res.opportunities); err != nil {
			return nil, fmt.Errorf("failed to persist results for %s: %w", job.route, err)
		}

		summary.Succeeded++
		summary.Opportunities = append(summary.Opportunities, res.opportunities...)
		o.logger.Info().Str("route", job.route.String()).
			Int("opportunities", len(res.opportunities)).Msg("route scanned")
	}

	sort.SliceStable(summary.Opportunities, func(i, j int) bool {
		return summary.Opportunities[i].TotalProfitPotential() > summary.Opportunities[j].TotalProfitPotential()
	})

	summary.CompletedAt = o.clock.Now()
	o.logger.Info().Str("scan_id", summary.ScanID).
		Int("attempted", summary.Attempted).Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed()).Int("opportunities", len(summary.Opportunities)).
		Msg("scan complete")

	return summary, nil
}

func (o *ScanOrchestrator) recordFailure(summary *ScanSummary, route trading.Route, err error) {
	o.logger.Warn().Str("route", route.String()).Err(err).Msg("route skipped")
	summary.Failures = append(summary.Failures, RouteFailure{
		Route:  route,
		Reason: err.Error(),
	})
}

// routeWorkers is one worker per route up to a cap; unbounded concurrency
// risks tripping the upstream rate limiter.
func (o *ScanOrchestrator) routeWorkers(jobs int) int {
	workers := o.cfg.MaxWorkers
	if workers <= 0 {
		workers = 4
	}
	if jobs > 0 && jobs < workers {
		workers = jobs
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
