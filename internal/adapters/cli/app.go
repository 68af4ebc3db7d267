package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/PVAGR/eve-arbitrage-bot/internal/adapters/api"
	"github.com/PVAGR/eve-arbitrage-bot/internal/adapters/persistence"
	appmarket "github.com/PVAGR/eve-arbitrage-bot/internal/application/market"
	"github.com/PVAGR/eve-arbitrage-bot/internal/application/trading/services"
	"github.com/PVAGR/eve-arbitrage-bot/internal/infrastructure/config"
	"github.com/PVAGR/eve-arbitrage-bot/internal/infrastructure/database"
	"github.com/PVAGR/eve-arbitrage-bot/internal/infrastructure/logging"
)

// app wires configuration, storage, the ESI client and the application
// services together for one CLI invocation. Everything is constructed
// explicitly; there are no process-wide singletons.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	db     *gorm.DB

	books        *appmarket.BookService
	results      *persistence.OpportunityRepositoryGORM
	inventory    *persistence.InventoryRepositoryGORM
	orchestrator *services.ScanOrchestrator
}

// newApp loads config and builds the full service graph.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger := logging.New(cfg.Logging)

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	client := api.NewESIClientWithConfig(
		cfg.API.BaseURL,
		cfg.API.UserAgent,
		cfg.API.Timeout,
		cfg.API.MaxAttempts,
		cfg.API.BackoffBase,
		rate.NewLimiter(rate.Limit(cfg.API.RateLimit), cfg.API.RateBurst),
		nil,
		logger,
	)

	cache := persistence.NewMarketCacheRepository(db, nil)
	results := persistence.NewOpportunityRepository(db)
	inventory := persistence.NewInventoryRepository(db, nil)

	books := appmarket.NewBookService(client, cache, cache, logger)
	matcher := services.NewOpportunityMatcher(books, cfg.Scan.CandidateWorkers, logger)

	pairs, err := cfg.Scan.RegionPairs()
	if err != nil {
		return nil, err
	}

	orchestrator := services.NewScanOrchestrator(matcher, results, services.ScanConfig{
		Regions:    cfg.RegionMap(),
		Pairs:      pairs,
		Fees:       cfg.Fees.FeeConfig(),
		Filters:    cfg.Filters.Filters(),
		OrderTTL:   time.Duration(cfg.Scan.CacheTTLMinutes) * time.Minute,
		MaxWorkers: cfg.Scan.MaxRouteWorkers,
	}, nil, logger)

	return &app{
		cfg:          cfg,
		logger:       logger,
		db:           db,
		books:        books,
		results:      results,
		inventory:    inventory,
		orchestrator: orchestrator,
	}, nil
}

// Close releases the database connection.
func (a *app) Close() {
	if err := database.Close(a.db); err != nil {
		a.logger.Warn().Err(err).Msg("failed to close database")
	}
}
