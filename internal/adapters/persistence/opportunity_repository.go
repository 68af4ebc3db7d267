package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/trading"
)

// OpportunityRepositoryGORM implements trading.OpportunityRepository.
// The scan orchestrator is the only writer to the arbitrage_results table.
type OpportunityRepositoryGORM struct {
	db *gorm.DB
}

// NewOpportunityRepository creates a GORM-backed opportunity store.
func NewOpportunityRepository(db *gorm.DB) *OpportunityRepositoryGORM {
	return &OpportunityRepositoryGORM{db: db}
}

// ReplaceForRoute replaces the stored result set for one route inside a
// transaction, so a reader never observes a half-deleted, half-inserted
// state for that route. Results for other routes are untouched.
func (r *OpportunityRepositoryGORM) ReplaceForRoute(
	ctx context.Context,
	route trading.Route,
	scanID string,
	scannedAt time.Time,
	opportunities []*trading.Opportunity,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("buy_region = ? AND sell_region = ?", route.Source, route.Destination).
			Delete(&OpportunityModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete old results for %s: %w", route, err)
		}

		if len(opportunities) == 0 {
			return nil
		}

		models := make([]OpportunityModel, len(opportunities))
		for i, opp := range opportunities {
			models[i] = OpportunityModel{
				ScanID:               scanID,
				ScannedAt:            scannedAt,
				BuyRegion:            opp.BuyRegion(),
				SellRegion:           opp.SellRegion(),
				TypeID:               opp.TypeID(),
				ItemName:             opp.ItemName(),
				ItemVolumeM3:         opp.ItemVolumeM3(),
				BuyPrice:             opp.BuyPrice(),
				SellPrice:            opp.SellPrice(),
				VolumeAvailable:      opp.VolumeAvailable(),
				NetProfitPerUnit:     opp.NetProfitPerUnit(),
				ProfitMarginPct:      opp.ProfitMarginPct(),
				TotalProfitPotential: opp.TotalProfitPotential(),
			}
		}

		if err := tx.Create(&models).Error; err != nil {
			return fmt.Errorf("failed to insert results for %s: %w", route, err)
		}
		return nil
	})
}

// FindByRoute returns stored results for one route, best first.
func (r *OpportunityRepositoryGORM) FindByRoute(ctx context.Context, route trading.Route) ([]*trading.Opportunity, error) {
	var models []OpportunityModel
	err := r.db.WithContext(ctx).
		Where("buy_region = ? AND sell_region = ?", route.Source, route.Destination).
		Order("total_profit_potential DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query results for %s: %w", route, err)
	}
	return toDomainOpportunities(models), nil
}

// FindTop returns the best stored results across all routes.
func (r *OpportunityRepositoryGORM) FindTop(ctx context.Context, limit int) ([]*trading.Opportunity, error) {
	if limit <= 0 {
		limit = 100
	}
	var models []OpportunityModel
	err := r.db.WithContext(ctx).
		Order("total_profit_potential DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query top results: %w", err)
	}
	return toDomainOpportunities(models), nil
}

// LastScanTime returns the most recent scanned_at, or nil when the table is
// empty.
func (r *OpportunityRepositoryGORM) LastScanTime(ctx context.Context) (*time.Time, error) {
	var model OpportunityModel
	err := r.db.WithContext(ctx).
		Order("scanned_at DESC").
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last scan time: %w", err)
	}
	return &model.ScannedAt, nil
}

func toDomainOpportunities(models []OpportunityModel) []*trading.Opportunity {
	opps := make([]*trading.Opportunity, len(models))
	for i, m := range models {
		opps[i] = trading.RehydrateOpportunity(
			m.TypeID,
			m.ItemName,
			m.ItemVolumeM3,
			m.BuyRegion,
			m.SellRegion,
			m.BuyPrice,
			m.SellPrice,
			m.VolumeAvailable,
			m.NetProfitPerUnit,
			m.ProfitMarginPct,
			m.TotalProfitPotential,
		)
	}
	return opps
}
