package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/market"
	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/shared"
)

// placeholderTTL caps how long a degraded-data placeholder entry stays
// valid, regardless of the caller's TTL. Caching a placeholder for the full
// item TTL would let one transient metadata failure poison an item for a
// day.
const placeholderTTL = time.Hour

// MarketCacheRepositoryGORM implements the market.OrderPageCache and
// market.ItemInfoCache ports on the shared store. It is the only writer to
// the cache tables. Concurrent upserts are safe; last writer wins per key.
type MarketCacheRepositoryGORM struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewMarketCacheRepository creates a GORM-backed market cache.
// A nil clock selects the real clock.
func NewMarketCacheRepository(db *gorm.DB, clock shared.Clock) *MarketCacheRepositoryGORM {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &MarketCacheRepositoryGORM{db: db, clock: clock}
}

// GetPage returns the cached page, or (nil, nil) when the page is missing
// or older than ttl. Staleness is absence, not an error.
func (r *MarketCacheRepositoryGORM) GetPage(ctx context.Context, regionID, page int, ttl time.Duration) (*market.CachedPage, error) {
	var model MarketOrderPageModel
	err := r.db.WithContext(ctx).
		Where("region_id = ? AND page = ?", regionID, page).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached page: %w", err)
	}

	if r.clock.Now().Sub(model.FetchedAt) > ttl {
		return nil, nil
	}

	var orders []market.Order
	if err := json.Unmarshal([]byte(model.OrdersJSON), &orders); err != nil {
		return nil, fmt.Errorf("corrupt cached page (region %d page %d): %w", regionID, page, err)
	}

	return &market.CachedPage{
		RegionID:  regionID,
		Page:      page,
		FetchedAt: model.FetchedAt,
		Orders:    orders,
	}, nil
}

// PutPage upserts one order-book page, replacing any prior value and
// timestamp for the same (region, page) key.
func (r *MarketCacheRepositoryGORM) PutPage(ctx context.Context, regionID, page int, orders []market.Order) error {
	payload, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("failed to encode orders: %w", err)
	}

	model := MarketOrderPageModel{
		RegionID:   regionID,
		Page:       page,
		FetchedAt:  r.clock.Now(),
		OrdersJSON: string(payload),
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "region_id"}, {Name: "page"}},
			DoUpdates: clause.AssignmentColumns([]string{"fetched_at", "orders_json"}),
		}).
		Create(&model).Error; err != nil {
		return fmt.Errorf("failed to upsert cached page: %w", err)
	}
	return nil
}

// GetItem returns cached item metadata, or (nil, nil) when missing or
// stale. Placeholder entries expire on the shorter placeholderTTL even if
// the caller allows a longer age.
func (r *MarketCacheRepositoryGORM) GetItem(ctx context.Context, typeID int, ttl time.Duration) (*market.ItemInfo, error) {
	var model ItemInfoModel
	err := r.db.WithContext(ctx).
		Where("type_id = ?", typeID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached item: %w", err)
	}

	effectiveTTL := ttl
	if model.Placeholder && placeholderTTL < effectiveTTL {
		effectiveTTL = placeholderTTL
	}
	if r.clock.Now().Sub(model.FetchedAt) > effectiveTTL {
		return nil, nil
	}

	return &market.ItemInfo{
		TypeID:      model.TypeID,
		Name:        model.Name,
		VolumeM3:    model.VolumeM3,
		Placeholder: model.Placeholder,
	}, nil
}

// PutItem upserts item metadata keyed by type ID.
func (r *MarketCacheRepositoryGORM) PutItem(ctx context.Context, info market.ItemInfo) error {
	model := ItemInfoModel{
		TypeID:      info.TypeID,
		Name:        info.Name,
		VolumeM3:    info.VolumeM3,
		Placeholder: info.Placeholder,
		FetchedAt:   r.clock.Now(),
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "type_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "volume_m3", "placeholder", "fetched_at"}),
		}).
		Create(&model).Error; err != nil {
		return fmt.Errorf("failed to upsert cached item: %w", err)
	}
	return nil
}
