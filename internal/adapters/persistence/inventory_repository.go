package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/shared"
	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/trading"
)

// ErrInventoryEntryNotFound indicates the requested inventory row does not
// exist.
var ErrInventoryEntryNotFound = errors.New("inventory entry not found")

// InventoryRepositoryGORM implements trading.InventoryRepository.
type InventoryRepositoryGORM struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewInventoryRepository creates a GORM-backed inventory store.
func NewInventoryRepository(db *gorm.DB, clock shared.Clock) *InventoryRepositoryGORM {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &InventoryRepositoryGORM{db: db, clock: clock}
}

// Add inserts a stock entry and returns its row id.
func (r *InventoryRepositoryGORM) Add(ctx context.Context, entry *trading.InventoryEntry) (int, error) {
	model := InventoryModel{
		TypeID:       entry.TypeID,
		ItemName:     entry.ItemName,
		Quantity:     entry.Quantity,
		CostBasisISK: entry.CostBasisISK,
		Station:      entry.Station,
		AddedAt:      r.clock.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return 0, fmt.Errorf("failed to add inventory entry: %w", err)
	}
	return model.ID, nil
}

// List returns all stock entries ordered by item name.
func (r *InventoryRepositoryGORM) List(ctx context.Context) ([]*trading.InventoryEntry, error) {
	var models []InventoryModel
	if err := r.db.WithContext(ctx).Order("item_name").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	entries := make([]*trading.InventoryEntry, len(models))
	for i, m := range models {
		entries[i] = &trading.InventoryEntry{
			ID:           m.ID,
			TypeID:       m.TypeID,
			ItemName:     m.ItemName,
			Quantity:     m.Quantity,
			CostBasisISK: m.CostBasisISK,
			Station:      m.Station,
			AddedAt:      m.AddedAt,
		}
	}
	return entries, nil
}

// UpdateQuantity sets the quantity of one entry.
func (r *InventoryRepositoryGORM) UpdateQuantity(ctx context.Context, id, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&InventoryModel{}).
		Where("id = ?", id).
		Update("quantity", quantity)
	if result.Error != nil {
		return fmt.Errorf("failed to update inventory entry %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInventoryEntryNotFound
	}
	return nil
}

// Delete removes one entry.
func (r *InventoryRepositoryGORM) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(&InventoryModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete inventory entry %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInventoryEntryNotFound
	}
	return nil
}
