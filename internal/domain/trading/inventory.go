package trading

import (
	"errors"
	"time"
)

// InventoryEntry is one tracked stock position: an item held (or in
// transit) with its acquisition cost basis.
type InventoryEntry struct {
	ID           int
	TypeID       int
	ItemName     string
	Quantity     int
	CostBasisISK float64
	Station      string
	AddedAt      time.Time
}

// NewInventoryEntry validates and creates a stock entry.
func NewInventoryEntry(typeID int, itemName string, quantity int, costBasisISK float64, station string) (*InventoryEntry, error) {
	if typeID <= 0 {
		return nil, errors.New("type id must be positive")
	}
	if itemName == "" {
		return nil, errors.New("item name required")
	}
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	if costBasisISK < 0 {
		return nil, errors.New("cost basis must not be negative")
	}
	return &InventoryEntry{
		TypeID:       typeID,
		ItemName:     itemName,
		Quantity:     quantity,
		CostBasisISK: costBasisISK,
		Station:      station,
	}, nil
}
