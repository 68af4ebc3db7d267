package market

import "fmt"

// ItemInfo is cached metadata for a tradeable item. Name is the display
// name; VolumeM3 is the per-unit packaged volume used for hauling-cost
// calculations. Placeholder marks degraded data substituted after a failed
// metadata fetch.
type ItemInfo struct {
	TypeID      int
	Name        string
	VolumeM3    float64
	Placeholder bool
}

// PlaceholderItemInfo is the degraded-data fallback used when item metadata
// cannot be fetched: name "Item {id}", volume 1.0. The fallback shape is
// kept compatible with previously cached placeholder entries.
func PlaceholderItemInfo(typeID int) ItemInfo {
	return ItemInfo{
		TypeID:      typeID,
		Name:        fmt.Sprintf("Item %d", typeID),
		VolumeM3:    1.0,
		Placeholder: true,
	}
}

// ItemRef is a lightweight type-id/name pair returned by name searches.
type ItemRef struct {
	TypeID int
	Name   string
}
