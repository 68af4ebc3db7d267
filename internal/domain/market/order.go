package market

// Order is one resting buy or sell offer for an item in a region's order
// book, as reported by ESI. Orders are immutable once fetched; a refetch
// replaces the whole page, individual orders are never patched in place.
type Order struct {
	OrderID      int64   `json:"order_id"`
	TypeID       int     `json:"type_id"`
	LocationID   int64   `json:"location_id"`
	SystemID     int     `json:"system_id"`
	Price        float64 `json:"price"`
	VolumeRemain int     `json:"volume_remain"`
	VolumeTotal  int     `json:"volume_total"`
	MinVolume    int     `json:"min_volume"`
	IsBuyOrder   bool    `json:"is_buy_order"`
	Duration     int     `json:"duration"`
	Issued       string  `json:"issued"`
	Range        string  `json:"range"`
}
