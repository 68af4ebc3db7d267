package market

import "sort"

// SplitBySide partitions a full region order list into a sell-side map and a
// buy-side map, each keyed by type ID. The partition is recomputed from the
// full fetch each time; it is not cached itself.
func SplitBySide(orders []Order) (sells map[int][]Order, buys map[int][]Order) {
	sells = make(map[int][]Order)
	buys = make(map[int][]Order)
	for _, o := range orders {
		if o.IsBuyOrder {
			buys[o.TypeID] = append(buys[o.TypeID], o)
		} else {
			sells[o.TypeID] = append(sells[o.TypeID], o)
		}
	}
	return sells, buys
}

// BestSell returns the lowest-priced sell order's price and remaining volume.
// Ties are broken deterministically: orders are stable-sorted ascending by
// price and the first is taken. ok is false when the list is empty.
func BestSell(orders []Order) (price float64, volumeRemain int, ok bool) {
	if len(orders) == 0 {
		return 0, 0, false
	}
	sorted := make([]Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price < sorted[j].Price
	})
	return sorted[0].Price, sorted[0].VolumeRemain, true
}

// BestBuy returns the highest-priced buy order's price and remaining volume,
// with the same tie and return contract as BestSell (sorted descending).
func BestBuy(orders []Order) (price float64, volumeRemain int, ok bool) {
	if len(orders) == 0 {
		return 0, 0, false
	}
	sorted := make([]Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price > sorted[j].Price
	})
	return sorted[0].Price, sorted[0].VolumeRemain, true
}
