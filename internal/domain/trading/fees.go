package trading

// FeeConfig is the transaction cost model for one scan. All rates are
// fractions in [0,1]; HaulingISKPerM3 is a flat cost per cubic metre of
// cargo moved. Loaded once per scan and immutable while it runs.
//
// Cost model:
//
//	you buy at buy_price and pay the buy-side broker fee on top
//	you sell at sell_price and give up the sell-side broker fee plus sales tax
//	hauling costs scale with the item's packaged volume
type FeeConfig struct {
	BrokerFeeBuy    float64
	BrokerFeeSell   float64
	SalesTax        float64
	HaulingISKPerM3 float64
}

// CalculateProfit returns (net profit per unit, profit margin percent) for
// buying one unit at buyPrice in the source region and selling it at
// sellPrice in the destination region.
//
//	effective_cost    = buy_price  × (1 + broker_fee_buy)
//	effective_revenue = sell_price × (1 − broker_fee_sell − sales_tax)
//	net_profit        = effective_revenue − effective_cost − hauling
//	margin_pct        = net_profit / effective_cost × 100
//
// margin_pct is 0 when the effective cost is zero.
func CalculateProfit(buyPrice, sellPrice, volumeM3 float64, fees FeeConfig) (netProfit, marginPct float64) {
	effectiveCost := buyPrice * (1.0 + fees.BrokerFeeBuy)
	effectiveRevenue := sellPrice * (1.0 - fees.BrokerFeeSell - fees.SalesTax)
	hauling := fees.HaulingISKPerM3 * volumeM3

	netProfit = effectiveRevenue - effectiveCost - hauling
	if effectiveCost > 0 {
		marginPct = netProfit / effectiveCost * 100
	}
	return netProfit, marginPct
}

// IsProfitable reports whether a trade clears both acceptance thresholds.
func IsProfitable(netProfit, marginPct, minMarginPct, minNetISK float64) bool {
	return netProfit >= minNetISK && marginPct >= minMarginPct
}
