package steps

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/cucumber/godog"

	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/trading"
)

type profitContext struct {
	fees      trading.FeeConfig
	netProfit float64
	marginPct float64
}

// sharedProfit is read by the scan steps too: the fee configuration step in
// a scan scenario's background lands here.
var sharedProfit = &profitContext{}

func (pc *profitContext) reset() {
	pc.fees = trading.FeeConfig{}
	pc.netProfit = 0
	pc.marginPct = 0
}

func parseFeeTable(table *godog.Table) (trading.FeeConfig, error) {
	if len(table.Rows) != 2 {
		return trading.FeeConfig{}, fmt.Errorf("expected a header row and one value row, got %d rows", len(table.Rows))
	}

	values := make(map[string]float64)
	for i, cell := range table.Rows[0].Cells {
		v, err := strconv.ParseFloat(table.Rows[1].Cells[i].Value, 64)
		if err != nil {
			return trading.FeeConfig{}, fmt.Errorf("bad fee value %q: %w", table.Rows[1].Cells[i].Value, err)
		}
		values[cell.Value] = v
	}

	return trading.FeeConfig{
		BrokerFeeBuy:    values["broker_fee_buy"],
		BrokerFeeSell:   values["broker_fee_sell"],
		SalesTax:        values["sales_tax"],
		HaulingISKPerM3: values["hauling_isk_per_m3"],
	}, nil
}

func (pc *profitContext) theFollowingFeeConfiguration(table *godog.Table) error {
	fees, err := parseFeeTable(table)
	if err != nil {
		return err
	}
	pc.fees = fees
	return nil
}

func (pc *profitContext) iCalculateProfit(buyPrice, sellPrice, volume float64) error {
	pc.netProfit, pc.marginPct = trading.CalculateProfit(buyPrice, sellPrice, volume, pc.fees)
	return nil
}

func (pc *profitContext) theNetProfitShouldBe(expected float64) error {
	if math.Abs(pc.netProfit-expected) > 0.01 {
		return fmt.Errorf("expected net profit %.2f, got %.4f", expected, pc.netProfit)
	}
	return nil
}

func (pc *profitContext) theMarginShouldBe(expected float64) error {
	if math.Abs(pc.marginPct-expected) > 0.01 {
		return fmt.Errorf("expected margin %.2f%%, got %.4f%%", expected, pc.marginPct)
	}
	return nil
}

func (pc *profitContext) theTradeShouldBeProfitable(minMargin, minProfit float64) error {
	if !trading.IsProfitable(pc.netProfit, pc.marginPct, minMargin, minProfit) {
		return fmt.Errorf("expected profitable trade, net=%.4f margin=%.4f", pc.netProfit, pc.marginPct)
	}
	return nil
}

func (pc *profitContext) theTradeShouldNotBeProfitable(minMargin, minProfit float64) error {
	if trading.IsProfitable(pc.netProfit, pc.marginPct, minMargin, minProfit) {
		return fmt.Errorf("expected unprofitable trade, net=%.4f margin=%.4f", pc.netProfit, pc.marginPct)
	}
	return nil
}

// RegisterProfitSteps registers the fee model step definitions
func RegisterProfitSteps(sc *godog.ScenarioContext) {
	pc := sharedProfit

	sc.Before(func(ctx context.Context, scn *godog.Scenario) (context.Context, error) {
		pc.reset()
		return ctx, nil
	})

	sc.Step(`^the following fee configuration:$`, pc.theFollowingFeeConfiguration)
	sc.Step(`^I calculate profit for buying at ([\d.]+) and selling at ([\d.]+) with item volume ([\d.]+)$`, pc.iCalculateProfit)
	sc.Step(`^the net profit per unit should be ([\d.-]+)$`, pc.theNetProfitShouldBe)
	sc.Step(`^the profit margin should be ([\d.-]+) percent$`, pc.theMarginShouldBe)
	sc.Step(`^the trade should be profitable with minimum margin ([\d.-]+) and minimum profit ([\d.-]+)$`, pc.theTradeShouldBeProfitable)
	sc.Step(`^the trade should not be profitable with minimum margin ([\d.-]+) and minimum profit ([\d.-]+)$`, pc.theTradeShouldNotBeProfitable)
}
