package trading_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/trading"
)

func TestCalculateProfit_KnownVector(t *testing.T) {
	// Arrange
	fees := trading.FeeConfig{
		BrokerFeeBuy:    0.03,
		BrokerFeeSell:   0.03,
		SalesTax:        0.08,
		HaulingISKPerM3: 10.0,
	}

	// Act
	net, margin := trading.CalculateProfit(100.0, 150.0, 1.0, fees)

	// Assert
	// cost = 100 × 1.03 = 103, revenue = 150 × 0.89 = 133.5, hauling = 10
	assert.InDelta(t, 20.5, net, 1e-9)
	assert.InDelta(t, 20.5/103.0*100.0, margin, 1e-9)
}

func TestCalculateProfit_Deterministic(t *testing.T) {
	fees := trading.FeeConfig{
		BrokerFeeBuy:    0.025,
		BrokerFeeSell:   0.025,
		SalesTax:        0.045,
		HaulingISKPerM3: 800.0,
	}

	net1, margin1 := trading.CalculateProfit(1234.56, 2345.67, 0.01, fees)
	net2, margin2 := trading.CalculateProfit(1234.56, 2345.67, 0.01, fees)

	assert.Equal(t, net1, net2)
	assert.Equal(t, margin1, margin2)
}

func TestCalculateProfit_ZeroCost(t *testing.T) {
	fees := trading.FeeConfig{HaulingISKPerM3: 10.0}

	net, margin := trading.CalculateProfit(0.0, 150.0, 1.0, fees)

	assert.InDelta(t, 140.0, net, 1e-9)
	assert.Zero(t, margin)
}

func TestCalculateProfit_NegativeWhenFeesEatTheSpread(t *testing.T) {
	fees := trading.FeeConfig{
		BrokerFeeBuy:  0.03,
		BrokerFeeSell: 0.03,
		SalesTax:      0.08,
	}

	// 100 → 110 gross spread, but cost 103 vs revenue 97.9
	net, margin := trading.CalculateProfit(100.0, 110.0, 1.0, fees)

	assert.Less(t, net, 0.0)
	assert.Less(t, margin, 0.0)
}

func TestCalculateProfit_HaulingScalesWithVolume(t *testing.T) {
	fees := trading.FeeConfig{HaulingISKPerM3: 5.0}

	netSmall, _ := trading.CalculateProfit(100.0, 150.0, 1.0, fees)
	netLarge, _ := trading.CalculateProfit(100.0, 150.0, 10.0, fees)

	assert.InDelta(t, 45.0, netSmall-netLarge, 1e-9)
}

func TestIsProfitable_Thresholds(t *testing.T) {
	tests := []struct {
		name      string
		netProfit float64
		marginPct float64
		minMargin float64
		minNet    float64
		want      bool
	}{
		{"clears both", 20.5, 19.9, 10.0, 5.0, true},
		{"exactly at both", 5.0, 10.0, 10.0, 5.0, true},
		{"margin too low", 20.5, 9.9, 10.0, 5.0, false},
		{"net too low", 4.9, 19.9, 10.0, 5.0, false},
		{"loss", -1.0, -1.0, 0.0, 0.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trading.IsProfitable(tt.netProfit, tt.marginPct, tt.minMargin, tt.minNet)
			assert.Equal(t, tt.want, got)
		})
	}
}
