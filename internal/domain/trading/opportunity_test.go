package trading_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PVAGR/eve-arbitrage-bot/internal/domain/trading"
)

func standardFees() trading.FeeConfig {
	return trading.FeeConfig{
		BrokerFeeBuy:    0.03,
		BrokerFeeSell:   0.03,
		SalesTax:        0.08,
		HaulingISKPerM3: 10.0,
	}
}

func TestNewOpportunity_ComputesProfitOnConstruction(t *testing.T) {
	// Act
	opp, err := trading.NewOpportunity(34, "Tritanium", 1.0,
		"The Forge", "Domain", 100.0, 150.0, 50, standardFees())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 34, opp.TypeID())
	assert.Equal(t, "The Forge", opp.BuyRegion())
	assert.Equal(t, "Domain", opp.SellRegion())
	assert.InDelta(t, 20.5, opp.NetProfitPerUnit(), 1e-9)
	assert.InDelta(t, 20.5/103.0*100.0, opp.ProfitMarginPct(), 1e-9)
	assert.InDelta(t, 20.5*50, opp.TotalProfitPotential(), 1e-9)
}

func TestNewOpportunity_Validation(t *testing.T) {
	fees := standardFees()

	tests := []struct {
		name   string
		typeID int
		buyReg string
		buyPx  float64
		sellPx float64
		volume int
	}{
		{"zero type id", 0, "The Forge", 100, 150, 50},
		{"empty region", 34, "", 100, 150, 50},
		{"zero buy price", 34, "The Forge", 0, 150, 50},
		{"negative sell price", 34, "The Forge", 100, -1, 50},
		{"zero volume", 34, "The Forge", 100, 150, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := trading.NewOpportunity(tt.typeID, "Tritanium", 1.0,
				tt.buyReg, "Domain", tt.buyPx, tt.sellPx, tt.volume, fees)
			assert.Error(t, err)
		})
	}
}

func TestOpportunity_IsProfitable(t *testing.T) {
	opp, err := trading.NewOpportunity(34, "Tritanium", 1.0,
		"The Forge", "Domain", 100.0, 150.0, 50, standardFees())
	require.NoError(t, err)

	assert.True(t, opp.IsProfitable(trading.Filters{
		MinProfitMarginPct: 10.0,
		MinNetISKProfit:    10.0,
		MinVolumeAvailable: 1,
	}))
	assert.False(t, opp.IsProfitable(trading.Filters{
		MinProfitMarginPct: 50.0,
		MinVolumeAvailable: 1,
	}))
}

func TestOpportunity_Route(t *testing.T) {
	opp, err := trading.NewOpportunity(34, "Tritanium", 1.0,
		"The Forge", "Domain", 100.0, 150.0, 50, standardFees())
	require.NoError(t, err)

	assert.Equal(t, trading.Route{Source: "The Forge", Destination: "Domain"}, opp.Route())
}

func TestRehydrateOpportunity_PreservesStoredFigures(t *testing.T) {
	opp := trading.RehydrateOpportunity(34, "Tritanium", 1.0,
		"The Forge", "Domain", 100.0, 150.0, 50, 20.5, 19.9, 1025.0)

	assert.InDelta(t, 20.5, opp.NetProfitPerUnit(), 1e-9)
	assert.InDelta(t, 19.9, opp.ProfitMarginPct(), 1e-9)
	assert.InDelta(t, 1025.0, opp.TotalProfitPotential(), 1e-9)
}

func TestFilters_Validate(t *testing.T) {
	valid := trading.Filters{MinProfitMarginPct: 10, MinNetISKProfit: 1, MinVolumeAvailable: 1}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		filters trading.Filters
	}{
		{"zero min volume", trading.Filters{MinVolumeAvailable: 0}},
		{"negative margin", trading.Filters{MinProfitMarginPct: -1, MinVolumeAvailable: 1}},
		{"negative net profit", trading.Filters{MinNetISKProfit: -1, MinVolumeAvailable: 1}},
		{"negative max investment", trading.Filters{MaxInvestmentPerItem: -1, MinVolumeAvailable: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filters.Validate()
			assert.ErrorIs(t, err, trading.ErrInvalidFilters)
		})
	}
}

func TestExpandPairs_BothDirections(t *testing.T) {
	routes := trading.ExpandPairs([][2]string{
		{"The Forge", "Domain"},
		{"The Forge", "Sinq Laison"},
	})

	assert.Equal(t, []trading.Route{
		{Source: "The Forge", Destination: "Domain"},
		{Source: "Domain", Destination: "The Forge"},
		{Source: "The Forge", Destination: "Sinq Laison"},
		{Source: "Sinq Laison", Destination: "The Forge"},
	}, routes)
}
