package trading

import (
	"errors"
	"fmt"
)

// Opportunity represents one immutable buy-low/sell-high trade candidate:
// buy an item at the best sell price in the source region, haul it, resell
// it at the best buy price in the destination region.
//
// Price terminology (from the trader's perspective):
//   - BuyPrice: what we PAY per unit (the source book's lowest sell order)
//   - SellPrice: what we RECEIVE per unit (the destination book's highest buy order)
//
// All profit figures are computed during construction via the fee model and
// never change afterwards; fields are private with read-only getters to keep
// value object semantics.
type Opportunity struct {
	typeID               int
	itemName             string
	itemVolumeM3         float64
	buyRegion            string
	sellRegion           string
	buyPrice             float64
	sellPrice            float64
	volumeAvailable      int
	netProfitPerUnit     float64
	profitMarginPct      float64
	totalProfitPotential float64
}

// NewOpportunity creates an opportunity and computes its profit figures.
//
// Returns an error if:
//   - typeID is non-positive
//   - either region name is empty
//   - either price is non-positive
//   - volumeAvailable is non-positive
func NewOpportunity(
	typeID int,
	itemName string,
	itemVolumeM3 float64,
	buyRegion string,
	sellRegion string,
	buyPrice float64,
	sellPrice float64,
	volumeAvailable int,
	fees FeeConfig,
) (*Opportunity, error) {
	if typeID <= 0 {
		return nil, errors.New("type id must be positive")
	}
	if buyRegion == "" || sellRegion == "" {
		return nil, errors.New("buy and sell region names required")
	}
	if buyPrice <= 0 {
		return nil, fmt.Errorf("buy price must be positive, got %f", buyPrice)
	}
	if sellPrice <= 0 {
		return nil, fmt.Errorf("sell price must be positive, got %f", sellPrice)
	}
	if volumeAvailable <= 0 {
		return nil, fmt.Errorf("volume available must be positive, got %d", volumeAvailable)
	}

	netProfit, marginPct := CalculateProfit(buyPrice, sellPrice, itemVolumeM3, fees)

	return &Opportunity{
		typeID:               typeID,
		itemName:             itemName,
		itemVolumeM3:         itemVolumeM3,
		buyRegion:            buyRegion,
		sellRegion:           sellRegion,
		buyPrice:             buyPrice,
		sellPrice:            sellPrice,
		volumeAvailable:      volumeAvailable,
		netProfitPerUnit:     netProfit,
		profitMarginPct:      marginPct,
		totalProfitPotential: netProfit * float64(volumeAvailable),
	}, nil
}

// RehydrateOpportunity rebuilds an opportunity from stored figures without
// recomputing profit. Used by the persistence layer only.
func RehydrateOpportunity(
	typeID int,
	itemName string,
	itemVolumeM3 float64,
	buyRegion string,
	sellRegion string,
	buyPrice float64,
	sellPrice float64,
	volumeAvailable int,
	netProfitPerUnit float64,
	profitMarginPct float64,
	totalProfitPotential float64,
) *Opportunity {
	return &Opportunity{
		typeID:               typeID,
		itemName:             itemName,
		itemVolumeM3:         itemVolumeM3,
		buyRegion:            buyRegion,
		sellRegion:           sellRegion,
		buyPrice:             buyPrice,
		sellPrice:            sellPrice,
		volumeAvailable:      volumeAvailable,
		netProfitPerUnit:     netProfitPerUnit,
		profitMarginPct:      profitMarginPct,
		totalProfitPotential: totalProfitPotential,
	}
}

func (o *Opportunity) TypeID() int { return o.typeID }

func (o *Opportunity) ItemName() string { return o.itemName }

func (o *Opportunity) ItemVolumeM3() float64 { return o.itemVolumeM3 }

func (o *Opportunity) BuyRegion() string { return o.buyRegion }

func (o *Opportunity) SellRegion() string { return o.sellRegion }

func (o *Opportunity) BuyPrice() float64 { return o.buyPrice }

func (o *Opportunity) SellPrice() float64 { return o.sellPrice }

func (o *Opportunity) VolumeAvailable() int { return o.volumeAvailable }

func (o *Opportunity) NetProfitPerUnit() float64 { return o.netProfitPerUnit }

func (o *Opportunity) ProfitMarginPct() float64 { return o.profitMarginPct }

func (o *Opportunity) TotalProfitPotential() float64 { return o.totalProfitPotential }

// Route returns the directed region pair this opportunity belongs to.
func (o *Opportunity) Route() Route {
	return Route{Source: o.buyRegion, Destination: o.sellRegion}
}

// IsProfitable reports whether the opportunity clears the filter thresholds.
func (o *Opportunity) IsProfitable(filters Filters) bool {
	return IsProfitable(o.netProfitPerUnit, o.profitMarginPct,
		filters.MinProfitMarginPct, filters.MinNetISKProfit)
}

// String returns a human-readable representation.
func (o *Opportunity) String() string {
	return fmt.Sprintf("Opportunity{%s, %s→%s, margin=%.1f%%, total=%.0f}",
		o.itemName, o.buyRegion, o.sellRegion, o.profitMarginPct, o.totalProfitPotential)
}
