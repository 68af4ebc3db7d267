package trading

import "fmt"

// Filters are the acceptance thresholds applied by the matcher. They are
// caller-supplied configuration; there are no hidden defaults here.
type Filters struct {
	// MinProfitMarginPct rejects trades below this margin percentage.
	MinProfitMarginPct float64
	// MinNetISKProfit rejects trades below this net profit per unit.
	MinNetISKProfit float64
	// MaxInvestmentPerItem rejects trades whose unit buy price exceeds this
	// amount. Zero disables the check.
	MaxInvestmentPerItem float64
	// MinVolumeAvailable rejects trades with less than this quantity
	// available at the best source price.
	MinVolumeAvailable int
}

// Validate rejects unusable thresholds before any network activity.
func (f Filters) Validate() error {
	if f.MinVolumeAvailable < 1 {
		return fmt.Errorf("%w: min volume available must be at least 1, got %d",
			ErrInvalidFilters, f.MinVolumeAvailable)
	}
	if f.MinProfitMarginPct < 0 {
		return fmt.Errorf("%w: min profit margin must not be negative, got %.2f",
			ErrInvalidFilters, f.MinProfitMarginPct)
	}
	if f.MinNetISKProfit < 0 {
		return fmt.Errorf("%w: min net profit must not be negative, got %.2f",
			ErrInvalidFilters, f.MinNetISKProfit)
	}
	if f.MaxInvestmentPerItem < 0 {
		return fmt.Errorf("%w: max investment must not be negative, got %.2f",
			ErrInvalidFilters, f.MaxInvestmentPerItem)
	}
	return nil
}
