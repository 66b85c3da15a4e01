package elliott

import (
	"fmt"

	"wavescan/internal/models"
)

// Standard Fibonacci ratios. Retracements project back into a swing,
// extensions beyond it.
var (
	retracementRatios = []float64{0.236, 0.382, 0.5, 0.618, 0.786}
	extensionRatios   = []float64{1.236, 1.618, 2.0, 2.618}
)

// Retracements computes the five standard retracement levels within the
// swing from startPrice to endPrice:
//
//	price(r) = endPrice - (endPrice - startPrice) * r
//
// Pure and total: a zero-length swing yields five identical, well-defined
// targets rather than an error.
func Retracements(startPrice, endPrice float64) []models.FibTarget {
	targets := make([]models.FibTarget, 0, len(retracementRatios))
	for _, r := range retracementRatios {
		targets = append(targets, models.FibTarget{
			Ratio:       r,
			Price:       retracementPrice(startPrice, endPrice, r),
			Label:       ratioLabel(r),
			IsExtension: false,
		})
	}
	return targets
}

// retracementPrice computes the level at which ratio of the swing has been
// given back: ratio 0 reproduces endPrice, ratio 1 reproduces startPrice.
func retracementPrice(startPrice, endPrice, ratio float64) float64 {
	return endPrice - (endPrice-startPrice)*ratio
}

// Extensions computes the four standard extension levels projected from the
// swing's endpoint:
//
//	price(r) = endPrice + (endPrice - startPrice) * r * direction
//
// where direction is the sign of (endPrice - startPrice). A zero-length
// swing collapses every target onto endPrice.
func Extensions(startPrice, endPrice float64) []models.FibTarget {
	diff := endPrice - startPrice
	direction := float64(sign(diff))
	targets := make([]models.FibTarget, 0, len(extensionRatios))
	for _, r := range extensionRatios {
		targets = append(targets, models.FibTarget{
			Ratio:       r,
			Price:       endPrice + diff*r*direction,
			Label:       ratioLabel(r),
			IsExtension: true,
		})
	}
	return targets
}

func ratioLabel(r float64) string {
	return fmt.Sprintf("%.1f%%", r*100)
}
