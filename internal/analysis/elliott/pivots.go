// Package elliott implements Elliott Wave pattern detection over OHLC bar
// series: pivot extraction, grammar-constrained wave labeling and Fibonacci
// target calculation.
package elliott

import (
	"wavescan/internal/models"
)

const (
	// MinBars is the minimum series length for pivot extraction.
	MinBars = 7
	// MinPivotSpacing is the minimum bar distance between retained pivots,
	// enforced at commit time rather than during scanning.
	MinPivotSpacing = 4
	// confirmBars is the number of consecutive bars that must move past an
	// extreme by the threshold before a reversal is committed. A single
	// bar is treated as noise.
	confirmBars = 2
)

// FindPivots converts a bar series into an alternating sequence of
// significant high/low pivots. threshold is the fractional swing size
// (0.05 = 5%) below which a move is not considered a trend reversal.
//
// The scan tracks a running extreme in the current direction; the direction
// is established, and each later reversal committed, only after confirmBars
// consecutive closes move past the extreme by threshold. The committed pivot
// is the extreme itself, priced at the bar High for peaks and the bar Low
// for troughs. A trailing unconfirmed extreme is emitted only when the last
// two bars do not exceed it.
//
// FindPivots is pure: it never errors, never mutates bars, and returns an
// empty list for series shorter than MinBars.
func FindPivots(bars []models.Bar, threshold float64) []models.Pivot {
	if len(bars) < MinBars {
		return nil
	}

	var pivots []models.Pivot

	// Phase 1: no direction yet. Track both running extremes until two
	// consecutive closes move against one of them by threshold.
	hiIdx, loIdx := 0, 0
	downRun, upRun := 0, 0
	dir := 0 // +1 rising (tracking a peak), -1 falling (tracking a trough)
	extIdx := 0

	i := 1
	for ; i < len(bars) && dir == 0; i++ {
		if bars[i].High > bars[hiIdx].High {
			hiIdx = i
		}
		if bars[i].Low < bars[loIdx].Low {
			loIdx = i
		}

		if bars[i].Close <= bars[hiIdx].High*(1-threshold) {
			downRun++
		} else {
			downRun = 0
		}
		if bars[i].Close >= bars[loIdx].Low*(1+threshold) {
			upRun++
		} else {
			upRun = 0
		}

		if downRun >= confirmBars {
			pivots = append(pivots, pivotAt(bars, hiIdx, models.PivotPeak))
			dir = -1
			extIdx = lowestAfter(bars, hiIdx, i)
		} else if upRun >= confirmBars {
			pivots = append(pivots, pivotAt(bars, loIdx, models.PivotTrough))
			dir = 1
			extIdx = highestAfter(bars, loIdx, i)
		}
	}

	// Phase 2: extend the running extreme, committing a pivot each time
	// two consecutive closes confirm a reversal past it.
	confirm := 0
	for ; i < len(bars); i++ {
		if dir > 0 {
			if bars[i].High > bars[extIdx].High {
				extIdx = i
			}
			if bars[i].Close <= bars[extIdx].High*(1-threshold) {
				confirm++
			} else {
				confirm = 0
			}
			if confirm >= confirmBars {
				pivots = append(pivots, pivotAt(bars, extIdx, models.PivotPeak))
				prev := extIdx
				extIdx = lowestAfter(bars, prev, i)
				dir = -1
				confirm = 0
			}
		} else {
			if bars[i].Low < bars[extIdx].Low {
				extIdx = i
			}
			if bars[i].Close >= bars[extIdx].Low*(1+threshold) {
				confirm++
			} else {
				confirm = 0
			}
			if confirm >= confirmBars {
				pivots = append(pivots, pivotAt(bars, extIdx, models.PivotTrough))
				prev := extIdx
				extIdx = highestAfter(bars, prev, i)
				dir = 1
				confirm = 0
			}
		}
	}

	// Tail confirmation: emit the trailing unconfirmed extreme when the
	// last two bars do not exceed it and it is not already emitted.
	if dir != 0 {
		n := len(bars)
		if len(pivots) == 0 || pivots[len(pivots)-1].Index != extIdx {
			if dir > 0 {
				if bars[n-1].High <= bars[extIdx].High && bars[n-2].High <= bars[extIdx].High {
					pivots = append(pivots, pivotAt(bars, extIdx, models.PivotPeak))
				}
			} else {
				if bars[n-1].Low >= bars[extIdx].Low && bars[n-2].Low >= bars[extIdx].Low {
					pivots = append(pivots, pivotAt(bars, extIdx, models.PivotTrough))
				}
			}
		}
	}

	return normalizePivots(pivots)
}

// normalizePivots is the post-processing pass over committed pivots. It
// first drops any pivot closer than MinPivotSpacing bars to its retained
// predecessor, then drops any pivot that repeats its predecessor's kind
// (keep first-seen). Alternation repair protects against floating-point
// threshold edge cases producing same-kind duplicates.
func normalizePivots(pivots []models.Pivot) []models.Pivot {
	if len(pivots) == 0 {
		return pivots
	}

	spaced := pivots[:1]
	for _, p := range pivots[1:] {
		if p.Index-spaced[len(spaced)-1].Index >= MinPivotSpacing {
			spaced = append(spaced, p)
		}
	}

	out := spaced[:1]
	for _, p := range spaced[1:] {
		if p.Kind != out[len(out)-1].Kind {
			out = append(out, p)
		}
	}
	return out
}

func pivotAt(bars []models.Bar, idx int, kind models.PivotKind) models.Pivot {
	price := bars[idx].High
	if kind == models.PivotTrough {
		price = bars[idx].Low
	}
	return models.Pivot{
		Price:     price,
		Timestamp: bars[idx].Timestamp,
		Index:     idx,
		Kind:      kind,
	}
}

// lowestAfter returns the index of the lowest low in (after, upto].
func lowestAfter(bars []models.Bar, after, upto int) int {
	best := after + 1
	if best > upto {
		best = upto
	}
	for j := best + 1; j <= upto; j++ {
		if bars[j].Low < bars[best].Low {
			best = j
		}
	}
	return best
}

// highestAfter returns the index of the highest high in (after, upto].
func highestAfter(bars []models.Bar, after, upto int) int {
	best := after + 1
	if best > upto {
		best = upto
	}
	for j := best + 1; j <= upto; j++ {
		if bars[j].High > bars[best].High {
			best = j
		}
	}
	return best
}
