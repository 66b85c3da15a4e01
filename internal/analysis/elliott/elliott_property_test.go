package elliott

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"wavescan/internal/models"
)

// Property: For any valid bar series, pivot extraction produces a strictly
// alternating peak/trough sequence with at least MinPivotSpacing bars between
// neighbours, priced at the bar extremes.

// barSeriesGen generates a random-walk bar series of length [minLen, maxLen]
// with valid OHLC ordering and monotone timestamps.
func barSeriesGen(minLen, maxLen int) gopter.Gen {
	return gen.SliceOfN(maxLen, gen.Float64Range(-0.06, 0.06)).Map(func(steps []float64) []models.Bar {
		for len(steps) < minLen {
			steps = append(steps, 0.01)
		}
		bars := make([]models.Bar, len(steps))
		price := 100.0
		for i, s := range steps {
			prev := price
			price *= 1 + s
			if price <= 0 {
				price = prev
			}
			bars[i] = models.Bar{
				Timestamp: 1700000000 + int64(i)*3600,
				Open:      prev,
				High:      price * 1.002,
				Low:       price * 0.998,
				Close:     price,
			}
			if bars[i].Open > bars[i].High {
				bars[i].High = bars[i].Open
			}
			if bars[i].Open < bars[i].Low {
				bars[i].Low = bars[i].Open
			}
		}
		return bars
	})
}

func TestProperty_PivotsAlternateAndAreSpaced(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("pivots alternate kinds and honor the minimum spacing", prop.ForAll(
		func(bars []models.Bar) bool {
			pivots := FindPivots(bars, 0.05)
			for i := 1; i < len(pivots); i++ {
				if pivots[i].Kind == pivots[i-1].Kind {
					return false
				}
				if pivots[i].Index-pivots[i-1].Index < MinPivotSpacing {
					return false
				}
			}
			return true
		},
		barSeriesGen(10, 200),
	))

	properties.Property("pivots are priced at the bar extreme", prop.ForAll(
		func(bars []models.Bar) bool {
			for _, p := range FindPivots(bars, 0.05) {
				if p.Index < 0 || p.Index >= len(bars) {
					return false
				}
				want := bars[p.Index].High
				if p.Kind == models.PivotTrough {
					want = bars[p.Index].Low
				}
				if p.Price != want || p.Timestamp != bars[p.Index].Timestamp {
					return false
				}
			}
			return true
		},
		barSeriesGen(10, 200),
	))

	properties.TestingRun(t)
}

func TestProperty_WaveSequencesAreCanonical(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("labels run 1-5 and A-C without gaps or duplicates", prop.ForAll(
		func(bars []models.Bar) bool {
			pivots := FindPivots(bars, 0.05)
			waves := IdentifyWaves(pivots, bars)

			pos := 0
			var prevKind models.LabelKind
			for i, w := range waves {
				if i == 0 || w.Label.Kind != prevKind {
					pos = 0
				}
				switch w.Label.Kind {
				case models.LabelLetter:
					if w.Label.Letter != string(rune('A'+pos%3)) {
						return false
					}
				default:
					if w.Label.Number != pos%5+1 {
						return false
					}
				}
				pos++
				prevKind = w.Label.Kind
			}
			return true
		},
		barSeriesGen(10, 200),
	))

	properties.Property("waves are chronological and only the last may be open", prop.ForAll(
		func(bars []models.Bar) bool {
			waves := IdentifyWaves(FindPivots(bars, 0.05), bars)
			for i, w := range waves {
				if w.StartTimestamp >= w.EndTimestamp {
					return false
				}
				if i > 0 && w.StartTimestamp < waves[i-1].StartTimestamp {
					return false
				}
				if !w.IsComplete && i != len(waves)-1 {
					return false
				}
			}
			return true
		},
		barSeriesGen(10, 200),
	))

	properties.Property("wave 2 never fully retraces wave 1", prop.ForAll(
		func(bars []models.Bar) bool {
			waves := IdentifyWaves(FindPivots(bars, 0.05), bars)
			for i := 1; i < len(waves); i++ {
				if waves[i].Label != models.NumberLabel(2) {
					continue
				}
				one := waves[i-1]
				if one.Direction() > 0 && waves[i].EndPrice <= one.StartPrice {
					return false
				}
				if one.Direction() < 0 && waves[i].EndPrice >= one.StartPrice {
					return false
				}
			}
			return true
		},
		barSeriesGen(10, 200),
	))

	properties.Property("wave modes match their label roles", prop.ForAll(
		func(bars []models.Bar) bool {
			waves := IdentifyWaves(FindPivots(bars, 0.05), bars)
			for _, w := range waves {
				if w.Mode != w.Label.Role() {
					return false
				}
			}
			return true
		},
		barSeriesGen(10, 200),
	))

	properties.TestingRun(t)
}

func TestProperty_FinalizeIsIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("re-finalizing labeled waves is a no-op", prop.ForAll(
		func(bars []models.Bar) bool {
			waves := IdentifyWaves(FindPivots(bars, 0.05), bars)
			again := finalizeWaves(append([]models.Wave(nil), waves...))
			if len(again) != len(waves) {
				return false
			}
			for i := range waves {
				if again[i] != waves[i] {
					return false
				}
			}
			return true
		},
		barSeriesGen(10, 200),
	))

	properties.TestingRun(t)
}

func TestProperty_FibonacciTargetBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	swingGen := gen.Float64Range(1.0, 10000.0)

	properties.Property("retracements stay inside a non-degenerate swing", prop.ForAll(
		func(start, end float64) bool {
			if start == end {
				return true
			}
			lo, hi := start, end
			if lo > hi {
				lo, hi = hi, lo
			}
			for _, tgt := range Retracements(start, end) {
				if tgt.Price <= lo || tgt.Price >= hi {
					return false
				}
			}
			return true
		},
		swingGen, swingGen,
	))

	properties.Property("ratio 0 reproduces the end, ratio 1 the start", prop.ForAll(
		func(start, end float64) bool {
			if retracementPrice(start, end, 0) != end {
				return false
			}
			d := retracementPrice(start, end, 1) - start
			if d < 0 {
				d = -d
			}
			// Subtracting the swing back out may lose a few ulps of end.
			return d <= 1e-9*(start+end+1)
		},
		swingGen, swingGen,
	))

	properties.Property("extensions project past the swing endpoint by the ratio", prop.ForAll(
		func(start, end float64) bool {
			diff := end - start
			if diff < 0 {
				diff = -diff
			}
			for _, tgt := range Extensions(start, end) {
				want := end + diff*tgt.Ratio
				if !approxEqual(tgt.Price, want, 1e-9) {
					return false
				}
			}
			return true
		},
		swingGen, swingGen,
	))

	properties.TestingRun(t)
}

func approxEqual(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	scale := 1.0
	if b > 1 || b < -1 {
		if b < 0 {
			scale = -b
		} else {
			scale = b
		}
	}
	return d <= tol*scale
}
