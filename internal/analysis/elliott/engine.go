package elliott

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"wavescan/internal/cache"
	apperrors "wavescan/internal/errors"
	"wavescan/internal/logging"
	"wavescan/internal/models"
)

// ProgressFunc receives the waves found so far at fixed bar-count chunk
// boundaries. It is an observational side channel for UI responsiveness,
// not part of the correctness contract.
type ProgressFunc func(barsProcessed, totalBars int, waves []models.Wave)

// AnalyzerConfig holds pipeline parameters.
type AnalyzerConfig struct {
	// Threshold is the fractional swing size for pivot detection.
	Threshold float64
	// SampleLimit is the bar count above which the series is downsampled
	// by stride before analysis, trading pivot precision for bounded
	// latency on large inputs.
	SampleLimit int
	// ProgressChunk is the bar-count window between progress reports.
	ProgressChunk int
}

// DefaultAnalyzerConfig returns the standard pipeline parameters.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Threshold:     0.05,
		SampleLimit:   300,
		ProgressChunk: 50,
	}
}

// Analyzer runs the full analysis pipeline: sampling, pivot extraction,
// wave labeling and Fibonacci target calculation. Invocations share no
// mutable state apart from the injected cache, so one Analyzer may be used
// concurrently from multiple goroutines.
type Analyzer struct {
	cfg      AnalyzerConfig
	cache    *cache.AnalysisCache
	logger   zerolog.Logger
	progress ProgressFunc

	recomputed atomic.Int64
}

// NewAnalyzer creates an Analyzer. cache may be nil to disable memoization.
func NewAnalyzer(cfg AnalyzerConfig, c *cache.AnalysisCache, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		cfg:    cfg,
		cache:  c,
		logger: logger,
	}
}

// OnProgress registers a progress callback. Must be called before Analyze.
func (a *Analyzer) OnProgress(fn ProgressFunc) {
	a.progress = fn
}

// Recomputations returns how many analyses were computed rather than served
// from cache.
func (a *Analyzer) Recomputations() int64 {
	return a.recomputed.Load()
}

// Analyze runs the pipeline over bars. Insufficient data yields an empty
// result, not an error; the only failure modes are caller contract
// violations (non-finite prices, unordered timestamps) and context
// cancellation, which is polled at stage boundaries only — never inside the
// labeling loop.
func (a *Analyzer) Analyze(ctx context.Context, bars []models.Bar) (*models.AnalysisResult, error) {
	start := time.Now()

	if err := validateBars(bars); err != nil {
		return nil, err
	}

	key := cache.KeyFor(bars)
	if a.cache != nil {
		if res, ok := a.cache.Get(key); ok {
			a.logger.Debug().Int("bars", len(bars)).Msg("Analysis served from cache")
			return res, nil
		}
	}
	a.recomputed.Add(1)

	working := bars
	if a.cfg.SampleLimit > 0 && len(bars) > a.cfg.SampleLimit {
		working = downsample(bars, a.cfg.SampleLimit)
		a.logger.Debug().
			Int("bars", len(bars)).
			Int("sampled", len(working)).
			Msg("Input downsampled before analysis")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pivots := FindPivots(working, a.cfg.Threshold)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	waves := IdentifyWaves(pivots, working)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.reportProgress(working, waves)

	res := buildResult(waves)
	if a.cache != nil {
		a.cache.Put(key, res)
	}

	logging.LogAnalysis(a.logger, len(bars), len(pivots), len(waves), string(res.Trend), false, time.Since(start))
	return res, nil
}

// validateBars fails fast on programmer-error-class input: non-finite or
// non-positive prices and backwards timestamps. "Too few bars" is not a
// violation.
func validateBars(bars []models.Bar) error {
	for i, b := range bars {
		for _, p := range [4]float64{b.Open, b.High, b.Low, b.Close} {
			if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
				return apperrors.NewValidationError("bars", i, "price must be a positive finite number")
			}
		}
		if i > 0 && b.Timestamp < bars[i-1].Timestamp {
			return apperrors.NewValidationError("bars", i, "timestamps must be non-decreasing")
		}
	}
	return nil
}

// downsample reduces bars to at most limit samples by taking every
// stride-th bar, always retaining the final bar.
func downsample(bars []models.Bar, limit int) []models.Bar {
	stride := (len(bars) + limit - 1) / limit
	out := make([]models.Bar, 0, limit+1)
	for i := 0; i < len(bars); i += stride {
		out = append(out, bars[i])
	}
	if out[len(out)-1].Timestamp != bars[len(bars)-1].Timestamp {
		out = append(out, bars[len(bars)-1])
	}
	return out
}

func (a *Analyzer) reportProgress(bars []models.Bar, waves []models.Wave) {
	if a.progress == nil || a.cfg.ProgressChunk <= 0 {
		return
	}
	for end := a.cfg.ProgressChunk; end < len(bars); end += a.cfg.ProgressChunk {
		cutoff := bars[end-1].Timestamp
		a.progress(end, len(bars), wavesThrough(waves, cutoff))
	}
	a.progress(len(bars), len(bars), waves)
}

// wavesThrough returns the prefix of waves fully formed by cutoff.
func wavesThrough(waves []models.Wave, cutoff int64) []models.Wave {
	n := 0
	for _, w := range waves {
		if w.EndTimestamp > cutoff {
			break
		}
		n++
	}
	return waves[:n]
}

func buildResult(waves []models.Wave) *models.AnalysisResult {
	res := &models.AnalysisResult{
		Waves: waves,
		Trend: models.TrendNeutral,
	}
	if len(waves) == 0 {
		return res
	}

	current := waves[len(waves)-1]
	res.CurrentWave = &current
	res.Trend = trendOf(waves)
	res.FibTargets = nextTargets(waves)
	res.IsImpulsePattern = hasCompletePattern(waves, models.NumberLabel(5))
	res.IsCorrectivePattern = hasCompletePattern(waves, models.LetterLabel("C"))
	return res
}

// trendOf compares the first wave's start against the last wave's end.
func trendOf(waves []models.Wave) models.Trend {
	first := waves[0].StartPrice
	last := waves[len(waves)-1].EndPrice
	switch {
	case last > first:
		return models.TrendBullish
	case last < first:
		return models.TrendBearish
	default:
		return models.TrendNeutral
	}
}

// nextTargets projects the expected price levels for the next move. The
// last wave is assumed to be retracing the swing before it, so targets are
// computed over that prior swing: retracements within it, extensions beyond
// it. With a single wave the wave itself is the reference swing.
func nextTargets(waves []models.Wave) []models.FibTarget {
	swing := waves[len(waves)-1]
	if len(waves) >= 2 {
		swing = waves[len(waves)-2]
	}
	targets := Retracements(swing.StartPrice, swing.EndPrice)
	return append(targets, Extensions(swing.StartPrice, swing.EndPrice)...)
}

// hasCompletePattern reports whether a completed wave carries the closing
// label of a pattern (5 for impulses, C for corrections). The finalize pass
// guarantees canonical numbering, so a completed closing wave implies the
// full gapless pattern precedes it.
func hasCompletePattern(waves []models.Wave, closing models.WaveLabel) bool {
	for _, w := range waves {
		if w.Label == closing && w.IsComplete {
			return true
		}
	}
	return false
}
