// Package models provides domain models for the wave analysis application.
package models

// Trend represents the overall direction of an analyzed price series.
type Trend string

const (
	TrendBullish Trend = "BULLISH"
	TrendBearish Trend = "BEARISH"
	TrendNeutral Trend = "NEUTRAL"
)

// Bar represents OHLC data for a time period. Timestamps are unix epoch
// values (seconds or milliseconds, whichever the source uses) and must be
// monotonically non-decreasing within a series. Bars are read-only inputs:
// the analysis engine never mutates them.
type Bar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
}

// PivotKind represents the type of a detected price extremum.
type PivotKind string

const (
	PivotPeak   PivotKind = "PEAK"
	PivotTrough PivotKind = "TROUGH"
)

// Pivot represents a confirmed local price extremum used as a wave boundary.
// Price is the bar High for peaks and the bar Low for troughs — never Close,
// since true swing extremes are defined by intrabar excursions.
type Pivot struct {
	Price     float64   `json:"price"`
	Timestamp int64     `json:"timestamp"`
	Index     int       `json:"index"`
	Kind      PivotKind `json:"kind"`
}

// LabelKind discriminates the two arms of the WaveLabel union.
type LabelKind string

const (
	LabelNumber LabelKind = "NUMBER" // impulse sequence wave 1..5
	LabelLetter LabelKind = "LETTER" // corrective sequence wave A/B/C
)

// WaveMode represents the role of a wave relative to the prevailing trend:
// impulse waves move with it, corrective waves against it.
type WaveMode string

const (
	ModeImpulse    WaveMode = "IMPULSE"
	ModeCorrective WaveMode = "CORRECTIVE"
)

// WaveLabel identifies a wave within the Elliott grammar. It is a tagged
// union: Kind selects whether Number (1..5) or Letter ("A".."C") is the
// meaningful field. Values are comparable with ==.
type WaveLabel struct {
	Kind   LabelKind `json:"kind"`
	Number int       `json:"number,omitempty"`
	Letter string    `json:"letter,omitempty"`
}

// NumberLabel returns the label for impulse sequence wave n (1..5).
func NumberLabel(n int) WaveLabel {
	return WaveLabel{Kind: LabelNumber, Number: n}
}

// LetterLabel returns the label for corrective sequence wave "A", "B" or "C".
func LetterLabel(letter string) WaveLabel {
	return WaveLabel{Kind: LabelLetter, Letter: letter}
}

// String returns the display form of the label: "1".."5" or "A".."C".
func (l WaveLabel) String() string {
	switch l.Kind {
	case LabelNumber:
		return string(rune('0' + l.Number))
	case LabelLetter:
		return l.Letter
	default:
		return "?"
	}
}

// Role returns the wave's role relative to the prevailing trend. Waves 1, 3
// and 5 drive the trend; 2 and 4 correct it. Within a correction the roles
// invert: A and C drive the counter-move, B interrupts it.
func (l WaveLabel) Role() WaveMode {
	switch l.Kind {
	case LabelNumber:
		if l.Number%2 == 1 {
			return ModeImpulse
		}
		return ModeCorrective
	case LabelLetter:
		if l.Letter == "B" {
			return ModeCorrective
		}
		return ModeImpulse
	default:
		return ModeCorrective
	}
}

// Wave represents one labeled price swing between two pivots.
// EndTimestamp and EndPrice are guaranteed meaningful when IsComplete is
// true; for the final, still-forming wave they hold the latest observed
// extent of the swing.
type Wave struct {
	Label          WaveLabel `json:"label"`
	StartTimestamp int64     `json:"start_timestamp"`
	EndTimestamp   int64     `json:"end_timestamp,omitempty"`
	StartPrice     float64   `json:"start_price"`
	EndPrice       float64   `json:"end_price,omitempty"`
	Mode           WaveMode  `json:"mode"`
	IsComplete     bool      `json:"is_complete"`
}

// Direction returns +1 for an upward swing, -1 for a downward swing and 0
// for a degenerate (flat) one.
func (w Wave) Direction() int {
	switch {
	case w.EndPrice > w.StartPrice:
		return 1
	case w.EndPrice < w.StartPrice:
		return -1
	default:
		return 0
	}
}

// FibTarget represents one Fibonacci retracement or extension price level.
type FibTarget struct {
	Ratio       float64 `json:"ratio"`
	Price       float64 `json:"price"`
	Label       string  `json:"label"`
	IsExtension bool    `json:"is_extension"`
}

// AnalysisResult aggregates the output of one analysis run. Results are
// immutable once returned; re-analysis always recomputes from scratch (or is
// served from cache). The struct is plain data and JSON-serializable.
type AnalysisResult struct {
	Waves               []Wave      `json:"waves"`
	CurrentWave         *Wave       `json:"current_wave,omitempty"`
	FibTargets          []FibTarget `json:"fib_targets,omitempty"`
	Trend               Trend       `json:"trend"`
	IsImpulsePattern    bool        `json:"is_impulse_pattern"`
	IsCorrectivePattern bool        `json:"is_corrective_pattern"`
}
