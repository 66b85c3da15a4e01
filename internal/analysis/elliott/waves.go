package elliott

import (
	"sort"

	"wavescan/internal/models"
)

const (
	// MinPivots is the minimum pivot count for wave labeling.
	MinPivots = 3
	// maxSegmentRetries bounds reprocessing of a single segment after
	// sequence resets, guaranteeing termination.
	maxSegmentRetries = 3
)

// labelState is the current position inside the Elliott grammar.
type labelState int

const (
	stateWave1 labelState = iota
	stateWave2
	stateWave3
	stateWave4
	stateWave5
	stateWaveA
	stateWaveB
	stateWaveC
)

// IdentifyWaves assigns Elliott Wave labels to the swings between
// consecutive pivots. Labels are provisional while the sequence grows: a
// segment whose direction or magnitude violates the grammar invalidates the
// current pattern, truncating the labeled waves back to the last fully
// completed 1-2-3-4-5 or A-B-C and reprocessing the segment from a fresh
// state. A final canonical renumbering pass guarantees gapless, duplicate-
// free sequences.
//
// Fewer than MinPivots pivots yields an empty result; malformed input
// degrades to a partial or empty wave list, never an error.
func IdentifyWaves(pivots []models.Pivot, bars []models.Bar) []models.Wave {
	if len(pivots) < MinPivots {
		return nil
	}

	segs := segmentPivots(pivots)
	lab := &labeler{
		state:   stateWave1,
		overall: overallDirection(bars, pivots),
	}

	cursor := 0
	retries := 0
	for cursor < len(segs) {
		if lab.tryLabel(segs[cursor]) {
			cursor++
			retries = 0
			continue
		}
		// Invalidated: drop back to the last complete pattern and
		// reprocess this segment under the reset state.
		lab.reset()
		retries++
		if retries > maxSegmentRetries {
			cursor++
			retries = 0
		}
	}

	return finalizeWaves(lab.labeled)
}

// segmentPivots turns each consecutive pivot pair into one unlabeled
// candidate wave. Only the final segment is left open.
func segmentPivots(pivots []models.Pivot) []models.Wave {
	segs := make([]models.Wave, 0, len(pivots)-1)
	for i := 1; i < len(pivots); i++ {
		segs = append(segs, models.Wave{
			StartTimestamp: pivots[i-1].Timestamp,
			EndTimestamp:   pivots[i].Timestamp,
			StartPrice:     pivots[i-1].Price,
			EndPrice:       pivots[i].Price,
			IsComplete:     i != len(pivots)-1,
		})
	}
	return segs
}

// overallDirection derives the prevailing trend sign from first-to-last
// close, falling back to the pivot endpoints when the closes are flat.
func overallDirection(bars []models.Bar, pivots []models.Pivot) int {
	if len(bars) >= 2 {
		if d := sign(bars[len(bars)-1].Close - bars[0].Close); d != 0 {
			return d
		}
	}
	if d := sign(pivots[len(pivots)-1].Price - pivots[0].Price); d != 0 {
		return d
	}
	return 1
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// labeler is the grammar state machine. labeled grows as segments are
// accepted; boundary marks the end of the last fully completed pattern and
// is the truncation point on invalidation.
type labeler struct {
	labeled    []models.Wave
	state      labelState
	boundary   int
	overall    int // prevailing trend for fresh pattern starts
	prevailing int // direction waves 1/3/5 (and B) must move in
}

// tryLabel attempts to accept seg in the current state. It returns false
// when the segment's direction does not match the state's expectation or a
// magnitude rule is violated.
func (l *labeler) tryLabel(seg models.Wave) bool {
	dir := seg.Direction()
	if dir == 0 {
		return false
	}

	switch l.state {
	case stateWave1:
		// A fresh pattern: a segment moving with the overall trend
		// opens an impulse; one moving against it opens a correction.
		l.prevailing = l.overall
		if dir == l.prevailing {
			l.push(seg, models.NumberLabel(1))
			l.state = stateWave2
			return true
		}
		l.push(seg, models.LetterLabel("A"))
		l.state = stateWaveB
		return true

	case stateWave2:
		if dir != -l.prevailing {
			return false
		}
		// Wave 2 may never retrace 100% or more of wave 1.
		wave1 := l.labeled[len(l.labeled)-1]
		if l.prevailing > 0 && seg.EndPrice <= wave1.StartPrice {
			return false
		}
		if l.prevailing < 0 && seg.EndPrice >= wave1.StartPrice {
			return false
		}
		l.push(seg, models.NumberLabel(2))
		l.state = stateWave3
		return true

	case stateWave3:
		if dir != l.prevailing {
			return false
		}
		l.push(seg, models.NumberLabel(3))
		l.state = stateWave4
		return true

	case stateWave4:
		if dir != -l.prevailing {
			return false
		}
		l.push(seg, models.NumberLabel(4))
		l.state = stateWave5
		return true

	case stateWave5:
		if dir != l.prevailing {
			return false
		}
		l.push(seg, models.NumberLabel(5))
		l.boundary = len(l.labeled)
		l.state = stateWaveA
		return true

	case stateWaveA:
		if dir != -l.prevailing {
			return false
		}
		l.push(seg, models.LetterLabel("A"))
		l.state = stateWaveB
		return true

	case stateWaveB:
		if dir != l.prevailing {
			return false
		}
		l.push(seg, models.LetterLabel("B"))
		l.state = stateWaveC
		return true

	case stateWaveC:
		if dir != -l.prevailing {
			return false
		}
		l.push(seg, models.LetterLabel("C"))
		l.boundary = len(l.labeled)
		l.state = stateWave1
		return true

	default:
		return false
	}
}

func (l *labeler) push(seg models.Wave, label models.WaveLabel) {
	seg.Label = label
	seg.Mode = label.Role()
	l.labeled = append(l.labeled, seg)
}

// reset truncates the labeled waves back to the last complete pattern and
// returns the state machine to a fresh start.
func (l *labeler) reset() {
	l.labeled = l.labeled[:l.boundary]
	l.state = stateWave1
	l.prevailing = 0
}

// finalizeWaves is the authoritative correction pass: it orders waves
// chronologically and re-assigns canonical sequential labels so the output
// never carries gaps or duplicates. Numbers restart at 1 and letters at A
// whenever the label kind changes; runs wrap after 5 and C respectively.
// The pass is idempotent: an already canonical sequence maps to itself.
func finalizeWaves(waves []models.Wave) []models.Wave {
	if len(waves) == 0 {
		return nil
	}

	sort.SliceStable(waves, func(i, j int) bool {
		return waves[i].StartTimestamp < waves[j].StartTimestamp
	})

	pos := 0
	var prevKind models.LabelKind
	for i := range waves {
		kind := waves[i].Label.Kind
		if i == 0 || kind != prevKind {
			pos = 0
		}
		switch kind {
		case models.LabelLetter:
			waves[i].Label = models.LetterLabel(string(rune('A' + pos%3)))
			pos++
		default:
			waves[i].Label = models.NumberLabel(pos%5 + 1)
			pos++
		}
		waves[i].Mode = waves[i].Label.Role()
		prevKind = kind
	}

	return waves
}
