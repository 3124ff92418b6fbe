// Package classifier assigns a training-intent tag to activities using
// a two-tier heuristic: free-text pattern matching first, lap-pace
// variance analysis as the fallback when the text is uninformative.
package classifier

import (
	"math"

	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

const (
	// Laps shorter than this are warmup/cooldown fragments and are
	// excluded from variance analysis.
	significantLapMeters = 200

	intervalSpreadPct = 15
	tempoSpreadPct    = 8

	longRunMeters = 15000
	easyMaxMeters = 8000
	easyMaxAvgHR  = 140
)

// Classifier implements the two-tier workout classification. The lap
// tier invocation counter exists so callers (and tests) can observe
// when the fallback path runs.
type Classifier struct {
	LapTierCalls int
}

func New() *Classifier {
	return &Classifier{}
}

// Classify returns the workout intent for an activity. The text tier
// always runs first; the lap-variance tier is consulted only when no
// text rule matches.
func (c *Classifier) Classify(a *types.Activity) types.WorkoutType {
	if wt, ok := ClassifyText(a.Name + " " + a.Description); ok {
		return wt
	}
	c.LapTierCalls++
	return classifyByLaps(a)
}

// ClassifyText matches the concatenated name and description against
// the ordered rule table. First match wins.
func ClassifyText(text string) (types.WorkoutType, bool) {
	for _, rule := range TextRules {
		if rule.Pattern.MatchString(text) {
			return rule.Type, true
		}
	}
	return types.WorkoutGeneral, false
}

// classifyByLaps analyses intra-activity pace variance. Fewer than two
// significant laps means abstention; the gross distance/heart-rate
// thresholds are reachable only as the fall-through after a small
// spread.
func classifyByLaps(a *types.Activity) types.WorkoutType {
	paces := significantLapPaces(a.Laps)
	if len(paces) < 2 {
		return types.WorkoutGeneral
	}

	fastest, slowest := paces[0], paces[0]
	for _, p := range paces[1:] {
		if p < fastest {
			fastest = p
		}
		if p > slowest {
			slowest = p
		}
	}
	if slowest > 0 {
		spread := (slowest - fastest) / slowest * 100
		if spread > intervalSpreadPct {
			return types.WorkoutIntervals
		}
		if spread > tempoSpreadPct {
			return types.WorkoutTempo
		}
	}

	switch {
	case a.DistanceMeters > longRunMeters:
		return types.WorkoutLongRun
	case a.DistanceMeters < easyMaxMeters && a.AvgHeartRate > 0 && a.AvgHeartRate < easyMaxAvgHR:
		return types.WorkoutEasy
	default:
		return types.WorkoutGeneral
	}
}

// significantLapPaces returns min/km paces for laps longer than the
// significance threshold.
func significantLapPaces(laps []types.Lap) []float64 {
	var paces []float64
	for _, l := range laps {
		if l.DistanceMeters <= significantLapMeters {
			continue
		}
		dur := l.MovingSec
		if dur == 0 {
			dur = l.ElapsedSec
		}
		if dur <= 0 {
			continue
		}
		paces = append(paces, (dur/60)/(l.DistanceMeters/1000))
	}
	return paces
}

// VarianceResult is the auxiliary confidence-scored analysis. It is
// reported alongside the primary tag and may disagree with it; a zero
// confidence means the classifier abstained, which callers must treat
// as "unknown" rather than a weak classification.
type VarianceResult struct {
	Type       types.WorkoutType
	Confidence int // 0-100
}

const (
	intervalPaceGap = 1.5 // min/km between fast and slow group means
	tempoPaceGap    = 0.5
	easyPaceMinKm   = 6.0
)

// AnalyzeLapVariance splits significant laps into faster- and
// slower-than-mean groups and derives a workout type plus confidence
// from the gap between the group means.
func AnalyzeLapVariance(laps []types.Lap) VarianceResult {
	paces := significantLapPaces(laps)
	if len(paces) < 2 {
		return VarianceResult{Type: types.WorkoutGeneral, Confidence: 0}
	}

	var sum float64
	for _, p := range paces {
		sum += p
	}
	mean := sum / float64(len(paces))

	var fastSum, slowSum float64
	var fastN, slowN int
	for _, p := range paces {
		if p < mean {
			fastSum += p
			fastN++
		} else {
			slowSum += p
			slowN++
		}
	}
	if fastN == 0 || slowN == 0 {
		// All laps at identical pace: steady effort.
		if mean > easyPaceMinKm {
			return VarianceResult{Type: types.WorkoutEasy, Confidence: 80}
		}
		return VarianceResult{Type: types.WorkoutTempo, Confidence: 80}
	}

	gap := slowSum/float64(slowN) - fastSum/float64(fastN)
	switch {
	case gap > intervalPaceGap:
		conf := int(math.Min(95, 60+gap*15))
		return VarianceResult{Type: types.WorkoutIntervals, Confidence: conf}
	case gap > tempoPaceGap:
		return VarianceResult{Type: types.WorkoutTempo, Confidence: 70}
	case mean > easyPaceMinKm:
		return VarianceResult{Type: types.WorkoutEasy, Confidence: 80}
	default:
		return VarianceResult{Type: types.WorkoutTempo, Confidence: 80}
	}
}
