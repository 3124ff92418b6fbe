// Package stats derives per-period rollups, training trends and race
// predictions from the canonical activity store. Everything here is
// recomputed on demand; nothing is persisted.
package stats

import (
	"time"

	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

// ByCategory rolls activities up per category. Averaged fields
// (heart rate, pace) divide by the number of activities that actually
// carry the field, not the partition size, so a few watch-less sessions
// do not drag the averages toward zero.
func ByCategory(activities []*types.Activity, weeks float64) map[types.Category]types.CategoryStats {
	type accum struct {
		stats   types.CategoryStats
		hrSum   float64
		hrN     int
		paceSum float64
		paceN   int
	}
	accums := make(map[types.Category]*accum)

	for _, a := range activities {
		acc := accums[a.Category]
		if acc == nil {
			acc = &accum{}
			accums[a.Category] = acc
		}
		acc.stats.Count++
		acc.stats.DistanceMeters += a.DistanceMeters
		acc.stats.DurationSec += float64(a.MovingTimeSec)
		acc.stats.Calories += a.Calories
		if a.AvgHeartRate > 0 {
			acc.hrSum += a.AvgHeartRate
			acc.hrN++
		}
		if a.PaceMinPerKm > 0 {
			acc.paceSum += a.PaceMinPerKm
			acc.paceN++
		}
	}

	out := make(map[types.Category]types.CategoryStats, len(accums))
	for cat, acc := range accums {
		s := acc.stats
		if acc.hrN > 0 {
			s.AvgHeartRate = acc.hrSum / float64(acc.hrN)
		}
		if acc.paceN > 0 {
			s.AvgPaceMinPerKm = acc.paceSum / float64(acc.paceN)
		}
		if weeks > 0 {
			s.SessionsPerWeek = float64(s.Count) / weeks
			s.DistancePerWeekM = s.DistanceMeters / weeks
		}
		out[cat] = s
	}
	return out
}

// BuildSummary assembles the full derived view for a period window.
func BuildSummary(activities []*types.Activity, start, end time.Time, weeks float64) *types.DetailedSummary {
	return &types.DetailedSummary{
		PeriodStart: start,
		PeriodEnd:   end,
		Weeks:       weeks,
		Categories:  ByCategory(activities, weeks),
		Trend:       Trend(activities),
		Predictions: Predictions(activities),
	}
}
