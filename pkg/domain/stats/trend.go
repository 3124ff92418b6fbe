package stats

import (
	"sort"

	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

const (
	trendMinActivities = 10
	trendThresholdPct  = 10.0
)

// Trend classifies the running-volume trajectory over a period. The
// full activity list (all categories) is split at its midpoint by
// recency; within each half only running activities count, and the
// mean run distance of the recent half is compared against the older
// half. The comparison abstains rather than guess: fewer than ten
// activities overall, or a half without a single run, yields
// insufficient_data.
func Trend(activities []*types.Activity) string {
	if len(activities) < trendMinActivities {
		return types.TrendInsufficientData
	}

	sorted := make([]*types.Activity, len(activities))
	copy(sorted, activities)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTime.After(sorted[j].StartTime)
	})

	mid := len(sorted) / 2
	recent, hasRecent := meanRunDistance(sorted[:mid])
	older, hasOlder := meanRunDistance(sorted[mid:])
	if !hasRecent || !hasOlder {
		return types.TrendInsufficientData
	}

	changePct := (recent - older) / older * 100
	switch {
	case changePct > trendThresholdPct:
		return types.TrendImproving
	case changePct < -trendThresholdPct:
		return types.TrendDeclining
	default:
		return types.TrendStable
	}
}

func meanRunDistance(half []*types.Activity) (float64, bool) {
	var sum float64
	var n int
	for _, a := range half {
		if a.IsRunning() {
			sum += a.DistanceMeters
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
