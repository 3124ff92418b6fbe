package stats

import (
	"math"
	"testing"
	"time"

	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

func run(start time.Time, paceMinKm, hr float64) *types.Activity {
	return &types.Activity{
		Category:       types.CategoryRunning,
		StartTime:      start,
		DistanceMeters: 10000,
		MovingTimeSec:  3000,
		PaceMinPerKm:   paceMinKm,
		AvgHeartRate:   hr,
	}
}

func TestByCategory_SelectiveAveraging(t *testing.T) {
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	activities := []*types.Activity{
		run(now, 5.0, 150),
		run(now, 6.0, 0), // no heart-rate strap
		run(now, 0, 160), // treadmill without pace
	}

	got := ByCategory(activities, 1)[types.CategoryRunning]
	if got.Count != 3 {
		t.Fatalf("Count = %d, want 3", got.Count)
	}
	// HR averages over the 2 activities carrying it, not all 3.
	if got.AvgHeartRate != 155 {
		t.Errorf("AvgHeartRate = %v, want 155", got.AvgHeartRate)
	}
	// Pace likewise averages over its own 2 carriers.
	if got.AvgPaceMinPerKm != 5.5 {
		t.Errorf("AvgPaceMinPerKm = %v, want 5.5", got.AvgPaceMinPerKm)
	}
	if got.DistanceMeters != 30000 || got.DurationSec != 9000 {
		t.Errorf("totals = (%v, %v), want (30000, 9000)", got.DistanceMeters, got.DurationSec)
	}
}

func TestByCategory_NoCarriersMeansZero(t *testing.T) {
	now := time.Now()
	got := ByCategory([]*types.Activity{run(now, 0, 0), run(now, 0, 0)}, 1)[types.CategoryRunning]
	if got.AvgHeartRate != 0 || got.AvgPaceMinPerKm != 0 {
		t.Errorf("averages = (%v, %v), want zeros when no activity carries the field",
			got.AvgHeartRate, got.AvgPaceMinPerKm)
	}
}

func TestByCategory_WeeklyRates(t *testing.T) {
	now := time.Now()
	activities := []*types.Activity{run(now, 5, 150), run(now, 5, 150), run(now, 5, 150), run(now, 5, 150)}

	got := ByCategory(activities, 2)[types.CategoryRunning]
	if got.SessionsPerWeek != 2 {
		t.Errorf("SessionsPerWeek = %v, want 2", got.SessionsPerWeek)
	}
	if got.DistancePerWeekM != 20000 {
		t.Errorf("DistancePerWeekM = %v, want 20000", got.DistancePerWeekM)
	}
}

func TestByCategory_PartitionsByCategory(t *testing.T) {
	now := time.Now()
	ride := &types.Activity{Category: types.CategoryCycling, StartTime: now, DistanceMeters: 40000, MovingTimeSec: 5400}
	got := ByCategory([]*types.Activity{run(now, 5, 150), ride}, 1)
	if len(got) != 2 {
		t.Fatalf("categories = %d, want 2", len(got))
	}
	if got[types.CategoryCycling].DistanceMeters != 40000 {
		t.Errorf("cycling distance = %v, want 40000", got[types.CategoryCycling].DistanceMeters)
	}
}

func TestTrend(t *testing.T) {
	day := func(i int) time.Time {
		return time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC).AddDate(0, 0, i)
	}
	runAt := func(i int, km float64) *types.Activity {
		a := run(day(i), 5.0, 150)
		a.DistanceMeters = km * 1000
		return a
	}
	rideAt := func(i int) *types.Activity {
		return &types.Activity{Category: types.CategoryCycling, StartTime: day(i), DistanceMeters: 30000}
	}
	distances := func(kms ...float64) []*types.Activity {
		var out []*types.Activity
		for i, km := range kms {
			out = append(out, runAt(i, km))
		}
		return out
	}

	t.Run("fewer than ten activities abstains", func(t *testing.T) {
		if got := Trend(distances(5, 5, 5, 5, 5, 5, 5, 5, 5)); got != types.TrendInsufficientData {
			t.Errorf("Trend = %v, want insufficient_data", got)
		}
	})

	t.Run("recent half longer by over ten percent is improving", func(t *testing.T) {
		// Older six at 5 km, newer six at 10 km; pace identical throughout.
		got := Trend(distances(5, 5, 5, 5, 5, 5, 10, 10, 10, 10, 10, 10))
		if got != types.TrendImproving {
			t.Errorf("Trend = %v, want improving", got)
		}
	})

	t.Run("recent half shorter is declining", func(t *testing.T) {
		got := Trend(distances(10, 10, 10, 10, 10, 5, 5, 5, 5, 5))
		if got != types.TrendDeclining {
			t.Errorf("Trend = %v, want declining", got)
		}
	})

	t.Run("small change is stable", func(t *testing.T) {
		got := Trend(distances(10, 10, 10, 10, 10, 10.5, 10.5, 10.5, 10.5, 10.5))
		if got != types.TrendStable {
			t.Errorf("Trend = %v, want stable", got)
		}
	})

	t.Run("gate counts all activities, not just runs", func(t *testing.T) {
		// 12 activities but only 8 runs; runs appear in both halves,
		// so the comparison still classifies instead of abstaining.
		acts := []*types.Activity{
			runAt(0, 5), runAt(1, 5), runAt(2, 5), runAt(3, 5),
			rideAt(4), rideAt(5),
			runAt(6, 10), runAt(7, 10), runAt(8, 10), runAt(9, 10),
			rideAt(10), rideAt(11),
		}
		if got := Trend(acts); got != types.TrendImproving {
			t.Errorf("Trend = %v, want improving", got)
		}
	})

	t.Run("half without a run abstains", func(t *testing.T) {
		acts := distances(5, 5, 5, 5, 5)
		for i := 5; i < 10; i++ {
			acts = append(acts, rideAt(i))
		}
		if got := Trend(acts); got != types.TrendInsufficientData {
			t.Errorf("Trend = %v, want insufficient_data", got)
		}
	})
}

func TestRiegel(t *testing.T) {
	// A 20:00 5K extrapolates to roughly 41:42 over 10K.
	got := Riegel(1200, Distance5K, Distance10K)
	if math.Abs(got-2502.4) > 1 {
		t.Errorf("Riegel(1200, 5K, 10K) = %v, want ~2502", got)
	}

	// Extrapolating to the same distance is the identity.
	if got := Riegel(1200, Distance5K, Distance5K); got != 1200 {
		t.Errorf("identity extrapolation = %v, want 1200", got)
	}

	if got := Riegel(0, Distance5K, Distance10K); got != 0 {
		t.Errorf("zero time = %v, want 0", got)
	}

	// The exponent is symmetric under inversion: extrapolating out and
	// back recovers the original time up to floating rounding.
	back := Riegel(Riegel(1200, Distance5K, DistanceMarathon), DistanceMarathon, Distance5K)
	if math.Abs(back-1200) > 1e-6 {
		t.Errorf("round trip = %v, want 1200", back)
	}
}

func withEfforts(efforts ...types.BestEffort) *types.Activity {
	return &types.Activity{
		Category:    types.CategoryRunning,
		BestEfforts: efforts,
	}
}

func TestPersonalRecords(t *testing.T) {
	activities := []*types.Activity{
		withEfforts(types.BestEffort{Name: "5k", DistanceMeters: 5000, ElapsedSec: 1250}),
		withEfforts(
			types.BestEffort{Name: "5k", DistanceMeters: 5000, ElapsedSec: 1190},
			// Provider rounds the half distance; still matches.
			types.BestEffort{Name: "Half-Marathon", DistanceMeters: 21095, ElapsedSec: 6100},
		),
		withEfforts(types.BestEffort{Name: "1k", DistanceMeters: 1000, ElapsedSec: 210}),
	}

	prs := PersonalRecords(activities)
	if prs["5K"] != 1190 {
		t.Errorf("5K PR = %v, want the faster 1190", prs["5K"])
	}
	if prs["Half Marathon"] != 6100 {
		t.Errorf("Half Marathon PR = %v, want 6100", prs["Half Marathon"])
	}
	if _, ok := prs["10K"]; ok {
		t.Error("no 10K effort recorded, no 10K PR expected")
	}
	if len(prs) != 2 {
		t.Errorf("prs = %v, want only canonical distances with efforts", prs)
	}
}

func TestPersonalRecords_MarathonIsNotASource(t *testing.T) {
	activities := []*types.Activity{
		withEfforts(
			types.BestEffort{Name: "10k", DistanceMeters: 10000, ElapsedSec: 2700},
			types.BestEffort{Name: "Marathon", DistanceMeters: 42195, ElapsedSec: 13500},
		),
	}

	prs := PersonalRecords(activities)
	if _, ok := prs["Marathon"]; ok {
		t.Error("marathon efforts must not be scanned as PRs")
	}

	// The marathon slot is filled by extrapolation instead.
	for _, p := range Predictions(activities) {
		if p.Distance == "Marathon" {
			if p.Source != "derived from 10K PR" {
				t.Errorf("Marathon source = %q, want derived from 10K PR", p.Source)
			}
			return
		}
	}
	t.Error("expected a derived Marathon prediction")
}

func TestPredictions(t *testing.T) {
	activities := []*types.Activity{
		withEfforts(
			types.BestEffort{Name: "5k", DistanceMeters: 5000, ElapsedSec: 1200},
			types.BestEffort{Name: "10k", DistanceMeters: 10000, ElapsedSec: 2700},
		),
	}

	preds := Predictions(activities)
	byDistance := make(map[string]types.RacePrediction)
	for _, p := range preds {
		byDistance[p.Distance] = p
	}

	// Real PRs are reported as-is, even when an extrapolation from
	// another PR would predict a faster time (2502 < 2700 here).
	if p := byDistance["10K"]; p.TimeSec != 2700 || p.Source != "PR" {
		t.Errorf("10K = %+v, want the actual PR", p)
	}
	if p := byDistance["5K"]; p.TimeSec != 1200 || p.Source != "PR" {
		t.Errorf("5K = %+v, want the actual PR", p)
	}

	// Half and full are extrapolated; the faster candidate wins. The
	// slow 10K PR predicts a slower half than the 5K PR does, so the
	// half must be derived from the 5K.
	half := byDistance["Half Marathon"]
	want5k := Riegel(1200, Distance5K, DistanceHalfMarathon)
	if math.Abs(half.TimeSec-want5k) > 0.01 {
		t.Errorf("Half TimeSec = %v, want %v", half.TimeSec, want5k)
	}
	if half.Source != "derived from 5K PR" {
		t.Errorf("Half Source = %q, want derived from 5K PR", half.Source)
	}

	// Output is ordered short to long.
	wantOrder := []string{"5K", "10K", "Half Marathon", "Marathon"}
	if len(preds) != len(wantOrder) {
		t.Fatalf("predictions = %d entries, want %d", len(preds), len(wantOrder))
	}
	for i, want := range wantOrder {
		if preds[i].Distance != want {
			t.Errorf("preds[%d] = %q, want %q", i, preds[i].Distance, want)
		}
	}
}

func TestPredictions_NoEfforts(t *testing.T) {
	if got := Predictions([]*types.Activity{run(time.Now(), 5, 150)}); got != nil {
		t.Errorf("Predictions = %v, want nil without any best efforts", got)
	}
}

func TestBuildSummary(t *testing.T) {
	start := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)
	activities := []*types.Activity{run(start.Add(9*time.Hour), 5, 150)}

	got := BuildSummary(activities, start, end, 1)
	if got.PeriodStart != start || got.PeriodEnd != end || got.Weeks != 1 {
		t.Error("summary must echo the period window")
	}
	if got.Categories[types.CategoryRunning].Count != 1 {
		t.Error("summary must include category rollups")
	}
	if got.Trend != types.TrendInsufficientData {
		t.Errorf("Trend = %v, want insufficient_data for a single run", got.Trend)
	}
}
