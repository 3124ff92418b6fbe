package units

import (
	"math"
	"testing"
	"time"

	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

func TestCadence_DoublesPerLegValue(t *testing.T) {
	tests := []struct {
		perLeg   float64
		expected float64
	}{
		{0, 0},
		{85, 170},
		{90.5, 181},
	}
	for _, tt := range tests {
		if got := Cadence(tt.perLeg); got != tt.expected {
			t.Errorf("Cadence(%v) = %v, want %v", tt.perLeg, got, tt.expected)
		}
	}
}

func TestElevation_KmHeuristicBoundary(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{"zero passes through", 0, 0},
		{"small value treated as km", 0.35, 350},
		{"just under boundary treated as km", 9.99, 9990},
		{"boundary value treated as meters", 10, 10},
		{"large value treated as meters", 250, 250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Elevation(tt.value); got != tt.expected {
				t.Errorf("Elevation(%v) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestLapDistanceMeters_KmHeuristic(t *testing.T) {
	if got := LapDistanceMeters(1.2); got != 1200 {
		t.Errorf("LapDistanceMeters(1.2) = %v, want 1200", got)
	}
	if got := LapDistanceMeters(50); got != 50 {
		t.Errorf("LapDistanceMeters(50) = %v, want 50 (boundary is meters)", got)
	}
	if got := LapDistanceMeters(400); got != 400 {
		t.Errorf("LapDistanceMeters(400) = %v, want 400", got)
	}
}

func TestPaceConversions(t *testing.T) {
	// 12 km/h is a 5:00/km pace.
	if got := PaceFromKmh(12); math.Abs(got-5.0) > 1e-9 {
		t.Errorf("PaceFromKmh(12) = %v, want 5.0", got)
	}
	// The two conversions must agree: 12 km/h == 3.333... m/s.
	fromMs := PaceFromMs(12.0 / 3.6)
	if math.Abs(fromMs-5.0) > 1e-9 {
		t.Errorf("PaceFromMs(3.33) = %v, want 5.0", fromMs)
	}
	// Zero speed means unknown pace, never a division error.
	if got := PaceFromKmh(0); got != 0 {
		t.Errorf("PaceFromKmh(0) = %v, want 0", got)
	}
	if got := PaceFromMs(0); got != 0 {
		t.Errorf("PaceFromMs(0) = %v, want 0", got)
	}
}

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		raw      string
		expected types.Category
	}{
		{"Run", types.CategoryRunning},
		{"Treadmill Session", types.CategoryRunning},
		{"VirtualRide", types.CategoryCycling},
		{"indoor cycling", types.CategoryCycling},
		{"WeightTraining", types.CategoryStrength},
		{"Strength", types.CategoryStrength},
		{"Swim", types.CategorySwimming},
		{"Hike", types.CategoryWalking},
		{"Walk", types.CategoryWalking},
		{"Yoga", types.CategoryOther},
		{"", types.CategoryOther},
	}
	for _, tt := range tests {
		if got := CategoryFor(tt.raw); got != tt.expected {
			t.Errorf("CategoryFor(%q) = %v, want %v", tt.raw, got, tt.expected)
		}
	}
}

func TestFromFileRecord_CanonicalUnits(t *testing.T) {
	start := time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC)
	rec := &types.FileRecord{
		Format:        "fit",
		Name:          "Morning Run",
		Sport:         "running",
		StartTime:     start,
		DurationSec:   3600,
		DistanceKm:    10,
		AvgSpeedKmh:   10,
		CadencePerLeg: 85,
		ElevGain:      0.12, // km, per heuristic
		AvgHeartRate:  152,
	}

	a := FromFileRecord(rec)

	if a.DistanceMeters != 10000 {
		t.Errorf("DistanceMeters = %v, want 10000", a.DistanceMeters)
	}
	if math.Abs(a.PaceMinPerKm-6.0) > 1e-9 {
		t.Errorf("PaceMinPerKm = %v, want 6.0", a.PaceMinPerKm)
	}
	if a.CadenceSPM != 170 {
		t.Errorf("CadenceSPM = %v, want 170", a.CadenceSPM)
	}
	if a.ElevGainMeters != 120 {
		t.Errorf("ElevGainMeters = %v, want 120", a.ElevGainMeters)
	}
	if a.Category != types.CategoryRunning {
		t.Errorf("Category = %v, want running", a.Category)
	}
	if a.RunType != types.RunTypeOutdoor {
		t.Errorf("RunType = %v, want outdoor", a.RunType)
	}
	if a.Source != types.SourceFileUpload {
		t.Errorf("Source = %v, want file_upload", a.Source)
	}
	if a.ID == "" {
		t.Error("expected generated internal id")
	}
}

func TestFromFileRecord_IndoorBecomesTreadmill(t *testing.T) {
	a := FromFileRecord(&types.FileRecord{Sport: "running", Indoor: true})
	if a.RunType != types.RunTypeTreadmill {
		t.Errorf("RunType = %v, want treadmill", a.RunType)
	}
}

func TestFromAPIRecord_CanonicalUnits(t *testing.T) {
	rec := &types.APIRecord{
		ID:               42,
		Name:             "Lunch Run",
		SportType:        "Run",
		Distance:         5000,
		MovingTime:       1500,
		ElapsedTime:      1550,
		AverageSpeed:     10.0 / 3.0, // 3.33 m/s = 5:00/km
		AverageCadence:   88,
		AverageHeartrate: 148,
	}

	a := FromAPIRecord(rec)

	if a.ExternalID != 42 {
		t.Errorf("ExternalID = %v, want 42", a.ExternalID)
	}
	if a.DistanceMeters != 5000 {
		t.Errorf("DistanceMeters = %v, want 5000 (API already in meters)", a.DistanceMeters)
	}
	if math.Abs(a.PaceMinPerKm-5.0) > 1e-6 {
		t.Errorf("PaceMinPerKm = %v, want 5.0", a.PaceMinPerKm)
	}
	if a.CadenceSPM != 176 {
		t.Errorf("CadenceSPM = %v, want 176", a.CadenceSPM)
	}
	if a.Source != types.SourceStrava {
		t.Errorf("Source = %v, want strava", a.Source)
	}
	if a.MovingTimeSec != 1500 || a.ElapsedTimeSec != 1550 {
		t.Errorf("durations = %d/%d, want 1500/1550", a.MovingTimeSec, a.ElapsedTimeSec)
	}
}

func TestFromAPIRecord_LapCadenceDoubled(t *testing.T) {
	rec := &types.APIRecord{
		SportType: "Run",
		Laps: []types.APILap{
			{Distance: 1000, ElapsedTime: 300, AverageCadence: 84},
		},
	}
	a := FromAPIRecord(rec)
	if len(a.Laps) != 1 {
		t.Fatalf("expected 1 lap, got %d", len(a.Laps))
	}
	if a.Laps[0].CadenceSPM != 168 {
		t.Errorf("lap CadenceSPM = %v, want 168", a.Laps[0].CadenceSPM)
	}
}
