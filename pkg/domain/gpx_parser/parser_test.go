package gpx_parser

import (
	"math"
	"testing"
	"time"
)

const threePointTrack = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test">
  <metadata><time>2026-05-10T08:00:00Z</time></metadata>
  <trk>
    <name>River Loop</name>
    <type>running</type>
    <trkseg>
      <trkpt lat="52.000000" lon="13.000000">
        <ele>100</ele>
        <time>2026-05-10T08:00:00Z</time>
        <extensions><hr>140</hr></extensions>
      </trkpt>
      <trkpt lat="52.004497" lon="13.000000">
        <ele>95</ele>
        <time>2026-05-10T08:01:00Z</time>
        <extensions><hr>150</hr></extensions>
      </trkpt>
      <trkpt lat="52.008994" lon="13.000000">
        <ele>105</ele>
        <time>2026-05-10T08:02:00Z</time>
      </trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestParseGPXFile_ComputedAggregates(t *testing.T) {
	rec, err := ParseGPXFile([]byte(threePointTrack))
	if err != nil {
		t.Fatalf("ParseGPXFile failed: %v", err)
	}

	if rec.DurationSec != 120 {
		t.Errorf("DurationSec = %v, want 120", rec.DurationSec)
	}

	// Two ~500 m hops; total must be 1000 m within 1%.
	meters := rec.DistanceKm * 1000
	if math.Abs(meters-1000) > 10 {
		t.Errorf("distance = %v m, want 1000 ±10", meters)
	}

	// HR stats only over the two extension-bearing points.
	if rec.AvgHeartRate != 145 {
		t.Errorf("AvgHeartRate = %v, want 145 (point without hr excluded)", rec.AvgHeartRate)
	}
	if rec.MaxHeartRate != 150 {
		t.Errorf("MaxHeartRate = %v, want 150", rec.MaxHeartRate)
	}

	// Descents never subtract from gain.
	if rec.ElevGain != 10 {
		t.Errorf("ElevGain = %v, want 10", rec.ElevGain)
	}
	if rec.ElevLoss != 5 {
		t.Errorf("ElevLoss = %v, want 5", rec.ElevLoss)
	}

	if len(rec.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(rec.Points))
	}
	if !rec.HasGPS {
		t.Error("expected HasGPS")
	}
	if rec.Name != "River Loop" {
		t.Errorf("Name = %q, want River Loop", rec.Name)
	}
	wantStart := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	if !rec.StartTime.Equal(wantStart) {
		t.Errorf("StartTime = %v, want %v", rec.StartTime, wantStart)
	}
}

func TestParseGPXFile_NoTrackFallsBackToMetadata(t *testing.T) {
	doc := `<?xml version="1.0"?><gpx version="1.1"><metadata><time>2026-05-11T06:30:00Z</time></metadata></gpx>`

	rec, err := ParseGPXFile([]byte(doc))
	if err != nil {
		t.Fatalf("ParseGPXFile failed: %v", err)
	}

	if rec.DistanceKm != 0 || rec.DurationSec != 0 || len(rec.Points) != 0 {
		t.Error("trackless document must yield a zero-valued record")
	}
	want := time.Date(2026, 5, 11, 6, 30, 0, 0, time.UTC)
	if !rec.StartTime.Equal(want) {
		t.Errorf("StartTime = %v, want metadata time %v", rec.StartTime, want)
	}
}

func TestParseGPXFile_FewerThanTwoPoints(t *testing.T) {
	doc := `<?xml version="1.0"?><gpx version="1.1"><trk><trkseg>
	<trkpt lat="52.0" lon="13.0"><time>2026-05-10T08:00:00Z</time></trkpt>
	</trkseg></trk></gpx>`

	rec, err := ParseGPXFile([]byte(doc))
	if err != nil {
		t.Fatalf("ParseGPXFile failed: %v", err)
	}
	if rec.DurationSec != 0 {
		t.Errorf("DurationSec = %v, want 0 with a single point", rec.DurationSec)
	}
}

func TestParseGPXFile_Malformed(t *testing.T) {
	if _, err := ParseGPXFile([]byte("<gpx><trk>")); err == nil {
		t.Error("expected decode error for truncated XML")
	}
}

func TestParseGPXFile_TrackPointExtensionVariant(t *testing.T) {
	doc := `<?xml version="1.0"?><gpx version="1.1"><trk><trkseg>
	<trkpt lat="52.0" lon="13.0"><time>2026-05-10T08:00:00Z</time>
	  <extensions><TrackPointExtension><hr>133</hr></TrackPointExtension></extensions>
	</trkpt>
	<trkpt lat="52.0009" lon="13.0"><time>2026-05-10T08:01:00Z</time>
	  <extensions><TrackPointExtension><hr>137</hr></TrackPointExtension></extensions>
	</trkpt>
	</trkseg></trk></gpx>`

	rec, err := ParseGPXFile([]byte(doc))
	if err != nil {
		t.Fatalf("ParseGPXFile failed: %v", err)
	}
	if rec.AvgHeartRate != 135 {
		t.Errorf("AvgHeartRate = %v, want 135", rec.AvgHeartRate)
	}
}
