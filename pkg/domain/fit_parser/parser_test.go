package fit_parser

import (
	"bytes"
	"testing"
	"time"

	"github.com/muktihari/fit/encoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/muktihari/fit/proto"

	"github.com/neotrasher/fitness-dashboard/pkg/domain/units"
	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

// encodeFit builds an in-memory FIT file from the given messages,
// prepending the mandatory FileId message.
func encodeFit(t *testing.T, startTime time.Time, msgs ...proto.Message) []byte {
	t.Helper()

	fit := &proto.FIT{}
	fileId := mesgdef.NewFileId(nil).
		SetType(typedef.FileActivity).
		SetManufacturer(typedef.ManufacturerDevelopment).
		SetProduct(1).
		SetTimeCreated(startTime)
	fit.Messages = append(fit.Messages, fileId.ToMesg(nil))
	fit.Messages = append(fit.Messages, msgs...)

	var buf bytes.Buffer
	if err := encoder.New(&buf).Encode(fit); err != nil {
		t.Fatalf("failed to encode FIT fixture: %v", err)
	}
	return buf.Bytes()
}

func TestParseFitFile_SessionSummary(t *testing.T) {
	start := time.Date(2026, 4, 2, 6, 45, 0, 0, time.UTC)

	session := mesgdef.NewSession(nil).
		SetTimestamp(start.Add(time.Hour)).
		SetStartTime(start).
		SetSport(typedef.SportRunning).
		SetSubSport(typedef.SubSportGeneric).
		SetTotalElapsedTime(3600 * 1000).   // ms
		SetTotalDistance(10 * 100000).      // cm: 10 km
		SetEnhancedAvgSpeed(2778).          // mm/s ≈ 10 km/h
		SetAvgHeartRate(152).
		SetAvgCadence(85).
		SetTotalAscent(120).
		SetStartPositionLat(636000000).
		SetStartPositionLong(-13000000)

	data := encodeFit(t, start, session.ToMesg(nil))

	rec, err := ParseFitFile(data)
	if err != nil {
		t.Fatalf("ParseFitFile failed: %v", err)
	}

	if rec.DistanceKm != 10 {
		t.Errorf("DistanceKm = %v, want 10", rec.DistanceKm)
	}
	if rec.DurationSec != 3600 {
		t.Errorf("DurationSec = %v, want 3600", rec.DurationSec)
	}
	if rec.Sport != "running" {
		t.Errorf("Sport = %q, want running", rec.Sport)
	}
	if rec.AvgHeartRate != 152 {
		t.Errorf("AvgHeartRate = %v, want 152", rec.AvgHeartRate)
	}
	if rec.CadencePerLeg != 85 {
		t.Errorf("CadencePerLeg = %v, want 85", rec.CadencePerLeg)
	}
	if rec.ElevGain != 120 {
		t.Errorf("ElevGain = %v, want 120", rec.ElevGain)
	}
	if !rec.HasGPS {
		t.Error("expected HasGPS for outdoor session with start position")
	}
	if rec.Indoor {
		t.Error("generic sub-sport must not be flagged indoor")
	}

	// End-to-end: a 10 km session normalizes to 10000 m.
	activity := units.FromFileRecord(rec)
	if activity.DistanceMeters != 10000 {
		t.Errorf("normalized DistanceMeters = %v, want 10000", activity.DistanceMeters)
	}
	if activity.CadenceSPM != 170 {
		t.Errorf("normalized CadenceSPM = %v, want 170", activity.CadenceSPM)
	}
}

func TestParseFitFile_TreadmillIsIndoorWithoutGPS(t *testing.T) {
	start := time.Date(2026, 4, 3, 18, 20, 0, 0, time.UTC)

	session := mesgdef.NewSession(nil).
		SetTimestamp(start.Add(30 * time.Minute)).
		SetStartTime(start).
		SetSport(typedef.SportRunning).
		SetSubSport(typedef.SubSportTreadmill).
		SetTotalElapsedTime(1800 * 1000).
		SetTotalDistance(5 * 100000).
		SetStartPositionLat(636000000). // stale fix from before the run
		SetStartPositionLong(-13000000)

	rec, err := ParseFitFile(encodeFit(t, start, session.ToMesg(nil)))
	if err != nil {
		t.Fatalf("ParseFitFile failed: %v", err)
	}

	if !rec.Indoor {
		t.Error("treadmill sub-sport must be flagged indoor")
	}
	if rec.HasGPS {
		t.Error("indoor session must not be flagged HasGPS even with a start position")
	}

	a := units.FromFileRecord(rec)
	if a.RunType != types.RunTypeTreadmill {
		t.Errorf("RunType = %v, want treadmill", a.RunType)
	}
}

func TestParseFitFile_LapsAndPointsFlattened(t *testing.T) {
	start := time.Date(2026, 4, 4, 7, 0, 0, 0, time.UTC)

	var msgs []proto.Message
	for i := 0; i < 4; i++ {
		recMsg := mesgdef.NewRecord(nil).
			SetTimestamp(start.Add(time.Duration(i) * time.Minute)).
			SetHeartRate(uint8(140 + i)).
			SetSpeed(3000) // mm/s
		msgs = append(msgs, recMsg.ToMesg(nil))
	}
	for i := 0; i < 2; i++ {
		lapMsg := mesgdef.NewLap(nil).
			SetTimestamp(start.Add(time.Duration(i+1) * 2 * time.Minute)).
			SetStartTime(start.Add(time.Duration(i) * 2 * time.Minute)).
			SetTotalElapsedTime(120 * 1000).
			SetTotalDistance(100000) // 1 km in cm
		msgs = append(msgs, lapMsg.ToMesg(nil))
	}
	session := mesgdef.NewSession(nil).
		SetTimestamp(start.Add(4 * time.Minute)).
		SetStartTime(start).
		SetSport(typedef.SportRunning).
		SetTotalElapsedTime(240 * 1000).
		SetTotalDistance(200000)
	msgs = append(msgs, session.ToMesg(nil))

	rec, err := ParseFitFile(encodeFit(t, start, msgs...))
	if err != nil {
		t.Fatalf("ParseFitFile failed: %v", err)
	}

	if len(rec.Laps) != 2 {
		t.Fatalf("expected 2 laps, got %d", len(rec.Laps))
	}
	if len(rec.Points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(rec.Points))
	}
	if rec.Laps[0].Distance != 1 {
		t.Errorf("lap distance = %v km, want 1", rec.Laps[0].Distance)
	}
	// Point order must match record order.
	for i := 1; i < len(rec.Points); i++ {
		if rec.Points[i].Time.Before(rec.Points[i-1].Time) {
			t.Fatal("points are out of order")
		}
	}
	if rec.Points[0].HeartRate != 140 {
		t.Errorf("first point HR = %v, want 140", rec.Points[0].HeartRate)
	}
	if rec.Points[0].SpeedMs != 3 {
		t.Errorf("first point speed = %v m/s, want 3", rec.Points[0].SpeedMs)
	}
}

func TestParseFitFile_Malformed(t *testing.T) {
	if _, err := ParseFitFile(nil); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := ParseFitFile([]byte("not a fit file at all")); err == nil {
		t.Error("expected error for garbage input")
	}
}
