package fit_parser

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/muktihari/fit/proto"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

// FIT message order: FileId -> DeviceInfo -> Records -> Lap -> Session -> Activity
// Records come BEFORE Lap/Session summaries, so we collect everything first
// and then flatten into a single session-level record.

const semicircleConst = 11930464.7111 // 2^31 / 180

// ParseFitFile decodes a FIT activity file into a FileRecord. Files with
// multiple sessions (device auto-pause) are flattened into one record;
// laps and time-series points keep their original order.
func ParseFitFile(data []byte) (*types.FileRecord, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty FIT data")
	}

	fitDec := decoder.New(bytes.NewReader(data))

	rec := &types.FileRecord{Format: "fit"}
	var sessionCount int
	var startPositionSeen bool

	for fitDec.Next() {
		fitData, err := fitDec.Decode()
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIT file: %w", err)
		}

		for _, msg := range fitData.Messages {
			switch msg.Num {
			case typedef.MesgNumFileId:
				fileId := mesgdef.NewFileId(&msg)
				if rec.StartTime.IsZero() && !fileId.TimeCreated.IsZero() {
					rec.StartTime = fileId.TimeCreated.UTC()
				}

			case typedef.MesgNumRecord:
				if p := parsePoint(&msg); p != nil {
					rec.Points = append(rec.Points, *p)
					if rec.StartTime.IsZero() {
						rec.StartTime = p.Time
					}
				}

			case typedef.MesgNumLap:
				rec.Laps = append(rec.Laps, parseLap(&msg))

			case typedef.MesgNumSession:
				sessionCount++
				mergeSession(rec, mesgdef.NewSession(&msg), sessionCount, &startPositionSeen)
			}
		}
	}

	if sessionCount == 0 && len(rec.Points) == 0 {
		return nil, fmt.Errorf("no sessions or records found in FIT file")
	}

	// Files without a session summary still carry records; derive the
	// envelope from the point stream.
	if sessionCount == 0 {
		first := rec.Points[0].Time
		last := rec.Points[len(rec.Points)-1].Time
		rec.DurationSec = last.Sub(first).Seconds()
		if rec.StartTime.IsZero() {
			rec.StartTime = first
		}
	}

	rec.HasGPS = !rec.Indoor && startPositionSeen
	if rec.Name == "" {
		rec.Name = generateActivityName(rec.Sport, rec.StartTime)
	}

	return rec, nil
}

// mergeSession accumulates one session message into the flat record.
// Sport, sub-sport and averaged metrics come from the first session;
// durations and distances sum across sessions.
func mergeSession(rec *types.FileRecord, s *mesgdef.Session, ordinal int, startPositionSeen *bool) {
	if s.TotalElapsedTime != 0xFFFFFFFF {
		rec.DurationSec += float64(s.TotalElapsedTime) / 1000
	}
	if s.TotalDistance != 0xFFFFFFFF {
		rec.DistanceKm += float64(s.TotalDistance) / 100000 // cm -> km
	}
	if s.TotalAscent != 0xFFFF {
		rec.ElevGain += float64(s.TotalAscent)
	}
	if s.TotalDescent != 0xFFFF {
		rec.ElevLoss += float64(s.TotalDescent)
	}
	if s.TotalCalories != 0xFFFF {
		rec.Calories += float64(s.TotalCalories)
	}
	if s.StartPositionLat != 0x7FFFFFFF && s.StartPositionLong != 0x7FFFFFFF {
		*startPositionSeen = true
	}

	if ordinal > 1 {
		return
	}

	rec.Sport = s.Sport.String()
	rec.SubSport = s.SubSport.String()
	rec.Indoor = s.SubSport == typedef.SubSportTreadmill || s.SubSport == typedef.SubSportIndoorCycling
	if s.SportProfileName != "" {
		rec.Name = cases.Title(language.English).String(s.SportProfileName)
	}
	if !s.StartTime.IsZero() {
		rec.StartTime = s.StartTime.UTC()
	}

	// Prefer the enhanced (higher-precision) speed variants when present.
	rec.AvgSpeedKmh = speedKmh(s.EnhancedAvgSpeed, s.AvgSpeed)
	rec.MaxSpeedKmh = speedKmh(s.EnhancedMaxSpeed, s.MaxSpeed)

	if s.AvgHeartRate != 0xFF {
		rec.AvgHeartRate = float64(s.AvgHeartRate)
	}
	if s.MaxHeartRate != 0xFF {
		rec.MaxHeartRate = float64(s.MaxHeartRate)
	}
	if s.AvgCadence != 0xFF {
		rec.CadencePerLeg = float64(s.AvgCadence)
	}
}

// speedKmh resolves the enhanced/legacy speed pair. Both arrive in mm/s.
func speedKmh(enhanced uint32, legacy uint16) float64 {
	if enhanced != 0xFFFFFFFF && enhanced != 0 {
		return float64(enhanced) / 1000 * 3.6
	}
	if legacy != 0xFFFF && legacy != 0 {
		return float64(legacy) / 1000 * 3.6
	}
	return 0
}

func parseLap(msg *proto.Message) types.FileLap {
	lapMsg := mesgdef.NewLap(msg)

	lap := types.FileLap{
		StartTime: lapMsg.StartTime.UTC(),
	}
	if lapMsg.TotalElapsedTime != 0xFFFFFFFF {
		lap.DurationSec = float64(lapMsg.TotalElapsedTime) / 1000
	}
	if lapMsg.TotalDistance != 0xFFFFFFFF {
		// Lap distance stays in km like the session total; the
		// normalizer resolves the unit.
		lap.Distance = float64(lapMsg.TotalDistance) / 100000
	}
	lap.AvgSpeedKmh = speedKmh(lapMsg.EnhancedAvgSpeed, lapMsg.AvgSpeed)
	if lapMsg.AvgHeartRate != 0xFF {
		lap.AvgHeartRate = float64(lapMsg.AvgHeartRate)
	}
	if lapMsg.AvgCadence != 0xFF {
		lap.CadencePerLeg = float64(lapMsg.AvgCadence)
	}
	return lap
}

// parsePoint extracts one time-series sample from a record message.
func parsePoint(msg *proto.Message) *types.Point {
	recordMsg := mesgdef.NewRecord(msg)

	ts := recordMsg.Timestamp
	if ts.IsZero() {
		return nil
	}

	p := &types.Point{Time: ts.UTC()}

	if recordMsg.HeartRate != 0xFF { // 0xFF is invalid
		p.HeartRate = float64(recordMsg.HeartRate)
	}
	if recordMsg.Power != 0xFFFF {
		p.Watts = float64(recordMsg.Power)
	}
	if recordMsg.Cadence != 0xFF {
		// Point cadence is per-leg like the session value; store the
		// full-body count to match the canonical unit.
		p.CadenceSPM = float64(recordMsg.Cadence) * 2
	}
	if recordMsg.Speed != 0xFFFF { // FIT uses mm/s
		p.SpeedMs = float64(recordMsg.Speed) / 1000
	}
	if recordMsg.Distance != 0xFFFFFFFF { // FIT uses cm
		p.DistanceMeters = float64(recordMsg.Distance) / 100
	}
	if recordMsg.Altitude != 0xFFFF { // FIT uses 5 * (altitude + 500)
		p.AltitudeMeters = (float64(recordMsg.Altitude) / 5) - 500
	}
	if recordMsg.PositionLat != 0x7FFFFFFF && recordMsg.PositionLong != 0x7FFFFFFF {
		p.Lat = float64(recordMsg.PositionLat) / semicircleConst
		p.Lon = float64(recordMsg.PositionLong) / semicircleConst
	}

	return p
}

// generateActivityName creates a default activity name based on sport and time.
func generateActivityName(sport string, startTime time.Time) string {
	hour := startTime.Hour()
	var timeOfDay string
	switch {
	case hour < 12:
		timeOfDay = "Morning"
	case hour < 17:
		timeOfDay = "Afternoon"
	case hour < 21:
		timeOfDay = "Evening"
	default:
		timeOfDay = "Night"
	}

	var noun string
	switch {
	case strings.Contains(sport, "running"):
		noun = "Run"
	case strings.Contains(sport, "cycling"):
		noun = "Ride"
	case strings.Contains(sport, "swimming"):
		noun = "Swim"
	case strings.Contains(sport, "walking"):
		noun = "Walk"
	case strings.Contains(sport, "hiking"):
		noun = "Hike"
	case strings.Contains(sport, "training"):
		noun = "Workout"
	default:
		noun = "Activity"
	}

	return fmt.Sprintf("%s %s", timeOfDay, noun)
}
