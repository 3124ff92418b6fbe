package units

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

// FromFileRecord converts a decoded file record into a canonical
// Activity. All file-source unit quirks (km distances, km/h speeds,
// per-leg cadence, ambiguous elevation) are resolved here.
func FromFileRecord(r *types.FileRecord) *types.Activity {
	a := &types.Activity{
		ID:             uuid.NewString(),
		Name:           r.Name,
		RawType:        r.Sport,
		Category:       CategoryFor(r.Sport),
		StartTime:      r.StartTime,
		MovingTimeSec:  int(r.DurationSec),
		ElapsedTimeSec: int(r.DurationSec),
		DistanceMeters: DistanceKmToMeters(r.DistanceKm),
		ElevGainMeters: Elevation(r.ElevGain),
		ElevLossMeters: Elevation(r.ElevLoss),
		AvgHeartRate:   r.AvgHeartRate,
		MaxHeartRate:   r.MaxHeartRate,
		AvgSpeedMs:     KmhToMs(r.AvgSpeedKmh),
		MaxSpeedMs:     KmhToMs(r.MaxSpeedKmh),
		PaceMinPerKm:   PaceFromKmh(r.AvgSpeedKmh),
		CadenceSPM:     Cadence(r.CadencePerLeg),
		Calories:       r.Calories,
		HasGPS:         r.HasGPS,
		Laps:           normalizeFileLaps(r.Laps),
		Points:         r.Points,
		Source:         types.SourceFileUpload,
		HasDetail:      len(r.Points) > 0,
	}
	if a.Category == types.CategoryRunning {
		a.RunType = fileRunType(r)
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	return a
}

func normalizeFileLaps(laps []types.FileLap) []types.Lap {
	if len(laps) == 0 {
		return nil
	}
	out := make([]types.Lap, 0, len(laps))
	for _, l := range laps {
		out = append(out, types.Lap{
			StartTime:      l.StartTime,
			ElapsedSec:     l.DurationSec,
			MovingSec:      l.DurationSec,
			DistanceMeters: LapDistanceMeters(l.Distance),
			AvgSpeedMs:     KmhToMs(l.AvgSpeedKmh),
			AvgHeartRate:   l.AvgHeartRate,
			CadenceSPM:     Cadence(l.CadencePerLeg),
		})
	}
	return out
}

func fileRunType(r *types.FileRecord) types.RunType {
	sub := strings.ToLower(r.SubSport)
	switch {
	case r.Indoor:
		return types.RunTypeTreadmill
	case strings.Contains(sub, "trail"):
		return types.RunTypeTrail
	case strings.Contains(sub, "virtual"):
		return types.RunTypeVirtual
	default:
		return types.RunTypeOutdoor
	}
}

// FromAPIRecord converts a polled-API record into a canonical Activity.
// Distance already arrives in meters and speed in m/s; cadence is per
// leg like the file source.
func FromAPIRecord(r *types.APIRecord) *types.Activity {
	rawType := r.SportType
	if rawType == "" {
		rawType = r.Type
	}

	a := &types.Activity{
		ID:             uuid.NewString(),
		ExternalID:     r.ID,
		Name:           r.Name,
		Description:    r.Description,
		RawType:        rawType,
		Category:       CategoryFor(rawType),
		StartTime:      r.StartDate,
		MovingTimeSec:  r.MovingTime,
		ElapsedTimeSec: r.ElapsedTime,
		DistanceMeters: r.Distance,
		ElevGainMeters: Elevation(r.TotalElevGain),
		AvgHeartRate:   r.AverageHeartrate,
		MaxHeartRate:   r.MaxHeartrate,
		AvgSpeedMs:     r.AverageSpeed,
		MaxSpeedMs:     r.MaxSpeed,
		PaceMinPerKm:   PaceFromMs(r.AverageSpeed),
		CadenceSPM:     Cadence(r.AverageCadence),
		AvgWatts:       r.AverageWatts,
		MaxWatts:       r.MaxWatts,
		Calories:       r.Calories,
		SufferScore:    r.SufferScore,
		GearID:         r.GearID,
		MapPolyline:    r.Map.SummaryPolyline,
		HasGPS:         r.Map.SummaryPolyline != "",
		Laps:           normalizeAPILaps(r.Laps),
		Splits:         normalizeAPISplits(r.SplitsMetric),
		BestEfforts:    normalizeAPIBestEfforts(r.BestEfforts),
		Source:         types.SourceStrava,
	}
	if a.Category == types.CategoryRunning {
		a.RunType = apiRunType(r)
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	return a
}

func normalizeAPILaps(laps []types.APILap) []types.Lap {
	if len(laps) == 0 {
		return nil
	}
	out := make([]types.Lap, 0, len(laps))
	for _, l := range laps {
		out = append(out, types.Lap{
			StartTime:      l.StartDate,
			ElapsedSec:     l.ElapsedTime,
			MovingSec:      l.MovingTime,
			DistanceMeters: l.Distance,
			AvgSpeedMs:     l.AverageSpeed,
			AvgHeartRate:   l.AverageHeartrate,
			MaxHeartRate:   l.MaxHeartrate,
			CadenceSPM:     Cadence(l.AverageCadence),
			AvgWatts:       l.AverageWatts,
		})
	}
	return out
}

func normalizeAPISplits(splits []types.APISplit) []types.Split {
	if len(splits) == 0 {
		return nil
	}
	out := make([]types.Split, 0, len(splits))
	for _, s := range splits {
		out = append(out, types.Split{
			Index:          s.Split,
			DistanceMeters: s.Distance,
			ElapsedSec:     s.ElapsedTime,
			ElevDiffMeters: s.ElevationDifference,
			AvgSpeedMs:     s.AverageSpeed,
			AvgHeartRate:   s.AverageHeartrate,
		})
	}
	return out
}

func normalizeAPIBestEfforts(efforts []types.APIBestEffort) []types.BestEffort {
	if len(efforts) == 0 {
		return nil
	}
	out := make([]types.BestEffort, 0, len(efforts))
	for _, e := range efforts {
		out = append(out, types.BestEffort{
			Name:           e.Name,
			DistanceMeters: e.Distance,
			ElapsedSec:     e.ElapsedTime,
		})
	}
	return out
}

func apiRunType(r *types.APIRecord) types.RunType {
	raw := strings.ToLower(r.SportType + " " + r.Type)
	switch {
	case strings.Contains(raw, "virtual"):
		return types.RunTypeVirtual
	case strings.Contains(raw, "trail"):
		return types.RunTypeTrail
	case r.Trainer:
		return types.RunTypeTreadmill
	default:
		return types.RunTypeOutdoor
	}
}
