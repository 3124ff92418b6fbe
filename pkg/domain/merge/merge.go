// Package merge reconciles the same physical workout recorded by two
// sources: a device file upload and the provider API. Sensor-derived
// fields are trusted from the file, curated metadata from the API.
package merge

import (
	"time"

	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

// MatchWindow is the maximum start-time difference for two records to
// be considered the same workout.
const MatchWindow = 2 * time.Minute

// Matches reports whether two activities describe the same workout:
// start times within the match window of each other. Category is
// deliberately not compared; the two sources derive it from different
// free-text fields and a single athlete does not record two real
// activities two minutes apart.
func Matches(fileUpload, api *types.Activity) bool {
	diff := fileUpload.StartTime.Sub(api.StartTime)
	if diff < 0 {
		diff = -diff
	}
	return diff <= MatchWindow
}

// Merge combines a file-upload activity with its API counterpart into
// a single canonical record. The operation replaces fields rather than
// accumulating them, so merging the same API record twice yields the
// same result.
//
// Precedence:
//   - device sensors (points, heart rate, cadence, power, speeds,
//     distance, elevation, calories, timing) come from the file;
//   - curated metadata (name, description, gear, map polyline, splits,
//     best efforts, suffer score, external identity) comes from the API;
//   - laps come from the file unless the file carries at most one lap
//     while the API carries a real lap structure.
func Merge(fileUpload, api *types.Activity) *types.Activity {
	merged := *fileUpload
	merged.Source = types.SourceMerged

	// API-side identity and metadata.
	merged.ExternalID = api.ExternalID
	merged.Name = api.Name
	merged.Description = api.Description
	merged.RawType = api.RawType
	merged.GearID = api.GearID
	merged.MapPolyline = api.MapPolyline
	merged.SufferScore = api.SufferScore
	merged.Splits = api.Splits
	merged.BestEfforts = api.BestEfforts

	// A file whose sport field could not be mapped defers to the API's
	// category rather than pinning the merged record to "other".
	if merged.Category == types.CategoryOther && api.Category != types.CategoryOther {
		merged.Category = api.Category
	}

	// Fields only one side may have observed.
	if merged.AvgWatts == 0 {
		merged.AvgWatts = api.AvgWatts
	}
	if merged.MaxWatts == 0 {
		merged.MaxWatts = api.MaxWatts
	}
	if merged.Calories == 0 {
		merged.Calories = api.Calories
	}
	merged.HasGPS = fileUpload.HasGPS || api.HasGPS

	// Device laps are authoritative except when the watch recorded the
	// whole session as a single lap and the provider segmented it.
	if len(fileUpload.Laps) <= 1 && len(api.Laps) > 1 {
		merged.Laps = api.Laps
	}

	merged.HasDetail = fileUpload.HasDetail || api.HasDetail
	return &merged
}
