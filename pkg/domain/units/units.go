// Package units converts source-native fields into the canonical unit
// set: meters, seconds, m/s, minutes per km, full-body steps per minute.
// Every unit rule lives here so the decoders stay purely structural.
package units

import (
	"strings"

	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

const (
	// elevationKmThreshold: elevation values under this are assumed to be
	// kilometers and rescaled to meters. Heuristic, not a format
	// guarantee; some device firmwares emit ascent in km.
	elevationKmThreshold = 10.0

	// lapKmThreshold: lap distances under this are assumed to be
	// kilometers. Same caveat as above.
	lapKmThreshold = 50.0

	minutesPerHour = 60.0
)

// Cadence canonicalizes a per-leg cadence to full-body steps per minute.
// Both the binary-file source and the polled API report per-leg values.
func Cadence(perLeg float64) float64 {
	return perLeg * 2
}

// DistanceKmToMeters converts a file-source distance (km) to meters.
func DistanceKmToMeters(km float64) float64 {
	return km * 1000
}

// Elevation resolves the ambiguous elevation unit: values under 10 are
// treated as kilometers, values at or above 10 as meters.
func Elevation(v float64) float64 {
	if v > 0 && v < elevationKmThreshold {
		return v * 1000
	}
	return v
}

// LapDistanceMeters resolves a file-source lap distance that may be in
// kilometers or meters.
func LapDistanceMeters(v float64) float64 {
	if v > 0 && v < lapKmThreshold {
		return v * 1000
	}
	return v
}

// PaceFromKmh converts a km/h speed to minutes per km.
// Zero speed yields zero pace ("unknown", not infinite).
func PaceFromKmh(kmh float64) float64 {
	if kmh <= 0 {
		return 0
	}
	return minutesPerHour / kmh
}

// PaceFromMs converts an m/s speed to minutes per km.
func PaceFromMs(ms float64) float64 {
	if ms <= 0 {
		return 0
	}
	return PaceFromKmh(ms * 3.6)
}

// KmhToMs converts km/h to m/s.
func KmhToMs(kmh float64) float64 {
	return kmh / 3.6
}

// categoryRule maps raw-type keywords to a canonical category. The table
// is ordered: the first rule whose keyword appears in the raw string
// wins.
type categoryRule struct {
	keywords []string
	category types.Category
}

var categoryRules = []categoryRule{
	{[]string{"run", "treadmill"}, types.CategoryRunning},
	{[]string{"cycling", "ride", "bike"}, types.CategoryCycling},
	{[]string{"strength", "weight", "workout"}, types.CategoryStrength},
	{[]string{"swim"}, types.CategorySwimming},
	{[]string{"walk", "hike"}, types.CategoryWalking},
}

// CategoryFor maps a free-text activity-type string to the canonical
// category by case-insensitive substring match. Unrecognized strings map
// to "other".
func CategoryFor(rawType string) types.Category {
	lower := strings.ToLower(rawType)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return types.CategoryOther
}
