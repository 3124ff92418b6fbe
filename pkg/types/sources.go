package types

import "time"

// FileRecord is the decode output of an uploaded FIT or GPX file before
// normalization. Field units are source-native: the binary format family
// reports distance in kilometers, speed in km/h and cadence per leg, so
// the normalizer owns every unit decision in one place.
type FileRecord struct {
	Format    string // "fit" or "gpx"
	Name      string
	Sport     string
	SubSport  string
	StartTime time.Time

	DurationSec   float64
	DistanceKm    float64
	AvgSpeedKmh   float64
	MaxSpeedKmh   float64
	AvgHeartRate  float64
	MaxHeartRate  float64
	CadencePerLeg float64
	// Elevation unit is ambiguous in the wild (some devices emit km);
	// the normalizer applies the documented heuristic.
	ElevGain float64
	ElevLoss float64
	Calories float64

	Indoor bool
	HasGPS bool

	Laps   []FileLap
	Points []Point
}

// FileLap is a raw per-lap summary from a file source. Distance may be
// in kilometers or meters depending on device firmware; normalized later.
type FileLap struct {
	StartTime     time.Time
	DurationSec   float64
	Distance      float64
	AvgSpeedKmh   float64
	AvgHeartRate  float64
	CadencePerLeg float64
}

// APIRecord is a polled-API activity as the upstream returns it: JSON
// tags match the Strava wire shape. Distance arrives in meters, speed in
// m/s, run cadence per leg. Detail-only fields (laps, splits, best
// efforts, description, calories) are populated only by the per-activity
// detail call.
type APIRecord struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Type             string    `json:"type"`
	SportType        string    `json:"sport_type"`
	StartDate        time.Time `json:"start_date"`
	Distance         float64   `json:"distance"`
	MovingTime       int       `json:"moving_time"`
	ElapsedTime      int       `json:"elapsed_time"`
	TotalElevGain    float64   `json:"total_elevation_gain"`
	AverageSpeed     float64   `json:"average_speed"`
	MaxSpeed         float64   `json:"max_speed"`
	AverageCadence   float64   `json:"average_cadence"`
	AverageHeartrate float64   `json:"average_heartrate"`
	MaxHeartrate     float64   `json:"max_heartrate"`
	AverageWatts     float64   `json:"average_watts"`
	MaxWatts         float64   `json:"max_watts"`
	Calories         float64   `json:"calories"`
	SufferScore      float64   `json:"suffer_score"`
	GearID           string    `json:"gear_id"`
	Trainer          bool      `json:"trainer"`
	Map              APIMap    `json:"map"`

	Laps         []APILap        `json:"laps"`
	SplitsMetric []APISplit      `json:"splits_metric"`
	BestEfforts  []APIBestEffort `json:"best_efforts"`
}

type APIMap struct {
	SummaryPolyline string `json:"summary_polyline"`
}

type APILap struct {
	Name             string    `json:"name"`
	StartDate        time.Time `json:"start_date"`
	ElapsedTime      float64   `json:"elapsed_time"`
	MovingTime       float64   `json:"moving_time"`
	Distance         float64   `json:"distance"`
	AverageSpeed     float64   `json:"average_speed"`
	AverageCadence   float64   `json:"average_cadence"`
	AverageHeartrate float64   `json:"average_heartrate"`
	MaxHeartrate     float64   `json:"max_heartrate"`
	AverageWatts     float64   `json:"average_watts"`
}

type APISplit struct {
	Split               int     `json:"split"`
	Distance            float64 `json:"distance"`
	ElapsedTime         float64 `json:"elapsed_time"`
	ElevationDifference float64 `json:"elevation_difference"`
	AverageSpeed        float64 `json:"average_speed"`
	AverageHeartrate    float64 `json:"average_heartrate"`
}

type APIBestEffort struct {
	Name        string  `json:"name"`
	Distance    float64 `json:"distance"`
	ElapsedTime float64 `json:"elapsed_time"`
}
