package types

import "time"

// CategoryStats is the per-category rollup over a period. AvgHeartRate
// and AvgPaceMinPerKm are averaged only over activities with a positive
// value for the field; an empty partition is all zeros.
type CategoryStats struct {
	Count            int     `json:"count"`
	DistanceMeters   float64 `json:"distance_meters"`
	DurationSec      float64 `json:"duration_sec"`
	Calories         float64 `json:"calories"`
	AvgHeartRate     float64 `json:"avg_heart_rate"`
	AvgPaceMinPerKm  float64 `json:"avg_pace_min_per_km"`
	SessionsPerWeek  float64 `json:"sessions_per_week"`
	DistancePerWeekM float64 `json:"distance_per_week_m"`
}

// Trend classifications produced by the split-half comparison.
const (
	TrendImproving        = "improving"
	TrendDeclining        = "declining"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// RacePrediction is one predicted or recorded race time.
type RacePrediction struct {
	Distance string  `json:"distance"` // "5K", "10K", "Half Marathon", "Marathon"
	TimeSec  float64 `json:"time_sec"`
	Source   string  `json:"source"` // "PR" or "derived from <d> PR"
}

// GoalProjection is a goal plus its countdown, for downstream consumers.
type GoalProjection struct {
	Goal      Goal `json:"goal"`
	DaysUntil int  `json:"days_until"`
}

// DetailedSummary is the derived rollup for a period window. It is
// recomputed on every query and never persisted.
type DetailedSummary struct {
	PeriodStart time.Time                  `json:"period_start"`
	PeriodEnd   time.Time                  `json:"period_end"`
	Weeks       float64                    `json:"weeks"`
	Categories  map[Category]CategoryStats `json:"categories"`
	Trend       string                     `json:"trend"`
	Predictions []RacePrediction           `json:"predictions"`
}

// SyncReport summarises one sync run so a scheduler can decide whether
// to re-invoke.
type SyncReport struct {
	Processed   int  `json:"processed"`
	Created     int  `json:"created"`
	Updated     int  `json:"updated"`
	Merged      int  `json:"merged"`
	Enriched    int  `json:"enriched"`
	Remaining   int  `json:"remaining"`
	RateLimited bool `json:"rate_limited"`
}
