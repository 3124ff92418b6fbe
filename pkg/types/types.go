// Package types holds the canonical domain model shared across the
// ingestion pipeline, the persistence adapter and the stats engine.
// All source-specific optionality is resolved at the decode boundary:
// once a record becomes an Activity its fields are plain values, with
// zero meaning "unknown" for metrics (see stats selective averaging).
package types

import "time"

// Category is the unified activity taxonomy.
type Category string

const (
	CategoryRunning  Category = "running"
	CategoryCycling  Category = "cycling"
	CategoryStrength Category = "strength"
	CategorySwimming Category = "swimming"
	CategoryWalking  Category = "walking"
	CategoryOther    Category = "other"
)

// RunType is the running sub-type, set only for running activities.
type RunType string

const (
	RunTypeOutdoor   RunType = "outdoor"
	RunTypeTreadmill RunType = "treadmill"
	RunTypeTrail     RunType = "trail"
	RunTypeVirtual   RunType = "virtual"
)

// WorkoutType describes the training intent of a run.
type WorkoutType string

const (
	WorkoutIntervals WorkoutType = "intervals"
	WorkoutTempo     WorkoutType = "tempo"
	WorkoutLongRun   WorkoutType = "long_run"
	WorkoutEasy      WorkoutType = "easy"
	WorkoutRecovery  WorkoutType = "recovery"
	WorkoutRace      WorkoutType = "race"
	WorkoutFartlek   WorkoutType = "fartlek"
	WorkoutGeneral   WorkoutType = "general"
)

// Source records which ingestion path produced an Activity.
type Source string

const (
	SourceFileUpload Source = "file_upload"
	SourceStrava     Source = "strava"
	SourceMerged     Source = "merged"
)

// Lap is a per-lap summary, device-recorded or API-provided.
type Lap struct {
	StartTime      time.Time `firestore:"start_time"`
	ElapsedSec     float64   `firestore:"elapsed_sec"`
	MovingSec      float64   `firestore:"moving_sec"`
	DistanceMeters float64   `firestore:"distance_meters"`
	AvgSpeedMs     float64   `firestore:"avg_speed_ms"`
	AvgHeartRate   float64   `firestore:"avg_heart_rate"`
	MaxHeartRate   float64   `firestore:"max_heart_rate"`
	CadenceSPM     float64   `firestore:"cadence_spm"`
	AvgWatts       float64   `firestore:"avg_watts"`
}

// Split is a fixed-distance interval summary (per km).
type Split struct {
	Index          int     `firestore:"index"`
	DistanceMeters float64 `firestore:"distance_meters"`
	ElapsedSec     float64 `firestore:"elapsed_sec"`
	ElevDiffMeters float64 `firestore:"elev_diff_meters"`
	AvgSpeedMs     float64 `firestore:"avg_speed_ms"`
	AvgHeartRate   float64 `firestore:"avg_heart_rate"`
}

// BestEffort is a named-distance personal-best fragment inside one activity.
type BestEffort struct {
	Name           string  `firestore:"name"`
	DistanceMeters float64 `firestore:"distance_meters"`
	ElapsedSec     float64 `firestore:"elapsed_sec"`
}

// Point is one time-series sensor/position sample.
type Point struct {
	Time           time.Time `firestore:"time"`
	Lat            float64   `firestore:"lat"`
	Lon            float64   `firestore:"lon"`
	AltitudeMeters float64   `firestore:"altitude_meters"`
	HeartRate      float64   `firestore:"heart_rate"`
	CadenceSPM     float64   `firestore:"cadence_spm"`
	SpeedMs        float64   `firestore:"speed_ms"`
	Watts          float64   `firestore:"watts"`
	DistanceMeters float64   `firestore:"distance_meters"`
}

// Activity is the canonical entity persisted for every workout,
// regardless of which source produced it. Units are canonical:
// meters, seconds, m/s, min/km, full-body steps per minute.
type Activity struct {
	ID         string `firestore:"id"`
	ExternalID int64  `firestore:"external_id"` // 0 = no upstream id

	Name        string      `firestore:"name"`
	Description string      `firestore:"description"`
	RawType     string      `firestore:"raw_type"`
	Category    Category    `firestore:"category"`
	RunType     RunType     `firestore:"run_type,omitempty"`
	WorkoutType WorkoutType `firestore:"workout_type,omitempty"`

	StartTime      time.Time `firestore:"start_time"`
	MovingTimeSec  int       `firestore:"moving_time_sec"`
	ElapsedTimeSec int       `firestore:"elapsed_time_sec"`

	DistanceMeters float64 `firestore:"distance_meters"`
	ElevGainMeters float64 `firestore:"elev_gain_meters"`
	ElevLossMeters float64 `firestore:"elev_loss_meters"`
	AvgHeartRate   float64 `firestore:"avg_heart_rate"`
	MaxHeartRate   float64 `firestore:"max_heart_rate"`
	AvgSpeedMs     float64 `firestore:"avg_speed_ms"`
	MaxSpeedMs     float64 `firestore:"max_speed_ms"`
	PaceMinPerKm   float64 `firestore:"pace_min_per_km"`
	CadenceSPM     float64 `firestore:"cadence_spm"`
	AvgWatts       float64 `firestore:"avg_watts"`
	MaxWatts       float64 `firestore:"max_watts"`
	Calories       float64 `firestore:"calories"`
	SufferScore    float64 `firestore:"suffer_score"`

	GearID      string `firestore:"gear_id"`
	MapPolyline string `firestore:"map_polyline"`
	HasGPS      bool   `firestore:"has_gps"`

	Laps        []Lap        `firestore:"laps"`
	Splits      []Split      `firestore:"splits"`
	BestEfforts []BestEffort `firestore:"best_efforts"`
	Points      []Point      `firestore:"points"`

	Source    Source    `firestore:"source"`
	HasDetail bool      `firestore:"has_detail"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// IsRunning reports whether the activity counts toward running stats.
func (a *Activity) IsRunning() bool {
	return a.Category == CategoryRunning
}

// GoalTier distinguishes the headline race from stepping-stone races.
type GoalTier string

const (
	GoalTierPrimary      GoalTier = "primary"
	GoalTierIntermediate GoalTier = "intermediate"
)

// Goal is a user-declared target race. The pipeline never mutates goals;
// they are read-only input to predictions and coaching.
type Goal struct {
	ID               string    `firestore:"id"`
	Name             string    `firestore:"name"`
	Tier             GoalTier  `firestore:"tier"`
	RaceType         string    `firestore:"race_type"`
	TargetDistanceKm float64   `firestore:"target_distance_km"`
	TargetDate       time.Time `firestore:"target_date"`
	TargetTime       string    `firestore:"target_time"`
	Completed        bool      `firestore:"completed"`
	CreatedAt        time.Time `firestore:"created_at"`
}

// StravaIntegration holds the athlete's upstream credential state.
type StravaIntegration struct {
	Enabled      bool      `firestore:"enabled"`
	AthleteID    int64     `firestore:"athlete_id"`
	AccessToken  string    `firestore:"access_token"`
	RefreshToken string    `firestore:"refresh_token"`
	ExpiresAt    time.Time `firestore:"expires_at"`
	LastUsedAt   time.Time `firestore:"last_used_at"`
}

// Athlete is the explicit account handle threaded through the pipeline.
// The store holds a single athlete today; keeping it an entity rather
// than a global means multi-account support is an id away.
type Athlete struct {
	ID         string             `firestore:"id"`
	Name       string             `firestore:"name"`
	Strava     *StravaIntegration `firestore:"strava"`
	LastSyncAt time.Time          `firestore:"last_sync_at"`
	CreatedAt  time.Time          `firestore:"created_at"`
}
