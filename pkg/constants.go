package shared

const (
	ProjectID = "fitness-dashboard" // Can be overridden by env var in main if needed

	TopicActivityIngested = "topic-activity-ingested"
	TopicSyncCompleted    = "topic-sync-completed"
	TopicSyncTrigger      = "topic-sync-trigger"

	CollectionAthletes   = "athletes"
	CollectionActivities = "activities"
	CollectionGoals      = "goals"

	// DefaultAthleteID is the single-athlete document id. Callers still
	// pass it explicitly so a second athlete never needs a redesign.
	DefaultAthleteID = "default"
)
