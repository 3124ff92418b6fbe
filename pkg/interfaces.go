package shared

import (
	"context"
	"time"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

// --- Persistence Interfaces ---

type Database interface {
	// Athlete (the single account handle today)
	GetAthlete(ctx context.Context, id string) (*types.Athlete, error)
	UpdateAthlete(ctx context.Context, id string, data map[string]interface{}) error

	// Activities
	UpsertActivity(ctx context.Context, athleteID string, a *types.Activity) (created bool, err error)
	GetActivityByExternalID(ctx context.Context, athleteID string, externalID int64) (*types.Activity, error)
	ListActivities(ctx context.Context, athleteID string, from, to time.Time) ([]types.Activity, error)
	ListActivitiesNeedingDetail(ctx context.Context, athleteID string, limit int) ([]types.Activity, error)
	CountActivitiesNeedingDetail(ctx context.Context, athleteID string) (int, error)
	// FindFileUploadNear returns the stored file-upload activity whose
	// start time falls within ±window of start, or nil when none matches.
	FindFileUploadNear(ctx context.Context, athleteID string, start time.Time, window time.Duration) (*types.Activity, error)
	UpdateActivity(ctx context.Context, athleteID, activityID string, data map[string]interface{}) error
	DeleteAllActivities(ctx context.Context, athleteID string) error

	// Goals (user-managed CRUD, read-only to the pipeline)
	CreateGoal(ctx context.Context, athleteID string, g *types.Goal) error
	GetGoal(ctx context.Context, athleteID, goalID string) (*types.Goal, error)
	ListGoals(ctx context.Context, athleteID string) ([]types.Goal, error)
	UpdateGoal(ctx context.Context, athleteID, goalID string, data map[string]interface{}) error
	DeleteGoal(ctx context.Context, athleteID, goalID string) error
}

// --- Messaging Interfaces ---

type Publisher interface {
	PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error)
}

// --- Storage Interfaces ---

type BlobStore interface {
	Write(ctx context.Context, bucket, object string, data []byte) error
	Read(ctx context.Context, bucket, object string) ([]byte, error)
	Delete(ctx context.Context, bucket, object string) error
}
