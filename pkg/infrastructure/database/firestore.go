package database

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	storage "github.com/neotrasher/fitness-dashboard/pkg/storage/firestore"
	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

// FirestoreAdapter provides database operations using Firestore.
// It wraps our typed storage client.
type FirestoreAdapter struct {
	Client  *firestore.Client
	storage *storage.Client
}

func NewFirestoreAdapter(client *firestore.Client) *FirestoreAdapter {
	return &FirestoreAdapter{
		Client:  client,
		storage: storage.NewClient(client),
	}
}

func (a *FirestoreAdapter) GetAthlete(ctx context.Context, id string) (*types.Athlete, error) {
	return a.storage.Athletes().Doc(id).Get(ctx)
}

func (a *FirestoreAdapter) UpdateAthlete(ctx context.Context, id string, data map[string]interface{}) error {
	return a.storage.Athletes().Doc(id).Update(ctx, data)
}

// UpsertActivity writes the activity keyed by its canonical id,
// reporting whether a new document was created. CreatedAt is preserved
// on overwrites.
func (a *FirestoreAdapter) UpsertActivity(ctx context.Context, athleteID string, activity *types.Activity) (bool, error) {
	doc := a.storage.Activities(athleteID).Doc(activity.ID)

	now := time.Now()
	activity.UpdatedAt = now

	existing, err := doc.Get(ctx)
	switch {
	case status.Code(err) == codes.NotFound:
		activity.CreatedAt = now
		return true, doc.Set(ctx, activity)
	case err != nil:
		return false, err
	default:
		activity.CreatedAt = existing.CreatedAt
		return false, doc.Set(ctx, activity)
	}
}

func (a *FirestoreAdapter) GetActivityByExternalID(ctx context.Context, athleteID string, externalID int64) (*types.Activity, error) {
	col := a.storage.Activities(athleteID)
	matches, err := col.Query(ctx, col.Ref.Query.Where("external_id", "==", externalID).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

func (a *FirestoreAdapter) ListActivities(ctx context.Context, athleteID string, from, to time.Time) ([]types.Activity, error) {
	col := a.storage.Activities(athleteID)
	q := col.Ref.Query.
		Where("start_time", ">=", from).
		Where("start_time", "<", to).
		OrderBy("start_time", firestore.Desc)
	return col.Query(ctx, q)
}

func (a *FirestoreAdapter) ListActivitiesNeedingDetail(ctx context.Context, athleteID string, limit int) ([]types.Activity, error) {
	col := a.storage.Activities(athleteID)
	q := col.Ref.Query.
		Where("has_detail", "==", false).
		Where("source", "==", string(types.SourceStrava)).
		Limit(limit)
	return col.Query(ctx, q)
}

func (a *FirestoreAdapter) CountActivitiesNeedingDetail(ctx context.Context, athleteID string) (int, error) {
	// Fetch ids only; detail backlogs are small enough that a count
	// aggregation is not worth the extra API surface.
	col := a.storage.Activities(athleteID)
	q := col.Ref.Query.
		Where("has_detail", "==", false).
		Where("source", "==", string(types.SourceStrava))
	docs, err := q.Select().Documents(ctx).GetAll()
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

func (a *FirestoreAdapter) FindFileUploadNear(ctx context.Context, athleteID string, start time.Time, window time.Duration) (*types.Activity, error) {
	col := a.storage.Activities(athleteID)
	q := col.Ref.Query.
		Where("source", "==", string(types.SourceFileUpload)).
		Where("start_time", ">=", start.Add(-window)).
		Where("start_time", "<=", start.Add(window)).
		Limit(1)
	matches, err := col.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

func (a *FirestoreAdapter) UpdateActivity(ctx context.Context, athleteID, activityID string, data map[string]interface{}) error {
	return a.storage.Activities(athleteID).Doc(activityID).Update(ctx, data)
}

func (a *FirestoreAdapter) DeleteAllActivities(ctx context.Context, athleteID string) error {
	col := a.storage.Activities(athleteID)
	docs, err := col.Ref.Query.Select().Documents(ctx).GetAll()
	if err != nil {
		return err
	}
	for _, snap := range docs {
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("delete activity %s: %w", snap.Ref.ID, err)
		}
	}
	return nil
}

func (a *FirestoreAdapter) CreateGoal(ctx context.Context, athleteID string, g *types.Goal) error {
	doc := a.storage.Goals(athleteID).Doc(g.ID)
	g.CreatedAt = time.Now()
	return doc.Set(ctx, g)
}

// GetGoal returns nil, nil when the goal does not exist.
func (a *FirestoreAdapter) GetGoal(ctx context.Context, athleteID, goalID string) (*types.Goal, error) {
	goal, err := a.storage.Goals(athleteID).Doc(goalID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	return goal, err
}

func (a *FirestoreAdapter) ListGoals(ctx context.Context, athleteID string) ([]types.Goal, error) {
	col := a.storage.Goals(athleteID)
	return col.Query(ctx, col.Ref.Query.OrderBy("target_date", firestore.Asc))
}

func (a *FirestoreAdapter) UpdateGoal(ctx context.Context, athleteID, goalID string, data map[string]interface{}) error {
	return a.storage.Goals(athleteID).Doc(goalID).Update(ctx, data)
}

func (a *FirestoreAdapter) DeleteGoal(ctx context.Context, athleteID, goalID string) error {
	return a.storage.Goals(athleteID).Doc(goalID).Delete(ctx)
}
