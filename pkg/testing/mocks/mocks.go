package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

// --- Mock Database ---
type MockDatabase struct {
	GetAthleteFunc                   func(ctx context.Context, id string) (*types.Athlete, error)
	UpdateAthleteFunc                func(ctx context.Context, id string, data map[string]interface{}) error
	UpsertActivityFunc               func(ctx context.Context, athleteID string, a *types.Activity) (bool, error)
	GetActivityByExternalIDFunc      func(ctx context.Context, athleteID string, externalID int64) (*types.Activity, error)
	ListActivitiesFunc               func(ctx context.Context, athleteID string, from, to time.Time) ([]types.Activity, error)
	ListActivitiesNeedingDetailFunc  func(ctx context.Context, athleteID string, limit int) ([]types.Activity, error)
	CountActivitiesNeedingDetailFunc func(ctx context.Context, athleteID string) (int, error)
	FindFileUploadNearFunc           func(ctx context.Context, athleteID string, start time.Time, window time.Duration) (*types.Activity, error)
	UpdateActivityFunc               func(ctx context.Context, athleteID, activityID string, data map[string]interface{}) error
	DeleteAllActivitiesFunc          func(ctx context.Context, athleteID string) error
	CreateGoalFunc                   func(ctx context.Context, athleteID string, g *types.Goal) error
	GetGoalFunc                      func(ctx context.Context, athleteID, goalID string) (*types.Goal, error)
	ListGoalsFunc                    func(ctx context.Context, athleteID string) ([]types.Goal, error)
	UpdateGoalFunc                   func(ctx context.Context, athleteID, goalID string, data map[string]interface{}) error
	DeleteGoalFunc                   func(ctx context.Context, athleteID, goalID string) error
}

func (m *MockDatabase) GetAthlete(ctx context.Context, id string) (*types.Athlete, error) {
	if m.GetAthleteFunc != nil {
		return m.GetAthleteFunc(ctx, id)
	}
	return nil, fmt.Errorf("athlete not found")
}
func (m *MockDatabase) UpdateAthlete(ctx context.Context, id string, data map[string]interface{}) error {
	if m.UpdateAthleteFunc != nil {
		return m.UpdateAthleteFunc(ctx, id, data)
	}
	return nil
}
func (m *MockDatabase) UpsertActivity(ctx context.Context, athleteID string, a *types.Activity) (bool, error) {
	if m.UpsertActivityFunc != nil {
		return m.UpsertActivityFunc(ctx, athleteID, a)
	}
	return true, nil
}
func (m *MockDatabase) GetActivityByExternalID(ctx context.Context, athleteID string, externalID int64) (*types.Activity, error) {
	if m.GetActivityByExternalIDFunc != nil {
		return m.GetActivityByExternalIDFunc(ctx, athleteID, externalID)
	}
	return nil, nil
}
func (m *MockDatabase) ListActivities(ctx context.Context, athleteID string, from, to time.Time) ([]types.Activity, error) {
	if m.ListActivitiesFunc != nil {
		return m.ListActivitiesFunc(ctx, athleteID, from, to)
	}
	return nil, nil
}
func (m *MockDatabase) ListActivitiesNeedingDetail(ctx context.Context, athleteID string, limit int) ([]types.Activity, error) {
	if m.ListActivitiesNeedingDetailFunc != nil {
		return m.ListActivitiesNeedingDetailFunc(ctx, athleteID, limit)
	}
	return nil, nil
}
func (m *MockDatabase) CountActivitiesNeedingDetail(ctx context.Context, athleteID string) (int, error) {
	if m.CountActivitiesNeedingDetailFunc != nil {
		return m.CountActivitiesNeedingDetailFunc(ctx, athleteID)
	}
	return 0, nil
}
func (m *MockDatabase) FindFileUploadNear(ctx context.Context, athleteID string, start time.Time, window time.Duration) (*types.Activity, error) {
	if m.FindFileUploadNearFunc != nil {
		return m.FindFileUploadNearFunc(ctx, athleteID, start, window)
	}
	return nil, nil
}
func (m *MockDatabase) UpdateActivity(ctx context.Context, athleteID, activityID string, data map[string]interface{}) error {
	if m.UpdateActivityFunc != nil {
		return m.UpdateActivityFunc(ctx, athleteID, activityID, data)
	}
	return nil
}
func (m *MockDatabase) DeleteAllActivities(ctx context.Context, athleteID string) error {
	if m.DeleteAllActivitiesFunc != nil {
		return m.DeleteAllActivitiesFunc(ctx, athleteID)
	}
	return nil
}
func (m *MockDatabase) CreateGoal(ctx context.Context, athleteID string, g *types.Goal) error {
	if m.CreateGoalFunc != nil {
		return m.CreateGoalFunc(ctx, athleteID, g)
	}
	return nil
}
func (m *MockDatabase) GetGoal(ctx context.Context, athleteID, goalID string) (*types.Goal, error) {
	if m.GetGoalFunc != nil {
		return m.GetGoalFunc(ctx, athleteID, goalID)
	}
	return nil, nil
}
func (m *MockDatabase) ListGoals(ctx context.Context, athleteID string) ([]types.Goal, error) {
	if m.ListGoalsFunc != nil {
		return m.ListGoalsFunc(ctx, athleteID)
	}
	return nil, nil
}
func (m *MockDatabase) UpdateGoal(ctx context.Context, athleteID, goalID string, data map[string]interface{}) error {
	if m.UpdateGoalFunc != nil {
		return m.UpdateGoalFunc(ctx, athleteID, goalID, data)
	}
	return nil
}
func (m *MockDatabase) DeleteGoal(ctx context.Context, athleteID, goalID string) error {
	if m.DeleteGoalFunc != nil {
		return m.DeleteGoalFunc(ctx, athleteID, goalID)
	}
	return nil
}

// --- Mock Publisher ---
type MockPublisher struct {
	PublishCloudEventFunc func(ctx context.Context, topic string, e event.Event) (string, error)
	Published             []event.Event
}

func (m *MockPublisher) PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error) {
	m.Published = append(m.Published, e)
	if m.PublishCloudEventFunc != nil {
		return m.PublishCloudEventFunc(ctx, topic, e)
	}
	return "msg-id", nil
}

// --- Mock Storage ---
type MockBlobStore struct {
	WriteFunc  func(ctx context.Context, bucket, object string, data []byte) error
	ReadFunc   func(ctx context.Context, bucket, object string) ([]byte, error)
	DeleteFunc func(ctx context.Context, bucket, object string) error
	Deleted    []string
}

func (m *MockBlobStore) Write(ctx context.Context, bucket, object string, data []byte) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, bucket, object, data)
	}
	return nil
}
func (m *MockBlobStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, bucket, object)
	}
	return []byte("mock-data"), nil
}
func (m *MockBlobStore) Delete(ctx context.Context, bucket, object string) error {
	m.Deleted = append(m.Deleted, bucket+"/"+object)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, bucket, object)
	}
	return nil
}
