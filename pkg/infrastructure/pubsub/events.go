package pubsub

import (
	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// CloudEvent types emitted by the pipeline.
const (
	EventTypeActivityIngested = "dev.neotrasher.fitness.activity.ingested"
	EventTypeSyncCompleted    = "dev.neotrasher.fitness.sync.completed"
	EventTypeSyncTrigger      = "dev.neotrasher.fitness.sync.trigger"
)

// CloudEvent sources.
const (
	SourceUploadHandler = "//fitness-dashboard/upload-handler"
	SourceSyncEngine    = "//fitness-dashboard/sync-engine"
	SourceScheduler     = "//fitness-dashboard/scheduler"
)

// NewCloudEvent creates a standardized CloudEvent v1.0
func NewCloudEvent(source, eventType string, data interface{}) (cloudevents.Event, error) {
	e := cloudevents.NewEvent()
	e.SetSpecVersion("1.0")
	e.SetType(eventType)
	e.SetSource(source)

	if err := e.SetData(cloudevents.ApplicationJSON, data); err != nil {
		return e, err
	}

	return e, nil
}
