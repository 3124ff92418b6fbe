package uploadfn

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"

	shared "github.com/neotrasher/fitness-dashboard/pkg"
	"github.com/neotrasher/fitness-dashboard/pkg/bootstrap"
	"github.com/neotrasher/fitness-dashboard/pkg/framework"
	"github.com/neotrasher/fitness-dashboard/pkg/types"
	"github.com/neotrasher/fitness-dashboard/pkg/upload"
)

var (
	svc     *bootstrap.Service
	svcOnce sync.Once
	svcErr  error
)

func init() {
	functions.CloudEvent("IngestUpload", IngestUpload)
}

func initService(ctx context.Context) (*bootstrap.Service, error) {
	if svc != nil {
		return svc, nil
	}
	svcOnce.Do(func() {
		baseSvc, err := bootstrap.NewService(ctx)
		if err != nil {
			slog.Error("Failed to initialize service", "error", err)
			svcErr = err
			return
		}
		svc = baseSvc
	})
	return svc, svcErr
}

// IngestUpload is the entry point, triggered when an activity file lands in
// the upload bucket.
func IngestUpload(ctx context.Context, e event.Event) error {
	svc, err := initService(ctx)
	if err != nil {
		return fmt.Errorf("service init failed: %v", err)
	}
	return framework.WrapCloudEvent("upload", svc, ingestHandler)(ctx, e)
}

func ingestHandler(ctx context.Context, e event.Event, fwCtx *framework.FrameworkContext) (interface{}, error) {
	var obj types.StorageObjectData
	if err := e.DataAs(&obj); err != nil {
		return nil, fmt.Errorf("event.DataAs: %v", err)
	}
	if obj.Name == "" {
		return nil, fmt.Errorf("storage event missing object name")
	}

	bucket := obj.Bucket
	if bucket == "" {
		bucket = fwCtx.Service.Config.GCSUploadBucket
	}

	ingestor := upload.NewIngestor(
		fwCtx.Service.DB,
		fwCtx.Service.Store,
		fwCtx.Service.Pub,
		fwCtx.Logger,
		bucket,
		shared.DefaultAthleteID,
	)

	activity, err := ingestor.IngestObject(ctx, obj.Name)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"activity_id": activity.ID,
		"category":    activity.Category,
		"source":      activity.Source,
		"object":      obj.Name,
	}, nil
}
