package syncfn

import (
	"context"
	"fmt"
	"log/slog"
	esync "sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"

	shared "github.com/neotrasher/fitness-dashboard/pkg"
	"github.com/neotrasher/fitness-dashboard/pkg/bootstrap"
	"github.com/neotrasher/fitness-dashboard/pkg/framework"
	"github.com/neotrasher/fitness-dashboard/pkg/infrastructure/oauth"
	"github.com/neotrasher/fitness-dashboard/pkg/integrations/strava"
	"github.com/neotrasher/fitness-dashboard/pkg/sync"
)

var (
	svc     *bootstrap.Service
	svcOnce esync.Once
	svcErr  error
)

func init() {
	functions.CloudEvent("SyncActivities", SyncActivities)
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

// SyncActivities is the entry point, triggered by the scheduler topic.
func SyncActivities(ctx context.Context, e event.Event) error {
	svc, err := initService(ctx)
	if err != nil {
		return fmt.Errorf("service init failed: %v", err)
	}
	return framework.WrapCloudEvent("sync", svc, syncHandler(nil))(ctx, e)
}

// syncHandler contains the business logic.
// client can be injected for testing; if nil, an OAuth-backed Strava client
// is built from the athlete's stored credentials.
func syncHandler(client sync.Client) framework.HandlerFunc {
	return func(ctx context.Context, e event.Event, fwCtx *framework.FrameworkContext) (interface{}, error) {
		cfg := fwCtx.Service.Config

		if client == nil {
			oauthCfg := oauth.NewStravaConfig(cfg.StravaClientID, cfg.StravaClientSecret)
			source := oauth.NewFirestoreTokenSource(fwCtx.Service.DB, shared.DefaultAthleteID, oauthCfg)
			httpClient := oauth.NewClient(source, fwCtx.Service.DB, shared.DefaultAthleteID)
			client = strava.NewClient(httpClient)
		}

		engine := sync.NewEngine(fwCtx.Service.DB, client, fwCtx.Service.Pub, fwCtx.Logger, sync.Options{
			DetailBudget: cfg.SyncDetailBudget,
			RequestDelay: cfg.SyncRequestDelay,
		})

		report, err := engine.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("sync run failed: %w", err)
		}

		return map[string]interface{}{
			"processed":    report.Processed,
			"created":      report.Created,
			"updated":      report.Updated,
			"merged":       report.Merged,
			"enriched":     report.Enriched,
			"remaining":    report.Remaining,
			"rate_limited": report.RateLimited,
		}, nil
	}
}
