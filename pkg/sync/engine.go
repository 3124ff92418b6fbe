// Package sync pulls the athlete's activity history from the provider
// API and reconciles it with the local store. A run is a summary sweep
// (paginated list, cheap) followed by a detail-enrichment pass bounded
// by a per-run request budget.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	shared "github.com/neotrasher/fitness-dashboard/pkg"
	"github.com/neotrasher/fitness-dashboard/pkg/domain/classifier"
	"github.com/neotrasher/fitness-dashboard/pkg/domain/merge"
	"github.com/neotrasher/fitness-dashboard/pkg/domain/units"
	infrapubsub "github.com/neotrasher/fitness-dashboard/pkg/infrastructure/pubsub"
	"github.com/neotrasher/fitness-dashboard/pkg/integrations/strava"
	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

// Client is the provider surface the engine needs; *strava.Client
// satisfies it.
type Client interface {
	ListActivities(ctx context.Context, params strava.ListActivitiesParams) ([]types.APIRecord, error)
	GetActivity(ctx context.Context, activityID int64) (*types.APIRecord, error)
}

// Options tune a run. Zero values get sane defaults.
type Options struct {
	AthleteID string
	PerPage   int
	// DetailBudget caps detail fetches per run; the backlog drains over
	// successive runs via the Remaining counter in the report.
	DetailBudget int
	// RequestDelay spaces consecutive upstream requests.
	RequestDelay time.Duration
}

// Engine orchestrates one synchronization run.
type Engine struct {
	db     shared.Database
	client Client
	pub    shared.Publisher
	logger *slog.Logger
	opts   Options
}

func NewEngine(db shared.Database, client Client, pub shared.Publisher, logger *slog.Logger, opts Options) *Engine {
	if opts.AthleteID == "" {
		opts.AthleteID = shared.DefaultAthleteID
	}
	if opts.PerPage <= 0 {
		opts.PerPage = 50
	}
	if opts.DetailBudget <= 0 {
		opts.DetailBudget = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{db: db, client: client, pub: pub, logger: logger, opts: opts}
}

// Run executes one full sync. A provider rate limit is not an error:
// the run halts with whatever progress it made and the report flags it
// so the scheduler backs off until the next window.
func (e *Engine) Run(ctx context.Context) (*types.SyncReport, error) {
	report := &types.SyncReport{}

	if err := e.sweepSummaries(ctx, report); err != nil {
		return nil, err
	}
	if !report.RateLimited {
		if err := e.enrichDetails(ctx, report); err != nil {
			return nil, err
		}
	}

	remaining, err := e.db.CountActivitiesNeedingDetail(ctx, e.opts.AthleteID)
	if err != nil {
		return nil, fmt.Errorf("count detail backlog: %w", err)
	}
	report.Remaining = remaining

	if err := e.db.UpdateAthlete(ctx, e.opts.AthleteID, map[string]interface{}{
		"last_sync_at": time.Now(),
	}); err != nil {
		e.logger.Warn("Failed to record sync time", "error", err)
	}

	e.publishCompleted(ctx, report)
	e.logger.Info("Sync run finished",
		"processed", report.Processed,
		"created", report.Created,
		"updated", report.Updated,
		"merged", report.Merged,
		"enriched", report.Enriched,
		"remaining", report.Remaining,
		"rate_limited", report.RateLimited,
	)
	return report, nil
}

// sweepSummaries walks the paginated activity list until the provider
// returns an empty page.
func (e *Engine) sweepSummaries(ctx context.Context, report *types.SyncReport) error {
	for page := 1; ; page++ {
		if page > 1 {
			if err := e.pause(ctx); err != nil {
				return err
			}
		}

		records, err := e.client.ListActivities(ctx, strava.ListActivitiesParams{
			Page:    page,
			PerPage: e.opts.PerPage,
		})
		if errors.Is(err, strava.ErrRateLimited) {
			e.logger.Warn("Rate limited during summary sweep", "page", page)
			report.RateLimited = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("list activities page %d: %w", page, err)
		}
		if len(records) == 0 {
			return nil
		}

		for i := range records {
			if err := e.reconcile(ctx, &records[i], report); err != nil {
				return err
			}
			report.Processed++
		}
	}
}

// reconcile lands one API summary in the store: merged with a matching
// file upload, layered onto a previous sync's document, or created.
func (e *Engine) reconcile(ctx context.Context, record *types.APIRecord, report *types.SyncReport) error {
	incoming := units.FromAPIRecord(record)
	incoming.WorkoutType = classifier.New().Classify(incoming)

	existing, err := e.db.GetActivityByExternalID(ctx, e.opts.AthleteID, incoming.ExternalID)
	if err != nil {
		return fmt.Errorf("lookup activity %d: %w", incoming.ExternalID, err)
	}

	switch {
	case existing != nil && existing.Source == types.SourceMerged:
		// Merge is idempotent, so re-applying the API layer over the
		// stored merge refreshes metadata without duplicating anything.
		merged := merge.Merge(existing, incoming)
		merged.HasDetail = existing.HasDetail
		merged.CreatedAt = existing.CreatedAt
		if _, err := e.db.UpsertActivity(ctx, e.opts.AthleteID, merged); err != nil {
			return fmt.Errorf("update merged activity %s: %w", merged.ID, err)
		}
		report.Updated++

	case existing != nil:
		incoming.ID = existing.ID
		incoming.HasDetail = existing.HasDetail
		if existing.HasDetail {
			// Summaries lack detail payloads; keep what enrichment
			// already fetched.
			incoming.Laps = existing.Laps
			incoming.Splits = existing.Splits
			incoming.BestEfforts = existing.BestEfforts
			incoming.Description = existing.Description
			incoming.WorkoutType = existing.WorkoutType
		}
		if _, err := e.db.UpsertActivity(ctx, e.opts.AthleteID, incoming); err != nil {
			return fmt.Errorf("update activity %s: %w", incoming.ID, err)
		}
		report.Updated++

	default:
		fileUpload, err := e.db.FindFileUploadNear(ctx, e.opts.AthleteID, incoming.StartTime, merge.MatchWindow)
		if err != nil {
			return fmt.Errorf("match file upload: %w", err)
		}
		if fileUpload != nil && merge.Matches(fileUpload, incoming) {
			merged := merge.Merge(fileUpload, incoming)
			if _, err := e.db.UpsertActivity(ctx, e.opts.AthleteID, merged); err != nil {
				return fmt.Errorf("write merged activity %s: %w", merged.ID, err)
			}
			report.Merged++
			return nil
		}
		if _, err := e.db.UpsertActivity(ctx, e.opts.AthleteID, incoming); err != nil {
			return fmt.Errorf("create activity %s: %w", incoming.ID, err)
		}
		report.Created++
	}
	return nil
}

// enrichDetails spends the per-run budget fetching full payloads for
// activities that only have summary data.
func (e *Engine) enrichDetails(ctx context.Context, report *types.SyncReport) error {
	pending, err := e.db.ListActivitiesNeedingDetail(ctx, e.opts.AthleteID, e.opts.DetailBudget)
	if err != nil {
		return fmt.Errorf("list detail backlog: %w", err)
	}

	for i := range pending {
		stored := &pending[i]
		if err := e.pause(ctx); err != nil {
			return err
		}

		record, err := e.client.GetActivity(ctx, stored.ExternalID)
		if errors.Is(err, strava.ErrRateLimited) {
			e.logger.Warn("Rate limited during enrichment", "activity_id", stored.ID)
			report.RateLimited = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("fetch detail %d: %w", stored.ExternalID, err)
		}
		if record == nil {
			// Upstream has no detail for this activity; leave it
			// unenriched rather than recording an empty payload.
			e.logger.Warn("No detail available upstream", "activity_id", stored.ID, "external_id", stored.ExternalID)
			continue
		}

		full := units.FromAPIRecord(record)
		full.WorkoutType = classifier.New().Classify(full)

		err = e.db.UpdateActivity(ctx, e.opts.AthleteID, stored.ID, map[string]interface{}{
			"description":  full.Description,
			"calories":     full.Calories,
			"laps":         full.Laps,
			"splits":       full.Splits,
			"best_efforts": full.BestEfforts,
			"map_polyline": full.MapPolyline,
			"workout_type": string(full.WorkoutType),
			"has_detail":   true,
			"updated_at":   time.Now(),
		})
		if err != nil {
			return fmt.Errorf("store detail %s: %w", stored.ID, err)
		}
		report.Enriched++
	}
	return nil
}

// pause waits the configured inter-request delay, bailing out early if
// the context dies.
func (e *Engine) pause(ctx context.Context) error {
	if e.opts.RequestDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(e.opts.RequestDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (e *Engine) publishCompleted(ctx context.Context, report *types.SyncReport) {
	evt, err := infrapubsub.NewCloudEvent(infrapubsub.SourceSyncEngine, infrapubsub.EventTypeSyncCompleted, report)
	if err != nil {
		e.logger.Warn("Failed to build sync event", "error", err)
		return
	}
	if _, err := e.pub.PublishCloudEvent(ctx, shared.TopicSyncCompleted, evt); err != nil {
		e.logger.Warn("Failed to publish sync event", "error", err)
	}
}
