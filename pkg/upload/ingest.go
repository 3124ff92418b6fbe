// Package upload ingests device file uploads: a blob lands in the
// upload bucket, gets decoded, normalized, classified and persisted,
// and the temporary blob is removed whether or not decoding succeeded.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	shared "github.com/neotrasher/fitness-dashboard/pkg"
	"github.com/neotrasher/fitness-dashboard/pkg/domain/classifier"
	"github.com/neotrasher/fitness-dashboard/pkg/domain/fit_parser"
	"github.com/neotrasher/fitness-dashboard/pkg/domain/gpx_parser"
	"github.com/neotrasher/fitness-dashboard/pkg/domain/units"
	infrapubsub "github.com/neotrasher/fitness-dashboard/pkg/infrastructure/pubsub"
	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

// Format identifiers returned by DetectFormat.
const (
	FormatFIT     = "fit"
	FormatGPX     = "gpx"
	FormatUnknown = ""
)

// DetectFormat sniffs the file content. FIT files carry ".FIT" at
// header bytes 8-11; GPX is XML with a gpx root element.
func DetectFormat(data []byte) string {
	if len(data) >= 12 && string(data[8:12]) == ".FIT" {
		return FormatFIT
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	if bytes.Contains(head, []byte("<gpx")) {
		return FormatGPX
	}
	return FormatUnknown
}

// Ingestor runs the file-upload pipeline stage.
type Ingestor struct {
	db        shared.Database
	store     shared.BlobStore
	pub       shared.Publisher
	logger    *slog.Logger
	bucket    string
	athleteID string
}

func NewIngestor(db shared.Database, store shared.BlobStore, pub shared.Publisher, logger *slog.Logger, bucket, athleteID string) *Ingestor {
	if athleteID == "" {
		athleteID = shared.DefaultAthleteID
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{db: db, store: store, pub: pub, logger: logger, bucket: bucket, athleteID: athleteID}
}

// IngestObject processes one uploaded blob. The blob is deleted after
// processing even when decoding fails: a malformed file would fail
// identically on every retry, so keeping it only accumulates junk.
func (i *Ingestor) IngestObject(ctx context.Context, objectName string) (*types.Activity, error) {
	data, err := i.store.Read(ctx, i.bucket, objectName)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", objectName, err)
	}

	defer func() {
		if err := i.store.Delete(ctx, i.bucket, objectName); err != nil {
			i.logger.Warn("Failed to delete upload blob", "object", objectName, "error", err)
		}
	}()

	return i.IngestBytes(ctx, objectName, data)
}

// IngestBytes decodes and persists raw file content. The caller owns
// any blob cleanup.
func (i *Ingestor) IngestBytes(ctx context.Context, name string, data []byte) (*types.Activity, error) {
	var record *types.FileRecord
	var err error

	switch DetectFormat(data) {
	case FormatFIT:
		record, err = fit_parser.ParseFitFile(data)
	case FormatGPX:
		record, err = gpx_parser.ParseGPXFile(data)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	activity := units.FromFileRecord(record)
	if activity.Name == "" {
		activity.Name = strings.TrimSuffix(name, "."+record.Format)
	}
	activity.WorkoutType = classifier.New().Classify(activity)

	created, err := i.db.UpsertActivity(ctx, i.athleteID, activity)
	if err != nil {
		return nil, fmt.Errorf("persist activity %s: %w", activity.ID, err)
	}

	i.logger.Info("File upload ingested",
		"activity_id", activity.ID,
		"format", record.Format,
		"category", activity.Category,
		"created", created,
	)

	i.publishIngested(ctx, activity)
	return activity, nil
}

func (i *Ingestor) publishIngested(ctx context.Context, a *types.Activity) {
	evt, err := infrapubsub.NewCloudEvent(infrapubsub.SourceUploadHandler, infrapubsub.EventTypeActivityIngested, a)
	if err != nil {
		i.logger.Warn("Failed to build ingest event", "error", err)
		return
	}
	if _, err := i.pub.PublishCloudEvent(ctx, shared.TopicActivityIngested, evt); err != nil {
		i.logger.Warn("Failed to publish ingest event", "error", err)
	}
}
