// Package framework wraps cloud function entry points with the shared
// run bookkeeping: a run id, a scoped logger and Sentry capture.
package framework

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/google/uuid"

	"github.com/neotrasher/fitness-dashboard/pkg/bootstrap"
	"github.com/neotrasher/fitness-dashboard/pkg/infrastructure/sentry"
)

// FrameworkContext contains dependencies injected by the framework.
type FrameworkContext struct {
	Service *bootstrap.Service
	Logger  *slog.Logger
	RunID   string
}

// HandlerFunc is the signature for a cloud function handler.
type HandlerFunc func(ctx context.Context, e event.Event, fwCtx *FrameworkContext) (interface{}, error)

// WrapCloudEvent wraps a handler with run-scoped logging and error
// capture. The wrapper never swallows the handler's error: the platform
// decides retry semantics from it.
func WrapCloudEvent(serviceName string, svc *bootstrap.Service, handler HandlerFunc) func(context.Context, event.Event) error {
	return func(ctx context.Context, e event.Event) error {
		logLevelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))
		var logLevel slog.Level
		switch logLevelStr {
		case "debug":
			logLevel = slog.LevelDebug
		case "warn":
			logLevel = slog.LevelWarn
		case "error":
			logLevel = slog.LevelError
		default:
			logLevel = slog.LevelInfo
		}

		runID := uuid.NewString()

		opts := bootstrap.GetSlogHandlerOptions(logLevel)
		logger := slog.New(slog.NewJSONHandler(os.Stdout, opts)).
			With("service", serviceName).
			With("run_id", runID).
			With("event_type", e.Type())

		logger.Info("Function started")
		started := time.Now()

		fwCtx := &FrameworkContext{
			Service: svc,
			Logger:  logger,
			RunID:   runID,
		}

		outputs, err := handler(ctx, e, fwCtx)
		if err != nil {
			logger.Error("Function failed", "error", err, "duration", time.Since(started))
			sentry.CaptureException(err, map[string]interface{}{
				"service": serviceName,
				"run_id":  runID,
			}, logger)
			sentry.Flush(2 * time.Second)
			return err
		}

		logger.Info("Function completed successfully", "duration", time.Since(started), "outputs", outputs)
		return nil
	}
}
