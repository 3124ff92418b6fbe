// Package api exposes the dashboard over HTTP. Handlers stay thin:
// each one parses the request, calls into the domain packages, and
// writes JSON. All derived numbers come from pkg/domain/stats.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	shared "github.com/neotrasher/fitness-dashboard/pkg"
	"github.com/neotrasher/fitness-dashboard/pkg/bootstrap"
	"github.com/neotrasher/fitness-dashboard/pkg/domain/period"
	"github.com/neotrasher/fitness-dashboard/pkg/domain/stats"
	"github.com/neotrasher/fitness-dashboard/pkg/insights"
	"github.com/neotrasher/fitness-dashboard/pkg/types"
	"github.com/neotrasher/fitness-dashboard/pkg/upload"
)

// maxUploadBytes bounds a single activity file. FIT files from watches
// run well under 5 MB even with full point streams.
const maxUploadBytes = 16 << 20

// SyncRunner runs one sync pass. *sync.Engine satisfies it; tests
// substitute a stub.
type SyncRunner interface {
	Run(ctx context.Context) (*types.SyncReport, error)
}

// Server wires the HTTP surface over the shared service dependencies.
type Server struct {
	svc       *bootstrap.Service
	logger    *slog.Logger
	insight   *insights.Generator
	newSyncer func() (SyncRunner, error)
	athleteID string
}

func NewServer(svc *bootstrap.Service, logger *slog.Logger, newSyncer func() (SyncRunner, error)) *Server {
	return &Server{
		svc:       svc,
		logger:    logger,
		insight:   insights.NewGenerator(svc.Config.GeminiAPIKey, logger),
		newSyncer: newSyncer,
		athleteID: shared.DefaultAthleteID,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/upload", s.handleUpload)
	r.Delete("/activities", s.handleClearActivities)
	r.Get("/stats", s.handleStats)
	r.Get("/insight", s.handleInsight)
	r.Post("/sync", s.handleSync)

	r.Route("/goals", func(r chi.Router) {
		r.Get("/", s.handleListGoals)
		r.Post("/", s.handleCreateGoal)
		r.Get("/{goalID}", s.handleGetGoal)
		r.Patch("/{goalID}", s.handleUpdateGoal)
		r.Delete("/{goalID}", s.handleDeleteGoal)
	})

	return r
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("filename")
	if name == "" {
		name = "upload-" + uuid.New().String()
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read body: %w", err))
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("empty upload"))
		return
	}

	ingestor := upload.NewIngestor(s.svc.DB, s.svc.Store, s.svc.Pub, s.logger,
		s.svc.Config.GCSUploadBucket, s.athleteID)

	activity, err := ingestor.IngestBytes(r.Context(), name, data)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"activity_id":  activity.ID,
		"name":         activity.Name,
		"category":     activity.Category,
		"workout_type": activity.WorkoutType,
	})
}

// handleClearActivities wipes the activity history. Requires an
// explicit confirm flag so a stray DELETE cannot empty the store.
func (s *Server) handleClearActivities(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("pass confirm=true to clear all activities"))
		return
	}
	if err := s.svc.DB.DeleteAllActivities(r.Context(), s.athleteID); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// statsResponse bundles the period rollup with goal countdowns.
type statsResponse struct {
	Summary *types.DetailedSummary `json:"summary"`
	Goals   []types.GoalProjection `json:"goals"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now().UTC()
	preset := r.URL.Query().Get("period")

	var firstActivity time.Time
	if preset == "all" {
		all, err := s.svc.DB.ListActivities(ctx, s.athleteID, time.Time{}, now)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if len(all) > 0 {
			firstActivity = all[len(all)-1].StartTime
		}
	}

	window, err := period.ForPreset(preset, now, firstActivity)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	records, err := s.svc.DB.ListActivities(ctx, s.athleteID, window.Start, window.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	activities := make([]*types.Activity, len(records))
	for i := range records {
		activities[i] = &records[i]
	}

	summary := stats.BuildSummary(activities, window.Start, window.End, window.Weeks)

	projections, err := s.goalProjections(ctx, now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{Summary: summary, Goals: projections})
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	if !s.insight.Available() {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("insight generation is not configured"))
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	window, err := period.ForPreset(r.URL.Query().Get("period"), now, time.Time{})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	records, err := s.svc.DB.ListActivities(ctx, s.athleteID, window.Start, window.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	activities := make([]*types.Activity, len(records))
	for i := range records {
		activities[i] = &records[i]
	}

	summary := stats.BuildSummary(activities, window.Start, window.End, window.Weeks)
	projections, err := s.goalProjections(ctx, now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	text, err := s.insight.CoachingInsight(ctx, summary, projections)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"insight": text})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if s.newSyncer == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("sync is not configured"))
		return
	}

	engine, err := s.newSyncer()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	report, err := engine.Run(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.svc.DB.ListGoals(r.Context(), s.athleteID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var goal types.Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode goal: %w", err))
		return
	}
	if goal.Name == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("goal name is required"))
		return
	}
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}

	if err := s.svc.DB.CreateGoal(r.Context(), s.athleteID, &goal); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := s.svc.DB.GetGoal(r.Context(), s.athleteID, chi.URLParam(r, "goalID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if goal == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("goal not found"))
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode patch: %w", err))
		return
	}
	delete(patch, "id")
	delete(patch, "created_at")
	if len(patch) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("empty patch"))
		return
	}

	goalID := chi.URLParam(r, "goalID")
	if err := s.svc.DB.UpdateGoal(r.Context(), s.athleteID, goalID, patch); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DB.DeleteGoal(r.Context(), s.athleteID, chi.URLParam(r, "goalID")); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) goalProjections(ctx context.Context, now time.Time) ([]types.GoalProjection, error) {
	goals, err := s.svc.DB.ListGoals(ctx, s.athleteID)
	if err != nil {
		return nil, err
	}
	projections := make([]types.GoalProjection, 0, len(goals))
	for _, g := range goals {
		if g.Completed {
			continue
		}
		projections = append(projections, types.GoalProjection{
			Goal:      g,
			DaysUntil: period.DaysUntil(g.TargetDate, now),
		})
	}
	return projections, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
