// Package insights turns a period summary into short coaching text
// using Google Gemini. The feature degrades silently: without an API
// key, or on a generation failure, callers get an empty insight rather
// than a pipeline error.
package insights

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

const modelName = "gemini-2.0-flash"

// Generator produces coaching insights from derived summaries.
type Generator struct {
	apiKey string
	logger *slog.Logger
}

func NewGenerator(apiKey string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{apiKey: apiKey, logger: logger}
}

// Available reports whether insight generation is configured.
func (g *Generator) Available() bool {
	return g.apiKey != ""
}

// CoachingInsight summarizes the period and advises on the goals. An
// empty string with nil error means the feature is not configured.
func (g *Generator) CoachingInsight(ctx context.Context, summary *types.DetailedSummary, goals []types.GoalProjection) (string, error) {
	if !g.Available() {
		g.logger.Warn("GEMINI_API_KEY not set, skipping coaching insight")
		return "", nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SetTopP(0.9)
	model.SetMaxOutputTokens(400)

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(summary, goals)))
	if err != nil {
		return "", fmt.Errorf("generate insight: %w", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}

	insight := strings.TrimSpace(sb.String())
	g.logger.Info("Coaching insight generated", "length", len(insight))
	return insight, nil
}

// buildPrompt renders the summary into a compact factual block; the
// model is asked for advice, never for numbers, so hallucinated stats
// have nowhere to land.
func buildPrompt(summary *types.DetailedSummary, goals []types.GoalProjection) string {
	var sb strings.Builder
	sb.WriteString("You are a concise running coach. Based on the training data below, ")
	sb.WriteString("write 3-4 sentences of actionable advice. Do not repeat the raw numbers back.\n\n")

	fmt.Fprintf(&sb, "Period: %s to %s (%.0f weeks)\n",
		summary.PeriodStart.Format("2006-01-02"), summary.PeriodEnd.Format("2006-01-02"), summary.Weeks)
	fmt.Fprintf(&sb, "Pace trend: %s\n", summary.Trend)

	for cat, s := range summary.Categories {
		fmt.Fprintf(&sb, "%s: %d sessions, %.1f km, %.1f h",
			cat, s.Count, s.DistanceMeters/1000, s.DurationSec/3600)
		if s.AvgPaceMinPerKm > 0 {
			fmt.Fprintf(&sb, ", avg pace %.2f min/km", s.AvgPaceMinPerKm)
		}
		if s.AvgHeartRate > 0 {
			fmt.Fprintf(&sb, ", avg HR %.0f", s.AvgHeartRate)
		}
		sb.WriteString("\n")
	}

	for _, p := range summary.Predictions {
		fmt.Fprintf(&sb, "Predicted %s: %s (%s)\n", p.Distance, formatDuration(p.TimeSec), p.Source)
	}

	for _, gp := range goals {
		fmt.Fprintf(&sb, "Goal: %s (%.1f km) in %d days, target %s\n",
			gp.Goal.Name, gp.Goal.TargetDistanceKm, gp.DaysUntil, gp.Goal.TargetTime)
	}

	return sb.String()
}

func formatDuration(sec float64) string {
	total := int(sec)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
