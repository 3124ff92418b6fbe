// syncd runs a single sync pass against the upstream API and prints
// the resulting report. Useful for local runs and cron outside GCP.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	shared "github.com/neotrasher/fitness-dashboard/pkg"
	"github.com/neotrasher/fitness-dashboard/pkg/bootstrap"
	"github.com/neotrasher/fitness-dashboard/pkg/infrastructure/oauth"
	"github.com/neotrasher/fitness-dashboard/pkg/integrations/strava"
	"github.com/neotrasher/fitness-dashboard/pkg/sync"
)

func main() {
	detailBudget := flag.Int("detail-budget", 0, "override detail fetches per run (0 = config default)")
	requestDelay := flag.Duration("request-delay", 0, "override delay between API requests (0 = config default)")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall run timeout")
	flag.Parse()

	logger := bootstrap.NewLogger("syncd", false)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	svc, err := bootstrap.NewService(ctx)
	if err != nil {
		logger.Error("Failed to initialize service", "error", err)
		os.Exit(1)
	}

	cfg := svc.Config
	opts := sync.Options{
		DetailBudget: cfg.SyncDetailBudget,
		RequestDelay: cfg.SyncRequestDelay,
	}
	if *detailBudget > 0 {
		opts.DetailBudget = *detailBudget
	}
	if *requestDelay > 0 {
		opts.RequestDelay = *requestDelay
	}

	oauthCfg := oauth.NewStravaConfig(cfg.StravaClientID, cfg.StravaClientSecret)
	source := oauth.NewFirestoreTokenSource(svc.DB, shared.DefaultAthleteID, oauthCfg)
	client := strava.NewClient(oauth.NewClient(source, svc.DB, shared.DefaultAthleteID))

	report, err := sync.NewEngine(svc.DB, client, svc.Pub, logger, opts).Run(ctx)
	if err != nil {
		logger.Error("Sync failed", "error", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(out))

	if report.RateLimited {
		// Non-zero exit so cron wrappers know the run was cut short.
		os.Exit(2)
	}
}
