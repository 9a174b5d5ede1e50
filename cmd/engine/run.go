package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"impactjobs-engine/internal/classify"
	"impactjobs-engine/internal/config"
	"impactjobs-engine/internal/logger"
	"impactjobs-engine/internal/runlock"
	"impactjobs-engine/internal/scheduler"
	"impactjobs-engine/internal/scrape"
	"impactjobs-engine/internal/scrape/apify"
	"impactjobs-engine/internal/scrape/board"
	"impactjobs-engine/internal/scrape/ctgoodjobs"
	"impactjobs-engine/internal/scrape/jobsdb"
	"impactjobs-engine/internal/scrape/jobsdbhk"
	"impactjobs-engine/internal/scrape/jobstreet"
	"impactjobs-engine/internal/scrape/mycareersfuture"
	"impactjobs-engine/internal/scrape/types"
	"impactjobs-engine/internal/scrape/util"
	"impactjobs-engine/internal/secrets"
	"impactjobs-engine/internal/store"
)

type runFlags struct {
	every   time.Duration
	noStore bool
	csv     string
}

func runCommand() *cobra.Command {
	var fl runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Search every source, classify and save the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), fl)
		},
	}
	cmd.Flags().DurationVar(&fl.every, "every", 0, "repeat the search at this interval (0 runs once)")
	cmd.Flags().BoolVar(&fl.noStore, "no-store", false, "skip writing to the sqlite store")
	cmd.Flags().StringVar(&fl.csv, "csv", "", "CSV output path (overrides app.csv_path)")
	return cmd
}

func runSearch(ctx context.Context, fl runFlags) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	lock, err := runlock.Acquire(cfg.App.DataDir)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	rules, err := config.OverlayRules(cfg.Classifier.RulesFile)
	if err != nil {
		return err
	}

	proc := &scrape.Processor{
		Classifier: classify.New(rules),
		CSVPath:    cfg.App.CSVPath,
		Log:        log,
	}
	if fl.csv != "" {
		proc.CSVPath = fl.csv
	}
	if !fl.noStore {
		db, err := store.Open(ctx, dbPath(cfg))
		if err != nil {
			return err
		}
		defer db.Close()
		proc.DB = db.Pool
	}

	agg := newAggregator(cfg, log)
	plan := scrape.Plan{
		Terms:     cfg.Search.Terms,
		Locations: cfg.Search.Locations,
		Input:     cfg.Input(),
	}

	var lastErr error
	scheduler.Every(ctx, fl.every, "search", log, func(ctx context.Context) error {
		_, lastErr = scrape.RunOnce(ctx, agg, proc, plan)
		return lastErr
	})
	if fl.every > 0 {
		return nil
	}
	return lastErr
}

func newAggregator(cfg config.Config, log logger.Logger) *scrape.Aggregator {
	limiter := util.NewHostLimiter(cfg.HTTP.ReqPerSec, cfg.HTTP.Burst)

	agg := &scrape.Aggregator{
		Sources:    buildSources(cfg, limiter, log),
		Controller: scrape.NewController(log, cfg.Search.MaxPages),
		Pacing:     map[string]scrape.Pacing{},
		Log:        log,
	}
	for _, src := range agg.Sources {
		sc := cfg.Source(src.Name())
		agg.Pacing[src.Name()] = scrape.Pacing{Delay: sc.Delay(), Jitter: sc.Jitter()}
	}
	return agg
}

// apifyTimeout bounds each request to the Apify API.
const apifyTimeout = 30 * time.Second

// buildSources returns the enabled sources in visiting order. Order matters:
// on a duplicate URL the earlier source's post is kept.
func buildSources(cfg config.Config, limiter *util.HostLimiter, log logger.Logger) []types.Source {
	f := util.NewFetcher(time.Duration(cfg.HTTP.TimeoutSeconds*float64(time.Second)), limiter, cfg.HTTP.UserAgent)
	profiles := []board.Profile{
		mycareersfuture.Profile(),
		jobstreet.Profile(),
		jobsdb.Profile(),
		jobsdbhk.Profile(),
		ctgoodjobs.Profile(),
	}

	var out []types.Source
	for _, p := range profiles {
		sc := cfg.Source(p.Site)
		if !sc.Enabled {
			log.Info("source disabled", logger.String("source", p.Site))
			continue
		}
		if sc.PerPage > 0 {
			p.PerPage = sc.PerPage
		}
		out = append(out, board.New(p, f, log))
	}

	if !cfg.Apify.Enabled {
		return out
	}
	token := cfg.Apify.Token
	if token == "" {
		token, _ = secrets.GetApifyToken()
	}
	client := apify.NewClient(apify.Config{
		BaseURL: cfg.Apify.BaseURL,
		Token:   token,
		Poll:    time.Duration(cfg.Apify.PollSeconds * float64(time.Second)),
		MaxWait: time.Duration(cfg.Apify.MaxWaitSeconds * float64(time.Second)),
	}, util.NewFetcher(apifyTimeout, limiter, cfg.HTTP.UserAgent), log)
	for _, a := range []apify.Actor{apify.JobStreetSG, apify.JobsDBHK} {
		if !cfg.Source(a.Normalizer.Site).Enabled {
			continue
		}
		out = append(out, apify.NewSource(client, a, log))
	}
	return out
}
