package scrape

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"impactjobs-engine/internal/classify"
	"impactjobs-engine/internal/domain"
	"impactjobs-engine/internal/export"
	"impactjobs-engine/internal/logger"
	"impactjobs-engine/internal/store"
)

// Processor turns an aggregated Result into the final record set. A nil DB
// or empty CSVPath skips that output.
type Processor struct {
	Classifier *classify.Classifier
	DB         *sql.DB
	CSVPath    string
	Log        logger.Logger
	Now        func() time.Time
}

type Summary struct {
	RunID   string
	Found   int
	Kept    []domain.JobPost
	Added   int
	BySite  map[string]int
	Blocked []string
}

func (p *Processor) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Processor) Process(ctx context.Context, runID string, started time.Time, res Result) (Summary, error) {
	sum := Summary{RunID: runID, Found: len(res.Jobs), Blocked: res.Blocked}

	for _, j := range res.Jobs {
		keep, why := p.Classifier.Classify(j)
		if !keep {
			p.Log.Debug("post skipped",
				logger.String("reason", why),
				logger.String("title", j.Title),
				logger.String("source", j.Site),
				logger.String("url", j.JobURL),
			)
			continue
		}
		sum.Kept = append(sum.Kept, j)
	}
	SortByDate(sum.Kept)
	sum.BySite = CountBySite(sum.Kept)

	var errs []error
	if p.DB != nil {
		seen := p.now()
		for _, j := range sum.Kept {
			ok, err := store.InsertJobIgnore(ctx, p.DB, j, runID, seen)
			if err != nil {
				p.Log.Warn("insert failed",
					logger.String("source", j.Site),
					logger.String("url", j.JobURL),
					logger.Error(err),
				)
				continue
			}
			if ok {
				sum.Added++
			}
		}
		run := store.Run{
			ID:         runID,
			StartedAt:  started,
			FinishedAt: p.now(),
			Found:      sum.Found,
			Kept:       len(sum.Kept),
			Added:      sum.Added,
			Blocked:    sum.Blocked,
		}
		if err := store.SaveRun(ctx, p.DB, run); err != nil {
			errs = append(errs, err)
		}
	}

	if p.CSVPath != "" && len(sum.Kept) > 0 {
		if err := export.WriteFile(p.CSVPath, sum.Kept); err != nil {
			errs = append(errs, fmt.Errorf("export csv: %w", err))
		} else {
			p.Log.Info("results saved", logger.String("path", p.CSVPath))
		}
	}

	p.report(sum)
	return sum, errors.Join(errs...)
}

func (p *Processor) report(sum Summary) {
	p.Log.Info("run summary",
		logger.String("run_id", sum.RunID),
		logger.Int("total_unique", sum.Found),
		logger.Int("kept", len(sum.Kept)),
		logger.Int("added", sum.Added),
		logger.Any("by_site", sum.BySite),
		logger.Strings("blocked", sum.Blocked),
	)
	for _, j := range sum.Kept {
		kw := p.Classifier.MatchedKeywords(j)
		if len(kw) > 5 {
			kw = kw[:5]
		}
		posted := ""
		if j.DatePosted != nil {
			posted = j.DatePosted.Format("2006-01-02")
		}
		p.Log.Info("kept post",
			logger.String("title", j.Title),
			logger.String("company", j.CompanyName),
			logger.String("location", j.Location.String()),
			logger.String("posted", posted),
			logger.Strings("keywords", kw),
			logger.String("url", j.JobURL),
		)
	}
}
