package scrape

import (
	"context"
	"math/rand/v2"
	"time"

	"impactjobs-engine/internal/domain"
	"impactjobs-engine/internal/logger"
	"impactjobs-engine/internal/scrape/types"
)

const defaultMaxPages = 50

// Pacing is the pause between two pages of the same source.
type Pacing struct {
	Delay  time.Duration
	Jitter time.Duration
}

func (p Pacing) next(r func() float64) time.Duration {
	d := p.Delay
	if p.Jitter > 0 {
		d += time.Duration(r() * float64(p.Jitter))
	}
	return d
}

// Controller drives one source page by page for a single query.
type Controller struct {
	log      logger.Logger
	maxPages int
	sleep    func(ctx context.Context, d time.Duration) error
	rand     func() float64
}

func NewController(log logger.Logger, maxPages int) *Controller {
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &Controller{
		log:      log,
		maxPages: maxPages,
		sleep:    sleepCtx,
		rand:     rand.Float64,
	}
}

// SetSleep swaps the pause between pages, mostly for tests.
func (c *Controller) SetSleep(fn func(ctx context.Context, d time.Duration) error) { c.sleep = fn }

// Paginate collects up to in.ResultsWanted posts unique by URL. It stops on
// an empty page, when the source reports no more pages, or on a panic.
func (c *Controller) Paginate(ctx context.Context, src types.Source, in domain.ScraperInput, pace Pacing) ([]domain.JobPost, types.RunStats) {
	stats := types.RunStats{Source: src.Name(), Location: in.Location, Term: in.SearchTerm}
	log := c.log.With(
		logger.String("source", src.Name()),
		logger.String("location", in.Location),
		logger.String("term", in.SearchTerm),
	)
	if in.ResultsWanted <= 0 {
		return nil, stats
	}

	seen := make(map[string]struct{})
	var out []domain.JobPost

	page := src.FirstPage()
	for {
		if stats.Pages > 0 {
			if err := c.sleep(ctx, pace.next(c.rand)); err != nil {
				log.Info("stopped", logger.Error(err))
				break
			}
		}
		if ctx.Err() != nil {
			break
		}

		jobs, hasMore, ok := c.fetch(ctx, log, src, in, page)
		stats.Pages++
		if !ok {
			stats.Panicked = true
			break
		}
		if br, isBR := src.(types.BlockReporter); isBR && br.LastPageBlocked() {
			stats.Blocked = true
		}
		if len(jobs) == 0 {
			if !stats.Blocked {
				log.Info("no more results", logger.Int("page", page))
			}
			break
		}

		stats.Fetched += len(jobs)
		for _, j := range jobs {
			if len(out) >= in.ResultsWanted {
				break
			}
			if _, dup := seen[j.JobURL]; dup {
				continue
			}
			seen[j.JobURL] = struct{}{}
			out = append(out, j)
		}

		if len(out) >= in.ResultsWanted || !hasMore {
			break
		}
		if stats.Pages >= c.maxPages {
			log.Warn("page cap reached", logger.Int("pages", stats.Pages))
			break
		}
		page++
	}

	if len(out) > in.ResultsWanted {
		out = out[:in.ResultsWanted]
	}
	stats.Kept = len(out)
	log.Debug("source done", logger.Int("pages", stats.Pages), logger.Int("kept", stats.Kept))
	return out, stats
}

func (c *Controller) fetch(ctx context.Context, log logger.Logger, src types.Source, in domain.ScraperInput, page int) (jobs []domain.JobPost, hasMore, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("source panicked", logger.Int("page", page), logger.Any("panic", r))
			jobs, hasMore, ok = nil, false, false
		}
	}()
	jobs, hasMore = src.FetchPage(ctx, in, page)
	return jobs, hasMore, true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
