package scrape

import (
	"context"

	"impactjobs-engine/internal/domain"
	"impactjobs-engine/internal/logger"
	"impactjobs-engine/internal/scrape/types"
	"impactjobs-engine/internal/scrape/util"
)

// Plan is one full search: every term against every location.
type Plan struct {
	Terms     []string
	Locations []string
	Input     domain.ScraperInput
}

type Result struct {
	Jobs    []domain.JobPost
	BySite  map[string]int
	Blocked []string
	Stats   []types.RunStats
}

// Aggregator fans a Plan out over its sources, one at a time, and merges the
// results. When two sources return the same URL the one visited first wins,
// so the order of terms, locations and Sources decides which post is kept.
type Aggregator struct {
	Sources    []types.Source
	Controller *Controller
	Pacing     map[string]Pacing
	Log        logger.Logger
}

func (a *Aggregator) Run(ctx context.Context, plan Plan) Result {
	res := Result{BySite: map[string]int{}}
	seen := make(map[string]struct{})
	blocked := make(map[string]struct{})

	for _, term := range plan.Terms {
		for _, loc := range plan.Locations {
			country := util.CountryFor(loc, domain.Other)
			for _, src := range a.Sources {
				if ctx.Err() != nil {
					a.Log.Warn("run cancelled", logger.Error(ctx.Err()))
					res.BySite = CountBySite(res.Jobs)
					return res
				}
				if !serves(src, country) {
					continue
				}

				in := plan.Input
				in.Location = loc
				in.SearchTerm = term
				if rw, ok := src.(types.QueryRewriter); ok {
					in.SearchTerm = rw.RewriteQuery(term)
				}

				jobs, st := a.Controller.Paginate(ctx, src, in, a.Pacing[src.Name()])
				res.Stats = append(res.Stats, st)
				if st.Blocked {
					if _, dup := blocked[src.Name()]; !dup {
						blocked[src.Name()] = struct{}{}
						res.Blocked = append(res.Blocked, src.Name())
					}
				}

				added := 0
				for _, j := range jobs {
					if _, dup := seen[j.JobURL]; dup {
						continue
					}
					seen[j.JobURL] = struct{}{}
					res.Jobs = append(res.Jobs, j)
					added++
				}
				a.Log.Info("source finished",
					logger.String("source", src.Name()),
					logger.String("location", loc),
					logger.String("term", in.SearchTerm),
					logger.Int("found", len(jobs)),
					logger.Int("new", added),
				)
			}
		}
	}

	res.BySite = CountBySite(res.Jobs)
	return res
}

func serves(src types.Source, c domain.Country) bool {
	for _, sc := range src.Countries() {
		if sc == c {
			return true
		}
	}
	return false
}
