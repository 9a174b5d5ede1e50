package apify

import (
	"context"
	"errors"
	"time"

	"impactjobs-engine/internal/domain"
	"impactjobs-engine/internal/logger"
	"impactjobs-engine/internal/scrape"
	"impactjobs-engine/internal/scrape/board"
)

// Actor describes one hosted scraper and how to build its input.
type Actor struct {
	ID         string
	Normalizer board.Normalizer
	Input      func(term string, resultsWanted int) map[string]any
}

// itemAliases covers the field names both actors have produced.
var itemAliases = board.Aliases{
	Title:       []string{"title", "jobTitle"},
	Company:     []string{"company", "companyName"},
	URL:         []string{"url", "jobUrl", "link"},
	Location:    []string{"location", "area"},
	Date:        []string{"postedDate", "datePosted", "posted"},
	Description: []string{"description", "jobDescription"},
}

var JobStreetSG = Actor{
	ID: "websift~seek-job-scraper",
	Normalizer: board.Normalizer{
		Site:           "jobstreet_sg_apify",
		BaseURL:        "https://sg.jobstreet.com",
		IDPrefix:       "apify-jobstreet",
		Aliases:        itemAliases,
		DefaultCountry: domain.Singapore,
		Countries:      []domain.Country{domain.Singapore},
	},
	Input: func(term string, n int) map[string]any {
		return map[string]any{
			"searchTerm":   term,
			"maxResults":   min(n, 550),
			"suburbOrCity": "Singapore",
		}
	},
}

var JobsDBHK = Actor{
	ID: "shahidirfan~jobsdb-scraper",
	Normalizer: board.Normalizer{
		Site:           "jobsdb_hk_apify",
		BaseURL:        "https://hk.jobsdb.com",
		IDPrefix:       "apify-jobsdb-hk",
		Aliases:        itemAliases,
		DefaultCountry: domain.HongKong,
		Countries:      []domain.Country{domain.HongKong},
	},
	Input: func(term string, n int) map[string]any {
		return map[string]any{
			"searchQuery": term,
			"location":    "Hong Kong",
			"maxResults":  min(n, 1000),
		}
	},
}

// Source adapts one actor to the page-oriented source contract. The whole
// dataset arrives on the first page.
type Source struct {
	client *Client
	actor  Actor
	log    logger.Logger
	now    func() time.Time
}

func NewSource(client *Client, actor Actor, log logger.Logger) *Source {
	return &Source{
		client: client,
		actor:  actor,
		log:    log.With(logger.String("source", actor.Normalizer.Site)),
		now:    time.Now,
	}
}

func (s *Source) Name() string                    { return s.actor.Normalizer.Site }
func (s *Source) Countries() []domain.Country     { return s.actor.Normalizer.Countries }
func (s *Source) FirstPage() int                  { return 1 }
func (s *Source) RewriteQuery(term string) string { return scrape.SimplifyQuery(term) }

// SetClock overrides the time source used for relative dates.
func (s *Source) SetClock(now func() time.Time) { s.now = now }

func (s *Source) FetchPage(ctx context.Context, in domain.ScraperInput, page int) (jobs []domain.JobPost, hasMore bool) {
	if page != s.FirstPage() {
		return nil, false
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("actor result parse panicked", logger.Any("panic", r))
			jobs, hasMore = nil, false
		}
	}()

	items, err := s.client.Run(ctx, s.actor.ID, s.actor.Input(in.SearchTerm, in.ResultsWanted))
	switch {
	case errors.Is(err, ErrNoToken):
		s.log.Info("skipped, no apify token")
		return nil, false
	case err != nil:
		s.log.Warn("actor run failed", logger.String("actor", s.actor.ID), logger.Error(err))
		return nil, false
	}

	jobs = s.actor.Normalizer.NormalizeAll(items, in, s.now(), s.log)
	s.log.Info("actor results", logger.Int("items", len(items)), logger.Int("jobs", len(jobs)))
	return jobs, false
}
