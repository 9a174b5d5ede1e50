// Package jobsdb scrapes Singapore listings through Jora, part of the SEEK
// network that JobsDB SG folded into.
package jobsdb

import (
	"net/url"
	"strconv"
	"time"

	"impactjobs-engine/internal/domain"
	"impactjobs-engine/internal/logger"
	"impactjobs-engine/internal/scrape/board"
	"impactjobs-engine/internal/scrape/util"
)

const (
	Site    = "jobsdb"
	BaseURL = "https://sg.jora.com"
)

func Profile() board.Profile {
	return board.Profile{
		Normalizer: board.Normalizer{
			Site:           Site,
			BaseURL:        BaseURL,
			IDPrefix:       "jobsdb",
			Aliases:        board.CommonAliases,
			DefaultCountry: domain.Singapore,
			Countries:      []domain.Country{domain.Singapore},
			SynthURL: func(base, id string) string {
				return base + "/viewjob?jk=" + url.QueryEscape(id)
			},
		},
		FirstPage: 1,
		PerPage:   20,
		API: []string{
			"https://sg.jora.com/api/chalice-search/v4/search",
			"https://www.seek.com.sg/api/chalice-search/v4/search",
		},
		APIParams: func(in domain.ScraperInput, page, perPage int, _ time.Time) url.Values {
			q := url.Values{}
			q.Set("q", in.SearchTerm)
			q.Set("page", strconv.Itoa(page))
			q.Set("pageSize", strconv.Itoa(perPage))
			if in.Location != "" {
				q.Set("l", in.Location)
			}
			return q
		},
		ListKeys: []string{"results", "jobs", "data.jobs"},
		PageURL: func(in domain.ScraperInput, page int) string {
			q := url.Values{}
			q.Set("q", in.SearchTerm)
			if in.Location != "" {
				q.Set("l", in.Location)
			}
			if page > 1 {
				q.Set("page", strconv.Itoa(page))
			}
			return BaseURL + "/j?" + q.Encode()
		},
		EmbeddedKeys: []string{"results", "jobs", "jobList"},
		Cards: []util.Selector{
			{Tags: []string{"article"}, Attr: "data-automation", Contains: "jobCard"},
			{Tags: []string{"div"}, Attr: "class", Contains: "job"},
			{Tags: []string{"div"}, Attr: "data-testid", Contains: "job"},
		},
	}
}

func New(f *util.Fetcher, log logger.Logger) *board.Board {
	return board.New(Profile(), f, log)
}
