// Package jobsdbhk scrapes hk.jobsdb.com.
package jobsdbhk

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
	Site    = "jobsdb_hk"
	BaseURL = "https://hk.jobsdb.com"
)

func Profile() board.Profile {
	return board.Profile{
		Normalizer: board.Normalizer{
			Site:           Site,
			BaseURL:        BaseURL,
			IDPrefix:       "jobsdb-hk",
			Aliases:        board.CommonAliases,
			DefaultCountry: domain.HongKong,
			Countries:      []domain.Country{domain.HongKong},
			SynthURL: func(base, id string) string {
				return base + "/job/" + url.PathEscape(id)
			},
		},
		FirstPage: 1,
		PerPage:   20,
		API: []string{
			BaseURL + "/api/chalice-search/v4/search",
			BaseURL + "/api/job-search",
		},
		APIParams: func(in domain.ScraperInput, page, perPage int, _ time.Time) url.Values {
			q := url.Values{}
			q.Set("q", in.SearchTerm)
			q.Set("page", strconv.Itoa(page))
			q.Set("pageSize", strconv.Itoa(perPage))
			return q
		},
		ListKeys: []string{"results", "jobs", "data.jobs"},
		PageURL: func(in domain.ScraperInput, page int) string {
			slug := util.Slug(in.SearchTerm)
			if slug == "" {
				return ""
			}
			u := BaseURL + "/jobs/" + url.PathEscape(slug)
			if page > 1 {
				u += "?page=" + strconv.Itoa(page)
			}
			return u
		},
		EmbeddedKeys: []string{"results", "jobs", "jobList"},
		Cards: []util.Selector{
			{Tags: []string{"article"}, Attr: "data-automation", Contains: "jobCard"},
			{Tags: []string{"div"}, Attr: "class", Contains: "job"},
		},
	}
}

func New(f *util.Fetcher, log logger.Logger) *board.Board {
	return board.New(Profile(), f, log)
}
