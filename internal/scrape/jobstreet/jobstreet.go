// Package jobstreet scrapes sg.jobstreet.com. The SG domain serves Hong Kong
// listings too, filtered by a location param.
package jobstreet

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"impactjobs-engine/internal/domain"
	"impactjobs-engine/internal/logger"
	"impactjobs-engine/internal/scrape/board"
	"impactjobs-engine/internal/scrape/util"
)

const (
	Site    = "jobstreet"
	BaseURL = "https://sg.jobstreet.com"
)

func Profile() board.Profile {
	return board.Profile{
		Normalizer: board.Normalizer{
			Site:           Site,
			BaseURL:        BaseURL,
			IDPrefix:       "jobstreet",
			Aliases:        board.CommonAliases,
			DefaultCountry: domain.Singapore,
			Countries:      []domain.Country{domain.Singapore, domain.HongKong},
			SynthURL: func(base, id string) string {
				return base + "/job/" + url.PathEscape(id)
			},
		},
		FirstPage: 1,
		PerPage:   20,
		API: []string{
			BaseURL + "/api/chalice-search/v4/search",
			BaseURL + "/api/job-search",
			BaseURL + "/api/v1/jobs",
		},
		APIParams: func(in domain.ScraperInput, page, perPage int, _ time.Time) url.Values {
			q := url.Values{}
			q.Set("q", in.SearchTerm)
			q.Set("page", strconv.Itoa(page))
			q.Set("pageSize", strconv.Itoa(perPage))
			if loc := locationParam(in.Location); loc != "" {
				q.Set("location", loc)
			}
			return q
		},
		ListKeys:     []string{"results", "jobs", "data.jobs"},
		PageURL:      pageURL,
		EmbeddedKeys: []string{"results", "jobs", "jobList"},
		Cards: []util.Selector{
			{Tags: []string{"article"}, Attr: "data-testid", Contains: "job-card"},
			{Tags: []string{"div"}, Attr: "class", Contains: "job-card"},
			{Tags: []string{"div"}, Attr: "data-automation", Contains: "job"},
			{Tags: []string{"div"}, Attr: "id", Contains: "job"},
		},
		Links: &board.LinkScan{
			Match: func(href, _ string, _ domain.ScraperInput) bool {
				return containsAny(href, "/job/", "/jobs/")
			},
			Limit: 20,
		},
	}
}

func New(f *util.Fetcher, log logger.Logger) *board.Board {
	return board.New(Profile(), f, log)
}

// pageURL builds /{slug}-jobs with page and location as query params.
func pageURL(in domain.ScraperInput, page int) string {
	slug := util.Slug(in.SearchTerm)
	if slug == "" {
		return ""
	}
	q := url.Values{}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if loc := locationParam(in.Location); loc != "" {
		q.Set("location", loc)
	}
	u := BaseURL + "/" + url.PathEscape(slug) + "-jobs"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func locationParam(location string) string {
	if location == "" {
		return ""
	}
	switch util.CountryFor(location, domain.Other) {
	case domain.Singapore:
		return "Singapore"
	case domain.HongKong:
		return "Hong Kong"
	}
	return location
}

func containsAny(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
