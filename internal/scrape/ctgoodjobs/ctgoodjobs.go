// Package ctgoodjobs scrapes CTgoodjobs Hong Kong. The search pages are a
// client-rendered app, so the markup pass mostly finds skeleton cards and
// the link scan does the work.
package ctgoodjobs

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
	Site      = "ctgoodjobs"
	BaseURL   = "https://www.ctgoodjobs.hk"
	SearchURL = "https://jobs.ctgoodjobs.hk/jobs"
	perPage   = 20
)

func Profile() board.Profile {
	return board.Profile{
		Normalizer: board.Normalizer{
			Site:           Site,
			BaseURL:        BaseURL,
			IDPrefix:       "ctgoodjobs",
			Aliases:        board.CommonAliases,
			DefaultCountry: domain.HongKong,
			Countries:      []domain.Country{domain.HongKong},
			SynthURL: func(base, id string) string {
				return base + "/job/" + url.PathEscape(id)
			},
		},
		FirstPage: 1,
		PerPage:   perPage,
		API: []string{
			BaseURL + "/api/jobs",
			SearchURL + "/api/search",
			"https://jobs.ctgoodjobs.hk/api/v1/jobs",
		},
		APIParams: func(in domain.ScraperInput, page, limit int, _ time.Time) url.Values {
			q := url.Values{}
			q.Set("q", in.SearchTerm)
			q.Set("page", strconv.Itoa(page))
			q.Set("limit", strconv.Itoa(limit))
			return q
		},
		ListKeys: []string{"results", "jobs", "data.jobs"},
		PageURL: func(in domain.ScraperInput, page int) string {
			slug := util.Slug(in.SearchTerm)
			if slug == "" {
				return ""
			}
			u := SearchURL + "/" + url.PathEscape(slug) + "-jobs"
			if page > 1 {
				u += "?page=" + strconv.Itoa(page)
			}
			return u
		},
		EmbeddedKeys: []string{"results", "jobs", "jobList"},
		Cards: []util.Selector{
			{Tags: []string{"div"}, Attr: "class", Contains: "job-card"},
		},
		CardLimit: perPage,
		Links: &board.LinkScan{
			Scope: []util.Selector{
				{Tags: []string{"main", "div"}, Attr: "id", Contains: "content"},
				{Tags: []string{"main", "div"}, Attr: "id", Contains: "main"},
			},
			Match: linkMatch,
			Limit: perPage,
		},
	}
}

func New(f *util.Fetcher, log logger.Logger) *board.Board {
	return board.New(Profile(), f, log)
}

func linkMatch(href, text string, in domain.ScraperInput) bool {
	h := strings.ToLower(href)
	slug := util.Slug(in.SearchTerm)
	isJob := strings.Contains(h, "/job/") ||
		strings.HasPrefix(href, "/jobs/") ||
		(slug != "" && strings.Contains(h, slug) && len(text) > 10)
	if !isJob {
		return false
	}
	t := strings.ToLower(text)
	return !strings.Contains(t, "alert") && !strings.Contains(t, "create")
}
