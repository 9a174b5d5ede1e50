// Package mycareersfuture scrapes the Singapore government job portal.
package mycareersfuture

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"

	"impactjobs-engine/internal/domain"
	"impactjobs-engine/internal/logger"
	"impactjobs-engine/internal/scrape"
	"impactjobs-engine/internal/scrape/board"
	"impactjobs-engine/internal/scrape/util"
)

const (
	Site     = "mycareersfuture"
	BaseURL  = "https://www.mycareersfuture.gov.sg"
	APIURL   = "https://api.mycareersfuture.gov.sg/v2/jobs"
	perPage  = 20
	monthlyT = 4
)

// Profile is exported so tests can point the endpoints at a local server.
func Profile() board.Profile {
	return board.Profile{
		Normalizer: board.Normalizer{
			Site:     Site,
			BaseURL:  BaseURL,
			IDPrefix: "mcf",
			Aliases: board.Aliases{
				ID:          []string{"uuid"},
				Title:       []string{"title"},
				Company:     []string{"postedCompany.name"},
				URL:         []string{"metadata.jobDetailsUrl"},
				Date:        []string{"metadata.newPostingDate", "metadata.originalPostingDate"},
				Description: []string{"description"},
			},
			DefaultCountry: domain.Singapore,
			Countries:      []domain.Country{domain.Singapore},
			SynthURL: func(base, id string) string {
				return base + "/job/" + url.PathEscape(id)
			},
			Enrich: enrich,
		},
		FirstPage: 0,
		PerPage:   perPage,
		API:       []string{APIURL},
		APIParams: apiParams,
		ListKeys:  []string{"results"},
		PageURL: func(in domain.ScraperInput, page int) string {
			q := url.Values{}
			q.Set("search", in.SearchTerm)
			q.Set("page", strconv.Itoa(page))
			if in.Location != "" {
				q.Set("location", in.Location)
			}
			return BaseURL + "/search?" + q.Encode()
		},
		EmbeddedKeys: []string{"results", "jobs"},
		Cards: []util.Selector{
			{Tags: []string{"div", "article"}, Attr: "class", Contains: "job"},
		},
		Rewrite: scrape.SimplifyQuery,
	}
}

func New(f *util.Fetcher, log logger.Logger) *board.Board {
	return board.New(Profile(), f, log)
}

func apiParams(in domain.ScraperInput, page, limit int, now time.Time) url.Values {
	q := url.Values{}
	q.Set("search", in.SearchTerm)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if in.Location != "" {
		q.Set("location", in.Location)
	}
	if in.HoursOld > 0 {
		days := in.HoursOld / 24
		q.Set("postedDate", now.AddDate(0, 0, -days).Format("2006-01-02"))
	}
	return q
}

type salary struct {
	Minimum float64 `mapstructure:"minimum"`
	Maximum float64 `mapstructure:"maximum"`
	Type    struct {
		ID int `mapstructure:"id"`
	} `mapstructure:"type"`
}

func enrich(item gjson.Result, post *domain.JobPost, in domain.ScraperInput) {
	var parts []string
	for _, k := range []string{"address.building", "address.street", "address.postalCode"} {
		if v := strings.TrimSpace(item.Get(k).String()); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) > 0 {
		post.Location = util.ParseLocation(strings.Join(parts, ", "), domain.Singapore)
	}
	post.Compensation = parseSalary(item.Get("salary"))
}

func parseSalary(raw gjson.Result) *domain.Compensation {
	if !raw.IsObject() {
		return nil
	}
	var s salary
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil || dec.Decode(raw.Value()) != nil {
		return nil
	}
	if s.Minimum == 0 || s.Maximum == 0 {
		return nil
	}
	interval := domain.Yearly
	if s.Type.ID == monthlyT {
		interval = domain.Monthly
	}
	return &domain.Compensation{Interval: interval, Min: s.Minimum, Max: s.Maximum, Currency: "SGD"}
}
