package jobsdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impactjobs-engine/internal/domain"
	"impactjobs-engine/internal/logger"
	"impactjobs-engine/internal/scrape/board"
	"impactjobs-engine/internal/scrape/util"
)

func TestPageURL(t *testing.T) {
	p := Profile()
	assert.Equal(t, "https://sg.jora.com/j?l=Singapore&q=esg+analyst",
		p.PageURL(domain.ScraperInput{SearchTerm: "esg analyst", Location: "Singapore"}, 1))
	assert.Equal(t, "https://sg.jora.com/j?l=Singapore&page=2&q=esg",
		p.PageURL(domain.ScraperInput{SearchTerm: "esg", Location: "Singapore"}, 2))
}

func TestFetchPageSecondCandidate(t *testing.T) {
	var first atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a":
			first.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"error":"gone"}`))
		case "/b":
			assert.Equal(t, "Singapore", r.URL.Query().Get("l"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"jobs":[{"job_id":"j-1","job_title":"Carbon Analyst","company_name":"Sembcorp","job_location":"Singapore","posted_date":"2025-06-02"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := Profile()
	p.API = []string{srv.URL + "/a", srv.URL + "/b"}
	b := board.New(p, util.NewFetcher(2*time.Second, nil, ""), logger.NewNop())

	jobs, _ := b.FetchPage(context.Background(), domain.ScraperInput{SearchTerm: "carbon", Location: "Singapore"}, 1)
	require.Len(t, jobs, 1)
	assert.Equal(t, int32(1), first.Load())
	assert.Equal(t, "jobsdb-j-1", jobs[0].ID)
	assert.Equal(t, "https://sg.jora.com/viewjob?jk=j-1", jobs[0].JobURL)
	assert.Equal(t, "Sembcorp", jobs[0].CompanyName)
}

func TestCardsFromJobDivs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<div class="job-item"><a href="/job/esg-lead-1"><h2>ESG Lead, APAC</h2></a><span class="company">Wilmar</span></div>`))
	}))
	defer srv.Close()

	p := Profile()
	p.API = nil
	p.BaseURL = srv.URL
	p.PageURL = func(domain.ScraperInput, int) string { return srv.URL }
	b := board.New(p, util.NewFetcher(2*time.Second, nil, ""), logger.NewNop())

	jobs, _ := b.FetchPage(context.Background(), domain.ScraperInput{SearchTerm: "esg"}, 1)
	require.Len(t, jobs, 1)
	assert.Equal(t, "ESG Lead, APAC", jobs[0].Title)
	assert.Equal(t, "Wilmar", jobs[0].CompanyName)
	assert.Equal(t, domain.Singapore, jobs[0].Location.Country)
}
