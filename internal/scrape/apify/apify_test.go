package apify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"impactjobs-engine/internal/domain"
	"impactjobs-engine/internal/logger"
	"impactjobs-engine/internal/scrape/util"
)

// fakeApify serves one actor run whose status walks through statuses.
type fakeApify struct {
	t        *testing.T
	statuses []string
	dataset  string

	mu     sync.Mutex
	polls  int
	input  map[string]any
	starts int
}

func (f *fakeApify) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	assert.Equal(f.t, "Bearer secret", r.Header.Get("Authorization"))
	w.Header().Set("Content-Type", "application/json")

	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/acts/websift~seek-job-scraper/runs":
		f.starts++
		_ = json.NewDecoder(r.Body).Decode(&f.input)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"run-1","status":"READY"}}`))
	case r.URL.Path == "/actor-runs/run-1":
		status := f.statuses[min(f.polls, len(f.statuses)-1)]
		f.polls++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"id": "run-1", "status": status, "defaultDatasetId": "ds-1"},
		})
	case r.URL.Path == "/datasets/ds-1/items":
		assert.Equal(f.t, "1000", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(f.dataset))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newClient(t *testing.T, fake *fakeApify, token string) (*Client, *[]time.Duration) {
	t.Helper()
	fake.t = t
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c := NewClient(Config{BaseURL: srv.URL, Token: token, Poll: 5 * time.Second, MaxWait: 15 * time.Second},
		util.NewFetcher(2*time.Second, nil, ""), logger.NewNop())
	var slept []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return c, &slept
}

const datasetItems = `[
 {"title":"ESG Manager","companyName":"UOB","url":"https://sg.jobstreet.com/job/1","location":"Singapore","postedDate":"2025-06-10"},
 {"title":"No link posting","company":"Nobody"}
]`

func TestRunSucceeds(t *testing.T) {
	fake := &fakeApify{statuses: []string{"RUNNING", "RUNNING", "SUCCEEDED"}, dataset: datasetItems}
	c, slept := newClient(t, fake, "secret")

	got, err := c.Run(context.Background(), JobStreetSG.ID, map[string]any{"searchTerm": "esg"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, *slept)
	assert.Equal(t, "esg", fake.input["searchTerm"])
}

func TestRunReadsWrappedDataset(t *testing.T) {
	fake := &fakeApify{statuses: []string{"SUCCEEDED"}, dataset: `{"data":{"items":[{"title":"a"},{"title":"b"},{"title":"c"}]}}`}
	c, slept := newClient(t, fake, "secret")

	got, err := c.Run(context.Background(), JobStreetSG.ID, nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Empty(t, *slept)
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		dataset  string
		want     error
		polls    int
	}{
		{"failed run", []string{"RUNNING", "FAILED"}, datasetItems, ErrRunFailed, 2},
		{"aborted run", []string{"ABORTED"}, datasetItems, ErrRunFailed, 1},
		{"never finishes", []string{"RUNNING"}, datasetItems, ErrRunTimeout, 4},
		{"unknown dataset shape", []string{"SUCCEEDED"}, `{"data":{}}`, util.ErrNoListKey, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeApify{statuses: tt.statuses, dataset: tt.dataset}
			c, _ := newClient(t, fake, "secret")

			_, err := c.Run(context.Background(), JobStreetSG.ID, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, tt.polls, fake.polls)
		})
	}
}

func TestRunWithoutToken(t *testing.T) {
	fake := &fakeApify{statuses: []string{"SUCCEEDED"}, dataset: datasetItems}
	c, _ := newClient(t, fake, "")

	assert.False(t, c.HasToken())
	_, err := c.Run(context.Background(), JobStreetSG.ID, nil)
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Zero(t, fake.starts)
}

func TestSourceFetchPage(t *testing.T) {
	fake := &fakeApify{statuses: []string{"SUCCEEDED"}, dataset: datasetItems}
	c, _ := newClient(t, fake, "secret")
	src := NewSource(c, JobStreetSG, logger.NewNop())
	src.SetClock(func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) })

	in := domain.ScraperInput{SearchTerm: "esg", Location: "Singapore", ResultsWanted: 30}
	jobs, hasMore := src.FetchPage(context.Background(), in, src.FirstPage())
	require.Len(t, jobs, 1)
	assert.False(t, hasMore)

	j := jobs[0]
	assert.Equal(t, "jobstreet_sg_apify", j.Site)
	assert.Equal(t, "apify-jobstreet-"+util.HashString("https://sg.jobstreet.com/job/1"), j.ID)
	assert.Equal(t, "UOB", j.CompanyName)
	assert.Equal(t, domain.Location{City: "Singapore", Country: domain.Singapore}, j.Location)

	assert.Equal(t, "esg", fake.input["searchTerm"])
	assert.Equal(t, float64(30), fake.input["maxResults"])
	assert.Equal(t, "Singapore", fake.input["suburbOrCity"])

	more, _ := src.FetchPage(context.Background(), in, 2)
	assert.Empty(t, more)
	assert.Equal(t, 1, fake.starts, "only the first page runs the actor")
}

func TestSourceKeepsDatasetWhenOneItemPanics(t *testing.T) {
	fake := &fakeApify{statuses: []string{"SUCCEEDED"}, dataset: `[
 {"title":"ESG Manager","companyName":"UOB","url":"https://sg.jobstreet.com/job/1"},
 {"title":"Climate Analyst","companyName":"DBS","url":"https://sg.jobstreet.com/job/2"},
 {"title":"Impact Lead","companyName":"OCBC","url":"https://sg.jobstreet.com/job/3"}
]`}
	c, _ := newClient(t, fake, "secret")
	actor := JobStreetSG
	actor.Normalizer.Enrich = func(item gjson.Result, _ *domain.JobPost, _ domain.ScraperInput) {
		if item.Get("companyName").String() == "DBS" {
			panic("bad item")
		}
	}
	src := NewSource(c, actor, logger.NewNop())

	jobs, _ := src.FetchPage(context.Background(), domain.ScraperInput{SearchTerm: "esg", ResultsWanted: 30}, src.FirstPage())
	require.Len(t, jobs, 2)
	assert.Equal(t, "UOB", jobs[0].CompanyName)
	assert.Equal(t, "OCBC", jobs[1].CompanyName)
}

func TestSourceSkipsWithoutToken(t *testing.T) {
	fake := &fakeApify{statuses: []string{"SUCCEEDED"}, dataset: datasetItems}
	c, _ := newClient(t, fake, "")
	src := NewSource(c, JobsDBHK, logger.NewNop())

	jobs, hasMore := src.FetchPage(context.Background(), domain.ScraperInput{SearchTerm: "esg", ResultsWanted: 30}, 1)
	assert.Empty(t, jobs)
	assert.False(t, hasMore)
	assert.Equal(t, []domain.Country{domain.HongKong}, src.Countries())
	assert.Equal(t, "esg", src.RewriteQuery(`"esg" OR "csr"`))
}

func TestActorInputsCapResults(t *testing.T) {
	assert.Equal(t, 550, JobStreetSG.Input("esg", 2000)["maxResults"])
	assert.Equal(t, 1000, JobsDBHK.Input("esg", 5000)["maxResults"])
	assert.Equal(t, "Hong Kong", JobsDBHK.Input("esg", 10)["location"])
	assert.Equal(t, "websift~seek-job-scraper", actorPath("websift/seek-job-scraper"))
}
