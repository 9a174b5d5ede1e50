package board

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"impactjobs-engine/internal/domain"
	"impactjobs-engine/internal/logger"
	"impactjobs-engine/internal/scrape/util"
)

var testNow = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

type hits struct {
	mu    sync.Mutex
	m     map[string]int
	query map[string]url.Values
}

func (h *hits) get(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.m[path]
}

func (h *hits) lastQuery(path string) url.Values {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.query[path]
}

// serve starts a server for routes that counts hits per path.
func serve(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *hits) {
	t.Helper()
	h := &hits{m: map[string]int{}, query: map[string]url.Values{}}
	mux := http.NewServeMux()
	for path, fn := range routes {
		fn := fn
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			h.mu.Lock()
			h.m[r.URL.Path]++
			h.query[r.URL.Path] = r.URL.Query()
			h.mu.Unlock()
			fn(w, r)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, h
}

func reply(status int, contentType, body string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func testProfile(base string) Profile {
	return Profile{
		Normalizer: Normalizer{
			Site:           "testboard",
			BaseURL:        base,
			IDPrefix:       "tb",
			Aliases:        CommonAliases,
			DefaultCountry: domain.Singapore,
			Countries:      []domain.Country{domain.Singapore},
			SynthURL:       func(base, id string) string { return base + "/view/" + id },
		},
		FirstPage: 1,
		PerPage:   2,
		API:       []string{base + "/api/v1", base + "/api/v2"},
		APIParams: func(in domain.ScraperInput, page, perPage int, _ time.Time) url.Values {
			return url.Values{"q": {in.SearchTerm}, "page": {strconv.Itoa(page)}, "limit": {strconv.Itoa(perPage)}}
		},
		ListKeys: []string{"results", "data.jobs"},
		PageURL: func(in domain.ScraperInput, page int) string {
			return base + "/search?page=" + strconv.Itoa(page)
		},
		EmbeddedKeys: []string{"jobs"},
		Cards:        []util.Selector{{Tags: []string{"article"}, Attr: "class", Contains: "job"}},
		Links: &LinkScan{
			Scope: []util.Selector{{Tags: []string{"div"}, Attr: "id", Contains: "main"}},
			Match: func(href, _ string, _ domain.ScraperInput) bool { return strings.Contains(href, "/job/") },
			Limit: 10,
		},
	}
}

func newTestBoard(p Profile) *Board {
	b := New(p, util.NewFetcher(2*time.Second, nil, ""), logger.NewNop())
	b.SetClock(func() time.Time { return testNow })
	return b
}

var input = domain.ScraperInput{SearchTerm: "esg", Location: "Singapore", ResultsWanted: 10}

const apiPage = `{"results":[
 {"id":"1","title":"ESG Analyst","companyName":"Green Co","url":"/job/1","location":"Singapore","postedDate":"2025-06-10","description":"<p>Lead ESG reporting. Contact esg@green.co</p>"},
 {"jobId":"2","jobTitle":"Impact Manager","company":"Blue Fund","jobUrl":"/job/2","location":"Marina Bay, Singapore","datePosted":"2 days ago"}
]}`

func TestFetchPageFromAPI(t *testing.T) {
	srv, h := serve(t, map[string]func(http.ResponseWriter, *http.Request){
		"/api/v1": reply(http.StatusOK, "application/json", apiPage),
		"/api/v2": reply(http.StatusOK, "application/json", `{"results":[]}`),
	})
	b := newTestBoard(testProfile(srv.URL))

	jobs, hasMore := b.FetchPage(context.Background(), input, 1)
	require.Len(t, jobs, 2)
	assert.True(t, hasMore, "a full page means more may follow")
	assert.False(t, b.LastPageBlocked())
	assert.Equal(t, 0, h.get("/api/v2"))
	assert.Equal(t, "esg", h.lastQuery("/api/v1").Get("q"))
	assert.Equal(t, "2", h.lastQuery("/api/v1").Get("limit"))

	first := jobs[0]
	assert.Equal(t, "tb-1", first.ID)
	assert.Equal(t, "testboard", first.Site)
	assert.Equal(t, srv.URL+"/job/1", first.JobURL)
	assert.Equal(t, "Green Co", first.CompanyName)
	assert.Equal(t, domain.Location{City: "Singapore", Country: domain.Singapore}, first.Location)
	require.NotNil(t, first.DatePosted)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), *first.DatePosted)
	assert.Equal(t, []string{"esg@green.co"}, first.Emails)

	second := jobs[1]
	assert.Equal(t, "tb-2", second.ID)
	assert.Equal(t, "Blue Fund", second.CompanyName)
	assert.Equal(t, "Marina Bay", second.Location.City)
	require.NotNil(t, second.DatePosted)
	assert.Equal(t, time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC), *second.DatePosted)
}

func TestFetchPageFallsBackToNextCandidate(t *testing.T) {
	srv, h := serve(t, map[string]func(http.ResponseWriter, *http.Request){
		"/api/v1": reply(http.StatusInternalServerError, "text/plain", "boom"),
		"/api/v2": reply(http.StatusOK, "application/json", `{"data":{"jobs":[{"id":"9","title":"Climate Analyst","url":"/job/9"}]}}`),
		"/search": reply(http.StatusOK, "text/html", "<html></html>"),
	})
	b := newTestBoard(testProfile(srv.URL))

	jobs, hasMore := b.FetchPage(context.Background(), input, 1)
	require.Len(t, jobs, 1)
	assert.False(t, hasMore)
	assert.Equal(t, "Climate Analyst", jobs[0].Title)
	assert.Equal(t, domain.NotAvailable, jobs[0].CompanyName)
	assert.Nil(t, jobs[0].DatePosted)
	assert.Equal(t, 1, h.get("/api/v1"))
	assert.Equal(t, 0, h.get("/search"))
}

const embeddedPage = `<html><head>
<script type="application/json">{"props":{"page":1}}</script>
<script type="application/json">{"jobs":[{"jobId":"e1","jobTitle":"Impact Investing Associate","company_name":"Seed Fund","job_url":"https://other.example.com/j/e1","datePosted":"3 days ago"}]}</script>
</head><body></body></html>`

func TestFetchPageMalformedJSONFallsBackToEmbedded(t *testing.T) {
	srv, h := serve(t, map[string]func(http.ResponseWriter, *http.Request){
		"/api/v1": reply(http.StatusOK, "application/json", `{"results":[`),
		"/api/v2": reply(http.StatusOK, "text/html", `<html>not json</html>`),
		"/search": reply(http.StatusOK, "text/html; charset=utf-8", embeddedPage),
	})
	b := newTestBoard(testProfile(srv.URL))

	jobs, _ := b.FetchPage(context.Background(), input, 1)
	require.Len(t, jobs, 1)
	assert.Equal(t, 1, h.get("/search"))

	j := jobs[0]
	assert.Equal(t, "tb-e1", j.ID)
	assert.Equal(t, "Impact Investing Associate", j.Title)
	assert.Equal(t, "Seed Fund", j.CompanyName)
	assert.Equal(t, "https://other.example.com/j/e1", j.JobURL)
	require.NotNil(t, j.DatePosted)
	assert.Equal(t, time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC), *j.DatePosted)
}

const cardPage = `<html><body>
<article class="job-card skeleton"><a href="/job/0"><h3>Loading placeholder</h3></a></article>
<article class="job-card">
  <a href="/job/10?utm_source=list"><h3>Sustainability Manager</h3></a>
  <span class="company">Harbour Energy</span>
  <span class="location">Raffles Place, Singapore</span>
  <span class="date">2 days ago</span>
</article>
<article class="job-card"><a href="/job/11"><h3>Create a job alert</h3></a></article>
<article class="job-card"><h3>No link on this card</h3></article>
</body></html>`

func TestFetchPageParsesCards(t *testing.T) {
	srv, _ := serve(t, map[string]func(http.ResponseWriter, *http.Request){
		"/api/v1": reply(http.StatusOK, "application/json", `{"results":[]}`),
		"/api/v2": reply(http.StatusNotFound, "text/plain", "missing"),
		"/search": reply(http.StatusOK, "text/html", cardPage),
	})
	b := newTestBoard(testProfile(srv.URL))

	jobs, hasMore := b.FetchPage(context.Background(), input, 1)
	require.Len(t, jobs, 1)
	assert.False(t, hasMore)

	j := jobs[0]
	assert.Equal(t, "Sustainability Manager", j.Title)
	assert.Equal(t, "Harbour Energy", j.CompanyName)
	assert.Equal(t, srv.URL+"/job/10", j.JobURL)
	assert.Equal(t, "tb-"+util.HashString(j.JobURL), j.ID)
	assert.Equal(t, domain.Location{City: "Raffles Place", Country: domain.Singapore}, j.Location)
	require.NotNil(t, j.DatePosted)
	assert.Equal(t, time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC), *j.DatePosted)
}

const linkPage = `<html><body>
<nav><a href="/job/999">Navigation Job Link Outside</a></nav>
<div id="main">
  <div class="row">
    <a href="/job/501">Climate Risk Analyst</a>
    <span class="company">Bay Bank</span>
    <span class="location">Orchard, Singapore</span>
  </div>
  <a href="/job/501">Climate Risk Analyst</a>
  <a href="/job/502">Job</a>
  <a href="/login">Sign in to apply now</a>
  <a href="/job/alerts">Get new jobs by email</a>
</div>
</body></html>`

func TestFetchPageScansLinks(t *testing.T) {
	p := testProfile("")
	p.API = nil
	srv, _ := serve(t, map[string]func(http.ResponseWriter, *http.Request){
		"/search": reply(http.StatusOK, "text/html", linkPage),
	})
	p.BaseURL = srv.URL
	p.PageURL = func(domain.ScraperInput, int) string { return srv.URL + "/search" }
	b := newTestBoard(p)

	jobs, _ := b.FetchPage(context.Background(), input, 1)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Climate Risk Analyst", jobs[0].Title)
	assert.Equal(t, "Bay Bank", jobs[0].CompanyName)
	assert.Equal(t, "Orchard", jobs[0].Location.City)
	assert.Equal(t, srv.URL+"/job/501", jobs[0].JobURL)
}

func TestFetchPageBlocked(t *testing.T) {
	srv, _ := serve(t, map[string]func(http.ResponseWriter, *http.Request){
		"/api/v1": reply(http.StatusForbidden, "text/html", "denied"),
		"/api/v2": reply(http.StatusTooManyRequests, "text/html", "slow down"),
		"/search": reply(http.StatusOK, "text/html", "<html><title>Just a moment...</title></html>"),
	})
	b := newTestBoard(testProfile(srv.URL))

	jobs, hasMore := b.FetchPage(context.Background(), input, 1)
	assert.Empty(t, jobs)
	assert.False(t, hasMore)
	assert.True(t, b.LastPageBlocked())
}

func TestFetchPageBlockedAPIWithoutPage(t *testing.T) {
	srv, _ := serve(t, map[string]func(http.ResponseWriter, *http.Request){
		"/api/v1": reply(http.StatusForbidden, "text/html", "denied"),
		"/api/v2": reply(http.StatusForbidden, "text/html", "denied"),
	})
	p := testProfile(srv.URL)
	p.PageURL = nil
	b := newTestBoard(p)

	jobs, _ := b.FetchPage(context.Background(), input, 1)
	assert.Empty(t, jobs)
	assert.True(t, b.LastPageBlocked())
}

func TestFetchPageServerErrorIsNotBlocked(t *testing.T) {
	srv, _ := serve(t, map[string]func(http.ResponseWriter, *http.Request){
		"/api/v1": reply(http.StatusBadGateway, "text/plain", "bad gateway"),
		"/api/v2": reply(http.StatusBadGateway, "text/plain", "bad gateway"),
		"/search": reply(http.StatusServiceUnavailable, "text/plain", "down"),
	})
	b := newTestBoard(testProfile(srv.URL))

	jobs, hasMore := b.FetchPage(context.Background(), input, 1)
	assert.Empty(t, jobs)
	assert.False(t, hasMore)
	assert.False(t, b.LastPageBlocked())
}

func TestFetchPageIgnoresEdgeHeadersOnRealData(t *testing.T) {
	edge := func(body string) func(http.ResponseWriter, *http.Request) {
		return func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Server", "cloudflare")
			w.Header().Set("CF-RAY", "8a1b2c3d4e5f-SIN")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"full page", apiPage, 2},
		{"challenge wording in a description", `{"results":[{"id":"9","title":"ESG Lead","url":"/job/9",` +
			`"description":"Attention required to detail in ESG reporting. Just a moment of your time."}]}`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := serve(t, map[string]func(http.ResponseWriter, *http.Request){
				"/api/v1": edge(tt.body),
			})
			p := testProfile(srv.URL)
			p.API = p.API[:1]
			b := newTestBoard(p)

			jobs, _ := b.FetchPage(context.Background(), input, 1)
			assert.Len(t, jobs, tt.want)
			assert.False(t, b.LastPageBlocked())
		})
	}
}

func TestFetchPageChallengedAPIWithEmptyShell(t *testing.T) {
	srv, h := serve(t, map[string]func(http.ResponseWriter, *http.Request){
		"/api/v1": reply(http.StatusForbidden, "text/html", "denied"),
		"/api/v2": reply(http.StatusForbidden, "text/html", "denied"),
		"/search": reply(http.StatusOK, "text/html", `<html><body><div id="root"></div></body></html>`),
	})
	b := newTestBoard(testProfile(srv.URL))

	jobs, hasMore := b.FetchPage(context.Background(), input, 1)
	assert.Empty(t, jobs)
	assert.False(t, hasMore)
	assert.True(t, b.LastPageBlocked(), "a challenged api with an empty page is not an exhausted search")
	assert.Equal(t, 1, h.get("/search"))
}

func TestFetchPageWarnsWhenAPIFailsAndNothingParses(t *testing.T) {
	srv, _ := serve(t, map[string]func(http.ResponseWriter, *http.Request){
		"/api/v1": reply(http.StatusBadGateway, "text/plain", "bad gateway"),
		"/api/v2": reply(http.StatusBadGateway, "text/plain", "bad gateway"),
		"/search": reply(http.StatusOK, "text/html", `<html><body></body></html>`),
	})
	core, logs := observer.New(zapcore.DebugLevel)
	b := New(testProfile(srv.URL), util.NewFetcher(2*time.Second, nil, ""), logger.Wrap(zap.New(core)))

	jobs, _ := b.FetchPage(context.Background(), input, 1)
	assert.Empty(t, jobs)
	assert.False(t, b.LastPageBlocked())

	failed := logs.FilterMessage("api attempt failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.WarnLevel, failed[0].Level)
	assert.Equal(t, "testboard", failed[0].ContextMap()["source"])
}

func TestFetchPageEmptyAnswerIsNotBlocked(t *testing.T) {
	srv, _ := serve(t, map[string]func(http.ResponseWriter, *http.Request){
		"/api/v1": reply(http.StatusForbidden, "text/html", "denied"),
		"/api/v2": reply(http.StatusOK, "application/json", `{"results":[]}`),
		"/search": reply(http.StatusOK, "text/html", `<html><body></body></html>`),
	})
	b := newTestBoard(testProfile(srv.URL))

	jobs, _ := b.FetchPage(context.Background(), input, 1)
	assert.Empty(t, jobs)
	assert.False(t, b.LastPageBlocked())
}

func TestFetchPageRecoversFromPanic(t *testing.T) {
	srv, _ := serve(t, map[string]func(http.ResponseWriter, *http.Request){
		"/api/v1": reply(http.StatusOK, "application/json", apiPage),
	})
	p := testProfile(srv.URL)
	p.API = p.API[:1]
	p.Enrich = func(item gjson.Result, post *domain.JobPost, _ domain.ScraperInput) {
		if item.Get("id").String() == "1" {
			panic("bad item")
		}
	}
	b := newTestBoard(p)

	jobs, _ := b.FetchPage(context.Background(), input, 1)
	require.Len(t, jobs, 1, "one bad item must not lose the page")
	assert.Equal(t, "tb-2", jobs[0].ID)
}

func TestNormalize(t *testing.T) {
	n := testProfile("https://board.example").Normalizer

	t.Run("synthesizes url from id", func(t *testing.T) {
		post, ok := n.Normalize(gjson.Parse(`{"id":77,"title":"ESG Officer"}`), input, testNow)
		require.True(t, ok)
		assert.Equal(t, "https://board.example/view/77", post.JobURL)
		assert.Equal(t, "tb-77", post.ID)
	})
	t.Run("drops items without url or id", func(t *testing.T) {
		_, ok := n.Normalize(gjson.Parse(`{"title":"ESG Officer"}`), input, testNow)
		assert.False(t, ok)
	})
	t.Run("drops non objects", func(t *testing.T) {
		_, ok := n.Normalize(gjson.Parse(`"just a string"`), input, testNow)
		assert.False(t, ok)
	})
	t.Run("hashes url when no id", func(t *testing.T) {
		post, ok := n.Normalize(gjson.Parse(`{"url":"https://board.example/job/a","title":"Remote ESG Analyst"}`), input, testNow)
		require.True(t, ok)
		assert.Equal(t, "tb-"+util.HashString("https://board.example/job/a"), post.ID)
		assert.True(t, post.IsRemote)
		assert.Equal(t, domain.NotAvailable, post.CompanyName)
	})
	t.Run("unsupported country falls back to default", func(t *testing.T) {
		hk := input
		hk.Location = "Hong Kong"
		assert.Equal(t, domain.Singapore, n.Country(hk))
	})
}

func TestListFrom(t *testing.T) {
	root := gjson.Parse(`{"results":[],"data":{"jobs":[{"id":1}]}}`)
	items, ok := ListFrom(root, []string{"results", "data.jobs"})
	require.True(t, ok)
	assert.Len(t, items, 1)

	_, ok = ListFrom(gjson.Parse(`[{"id":1}]`), []string{"results"})
	assert.False(t, ok)
}
