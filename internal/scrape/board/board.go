// Package board is the shared fetch/parse engine for listing sites. A site
// is described by a Profile (endpoints, list keys, alias table, markup
// heuristics) and Board runs the API -> embedded JSON -> markup chain for it.
package board

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"impactjobs-engine/internal/domain"
	"impactjobs-engine/internal/logger"
	"impactjobs-engine/internal/scrape/util"
)

type Profile struct {
	Normalizer

	FirstPage int
	PerPage   int

	// API candidates are tried in order with the same query params.
	API       []string
	APIParams func(in domain.ScraperInput, page, perPage int, now time.Time) url.Values
	ListKeys  []string

	// PageURL builds the canonical HTML search page. Empty means no HTML fallback.
	PageURL      func(in domain.ScraperInput, page int) string
	EmbeddedKeys []string

	Cards     []util.Selector
	CardLimit int
	Titles    []util.Selector
	Companies []util.Selector
	Places    []util.Selector
	Dates     []util.Selector
	TitleDeny []string
	Links     *LinkScan

	// Rewrite adapts boolean search terms for boards that can't take them.
	Rewrite func(term string) string
}

// LinkScan is the last-ditch pass over bare anchors when no card selector hits.
type LinkScan struct {
	Scope []util.Selector
	Match func(href, text string, in domain.ScraperInput) bool
	Limit int
}

type Board struct {
	p   Profile
	f   *util.Fetcher
	log logger.Logger
	now func() time.Time

	lastBlocked bool
}

func New(p Profile, f *util.Fetcher, log logger.Logger) *Board {
	if p.PerPage <= 0 {
		p.PerPage = 20
	}
	if len(p.Titles) == 0 {
		p.Titles = DefaultTitles
	}
	if len(p.Companies) == 0 {
		p.Companies = DefaultCompanies
	}
	if len(p.Places) == 0 {
		p.Places = DefaultPlaces
	}
	if len(p.Dates) == 0 {
		p.Dates = DefaultDates
	}
	if p.TitleDeny == nil {
		p.TitleDeny = []string{"alert", "create"}
	}
	return &Board{
		p:   p,
		f:   f,
		log: log.With(logger.String("source", p.Site)),
		now: time.Now,
	}
}

func (b *Board) Name() string                { return b.p.Site }
func (b *Board) Countries() []domain.Country { return b.p.Countries }
func (b *Board) FirstPage() int              { return b.p.FirstPage }
func (b *Board) LastPageBlocked() bool       { return b.lastBlocked }

func (b *Board) RewriteQuery(term string) string {
	if b.p.Rewrite == nil {
		return term
	}
	return b.p.Rewrite(term)
}

// SetClock overrides the time source used for relative dates.
func (b *Board) SetClock(now func() time.Time) { b.now = now }

func (b *Board) FetchPage(ctx context.Context, in domain.ScraperInput, page int) (jobs []domain.JobPost, hasMore bool) {
	b.lastBlocked = false
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("page parse panicked", logger.Int("page", page), logger.Any("panic", r))
			jobs, hasMore = nil, false
		}
	}()

	jobs, hasMore, apiBlocked, apiErr := b.fromAPI(ctx, in, page)
	if len(jobs) > 0 {
		b.log.Debug("api page", logger.Int("page", page), logger.Int("jobs", len(jobs)))
		return jobs, hasMore
	}

	jobs, hasMore, err := b.fromPage(ctx, in, page)
	if len(jobs) > 0 {
		if apiErr != nil {
			b.log.Debug("api attempt failed", logger.Int("page", page), logger.Error(apiErr))
		}
		return jobs, hasMore
	}

	// Nothing from any strategy: tell a challenge apart from an exhausted search.
	if apiBlocked || errors.Is(err, util.ErrBlocked) {
		b.lastBlocked = true
		b.log.Warn("challenge page detected", logger.Int("page", page), logger.Bool("blocked", true),
			logger.Bool("api_blocked", apiBlocked))
		return nil, false
	}
	if apiErr != nil {
		b.log.Warn("api attempt failed", logger.Int("page", page), logger.Error(apiErr))
	}
	if err != nil {
		b.log.Warn("page fetch failed", logger.Int("page", page), logger.Error(err))
	}
	return nil, false
}

// fromAPI reports blocked when at least one candidate was challenged and none
// answered with readable JSON.
func (b *Board) fromAPI(ctx context.Context, in domain.ScraperInput, page int) ([]domain.JobPost, bool, bool, error) {
	if len(b.p.API) == 0 || b.p.APIParams == nil {
		return nil, false, false, nil
	}
	params := b.p.APIParams(in, page, b.p.PerPage, b.now())
	headers := map[string]string{"Accept": "application/json"}

	var lastErr error
	blocked, answered := 0, false
	for _, endpoint := range b.p.API {
		res, err := b.f.Get(ctx, endpoint, params, headers)
		if err != nil {
			lastErr = err
			continue
		}
		if res.OK() && gjson.ValidBytes(res.Body) {
			answered = true
			items, ok := ListFrom(gjson.ParseBytes(res.Body), b.p.ListKeys)
			if !ok {
				lastErr = fmt.Errorf("%s: %w", endpoint, util.ErrNoListKey)
				continue
			}
			jobs := b.parseItems(items, in)
			if len(jobs) > 0 {
				return jobs, len(items) == b.p.PerPage, false, nil
			}
			continue
		}
		switch {
		case res.Blocked():
			blocked++
			lastErr = fmt.Errorf("%s: %w", endpoint, util.ErrBlocked)
		case !res.OK():
			lastErr = fmt.Errorf("%s status %d", endpoint, res.Status)
		default:
			lastErr = fmt.Errorf("%s decode: invalid json body=%s", endpoint, util.Truncate(string(res.Body), 120))
		}
	}
	return nil, false, blocked > 0 && !answered, lastErr
}

func (b *Board) fromPage(ctx context.Context, in domain.ScraperInput, page int) ([]domain.JobPost, bool, error) {
	if b.p.PageURL == nil {
		return nil, false, nil
	}
	pageURL := b.p.PageURL(in, page)
	if pageURL == "" {
		return nil, false, nil
	}

	res, err := b.f.Get(ctx, pageURL, nil, map[string]string{
		"Accept": "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	})
	if err != nil {
		return nil, false, err
	}
	if res.Blocked() {
		return nil, false, util.ErrBlocked
	}
	if !res.OK() {
		return nil, false, fmt.Errorf("%s page status %d", b.p.Site, res.Status)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return nil, false, fmt.Errorf("%s parse html: %w", b.p.Site, err)
	}

	jobs := b.fromEmbedded(doc, in)
	if len(jobs) == 0 {
		jobs = b.fromCards(doc, in)
	}
	if len(jobs) == 0 && b.p.Links != nil {
		jobs = b.fromLinks(doc, in)
	}
	return jobs, len(jobs) == b.p.PerPage, nil
}

func (b *Board) fromEmbedded(doc *goquery.Document, in domain.ScraperInput) []domain.JobPost {
	var jobs []domain.JobPost
	doc.Find(`script[type="application/json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := s.Text()
		if !gjson.Valid(raw) {
			return true
		}
		items, ok := ListFrom(gjson.Parse(raw), b.p.EmbeddedKeys)
		if !ok {
			return true
		}
		jobs = b.parseItems(items, in)
		return false
	})
	return jobs
}

func (b *Board) parseItems(items []gjson.Result, in domain.ScraperInput) []domain.JobPost {
	return b.p.NormalizeAll(items, in, b.now(), b.log)
}
