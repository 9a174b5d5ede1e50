package board

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"impactjobs-engine/internal/domain"
	"impactjobs-engine/internal/logger"
	"impactjobs-engine/internal/scrape/util"
)

// Aliases lists, per field, the gjson paths a source has been seen to use.
// The first path holding a non-empty scalar wins.
type Aliases struct {
	ID          []string
	Title       []string
	Company     []string
	Location    []string
	URL         []string
	Date        []string
	Description []string
}

// CommonAliases covers the camelCase / snake_case spread the SEEK-style boards use.
var CommonAliases = Aliases{
	ID:          []string{"id", "jobId", "job_id"},
	Title:       []string{"title", "jobTitle", "job_title"},
	Company:     []string{"company", "companyName", "company_name"},
	Location:    []string{"location", "jobLocation", "job_location"},
	URL:         []string{"url", "jobUrl", "job_url"},
	Date:        []string{"postedDate", "datePosted", "posted_date"},
	Description: []string{"description", "jobDescription", "job_description"},
}

// FirstString returns the first non-empty string or number found under paths.
func FirstString(item gjson.Result, paths []string) string {
	for _, p := range paths {
		r := item.Get(p)
		if r.Type != gjson.String && r.Type != gjson.Number {
			continue
		}
		if s := strings.TrimSpace(r.String()); s != "" {
			return s
		}
	}
	return ""
}

// ListFrom returns the first non-empty array under keys. root must be an object.
func ListFrom(root gjson.Result, keys []string) ([]gjson.Result, bool) {
	if !root.IsObject() {
		return nil, false
	}
	for _, k := range keys {
		r := root.Get(k)
		if r.IsArray() {
			if arr := r.Array(); len(arr) > 0 {
				return arr, true
			}
		}
	}
	return nil, false
}

// Normalizer turns one raw JSON item into a JobPost for a given site.
type Normalizer struct {
	Site           string
	BaseURL        string
	IDPrefix       string
	Aliases        Aliases
	DefaultCountry domain.Country
	Countries      []domain.Country

	// SynthURL builds a posting URL from a native id when the item has none.
	SynthURL func(base, id string) string

	// Enrich lets a source fill fields the alias table can't express.
	Enrich func(item gjson.Result, post *domain.JobPost, in domain.ScraperInput)
}

// Country resolves the country for a request, falling back to the default
// when the location names one this source doesn't cover.
func (n Normalizer) Country(in domain.ScraperInput) domain.Country {
	c := util.CountryFor(in.Location, n.DefaultCountry)
	for _, ok := range n.Countries {
		if ok == c {
			return c
		}
	}
	return n.DefaultCountry
}

// Normalize reports false for items that don't resolve to a usable URL.
func (n Normalizer) Normalize(item gjson.Result, in domain.ScraperInput, now time.Time) (domain.JobPost, bool) {
	if !item.IsObject() {
		return domain.JobPost{}, false
	}
	a := n.Aliases

	id := FirstString(item, a.ID)
	jobURL := ""
	if raw := FirstString(item, a.URL); raw != "" {
		jobURL = util.AbsURL(n.BaseURL, raw)
	}
	if jobURL == "" && id != "" && n.SynthURL != nil {
		jobURL = util.CanonicalURL(n.SynthURL(n.BaseURL, id))
	}
	if jobURL == "" {
		return domain.JobPost{}, false
	}
	if id == "" {
		id = util.HashString(jobURL)
	}

	title := util.CleanText(util.FirstNonEmpty(FirstString(item, a.Title), domain.NotAvailable))
	company := util.CleanText(util.FirstNonEmpty(FirstString(item, a.Company), domain.NotAvailable))
	desc := util.DescriptionText(FirstString(item, a.Description), in.DescriptionFormat)

	post := domain.JobPost{
		ID:          n.IDPrefix + "-" + id,
		Site:        n.Site,
		Title:       title,
		CompanyName: company,
		Location:    util.ParseLocation(FirstString(item, a.Location), n.Country(in)),
		DatePosted:  util.ParseDate(FirstString(item, a.Date), now),
		JobURL:      jobURL,
		Description: desc,
		IsRemote:    util.IsRemote(title, desc),
		Emails:      util.ExtractEmails(desc),
	}
	if n.Enrich != nil {
		n.Enrich(item, &post, in)
	}
	return post, true
}

// NormalizeAll maps items in order, dropping ones that fail to normalize. A
// panic on one item only loses that item.
func (n Normalizer) NormalizeAll(items []gjson.Result, in domain.ScraperInput, now time.Time, log logger.Logger) []domain.JobPost {
	out := make([]domain.JobPost, 0, len(items))
	for i, item := range items {
		post, ok := n.safeNormalize(item, in, now, log)
		if !ok {
			log.Debug("item skipped", logger.Int("index", i))
			continue
		}
		out = append(out, post)
	}
	return out
}

func (n Normalizer) safeNormalize(item gjson.Result, in domain.ScraperInput, now time.Time, log logger.Logger) (post domain.JobPost, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("item parse panicked", logger.Any("panic", r))
			post, ok = domain.JobPost{}, false
		}
	}()
	return n.Normalize(item, in, now)
}
