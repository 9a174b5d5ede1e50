package board

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"impactjobs-engine/internal/domain"
	"impactjobs-engine/internal/logger"
	"impactjobs-engine/internal/scrape/util"
)

var headings = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

var (
	DefaultTitles = []util.Selector{
		{Tags: headings},
		{Tags: []string{"span", "div"}, Attr: "class", Contains: "title"},
	}
	DefaultCompanies = []util.Selector{
		{Tags: []string{"span", "div", "a"}, Attr: "class", Contains: "company"},
		{Tags: []string{"span", "div"}, Attr: "class", Contains: "employer"},
	}
	DefaultPlaces = []util.Selector{
		{Tags: []string{"span", "div"}, Attr: "class", Contains: "location"},
		{Tags: []string{"span", "div"}, Attr: "class", Contains: "area"},
	}
	DefaultDates = []util.Selector{
		{Tags: []string{"span", "div"}, Attr: "class", Contains: "date"},
		{Tags: []string{"span", "div"}, Attr: "class", Contains: "time"},
		{Tags: []string{"span", "div"}, Attr: "class", Contains: "posted"},
	}
)

const minTitleLen = 5

func (b *Board) fromCards(doc *goquery.Document, in domain.ScraperInput) []domain.JobPost {
	cards, idx := util.MatchSelectors(doc.Selection, b.p.Cards)
	if idx < 0 {
		return nil
	}
	cards = cards.FilterFunction(func(_ int, card *goquery.Selection) bool {
		return !isSkeleton(card)
	})
	if b.p.CardLimit > 0 && cards.Length() > b.p.CardLimit {
		cards = cards.Slice(0, b.p.CardLimit)
	}

	var jobs []domain.JobPost
	cards.Each(func(_ int, card *goquery.Selection) {
		if post, ok := b.safeCard(card, in); ok {
			jobs = append(jobs, post)
		}
	})
	return jobs
}

func (b *Board) safeCard(card *goquery.Selection, in domain.ScraperInput) (post domain.JobPost, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn("card parse panicked", logger.Any("panic", r))
			post, ok = domain.JobPost{}, false
		}
	}()
	return b.parseCard(card, in)
}

func (b *Board) parseCard(card *goquery.Selection, in domain.ScraperInput) (domain.JobPost, bool) {
	link := card.Find("a[href]").First()
	if link.Length() == 0 {
		if goquery.NodeName(card) != "a" {
			return domain.JobPost{}, false
		}
		link = card
	}
	href, _ := link.Attr("href")
	jobURL := util.AbsURL(b.p.BaseURL, href)
	if jobURL == "" {
		return domain.JobPost{}, false
	}

	title := util.FirstText(link, minTitleLen, b.p.Titles...)
	if title == "" {
		title = util.FirstText(card, minTitleLen, b.p.Titles...)
	}
	if title == "" {
		title = util.CleanText(link.Text())
	}
	if !b.validTitle(title) {
		return domain.JobPost{}, false
	}

	company := util.FirstNonEmpty(util.FirstText(card, 1, b.p.Companies...), domain.NotAvailable)
	country := b.p.Country(in)
	place := util.FirstText(card, 0, b.p.Places...)

	post := domain.JobPost{
		ID:          b.p.IDPrefix + "-" + util.HashString(jobURL),
		Site:        b.p.Site,
		Title:       title,
		CompanyName: company,
		Location:    util.ParseLocation(place, country),
		JobURL:      jobURL,
		IsRemote:    util.IsRemote(title, ""),
	}
	now := b.now()
	for _, sel := range b.p.Dates {
		if t := util.FirstText(card, 0, sel); t != "" {
			if d := util.ParseDate(t, now); d != nil {
				post.DatePosted = d
				break
			}
		}
	}
	return post, true
}

// isSkeleton reports loading placeholders rendered before the real cards.
func isSkeleton(card *goquery.Selection) bool {
	cls, _ := card.Attr("class")
	return strings.Contains(strings.ToLower(cls), "skeleton")
}

func (b *Board) validTitle(title string) bool {
	if len(title) < minTitleLen {
		return false
	}
	lower := strings.ToLower(title)
	for _, w := range b.p.TitleDeny {
		if strings.Contains(lower, w) {
			return false
		}
	}
	return true
}

func (b *Board) fromLinks(doc *goquery.Document, in domain.ScraperInput) []domain.JobPost {
	ls := b.p.Links
	scope := doc.Selection
	if found, idx := util.MatchSelectors(doc.Selection, ls.Scope); idx >= 0 {
		scope = found.First()
	}

	seen := map[string]bool{}
	var jobs []domain.JobPost
	scope.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if ls.Limit > 0 && len(jobs) >= ls.Limit {
			return false
		}
		href, _ := a.Attr("href")
		text := util.CleanText(a.Text())
		if ls.Match != nil && !ls.Match(href, text, in) {
			return true
		}
		jobURL := util.AbsURL(b.p.BaseURL, href)
		if jobURL == "" || seen[jobURL] || util.IsJunkURL(jobURL) || !b.validTitle(text) {
			return true
		}
		seen[jobURL] = true

		post := domain.JobPost{
			ID:          b.p.IDPrefix + "-" + util.HashString(jobURL),
			Site:        b.p.Site,
			Title:       text,
			CompanyName: domain.NotAvailable,
			JobURL:      jobURL,
			IsRemote:    util.IsRemote(text, ""),
		}
		place := ""
		if parent := a.ParentsFiltered("div,article,li").First(); parent.Length() > 0 {
			post.CompanyName = util.FirstNonEmpty(util.FirstText(parent, 0, b.p.Companies[0]), domain.NotAvailable)
			place = util.FirstText(parent, 0, b.p.Places[0])
		}
		post.Location = util.ParseLocation(place, b.p.Country(in))
		jobs = append(jobs, post)
		return true
	})
	return jobs
}
