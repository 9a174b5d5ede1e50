package scrape

import (
	"regexp"
	"slices"
	"strings"

	"impactjobs-engine/internal/domain"
)

var (
	quoteRe  = regexp.MustCompile(`["']`)
	orTermRe = regexp.MustCompile(`(?i)(\w+(?:\s+\w+)?)\s+OR`)
)

var queryStopWords = map[string]bool{"or": true, "and": true, "the": true, "a": true, "an": true}

// SimplifyQuery reduces a boolean OR query to a short phrase for boards that
// only take plain keywords: `"impact manager" OR "impact analyst"` -> "impact manager".
func SimplifyQuery(q string) string {
	plain := quoteRe.ReplaceAllString(q, "")
	if m := orTermRe.FindStringSubmatch(plain); m != nil {
		return m[1]
	}
	words := strings.Fields(plain)
	for _, w := range words {
		if !queryStopWords[strings.ToLower(w)] && len(w) > 2 {
			return w
		}
	}
	if len(words) > 0 {
		return words[0]
	}
	return q
}

// SortByDate orders posts newest first. Undated posts go last and ties keep
// their input order.
func SortByDate(jobs []domain.JobPost) {
	slices.SortStableFunc(jobs, func(a, b domain.JobPost) int {
		switch {
		case a.DatePosted == nil && b.DatePosted == nil:
			return 0
		case a.DatePosted == nil:
			return 1
		case b.DatePosted == nil:
			return -1
		}
		return b.DatePosted.Compare(*a.DatePosted)
	})
}

func CountBySite(jobs []domain.JobPost) map[string]int {
	out := make(map[string]int)
	for _, j := range jobs {
		out[j.Site]++
	}
	return out
}
