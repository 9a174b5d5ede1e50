package util

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"

	"impactjobs-engine/internal/domain"
)

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func Truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// HashString gives a short stable id for things that have no native id.
func HashString(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}

// Slug turns a search term into the path form boards use: "Climate Risk" -> "climate-risk".
func Slug(term string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(term)), " ", "-")
}

var remoteKeywords = []string{"remote", "work from home", "wfh", "home based", "work from anywhere"}

func IsRemote(title, description string) bool {
	blob := strings.ToLower(title + " " + description)
	for _, kw := range remoteKeywords {
		if strings.Contains(blob, kw) {
			return true
		}
	}
	return false
}

var emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

func ExtractEmails(text string) []string {
	found := emailRe.FindAllString(text, -1)
	if len(found) == 0 {
		return nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(found))
	for _, e := range found {
		k := strings.ToLower(e)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}

// CountryFor picks the country a multi-country board should search from the
// free-text location the caller passed in.
func CountryFor(location string, fallback domain.Country) domain.Country {
	l := strings.ToLower(location)
	switch {
	case strings.Contains(l, "hong kong") || containsWord(l, "hk"):
		return domain.HongKong
	case strings.Contains(l, "singapore") || containsWord(l, "sg"):
		return domain.Singapore
	default:
		return fallback
	}
}

func containsWord(s, w string) bool {
	for _, f := range strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if f == w {
			return true
		}
	}
	return false
}

// ParseLocation splits "City, Region" text. The country is fixed by the
// caller since every board is scoped to one country per request.
func ParseLocation(text string, country domain.Country) domain.Location {
	text = CleanText(text)
	if text == "" || strings.EqualFold(text, country.DisplayName()) || strings.EqualFold(text, country.PrincipalCity()) {
		return domain.Location{City: country.PrincipalCity(), Country: country}
	}
	city := CleanText(strings.SplitN(text, ",", 2)[0])
	if city == "" {
		city = country.PrincipalCity()
	}
	return domain.Location{City: city, Country: country}
}
