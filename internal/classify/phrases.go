package classify

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// phraseSet matches a fixed list of lower-cased phrases in one pass.
type phraseSet struct {
	phrases []string
	m       *ahocorasick.Matcher
}

func newPhraseSet(phrases []string) phraseSet {
	out := make([]string, 0, len(phrases))
	seen := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	ps := phraseSet{phrases: out}
	if len(out) > 0 {
		ps.m = ahocorasick.NewStringMatcher(out)
	}
	return ps
}

// Any reports whether text contains at least one phrase. text must already
// be lower-cased.
func (ps phraseSet) Any(text string) bool {
	if ps.m == nil || text == "" {
		return false
	}
	return len(ps.m.MatchThreadSafe([]byte(text))) > 0
}

// Hits returns the matched phrases in list order.
func (ps phraseSet) Hits(text string) []string {
	if ps.m == nil || text == "" {
		return nil
	}
	idx := ps.m.MatchThreadSafe([]byte(text))
	if len(idx) == 0 {
		return nil
	}
	hit := make([]bool, len(ps.phrases))
	for _, i := range idx {
		if i >= 0 && i < len(hit) {
			hit[i] = true
		}
	}
	var out []string
	for i, p := range ps.phrases {
		if hit[i] {
			out = append(out, p)
		}
	}
	return out
}
