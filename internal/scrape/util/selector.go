package util

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector is one markup heuristic: elements with one of Tags whose Attr
// value contains Contains (case-insensitive). Empty Attr matches on tag alone.
type Selector struct {
	Tags     []string
	Attr     string
	Contains string
}

func (s Selector) css() string {
	if len(s.Tags) == 0 {
		return "*"
	}
	return strings.Join(s.Tags, ",")
}

func (s Selector) matches(el *goquery.Selection) bool {
	if s.Attr == "" {
		return true
	}
	v, ok := el.Attr(s.Attr)
	if !ok || v == "" {
		return false
	}
	return strings.Contains(strings.ToLower(v), strings.ToLower(s.Contains))
}

// FindAll returns every descendant of root matching s, in document order.
func (s Selector) FindAll(root *goquery.Selection) *goquery.Selection {
	return root.Find(s.css()).FilterFunction(func(_ int, el *goquery.Selection) bool {
		return s.matches(el)
	})
}

// MatchSelectors walks descs in order and returns the matches of the first
// descriptor that finds anything, with the index of that descriptor.
func MatchSelectors(root *goquery.Selection, descs []Selector) (*goquery.Selection, int) {
	for i, d := range descs {
		if found := d.FindAll(root); found.Length() > 0 {
			return found, i
		}
	}
	return root.Slice(0, 0), -1
}

// FirstText returns the cleaned text of the first element matched by any of
// descs (in order) whose text is longer than minLen.
func FirstText(root *goquery.Selection, minLen int, descs ...Selector) string {
	for _, d := range descs {
		el := d.FindAll(root).First()
		if el.Length() == 0 {
			continue
		}
		if t := CleanText(el.Text()); len(t) > minLen {
			return t
		}
	}
	return ""
}
