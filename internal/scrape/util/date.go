package util

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var relativeDateRe = regexp.MustCompile(`(\d+)\s*(hour|hours|day|days|week|weeks|month|months)\s*ago`)

var dateLayouts = []string{
	"02 Jan 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"02 January 2006",
	"2 January 2006",
	"January 02, 2006",
	"January 2, 2006",
	"02/01/2006",
	"2/1/2006",
	"2006-01-02",
	time.RFC3339,
}

// ParseDate understands "3 days ago", "just now", "today" and a handful of
// absolute layouts. Unknown text yields nil; it is never an error.
func ParseDate(text string, now time.Time) *time.Time {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil
	}
	low := strings.ToLower(raw)

	if m := relativeDateRe.FindStringSubmatch(low); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		var d time.Duration
		switch strings.TrimSuffix(m[2], "s") {
		case "hour":
			d = time.Duration(n) * time.Hour
		case "day":
			d = time.Duration(n) * 24 * time.Hour
		case "week":
			d = time.Duration(n) * 7 * 24 * time.Hour
		case "month":
			d = time.Duration(n) * 30 * 24 * time.Hour
		}
		return dateOnly(now.Add(-d))
	}

	if strings.Contains(low, "just now") || strings.Contains(low, "today") {
		return dateOnly(now)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return dateOnly(t)
		}
	}
	return nil
}

func dateOnly(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
