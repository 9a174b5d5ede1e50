package util

import (
	"net/url"
	"sort"
	"strings"
)

// AbsURL resolves href against base and canonicalizes the result. Returns ""
// for anchors that don't point anywhere.
func AbsURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if !ref.IsAbs() {
		b, err := url.Parse(base)
		if err != nil || b.Host == "" {
			return ""
		}
		ref = b.ResolveReference(ref)
	}
	if ref.Host == "" {
		return ""
	}
	return CanonicalURL(ref.String())
}

// CanonicalURL lowercases scheme and host, drops the fragment and tracking
// params, and sorts the query so one posting maps to one key.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") ||
			lk == "gclid" || lk == "fbclid" || lk == "msclkid" ||
			lk == "mc_cid" || lk == "mc_eid" ||
			lk == "mkt_tok" {
			q.Del(k)
		}
	}

	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// IsJunkURL flags navigation and account links that link scans pick up.
func IsJunkURL(u string) bool {
	lu := strings.ToLower(u)
	junks := []string{
		"unsubscribe",
		"preferences",
		"privacy",
		"terms",
		"/alerts",
		"job-alert",
		"/settings",
		"/help",
		"/legal",
		"/login",
		"/register",
	}
	for _, j := range junks {
		if strings.Contains(lu, j) {
			return true
		}
	}
	return false
}
