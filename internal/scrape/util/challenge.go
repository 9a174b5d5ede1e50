package util

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrBlocked   = errors.New("blocked by anti-bot challenge")
	ErrNoListKey = errors.New("no recognizable job list")
)

const challengePreview = 8 << 10

var challengeMarkers = []string{
	"just a moment",
	"challenge-platform",
	"checking your browser",
	"attention required! | cloudflare",
}

// LooksBlocked reports whether a response is an interstitial challenge rather
// than real content. Edge headers that every response carries (Server,
// CF-RAY) are not a signal on their own, and 2xx bodies are only scanned for
// markers when they are HTML.
func LooksBlocked(status int, h http.Header, body []byte) bool {
	if status == http.StatusForbidden || status == http.StatusTooManyRequests {
		return true
	}
	if strings.EqualFold(h.Get("Cf-Mitigated"), "challenge") {
		return true
	}
	ok := status >= 200 && status < 300
	if ok && !looksHTML(h, body) {
		return false
	}

	preview := body
	if len(preview) > challengePreview {
		preview = preview[:challengePreview]
	}
	low := bytes.ToLower(preview)
	for _, m := range challengeMarkers {
		if bytes.Contains(low, []byte(m)) {
			return true
		}
	}
	return false
}

func looksHTML(h http.Header, body []byte) bool {
	if ct := strings.ToLower(h.Get("Content-Type")); ct != "" {
		return strings.Contains(ct, "html")
	}
	return bytes.HasPrefix(bytes.TrimSpace(body), []byte("<"))
}
