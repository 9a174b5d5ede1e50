package config

import (
	"errors"
	"fmt"
	"strings"

	"impactjobs-engine/internal/domain"
	"impactjobs-engine/internal/scrape/util"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return errors.New("config validation failed:\n- " + strings.Join(v.Errors, "\n- "))
}

// NormalizeAndValidate returns a normalized copy of cfg along with any
// problems found in it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Search.Terms = trimList(out.Search.Terms)
	out.Search.Locations = trimList(out.Search.Locations)
	out.App.LogLevel = strings.ToLower(strings.TrimSpace(out.App.LogLevel))
	out.App.DataDir = strings.TrimSpace(out.App.DataDir)
	if out.App.DataDir == "" {
		out.App.DataDir = "."
	}

	if len(out.Search.Terms) == 0 {
		res.addErr("search.terms must have at least 1 term")
	}
	if len(out.Search.Locations) == 0 {
		res.addErr("search.locations must have at least 1 location")
	}
	for _, loc := range out.Search.Locations {
		if util.CountryFor(loc, domain.Other) == domain.Other {
			res.addWarn("location %q is not Singapore or Hong Kong; no source will serve it", loc)
		}
	}

	if out.Search.ResultsWanted <= 0 {
		res.addErr("search.results_wanted must be > 0")
	} else if out.Search.ResultsWanted > 1000 {
		res.addWarn("search.results_wanted is very high (%d); boards will likely block before that.", out.Search.ResultsWanted)
	}
	if out.Search.HoursOld < 0 {
		res.addErr("search.hours_old must be >= 0")
	}
	if out.Search.MaxPages <= 0 {
		res.addErr("search.max_pages must be > 0")
	}
	switch strings.ToLower(strings.TrimSpace(out.Search.DescriptionFormat)) {
	case "", "plain", "markdown":
	default:
		res.addWarn("search.description_format %q is unknown; using plain", out.Search.DescriptionFormat)
	}

	switch out.App.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		res.addWarn("app.log_level %q is unknown; using info", out.App.LogLevel)
	}

	for name, s := range out.Sources {
		if s.DelaySeconds < 0 || s.JitterSeconds < 0 {
			res.addErr("sources.%s delay and jitter must be >= 0", name)
		}
		if s.PerPage < 0 {
			res.addErr("sources.%s.per_page must be >= 0", name)
		}
		if s.Enabled && s.DelaySeconds+s.JitterSeconds == 0 {
			res.addWarn("sources.%s has no delay between pages and may get blocked.", name)
		}
	}

	if out.HTTP.TimeoutSeconds <= 0 {
		res.addErr("http.timeout_seconds must be > 0")
	}
	if out.HTTP.ReqPerSec <= 0 {
		res.addErr("http.req_per_sec must be > 0")
	}
	if out.HTTP.Burst <= 0 {
		res.addErr("http.burst must be > 0")
	}

	if out.Apify.Enabled {
		if strings.TrimSpace(out.Apify.BaseURL) == "" {
			res.addErr("apify.base_url is required when apify.enabled=true")
		}
		if out.Apify.PollSeconds <= 0 {
			res.addErr("apify.poll_seconds must be > 0")
		}
		if out.Apify.MaxWaitSeconds < out.Apify.PollSeconds {
			res.addErr("apify.max_wait_seconds must be >= apify.poll_seconds")
		}
	}

	return out, res
}
