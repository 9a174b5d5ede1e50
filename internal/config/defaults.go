package config

import (
	_ "embed"

	"impactjobs-engine/internal/scrape/apify"
)

//go:embed default.yml
var defaultYAML []byte

// DefaultTerms is the built-in search plan: OR-queries over impact roles.
var DefaultTerms = []string{
	`"impact manager" OR "impact analyst" OR "impact officer" OR "impact specialist"`,
	`"ESG manager" OR "ESG analyst" OR "ESG officer" OR "ESG specialist" OR "ESG consultant"`,
	`"sustainability manager" OR "sustainability director" OR "sustainability officer" OR "sustainability specialist"`,
	`"CSR manager" OR "CSR director" OR "corporate social responsibility"`,
	`"climate analyst" OR "climate risk" OR "climate manager" OR "climate change"`,
	`"impact investing" OR "impact fund" OR "impact investor"`,
	`"social impact manager" OR "social impact analyst" OR "social impact officer"`,
	`"sustainable finance" OR "green finance" OR "responsible investment"`,
	`"climate change" OR "environmental health" OR "e-sustainability"`,
	`"sustainability office" OR "sustainability team"`,
	`"environmental & social" OR "environmental and social"`,
}

func Default() Config {
	var c Config
	c.App.DataDir = "."
	c.App.LogLevel = "info"
	c.App.CSVPath = "core_impact_jobs_sg_hk.csv"

	c.Search.Terms = append([]string(nil), DefaultTerms...)
	c.Search.Locations = []string{"Singapore", "Hong Kong"}
	c.Search.ResultsWanted = 30
	c.Search.HoursOld = 168
	c.Search.DescriptionFormat = "markdown"
	c.Search.MaxPages = 50

	c.Sources = map[string]SourceConfig{}

	c.HTTP.TimeoutSeconds = 10
	c.HTTP.ReqPerSec = 1
	c.HTTP.Burst = 2

	c.Apify.Enabled = true
	c.Apify.BaseURL = apify.DefaultBaseURL
	c.Apify.PollSeconds = 5
	c.Apify.MaxWaitSeconds = 300
	return c
}

// DefaultYAML is the commented config written on first run.
func DefaultYAML() []byte { return defaultYAML }
