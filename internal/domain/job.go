package domain

import (
	"strings"
	"time"
)

// NotAvailable fills title/company when a source gives nothing usable.
const NotAvailable = "N/A"

type Country string

const (
	Singapore Country = "SINGAPORE"
	HongKong  Country = "HONGKONG"
	Other     Country = "OTHER"
)

// PrincipalCity is used when a location string carries no city of its own.
func (c Country) PrincipalCity() string {
	switch c {
	case Singapore:
		return "Singapore"
	case HongKong:
		return "Hong Kong"
	default:
		return ""
	}
}

func (c Country) DisplayName() string {
	switch c {
	case Singapore:
		return "Singapore"
	case HongKong:
		return "Hong Kong"
	default:
		return "Other"
	}
}

type Location struct {
	City    string
	Country Country
}

func (l Location) String() string {
	if l.City == "" {
		return l.Country.DisplayName()
	}
	return l.City + ", " + l.Country.DisplayName()
}

type CompensationInterval string

const (
	Monthly CompensationInterval = "monthly"
	Yearly  CompensationInterval = "yearly"
)

type Compensation struct {
	Interval CompensationInterval
	Min      float64
	Max      float64
	Currency string
}

type DescriptionFormat string

const (
	FormatPlain    DescriptionFormat = "plain"
	FormatMarkdown DescriptionFormat = "markdown"
)

// ParseDescriptionFormat falls back to plain for anything it doesn't know.
func ParseDescriptionFormat(s string) DescriptionFormat {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatMarkdown)) {
		return FormatMarkdown
	}
	return FormatPlain
}

// JobPost is the normalized posting every source produces. Values are
// built once by a parser and never edited afterwards.
type JobPost struct {
	ID           string
	Site         string
	Title        string
	CompanyName  string
	Location     Location
	DatePosted   *time.Time
	JobURL       string
	Description  string
	IsRemote     bool
	Emails       []string
	Compensation *Compensation
}

type ScraperInput struct {
	SearchTerm        string
	Location          string
	ResultsWanted     int
	HoursOld          int
	DescriptionFormat DescriptionFormat
}

type JobResponse struct {
	Jobs []JobPost
}
