// Package classify decides whether a posting is a genuine sustainability /
// ESG / CSR / climate / impact role. It is an ordered cascade of exclusions
// followed by one inclusion check, so a posting that mentions the words only
// in passing is rejected.
package classify

import (
	"fmt"
	"strings"

	"impactjobs-engine/internal/domain"
)

// Reasons returned by Classify for rejected posts.
const (
	ReasonStrictCompany    = "strict_company"
	ReasonFalsePositive    = "false_positive_pair"
	ReasonExcludedTitle    = "excluded_title"
	ReasonIntern           = "intern"
	ReasonAssetMgmtProgram = "asset_management_program"
	ReasonTitleBlacklist   = "title_blacklist"
	ReasonCompany          = "company_blacklist"
	ReasonGatedCompany     = "gated_company"
	ReasonEnvironmental    = "generic_environmental"
	ReasonUnderwriting     = "underwriting"
	ReasonEngineering      = "engineering"
	ReasonImpact           = "generic_impact"
	ReasonCSRBenefit       = "csr_benefit"
	ReasonLegalFinance     = "legal_finance"
	ReasonSustainable      = "generic_sustainable"
	ReasonCSRActivities    = "csr_activities"
	ReasonGenericRole      = "generic_role"
	ReasonNoKeyword        = "no_impact_keyword"
)

type pairSet struct {
	company, title string
}

// Classifier is read-only after New and safe for concurrent use.
type Classifier struct {
	impact     phraseSet
	impactList []string
	markers    []string

	strictCompanies phraseSet
	strictTitle     phraseSet
	strictRole      phraseSet

	pairs        []pairSet
	pairOverride phraseSet

	excludedTitles phraseSet
	internTrigger  phraseSet
	internKeywords phraseSet
	assetTitle     string
	assetPrograms  phraseSet
	blacklist      phraseSet
	blacklistOK    phraseSet
	companies      phraseSet
	gated          phraseSet
	gateKeywords   phraseSet

	envGeneric  phraseSet
	envReal     phraseSet
	envOverride phraseSet

	uwTitles   phraseSet
	uwKeywords phraseSet

	engTitles     phraseSet
	engKeywords   phraseSet
	engIndicators phraseSet

	impactGeneric phraseSet
	impactReal    phraseSet

	csrBenefit phraseSet
	csrRole    phraseSet

	legalTitles  phraseSet
	legalCompany phraseSet
	legalRole    phraseSet

	sustGeneric phraseSet
	sustReal    phraseSet

	csrExempt phraseSet
	csrFocus  phraseSet

	roleTitles     phraseSet
	roleKeywords   phraseSet
	roleIndicators phraseSet

	checks []check
}

func New(r Rules) *Classifier {
	c := &Classifier{
		impact:          newPhraseSet(r.ImpactKeywords),
		strictCompanies: newPhraseSet(r.Strict.Companies),
		strictTitle:     newPhraseSet(r.Strict.TitleKeywords),
		strictRole:      newPhraseSet(r.Strict.RolePhrases),
		pairOverride:    newPhraseSet(r.FalsePositives.Override),
		excludedTitles:  newPhraseSet(r.ExcludedTitles),
		internTrigger:   newPhraseSet(r.Intern.Triggers),
		internKeywords:  newPhraseSet(r.Intern.Keywords),
		assetTitle:      strings.ToLower(strings.TrimSpace(r.AssetMgmt.Title)),
		assetPrograms:   newPhraseSet(r.AssetMgmt.Programs),
		blacklist:       newPhraseSet(r.TitleBlacklist.Triggers),
		blacklistOK:     newPhraseSet(r.TitleBlacklist.Keywords),
		companies:       newPhraseSet(r.Companies),
		gated:           newPhraseSet(r.GatedCompanies.Triggers),
		gateKeywords:    newPhraseSet(r.GatedCompanies.Keywords),
		envGeneric:      newPhraseSet(r.Environmental.Generic),
		envReal:         newPhraseSet(r.Environmental.Real),
		envOverride:     newPhraseSet(r.Environmental.Override),
		uwTitles:        newPhraseSet(r.Underwriting.Triggers),
		uwKeywords:      newPhraseSet(r.Underwriting.Keywords),
		engTitles:       newPhraseSet(r.Engineering.Triggers),
		engKeywords:     newPhraseSet(r.Engineering.Keywords),
		engIndicators:   newPhraseSet(r.Engineering.Indicators),
		impactGeneric:   newPhraseSet(r.Impact.Generic),
		impactReal:      newPhraseSet(r.Impact.Real),
		csrBenefit:      newPhraseSet(r.CSRBenefit.Generic),
		csrRole:         newPhraseSet(r.CSRBenefit.Real),
		legalTitles:     newPhraseSet(r.LegalFinance.Titles),
		legalCompany:    newPhraseSet(r.LegalFinance.Company),
		legalRole:       newPhraseSet(r.LegalFinance.Role),
		sustGeneric:     newPhraseSet(r.Sustainable.Generic),
		sustReal:        newPhraseSet(r.Sustainable.Real),
		csrExempt:       newPhraseSet(r.CSRActivities.TitleExempt),
		csrFocus:        newPhraseSet(r.CSRActivities.Focus),
		roleTitles:      newPhraseSet(r.GenericRoles.Triggers),
		roleKeywords:    newPhraseSet(r.GenericRoles.Keywords),
		roleIndicators:  newPhraseSet(r.GenericRoles.Indicators),
	}
	c.impactList = c.impact.phrases
	for _, m := range r.BoilerplateMarkers {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			c.markers = append(c.markers, m)
		}
	}
	for _, p := range r.FalsePositives.Pairs {
		co, ti := strings.ToLower(strings.TrimSpace(p.Company)), strings.ToLower(strings.TrimSpace(p.Title))
		if co == "" || ti == "" {
			continue
		}
		c.pairs = append(c.pairs, pairSet{company: co, title: ti})
	}
	c.checks = c.cascade()
	return c
}

// post is the lower-cased view every check reads.
type post struct {
	title, company, desc string
	resp                 string
}

func (c *Classifier) view(j domain.JobPost) post {
	p := post{
		title:   strings.ToLower(unknownAsEmpty(j.Title)),
		company: strings.ToLower(unknownAsEmpty(j.CompanyName)),
		desc:    strings.ToLower(j.Description),
	}
	p.resp = c.responsibilities(p.desc, p.company)
	return p
}

func unknownAsEmpty(s string) string {
	s = strings.TrimSpace(s)
	if s == domain.NotAvailable {
		return ""
	}
	return s
}

// responsibilities cuts desc at the first boilerplate marker found, trying
// markers in list order. The company's own "about <company>" goes first.
func (c *Classifier) responsibilities(desc, company string) string {
	markers := c.markers
	if company != "" {
		markers = append([]string{"about " + company}, c.markers...)
	}
	for _, m := range markers {
		if i := strings.Index(desc, m); i >= 0 {
			return desc[:i]
		}
	}
	return desc
}

// Classify runs the cascade. A rejected post comes back with the name of the
// first check that excluded it.
func (c *Classifier) Classify(j domain.JobPost) (keep bool, reason string) {
	p := c.view(j)
	for _, chk := range c.checks {
		if chk.reject(p) {
			return false, chk.reason
		}
	}
	if !c.impact.Any(p.title) && !c.impact.Any(p.resp) {
		return false, ReasonNoKeyword
	}
	return true, ""
}

func (c *Classifier) Keep(j domain.JobPost) bool {
	keep, _ := c.Classify(j)
	return keep
}

// Filter returns the kept posts in input order.
func (c *Classifier) Filter(jobs []domain.JobPost) []domain.JobPost {
	out := make([]domain.JobPost, 0, len(jobs))
	for _, j := range jobs {
		if c.Keep(j) {
			out = append(out, j)
		}
	}
	return out
}

// MatchedKeywords lists impact keywords found in the title, or failing that
// in the description, as "keyword (title)" / "keyword (description)".
func (c *Classifier) MatchedKeywords(j domain.JobPost) []string {
	title := strings.ToLower(j.Title)
	desc := strings.ToLower(j.Description)
	inTitle := toSet(c.impact.Hits(title))
	inDesc := toSet(c.impact.Hits(desc))

	var out []string
	for _, kw := range c.impactList {
		switch {
		case inTitle[kw]:
			out = append(out, fmt.Sprintf("%s (title)", kw))
		case inDesc[kw]:
			out = append(out, fmt.Sprintf("%s (description)", kw))
		}
	}
	return out
}

func toSet(ss []string) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}
