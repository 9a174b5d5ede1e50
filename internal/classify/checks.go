package classify

import "strings"

type check struct {
	reason string
	reject func(post) bool
}

// cascade is the fixed order of exclusions. Only the first rejecting check
// names the reason.
func (c *Classifier) cascade() []check {
	return []check{
		{ReasonStrictCompany, c.rejectStrict},
		{ReasonFalsePositive, c.rejectPair},
		{ReasonExcludedTitle, func(p post) bool { return c.excludedTitles.Any(p.title) }},
		{ReasonIntern, func(p post) bool { return c.internTrigger.Any(p.title) && !c.internKeywords.Any(p.title) }},
		{ReasonAssetMgmtProgram, c.rejectAssetMgmt},
		{ReasonTitleBlacklist, func(p post) bool { return c.blacklist.Any(p.title) && !c.blacklistOK.Any(p.title) }},
		{ReasonCompany, func(p post) bool { return c.companies.Any(p.company) }},
		{ReasonGatedCompany, func(p post) bool { return c.gated.Any(p.company) && !c.gateKeywords.Any(p.title) }},
		{ReasonEnvironmental, c.rejectEnvironmental},
		{ReasonUnderwriting, func(p post) bool {
			return c.uwTitles.Any(p.title) && !c.uwKeywords.Any(p.title+" "+p.desc)
		}},
		{ReasonEngineering, c.rejectEngineering},
		{ReasonImpact, c.rejectImpact},
		{ReasonCSRBenefit, c.rejectCSRBenefit},
		{ReasonLegalFinance, c.rejectLegalFinance},
		{ReasonSustainable, c.rejectSustainable},
		{ReasonCSRActivities, c.rejectCSRActivities},
		{ReasonGenericRole, c.rejectGenericRole},
	}
}

func has(text, phrase string) bool { return strings.Contains(text, phrase) }

// Strict companies pass only on the title, or on explicit role phrasing plus
// an impact keyword inside the responsibilities.
func (c *Classifier) rejectStrict(p post) bool {
	if !c.strictCompanies.Any(p.company) {
		return false
	}
	if c.strictTitle.Any(p.title) {
		return false
	}
	role := c.strictRole.Any(p.resp) ||
		(has(p.resp, "climate change") && (has(p.resp, "strategy") || has(p.resp, "risk")))
	return !(role && c.impact.Any(p.resp))
}

func (c *Classifier) rejectPair(p post) bool {
	for _, pr := range c.pairs {
		if has(p.company, pr.company) && has(p.title, pr.title) {
			return !c.pairOverride.Any(p.title)
		}
	}
	return false
}

func (c *Classifier) rejectAssetMgmt(p post) bool {
	return c.assetTitle != "" && has(p.title, c.assetTitle) && c.assetPrograms.Any(p.title)
}

func (c *Classifier) rejectEnvironmental(p post) bool {
	if !has(p.desc, "environmental") {
		return false
	}
	genuine := c.envReal.Any(p.desc) ||
		(has(p.desc, "environmental health") && has(p.desc, "climate change")) ||
		has(p.title, "environmental")
	if genuine {
		return false
	}
	return c.envGeneric.Any(p.desc) && !c.envOverride.Any(p.title)
}

func (c *Classifier) rejectEngineering(p post) bool {
	if !c.engTitles.Any(p.title) || c.engKeywords.Any(p.title) {
		return false
	}
	indicator := c.engIndicators.Any(p.desc) ||
		(has(p.desc, "sustainability") && (has(p.desc, "strategy") || has(p.desc, "initiative")))
	return !indicator
}

func (c *Classifier) rejectImpact(p post) bool {
	if !has(p.desc, "impact") || has(p.title, "impact") {
		return false
	}
	return c.impactGeneric.Any(p.desc) && !c.impactReal.Any(p.desc)
}

func (c *Classifier) rejectCSRBenefit(p post) bool {
	if !(has(p.desc, "corporate social responsibility") || has(p.desc, "csr")) || has(p.title, "csr") {
		return false
	}
	return c.csrBenefit.Any(p.desc) && !c.csrRole.Any(p.desc)
}

func (c *Classifier) rejectLegalFinance(p post) bool {
	if !c.legalTitles.Any(p.title) {
		return false
	}
	if !has(p.desc, "sustainability") && !has(p.desc, "sustainable finance") {
		return false
	}
	return c.legalCompany.Any(p.desc) && !c.legalRole.Any(p.desc)
}

func (c *Classifier) rejectSustainable(p post) bool {
	if !has(p.desc, "sustainable") || has(p.title, "sustainable") {
		return false
	}
	return c.sustGeneric.Any(p.desc) && !c.sustReal.Any(p.desc)
}

func (c *Classifier) rejectCSRActivities(p post) bool {
	mentioned := has(p.desc, "corporate social responsibility") || has(p.desc, "csr") || has(p.desc, "social impact")
	if !mentioned || c.csrExempt.Any(p.title) {
		return false
	}
	activitiesOnly := (has(p.desc, "csr initiatives") && has(p.desc, "participate")) ||
		(has(p.desc, "csr activities") && has(p.desc, "support")) ||
		(has(p.desc, "corporate social responsibility initiatives") && has(p.desc, "participate")) ||
		(has(p.desc, "social impact") && has(p.desc, "commitment to positive social impact") && has(p.title, "intern"))
	return activitiesOnly && !c.csrFocus.Any(p.desc)
}

func (c *Classifier) rejectGenericRole(p post) bool {
	if !c.roleTitles.Any(p.title) || c.roleKeywords.Any(p.title) {
		return false
	}
	return !c.roleIndicators.Any(p.desc)
}
