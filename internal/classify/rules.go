package classify

// Rules holds every phrase table the cascade reads. All matching is
// case-insensitive substring matching; phrases are lower-cased on New.
type Rules struct {
	ImpactKeywords     []string `yaml:"impact_keywords"`
	BoilerplateMarkers []string `yaml:"boilerplate_markers"`

	Strict         StrictRules   `yaml:"strict"`
	FalsePositives PairRules     `yaml:"false_positive_pairs"`
	ExcludedTitles []string      `yaml:"excluded_titles"`
	Intern         Gate          `yaml:"intern"`
	AssetMgmt      AssetMgmtRule `yaml:"asset_management"`
	TitleBlacklist Gate          `yaml:"title_blacklist"`
	Companies      []string      `yaml:"company_blacklist"`
	GatedCompanies Gate          `yaml:"gated_companies"`
	Environmental  EnvRules      `yaml:"environmental"`
	Underwriting   Gate          `yaml:"underwriting"`
	Engineering    IndicatorGate `yaml:"engineering"`
	Impact         ContextRules  `yaml:"impact"`
	CSRBenefit     ContextRules  `yaml:"csr_benefit"`
	LegalFinance   LegalRules    `yaml:"legal_finance"`
	Sustainable    ContextRules  `yaml:"sustainable"`
	CSRActivities  CSRActivity   `yaml:"csr_activities"`
	GenericRoles   IndicatorGate `yaml:"generic_roles"`
}

// Gate: when a trigger matches, one of Keywords must match too.
type Gate struct {
	Triggers []string `yaml:"triggers"`
	Keywords []string `yaml:"keywords"`
}

// IndicatorGate is a Gate that a strong description indicator can also open.
type IndicatorGate struct {
	Gate       `yaml:",inline"`
	Indicators []string `yaml:"indicators"`
}

type StrictRules struct {
	Companies     []string `yaml:"companies"`
	TitleKeywords []string `yaml:"title_keywords"`
	RolePhrases   []string `yaml:"role_phrases"`
}

type Pair struct {
	Company string `yaml:"company"`
	Title   string `yaml:"title"`
}

type PairRules struct {
	Pairs    []Pair   `yaml:"pairs"`
	Override []string `yaml:"override"`
}

type AssetMgmtRule struct {
	Title    string   `yaml:"title"`
	Programs []string `yaml:"programs"`
}

type EnvRules struct {
	Generic  []string `yaml:"generic"`
	Real     []string `yaml:"real"`
	Override []string `yaml:"override"`
}

// ContextRules excludes when a Generic phrase shows up without any Real one.
type ContextRules struct {
	Generic []string `yaml:"generic"`
	Real    []string `yaml:"real"`
}

type LegalRules struct {
	Titles  []string `yaml:"titles"`
	Company []string `yaml:"company_phrases"`
	Role    []string `yaml:"role_phrases"`
}

type CSRActivity struct {
	TitleExempt []string `yaml:"title_exempt"`
	Focus       []string `yaml:"focus"`
}

var impactTitleWords = []string{"esg", "sustainability", "sustainable", "environmental", "climate", "green", "csr"}

func DefaultRules() Rules {
	return Rules{
		ImpactKeywords: []string{
			"impact", "sustainability", "sustainable", "esg", "csr",
			"corporate social responsibility", "social impact",
			"climate", "climate change", "environmental", "environmental health",
			"environmental & social", "environmental and social", "e-sustainability",
			"sustainable finance", "green finance", "responsible investment",
			"impact investing", "impact fund",
			"social enterprise", "b corp", "sustainability office", "sustainability team",
		},
		BoilerplateMarkers: []string{
			"about our company", "about us", "company overview", "our mission",
			"our values", "our purpose", "equal opportunity employer",
			"diversity and inclusion", "click here to learn more", "learn more about",
			"company description", "who we are",
			"about axa", "about axa hong kong", "about axa singapore",
			"axa is an equal opportunity", "axa hong kong and macau is a member",
			"our purpose is to act for human progress",
			"click here to learn more about our benefits",
		},
		Strict: StrictRules{
			Companies: []string{"axa"},
			TitleKeywords: []string{
				"esg", "sustainability", "sustainable", "environmental", "climate", "green",
				"csr", "social impact", "impact investing", "impact fund",
				"sustainability manager", "sustainability director", "sustainability officer",
				"sustainability specialist", "esg manager", "esg director", "esg officer",
				"climate manager", "climate director", "environmental manager",
			},
			RolePhrases: []string{
				"responsible for sustainability", "responsible for esg",
				"sustainability manager", "sustainability director", "sustainability officer",
				"sustainability specialist", "esg manager", "esg director", "esg officer",
				"this role focuses on sustainability", "this role focuses on esg",
				"primary responsibility.*sustainability", "primary responsibility.*esg",
				"sustainability strategy", "sustainability initiatives", "sustainability reporting",
				"esg strategy", "esg initiatives", "esg reporting",
				"environmental impact", "sustainable finance", "impact investing",
			},
		},
		FalsePositives: PairRules{
			Pairs: []Pair{
				{"amazon", "field development engineer"},
				{"amazon", "colo"},
				{"axa", "underwriter"},
				{"axa", "underwriting"},
				{"axa", "workplace executive"},
				{"pro matrix", "project engineer"},
				{"globalfoundries", "process engineering"},
				{"globalfoundries", "photolithography"},
				{"3m", "process engineer"},
				{"3m", "tuas plant"},
				{"tech data", "product manager"},
				{"tech data", "presales consultant"},
				{"wsh experts", "resident technical officer"},
				{"surechem", "electrical and electronics engineering"},
				{"st. joseph's institution international", "social media marketing"},
			},
			Override: []string{"sustainability", "environmental", "climate", "esg", "green", "clean tech"},
		},
		ExcludedTitles: []string{"technician"},
		Intern: Gate{
			Triggers: []string{"intern", "internship"},
			Keywords: append(append([]string{}, impactTitleWords...), "social impact", "impact"),
		},
		AssetMgmt: AssetMgmtRule{
			Title:    "asset management",
			Programs: []string{"intern", "summer", "programme"},
		},
		TitleBlacklist: Gate{
			Triggers: []string{
				"maintenance", "housekeeping", "production", "sommelier",
				"workplace coordinator", "property officer", "tenancy", "events coordinator",
				"bartender", "lobby", "interior designer", "facilities engineer", "site lead",
				"resident bartender", "assistant manager, the grand lobby",
				"underwriter", "underwriting", "field development engineer", "process engineer",
				"project engineer", "shift supervisor", "rooms controller",
				"colo regional engineering", "resident technical officer", "workplace executive",
				"social media marketing", "recruiter",
			},
			Keywords: []string{"esg", "sustainability", "environmental", "climate", "green", "csr"},
		},
		Companies: []string{"jll"},
		GatedCompanies: Gate{
			Triggers: []string{
				"st. joseph's institution international",
				"st joseph's institution international",
			},
			Keywords: []string{"sustainability", "esg", "csr", "environmental", "climate", "social impact"},
		},
		Environmental: EnvRules{
			Generic: []string{
				"environmental conditions", "environmental health and safety",
				"environmental compliance", "environmental regulations",
				"environmental standards", "environmental permits",
			},
			Real: []string{
				"environmental impact", "environmental & social", "environmental and social",
				"environmental sustainability", "environmental risk", "environmental due diligence",
			},
			Override: []string{"sustainability", "environmental", "climate", "esg", "green"},
		},
		Underwriting: Gate{
			Triggers: []string{"underwriter", "underwriting"},
			Keywords: []string{"esg", "sustainability", "sustainable", "climate", "environmental risk", "green"},
		},
		Engineering: IndicatorGate{
			Gate: Gate{
				Triggers: []string{"engineer", "engineering"},
				Keywords: []string{
					"sustainability", "sustainable", "environmental", "climate",
					"esg", "green", "clean tech", "renewable",
				},
			},
			Indicators: []string{
				"climate change", "environmental impact", "carbon", "renewable",
				"clean energy", "green technology", "e-sustainability",
			},
		},
		Impact: ContextRules{
			Generic: []string{
				"high-impact role", "high impact role", "make an impact", "make a positive impact",
				"create a global impact", "create global impact", "long-term impact",
				"long term impact", "significant impact", "maximum impact", "real impact",
				"meaningful impact", "positive impact", "impact and contribution",
				"impact sourcing", "impact role", "impact position", "potential impact",
				"their impact", "business impact", "commercial impact",
			},
			Real: []string{
				"social impact", "environmental impact", "impact investing", "impact fund",
				"impact measurement", "impact assessment", "impact management",
				"impact strategy", "impact analyst", "impact manager", "impact officer",
				"impact initiatives", "impact programs",
			},
		},
		CSRBenefit: ContextRules{
			Generic: []string{
				"corporate social responsibility and more", "csr and more", "including csr",
				"csr network", "csr groups", "csr activities", "csr committee",
				"drive initiatives in environmental social governance (esg)",
				"drive initiatives in esg", "esg, equality diversity",
				"esg, equality diversity & inclusion",
			},
			Real: []string{
				"csr manager", "csr director", "csr officer", "csr specialist", "csr strategy",
				"csr initiatives", "csr programs", "csr reporting", "csr responsibilities",
				"csr role", "csr team", "csr function", "responsible for csr",
				"csr and", "csr,", "csr.",
			},
		},
		LegalFinance: LegalRules{
			Titles: []string{
				"legal", "counsel", "lawyer", "attorney", "finance",
				"accountant", "auditor", "treasurer",
			},
			Company: []string{
				"digital banking and sustainability", "sustainability, and working",
				"sustainability and working", "footprint * sustainable finance",
				"footprint sustainable finance", "extensive footprint sustainable finance",
			},
			Role: []string{
				"sustainability team", "sustainability office", "sustainability strategy",
				"sustainability initiatives", "sustainability reporting", "sustainability risk",
				"sustainability compliance", "sustainable finance team",
				"sustainable finance products", "sustainable finance business",
				"sustainable finance strategy", "sustainable finance initiatives",
				"responsible for sustainability", "support sustainability",
				"drive sustainability", "sustainability and", "sustainability,", "sustainability.",
			},
		},
		Sustainable: ContextRules{
			Generic: []string{
				"sustainable growth", "sustainable business", "sustainable operations",
				"sustainable performance", "sustainable competitive", "sustainable advantage",
				"commercial sustainability", "long-term commercial sustainability",
				"long term commercial sustainability", "financial sustainability",
				"economic sustainability",
			},
			Real: []string{
				"sustainability", "sustainable finance", "sustainable investment",
				"sustainable development", "sustainable energy", "sustainable technology",
				"sustainable solutions", "sustainable practices", "sustainable strategy",
				"sustainable initiatives",
			},
		},
		CSRActivities: CSRActivity{
			TitleExempt: []string{"csr", "social impact", "sustainability", "esg"},
			Focus: []string{
				"csr manager", "csr director", "csr officer", "csr specialist", "csr team",
				"csr function", "responsible for csr", "lead csr", "drive csr",
				"social impact manager", "social impact analyst", "social impact officer",
				"social impact team",
			},
		},
		GenericRoles: IndicatorGate{
			Gate: Gate{
				Triggers: []string{
					"legal counsel", "counsel", "manager, finance", "finance manager",
					"strategic sourcing", "technical director", "sourcing manager",
				},
				Keywords: append(append([]string{}, impactTitleWords...), "impact"),
			},
			Indicators: []string{
				"sustainability team", "sustainability office", "esg team", "esg office",
				"climate change", "environmental impact", "social impact", "impact investing",
				"sustainable finance team", "sustainable finance strategy",
			},
		},
	}
}
