package model

// ParameterMatchResult is the per-criterion outcome of scoring one
// candidate. When Skipped is true the percentage is excluded from the
// weighted aggregate rather than coerced to zero.
type ParameterMatchResult struct {
	CriterionID     string      `json:"criterionId"`
	Field           string      `json:"field"`
	Label           string      `json:"label"`
	ScoringType     ScoringType `json:"scoringType"`
	Weight          int         `json:"weight"`
	MatchPercentage float64     `json:"matchPercentage"`
	IcpValue        FieldValue  `json:"icpValue"`
	CompanyValue    FieldValue  `json:"companyValue"`
	Explanation     string      `json:"explanation"`
	Skipped         bool        `json:"skipped"`
}

// MatchResult is the per-candidate outcome of scoring against a criteria
// set. Rank is filled in after sorting and filtering; everything else is
// immutable once computed.
type MatchResult struct {
	CompanyID        string                 `json:"companyId"`
	CompanyName      string                 `json:"companyName"`
	Company          *CompanyEntity         `json:"company,omitempty"`
	MatchPercentage  float64                `json:"matchPercentage"`
	ParameterMatches []ParameterMatchResult `json:"parameterMatches"`
	TotalCriteria    int                    `json:"totalCriteria"`
	MatchedCriteria  int                    `json:"matchedCriteria"`
	SkippedCriteria  int                    `json:"skippedCriteria"`
	DataCompleteness float64                `json:"dataCompleteness"`
	Rank             int                    `json:"rank,omitempty"`
}

// MatchRequest is the HTTP-facing match request: a persisted template id
// or an inline template, plus threshold and result bounds.
type MatchRequest struct {
	TemplateID   string    `json:"templateId,omitempty"`
	Template     *Template `json:"template,omitempty"`
	MinThreshold float64   `json:"minThreshold,omitempty"`
	MaxResults   int       `json:"maxResults,omitempty"`
}

// MatchResponse is the ranked result set for one match request.
type MatchResponse struct {
	TemplateID           string        `json:"templateId"`
	TemplateName         string        `json:"templateName"`
	TotalCandidates      int           `json:"totalCompanies"`
	MatchesAboveThreshold int          `json:"matchesAboveThreshold"`
	Threshold            float64       `json:"threshold"`
	Matches              []MatchResult `json:"matches"`
}

// FieldInfo describes a matchable field for API discovery.
type FieldInfo struct {
	Name               string      `json:"name"`
	Label              string      `json:"label"`
	Path               string      `json:"path"`
	DefaultScoringType ScoringType `json:"defaultScoringType"`
	ValueType          string      `json:"valueType"`
}

// AvailableFields lists the fields criteria may reference.
func AvailableFields() []FieldInfo {
	return []FieldInfo{
		{Name: "country", Label: "Country", Path: "companyDetails.country", DefaultScoringType: ScoreGeographic, ValueType: "string"},
		{Name: "city", Label: "City", Path: "companyDetails.city", DefaultScoringType: ScoreGeographic, ValueType: "string"},
		{Name: "profileType", Label: "Profile Type", Path: "classification.profileType", DefaultScoringType: ScoreCategorical, ValueType: "string"},
		{Name: "marketSegment", Label: "Market Segment", Path: "classification.marketSegment", DefaultScoringType: ScoreCategorical, ValueType: "string"},
		{Name: "keywords", Label: "Keywords", Path: "classification.keywords", DefaultScoringType: ScoreSemantic, ValueType: "array"},
		{Name: "servicesOffered", Label: "Services Offered", Path: "classification.servicesOffered", DefaultScoringType: ScoreSemantic, ValueType: "array"},
		{Name: "clientTypesServed", Label: "Client Types Served", Path: "classification.clientTypesServed", DefaultScoringType: ScoreSemantic, ValueType: "array"},
		{Name: "numberOfEmployees", Label: "Number of Employees", Path: "companyDetails.numberOfEmployees", DefaultScoringType: ScoreNumeric, ValueType: "number"},
		{Name: "annualTurnover", Label: "Annual Turnover", Path: "companyDetails.annualTurnover", DefaultScoringType: ScoreNumeric, ValueType: "number"},
		{Name: "companyName", Label: "Company Name", Path: "companyDetails.companyName", DefaultScoringType: ScoreSemantic, ValueType: "string"},
		{Name: "summaryOfActivity", Label: "Summary of Activity", Path: "companyDetails.summaryOfActivity", DefaultScoringType: ScoreSemantic, ValueType: "string"},
	}
}
