// Package model defines the company entity shape, ICP criterion types, and
// match result structures shared across the matching engine.
package model

// CompanyEntity is a candidate business record. Entities are produced by an
// external ingestion process and are read-only to the matching engine.
type CompanyEntity struct {
	ProfileID      string          `json:"profileId"`
	IngestionDate  string          `json:"ingestionDate,omitempty"`
	Source         string          `json:"source,omitempty"`
	CompanyDetails CompanyDetails  `json:"companyDetails"`
	Classification Classification  `json:"classification"`
	PrimaryContact *PrimaryContact `json:"primaryContact,omitempty"`
}

// CompanyDetails holds the descriptive block of a company profile.
type CompanyDetails struct {
	CompanyName       string  `json:"companyName"`
	Country           string  `json:"country"`
	City              string  `json:"city"`
	SummaryOfActivity string  `json:"summaryOfActivity,omitempty"`
	DateEstablished   string  `json:"dateEstablished,omitempty"`
	NumberOfEmployees float64 `json:"numberOfEmployees"`
	AnnualTurnover    float64 `json:"annualTurnover"`
	Website           string  `json:"website,omitempty"`
	LinkedinPage      string  `json:"linkedinPage,omitempty"`
	Telephone         string  `json:"telephone,omitempty"`
	GeneralEmail      string  `json:"generalEmail,omitempty"`
}

// Classification holds the categorical block. The array fields carry set
// semantics: element order is irrelevant for similarity scoring.
type Classification struct {
	ProfileType       string   `json:"profileType"`
	MarketSegment     string   `json:"marketSegment"`
	Keywords          []string `json:"keywords,omitempty"`
	ServicesOffered   []string `json:"servicesOffered,omitempty"`
	ClientTypesServed []string `json:"clientTypesServed,omitempty"`
}

// PrimaryContact holds the optional contact block.
type PrimaryContact struct {
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	JobTitle     string `json:"jobTitle,omitempty"`
	Email        string `json:"email,omitempty"`
	Telephone    string `json:"telephone,omitempty"`
	LinkedinPage string `json:"linkedinPage,omitempty"`
	Type         string `json:"type,omitempty"`
}

// Name returns the display name for a candidate.
func (e *CompanyEntity) Name() string {
	return e.CompanyDetails.CompanyName
}
