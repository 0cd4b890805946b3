package model

import "strings"

// Accessor extracts one field value from an entity.
type Accessor func(*CompanyEntity) FieldValue

// accessorChains maps a bare field name to the ordered extraction
// attempts for it. Order encodes the resolution fallback: company
// details before classification before primary contact. The first
// non-empty value wins.
var accessorChains = map[string][]Accessor{
	"companyName": {func(e *CompanyEntity) FieldValue { return StringValue(e.CompanyDetails.CompanyName) }},
	"country":     {func(e *CompanyEntity) FieldValue { return StringValue(e.CompanyDetails.Country) }},
	"city":        {func(e *CompanyEntity) FieldValue { return StringValue(e.CompanyDetails.City) }},
	"summaryOfActivity": {
		func(e *CompanyEntity) FieldValue { return StringValue(e.CompanyDetails.SummaryOfActivity) },
	},
	"dateEstablished": {func(e *CompanyEntity) FieldValue { return StringValue(e.CompanyDetails.DateEstablished) }},
	"numberOfEmployees": {
		func(e *CompanyEntity) FieldValue { return numberOrEmpty(e.CompanyDetails.NumberOfEmployees) },
	},
	"annualTurnover": {
		func(e *CompanyEntity) FieldValue { return numberOrEmpty(e.CompanyDetails.AnnualTurnover) },
	},
	"website":       {func(e *CompanyEntity) FieldValue { return StringValue(e.CompanyDetails.Website) }},
	"profileType":   {func(e *CompanyEntity) FieldValue { return StringValue(e.Classification.ProfileType) }},
	"marketSegment": {func(e *CompanyEntity) FieldValue { return StringValue(e.Classification.MarketSegment) }},
	"keywords":      {func(e *CompanyEntity) FieldValue { return ListValue(e.Classification.Keywords) }},
	"servicesOffered": {
		func(e *CompanyEntity) FieldValue { return ListValue(e.Classification.ServicesOffered) },
	},
	"clientTypesServed": {
		func(e *CompanyEntity) FieldValue { return ListValue(e.Classification.ClientTypesServed) },
	},
	"firstName": {contactAccessor(func(c *PrimaryContact) string { return c.FirstName })},
	"lastName":  {contactAccessor(func(c *PrimaryContact) string { return c.LastName })},
	"jobTitle":  {contactAccessor(func(c *PrimaryContact) string { return c.JobTitle })},
	"email": {
		func(e *CompanyEntity) FieldValue { return StringValue(e.CompanyDetails.GeneralEmail) },
		contactAccessor(func(c *PrimaryContact) string { return c.Email }),
	},
	"generalEmail": {func(e *CompanyEntity) FieldValue { return StringValue(e.CompanyDetails.GeneralEmail) }},
	"telephone": {
		func(e *CompanyEntity) FieldValue { return StringValue(e.CompanyDetails.Telephone) },
		contactAccessor(func(c *PrimaryContact) string { return c.Telephone }),
	},
	"linkedinPage": {
		func(e *CompanyEntity) FieldValue { return StringValue(e.CompanyDetails.LinkedinPage) },
		contactAccessor(func(c *PrimaryContact) string { return c.LinkedinPage }),
	},
}

func numberOrEmpty(n float64) FieldValue {
	if n == 0 {
		return FieldValue{}
	}
	return NumberValue(n)
}

func contactAccessor(get func(*PrimaryContact) string) Accessor {
	return func(e *CompanyEntity) FieldValue {
		if e.PrimaryContact == nil {
			return FieldValue{}
		}
		return StringValue(get(e.PrimaryContact))
	}
}

// ResolveField looks up a criterion's field on an entity. Dotted paths
// (companyDetails.country, classification.keywords, primaryContact.email)
// resolve through their final segment; bare names walk the fallback chain
// across the detail, classification, and contact blocks. The first
// non-empty value wins. The boolean is false when the field is unknown
// or the entity holds no value for it.
func ResolveField(e *CompanyEntity, field string) (FieldValue, bool) {
	chain, ok := accessorChains[bareName(field)]
	if !ok {
		return FieldValue{}, false
	}
	for _, get := range chain {
		if v := get(e); !v.IsEmpty() {
			return v, true
		}
	}
	return FieldValue{}, false
}

// KnownField reports whether the engine has an accessor for the field.
func KnownField(field string) bool {
	_, ok := accessorChains[bareName(field)]
	return ok
}

func bareName(field string) string {
	if i := strings.LastIndex(field, "."); i >= 0 {
		return field[i+1:]
	}
	return field
}
