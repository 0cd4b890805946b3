package ingest

import (
	"strconv"
	"strings"

	"github.com/sells-group/match-cli/internal/model"
)

// headerAliases maps normalized column names to the canonical entity
// field each one feeds. Exported spreadsheets vary in header wording;
// the normalization strips case, spaces, underscores, and dashes.
var headerAliases = map[string]string{
	"profileid": "profileId",
	"id":        "profileId",

	"companyname": "companyName",
	"name":        "companyName",
	"company":     "companyName",

	"country": "country",
	"city":    "city",

	"summaryofactivity": "summaryOfActivity",
	"summary":           "summaryOfActivity",
	"description":       "summaryOfActivity",

	"dateestablished": "dateEstablished",
	"established":     "dateEstablished",

	"numberofemployees": "numberOfEmployees",
	"employees":         "numberOfEmployees",
	"headcount":         "numberOfEmployees",

	"annualturnover": "annualTurnover",
	"turnover":       "annualTurnover",
	"revenue":        "annualTurnover",

	"website":      "website",
	"linkedinpage": "linkedinPage",
	"linkedin":     "linkedinPage",
	"telephone":    "telephone",
	"phone":        "telephone",
	"generalemail": "generalEmail",
	"email":        "generalEmail",

	"profiletype":   "profileType",
	"type":          "profileType",
	"marketsegment": "marketSegment",
	"segment":       "marketSegment",

	"keywords":          "keywords",
	"servicesoffered":   "servicesOffered",
	"services":          "servicesOffered",
	"clienttypesserved": "clientTypesServed",
	"clients":           "clientTypesServed",
}

func normalizeHeader(name string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "").
		Replace(strings.ToLower(strings.TrimSpace(name)))
}

// columnMap resolves a header row into column-index -> canonical-field
// assignments. Unrecognized columns are ignored.
func columnMap(header []string) map[int]string {
	cols := make(map[int]string, len(header))
	for i, name := range header {
		if field, ok := headerAliases[normalizeHeader(name)]; ok {
			cols[i] = field
		}
	}
	return cols
}

// entityFromRow assembles a company entity from one tabular row using
// the resolved column assignments.
func entityFromRow(cols map[int]string, row []string) model.CompanyEntity {
	var e model.CompanyEntity
	for i, field := range cols {
		if i >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[i])
		if value == "" {
			continue
		}
		switch field {
		case "profileId":
			e.ProfileID = value
		case "companyName":
			e.CompanyDetails.CompanyName = value
		case "country":
			e.CompanyDetails.Country = value
		case "city":
			e.CompanyDetails.City = value
		case "summaryOfActivity":
			e.CompanyDetails.SummaryOfActivity = value
		case "dateEstablished":
			e.CompanyDetails.DateEstablished = value
		case "numberOfEmployees":
			e.CompanyDetails.NumberOfEmployees = parseNumber(value)
		case "annualTurnover":
			e.CompanyDetails.AnnualTurnover = parseNumber(value)
		case "website":
			e.CompanyDetails.Website = value
		case "linkedinPage":
			e.CompanyDetails.LinkedinPage = value
		case "telephone":
			e.CompanyDetails.Telephone = value
		case "generalEmail":
			e.CompanyDetails.GeneralEmail = value
		case "profileType":
			e.Classification.ProfileType = value
		case "marketSegment":
			e.Classification.MarketSegment = value
		case "keywords":
			e.Classification.Keywords = splitList(value)
		case "servicesOffered":
			e.Classification.ServicesOffered = splitList(value)
		case "clientTypesServed":
			e.Classification.ClientTypesServed = splitList(value)
		}
	}
	return e
}

// parseNumber tolerates thousands separators and surrounding text like
// currency symbols; unparseable values become zero.
func parseNumber(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return n
}

// splitList turns a delimited cell into a string set. Semicolons take
// precedence so comma-bearing phrases survive.
func splitList(s string) []string {
	sep := ","
	if strings.Contains(s, ";") {
		sep = ";"
	}
	var items []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
