// Package export writes ranked match results to files and to Notion.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sells-group/match-cli/internal/model"
)

// Row is the flat, column-oriented view of one ranked match used by
// every output format.
type Row struct {
	Rank             int
	ProfileID        string
	CompanyName      string
	Country          string
	ProfileType      string
	MatchPercentage  float64
	MatchedCriteria  int
	SkippedCriteria  int
	TotalCriteria    int
	DataCompleteness float64
	Breakdown        string
}

// Header lists column names in Row order.
func Header() []string {
	return []string{
		"Rank", "Profile ID", "Company", "Country", "Profile Type",
		"Match %", "Matched", "Skipped", "Total", "Completeness %", "Breakdown",
	}
}

// Strings renders the row as CSV/table cells in Header order.
func (r Row) Strings() []string {
	return []string{
		strconv.Itoa(r.Rank),
		r.ProfileID,
		r.CompanyName,
		r.Country,
		r.ProfileType,
		formatPercent(r.MatchPercentage),
		strconv.Itoa(r.MatchedCriteria),
		strconv.Itoa(r.SkippedCriteria),
		strconv.Itoa(r.TotalCriteria),
		formatPercent(r.DataCompleteness),
		r.Breakdown,
	}
}

// Flatten converts a match response into export rows, one per ranked
// candidate, preserving rank order.
func Flatten(resp *model.MatchResponse) []Row {
	rows := make([]Row, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		r := Row{
			Rank:             m.Rank,
			ProfileID:        m.CompanyID,
			CompanyName:      m.CompanyName,
			MatchPercentage:  m.MatchPercentage,
			MatchedCriteria:  m.MatchedCriteria,
			SkippedCriteria:  m.SkippedCriteria,
			TotalCriteria:    m.TotalCriteria,
			DataCompleteness: m.DataCompleteness,
			Breakdown:        breakdown(m.ParameterMatches),
		}
		if m.Company != nil {
			r.Country = m.Company.CompanyDetails.Country
			r.ProfileType = m.Company.Classification.ProfileType
		}
		rows = append(rows, r)
	}
	return rows
}

// breakdown summarizes per-criterion outcomes as a single cell:
// "country 100 (w9); profileType 85 (w7); keywords skipped".
func breakdown(params []model.ParameterMatchResult) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		if p.Skipped {
			parts = append(parts, p.Field+" skipped")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s (w%d)", p.Field, formatPercent(p.MatchPercentage), p.Weight))
	}
	return strings.Join(parts, "; ")
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
