package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/match-cli/internal/model"
)

// WriteCSV writes the rows with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, r := range rows {
		if err := cw.Write(r.Strings()); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// WriteXLSX writes the rows to an xlsx workbook at path. Numeric
// columns keep their numeric type so spreadsheets can sort on them.
func WriteXLSX(path string, templateName string, rows []Row) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName(templateName))
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range Header() {
		header.AddCell().Value = h
	}

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetInt(r.Rank)
		row.AddCell().Value = r.ProfileID
		row.AddCell().Value = r.CompanyName
		row.AddCell().Value = r.Country
		row.AddCell().Value = r.ProfileType
		row.AddCell().SetFloat(r.MatchPercentage)
		row.AddCell().SetInt(r.MatchedCriteria)
		row.AddCell().SetInt(r.SkippedCriteria)
		row.AddCell().SetInt(r.TotalCriteria)
		row.AddCell().SetFloat(r.DataCompleteness)
		row.AddCell().Value = r.Breakdown
	}

	return eris.Wrapf(f.Save(path), "export: save xlsx %s", path)
}

// sheetName trims a template name into a valid xlsx sheet title.
func sheetName(name string) string {
	if name == "" {
		name = "Matches"
	}
	for _, bad := range []string{"/", "\\", "?", "*", "[", "]", ":"} {
		name = strings.ReplaceAll(name, bad, " ")
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

// WriteTable writes an aligned plain-text table for terminal output,
// with a summary line naming the template and candidate counts.
func WriteTable(w io.Writer, resp *model.MatchResponse, rows []Row) error {
	fmt.Fprintf(w, "Template: %s\n", resp.TemplateName)
	fmt.Fprintf(w, "Candidates: %d, above threshold %.0f%%: %d\n\n",
		resp.TotalCandidates, resp.Threshold, resp.MatchesAboveThreshold)

	// Breakdown column is dropped from terminal output; too wide.
	cols := Header()
	cols = cols[:len(cols)-1]

	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}
	cells := make([][]string, len(rows))
	for i, r := range rows {
		s := r.Strings()
		cells[i] = s[:len(cols)]
		for j, v := range cells[i] {
			if len(v) > widths[j] {
				widths[j] = len(v)
			}
		}
	}

	writeLine := func(vals []string) {
		parts := make([]string, len(vals))
		for i, v := range vals {
			parts[i] = v + strings.Repeat(" ", widths[i]-len(v))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	writeLine(cols)
	for _, row := range cells {
		writeLine(row)
	}
	return nil
}
