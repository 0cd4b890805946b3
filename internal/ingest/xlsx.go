package ingest

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/match-cli/internal/model"
)

// XLSXOptions configures the XLSX entity reader.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// StreamXLSX reads a workbook sheet whose first row names the entity
// columns and streams one entity per data row. Both channels are closed
// when processing completes.
func StreamXLSX(ctx context.Context, path string, opts XLSXOptions) (<-chan model.CompanyEntity, <-chan error) {
	entityCh := make(chan model.CompanyEntity, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(entityCh)
		defer close(errCh)

		f, err := xlsx.OpenFile(path)
		if err != nil {
			errCh <- eris.Wrapf(err, "ingest: open %s", path)
			return
		}

		sheet, err := selectSheet(f, opts)
		if err != nil {
			errCh <- err
			return
		}
		if len(sheet.Rows) == 0 {
			return
		}

		cols := columnMap(rowStrings(sheet.Rows[0]))
		if len(cols) == 0 {
			errCh <- eris.New("ingest: sheet header has no recognized entity columns")
			return
		}

		for _, row := range sheet.Rows[1:] {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "ingest: context cancelled")
				return
			}
			select {
			case entityCh <- entityFromRow(cols, rowStrings(row)):
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "ingest: context cancelled")
				return
			}
		}
	}()

	return entityCh, errCh
}

func selectSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("ingest: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}
	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("ingest: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}

func rowStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
