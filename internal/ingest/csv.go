package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/match-cli/internal/model"
)

// CSVOptions configures the CSV entity reader.
type CSVOptions struct {
	Delimiter  rune // default ','
	LazyQuotes bool
}

// StreamCSV reads a CSV file whose first row names the entity columns
// and streams one entity per data row. Both channels are closed when
// processing completes.
func StreamCSV(ctx context.Context, path string, opts CSVOptions) (<-chan model.CompanyEntity, <-chan error) {
	entityCh := make(chan model.CompanyEntity, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(entityCh)
		defer close(errCh)

		f, err := os.Open(path)
		if err != nil {
			errCh <- eris.Wrapf(err, "ingest: open %s", path)
			return
		}
		defer f.Close()

		reader := csv.NewReader(f)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		reader.LazyQuotes = opts.LazyQuotes
		reader.FieldsPerRecord = -1

		header, err := reader.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			errCh <- eris.Wrap(err, "ingest: read csv header")
			return
		}
		cols := columnMap(header)
		if len(cols) == 0 {
			errCh <- eris.New("ingest: csv header has no recognized entity columns")
			return
		}

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "ingest: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "ingest: read csv row")
				return
			}

			select {
			case entityCh <- entityFromRow(cols, record):
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "ingest: context cancelled")
				return
			}
		}
	}()

	return entityCh, errCh
}
