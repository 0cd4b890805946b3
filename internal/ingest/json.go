package ingest

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/match-cli/internal/model"
)

// StreamJSON decodes a JSON array of company entities element by
// element, so large export files never load fully into memory. Both
// channels are closed when processing completes.
func StreamJSON(ctx context.Context, path string) (<-chan model.CompanyEntity, <-chan error) {
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

		decoder := json.NewDecoder(f)

		tok, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				return
			}
			errCh <- eris.Wrap(err, "ingest: read opening token")
			return
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			errCh <- eris.Errorf("ingest: expected a JSON array, got %v", tok)
			return
		}

		for decoder.More() {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "ingest: context cancelled")
				return
			}

			var entity model.CompanyEntity
			if err := decoder.Decode(&entity); err != nil {
				errCh <- eris.Wrap(err, "ingest: decode entity")
				return
			}

			select {
			case entityCh <- entity:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "ingest: context cancelled")
				return
			}
		}

		if _, err := decoder.Token(); err != nil && err != io.EOF {
			errCh <- eris.Wrap(err, "ingest: read closing token")
		}
	}()

	return entityCh, errCh
}
