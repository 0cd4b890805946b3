// Package ingest reads company entities from JSON, CSV, and XLSX files
// for bulk loading into the store.
package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/match-cli/internal/model"
)

// ReadFile parses an entity file by extension and streams the entities
// it contains. The caller must drain the entity channel; both channels
// are closed when parsing completes.
func ReadFile(ctx context.Context, path string) (<-chan model.CompanyEntity, <-chan error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return StreamJSON(ctx, path)
	case ".csv":
		return StreamCSV(ctx, path, CSVOptions{})
	case ".xlsx":
		return StreamXLSX(ctx, path, XLSXOptions{})
	default:
		entityCh := make(chan model.CompanyEntity)
		errCh := make(chan error, 1)
		errCh <- eris.Errorf("ingest: unsupported file type %q (want .json, .csv, or .xlsx)", filepath.Ext(path))
		close(entityCh)
		close(errCh)
		return entityCh, errCh
	}
}
