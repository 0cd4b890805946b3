package store

import (
	"context"

	"github.com/sells-group/match-cli/internal/model"
)

// EntitySource adapts a Store to the ranking engine's candidate source
// interface.
type EntitySource struct {
	store Store
}

func NewEntitySource(s Store) *EntitySource {
	return &EntitySource{store: s}
}

func (e *EntitySource) Search(ctx context.Context, query string, k int) ([]model.CompanyEntity, error) {
	return e.store.SearchEntities(ctx, query, k)
}
