// Package store persists company entities and ICP templates, and serves
// as the default lexical candidate source for the ranking engine.
package store

import (
	"context"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/match-cli/internal/model"
)

// ErrNotFound is returned when a requested entity or template does not exist.
var ErrNotFound = eris.New("store: not found")

// Store defines the persistence interface for the matching engine.
type Store interface {
	// Entities
	UpsertEntity(ctx context.Context, entity model.CompanyEntity) error
	GetEntity(ctx context.Context, profileID string) (*model.CompanyEntity, error)
	ListEntities(ctx context.Context, limit int) ([]model.CompanyEntity, error)
	CountEntities(ctx context.Context) (int, error)
	// SearchEntities is a lexical candidate search over the indexed
	// profile text, capped at k results. Relevance ordering is a hint
	// only; the ranking engine re-scores every candidate.
	SearchEntities(ctx context.Context, query string, k int) ([]model.CompanyEntity, error)

	// Templates
	SaveTemplate(ctx context.Context, template model.Template) error
	GetTemplate(ctx context.Context, id string) (*model.Template, error)
	ListTemplates(ctx context.Context) ([]model.Template, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// searchText builds the lowercased index text for an entity.
func searchText(e *model.CompanyEntity) string {
	parts := []string{
		e.CompanyDetails.CompanyName,
		e.CompanyDetails.Country,
		e.CompanyDetails.City,
		e.CompanyDetails.SummaryOfActivity,
		e.Classification.ProfileType,
		e.Classification.MarketSegment,
	}
	parts = append(parts, e.Classification.Keywords...)
	parts = append(parts, e.Classification.ServicesOffered...)
	parts = append(parts, e.Classification.ClientTypesServed...)

	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.ToLower(strings.Join(kept, " "))
}

// queryTokens splits a query string into lowercase terms, dropping
// punctuation and single-character fragments.
func queryTokens(query string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', ':', ';', '?', '!', '"', '\'':
			return ' '
		}
		return r
	}, strings.ToLower(query))

	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) > 1 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// rankByTokenHits orders entities by the number of query tokens present
// in their index text, stable with respect to the incoming order, and
// truncates to k. Entities with zero hits are dropped unless the query
// had no usable tokens.
func rankByTokenHits(entities []model.CompanyEntity, tokens []string, k int) []model.CompanyEntity {
	if len(tokens) == 0 {
		if len(entities) > k {
			return entities[:k]
		}
		return entities
	}

	type scored struct {
		entity model.CompanyEntity
		hits   int
	}
	var ranked []scored
	for _, e := range entities {
		text := searchText(&e)
		hits := 0
		for _, tok := range tokens {
			if strings.Contains(text, tok) {
				hits++
			}
		}
		if hits > 0 {
			ranked = append(ranked, scored{entity: e, hits: hits})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].hits > ranked[j].hits
	})

	out := make([]model.CompanyEntity, 0, min(len(ranked), k))
	for i := 0; i < len(ranked) && i < k; i++ {
		out = append(out, ranked[i].entity)
	}
	return out
}
