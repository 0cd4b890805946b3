package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/match-cli/internal/categorical"
	"github.com/sells-group/match-cli/internal/export"
	"github.com/sells-group/match-cli/internal/scorer"
	"github.com/sells-group/match-cli/internal/store"
	"github.com/sells-group/match-cli/pkg/embed"
	"github.com/sells-group/match-cli/pkg/notion"
)

// initStore opens the configured store backend and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			path = "match.db"
		}
		st, err = store.NewSQLite(path)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// initEngine wires the scoring chain: categorical registry, optional
// embedding fallback, criterion dispatcher, aggregator, ranker.
func initEngine(st store.Store) (*scorer.CriterionScorer, *scorer.Ranker) {
	var embedder embed.Embedder
	if cfg.Embedding.BaseURL != "" || cfg.Embedding.Provider == "jina" {
		e, err := embed.New(cfg.Embedding)
		if err != nil {
			zap.L().Warn("embedding client unavailable, categorical fallback uses table defaults", zap.Error(err))
		} else {
			embedder = e
		}
	}

	cs := scorer.NewCriterionScorer(categorical.NewRegistry(), embedder,
		scorer.WithMaxDistance(cfg.Match.MaxDistanceKm))
	matcher := scorer.NewMatcher(cs)
	ranker := scorer.NewRanker(store.NewEntitySource(st), matcher, cfg.Match.Concurrency)
	return cs, ranker
}

// initNotionExporter returns nil when Notion is not configured.
func initNotionExporter() *export.NotionExporter {
	if cfg.Notion.Token == "" || cfg.Notion.ExportDB == "" {
		return nil
	}
	return export.NewNotionExporter(notion.NewClient(cfg.Notion.Token), cfg.Notion.ExportDB)
}
