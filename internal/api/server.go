// Package api serves the matching engine over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/match-cli/internal/export"
	"github.com/sells-group/match-cli/internal/scorer"
	"github.com/sells-group/match-cli/internal/store"
)

// Server holds the handler dependencies. The exporter is optional; the
// export endpoint answers 503 when it is not configured.
type Server struct {
	store    store.Store
	scorer   *scorer.CriterionScorer
	ranker   *scorer.Ranker
	exporter *export.NotionExporter
}

func NewServer(st store.Store, cs *scorer.CriterionScorer, ranker *scorer.Ranker, exporter *export.NotionExporter) *Server {
	return &Server{
		store:    st,
		scorer:   cs,
		ranker:   ranker,
		exporter: exporter,
	}
}

// Router builds the chi router with logging, recovery and CORS.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/icp", func(r chi.Router) {
		r.Post("/match", s.handleMatch)
		r.Post("/quick-match", s.handleQuickMatch)
		r.Get("/fields", s.handleFields)
		r.Get("/scoring-types", s.handleScoringTypes)
		r.Post("/test-scoring", s.handleTestScoring)
		r.Post("/export", s.handleExport)
	})

	r.Route("/api/entities", func(r chi.Router) {
		r.Get("/", s.handleListEntities)
		r.Get("/{id}", s.handleGetEntity)
	})

	return r
}

// requestLogger logs one line per request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
