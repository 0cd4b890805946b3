package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/match-cli/internal/model"
	"github.com/sells-group/match-cli/internal/store"
)

// resolveTemplate returns the template for a match request, loading it
// from the store when only an id is given.
func (s *Server) resolveTemplate(r *http.Request, req model.MatchRequest) (*model.Template, int, error) {
	if req.TemplateID != "" {
		t, err := s.store.GetTemplate(r.Context(), req.TemplateID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, http.StatusNotFound, errors.New("template not found: " + req.TemplateID)
			}
			return nil, http.StatusInternalServerError, err
		}
		return t, 0, nil
	}
	if req.Template != nil {
		return req.Template, 0, nil
	}
	return nil, http.StatusBadRequest, errors.New("templateId or template is required")
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req model.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	template, status, err := s.resolveTemplate(r, req)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	if err := template.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.ranker.Rank(r.Context(), *template, req.MinThreshold, req.MaxResults)
	if err != nil {
		zap.L().Error("match failed", zap.String("template", template.Name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "match failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// quickMatchRequest is the shorthand body for one-off matches: bare
// field/value/weight triples without a saved template.
type quickMatchRequest struct {
	Criteria []struct {
		Field  string           `json:"field"`
		Value  model.FieldValue `json:"value"`
		Weight int              `json:"weight"`
	} `json:"criteria"`
	MinThreshold float64 `json:"minThreshold,omitempty"`
	MaxResults   int     `json:"maxResults,omitempty"`
}

func (s *Server) handleQuickMatch(w http.ResponseWriter, r *http.Request) {
	var req quickMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Criteria) == 0 {
		writeError(w, http.StatusBadRequest, "criteria are required")
		return
	}

	criteria := make([]model.Criterion, 0, len(req.Criteria))
	for _, c := range req.Criteria {
		if c.Field == "" {
			writeError(w, http.StatusBadRequest, "criterion field is required")
			return
		}
		criteria = append(criteria, model.NewCriterion(c.Field, c.Value, c.Weight))
	}

	template := model.NewTemplate("Quick Match", criteria)
	resp, err := s.ranker.Rank(r.Context(), template, req.MinThreshold, req.MaxResults)
	if err != nil {
		zap.L().Error("quick match failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "match failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"fields": model.AvailableFields()})
}

// scoringTypeInfo documents one scoring strategy for API discovery.
type scoringTypeInfo struct {
	Type        model.ScoringType `json:"type"`
	Description string            `json:"description"`
}

func (s *Server) handleScoringTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"scoringTypes": []scoringTypeInfo{
			{model.ScoreGeographic, "Country proximity with linear distance decay"},
			{model.ScoreCategorical, "Curated similarity tables with semantic fallback"},
			{model.ScoreSemantic, "Text and array similarity"},
			{model.ScoreNumeric, "Ratio of smaller to larger value, with tolerance window"},
			{model.ScoreExact, "Case-insensitive equality, 100 or 0"},
		},
	})
}

// testScoringRequest scores a single criterion against an explicit
// company value, for interactive tuning of templates.
type testScoringRequest struct {
	Criterion    model.Criterion  `json:"criterion"`
	CompanyValue model.FieldValue `json:"companyValue"`
}

func (s *Server) handleTestScoring(w http.ResponseWriter, r *http.Request) {
	var req testScoringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Criterion.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.scorer.Score(r.Context(), req.Criterion, req.CompanyValue)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "notion export is not configured")
		return
	}

	var req model.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	template, status, err := s.resolveTemplate(r, req)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	if err := template.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.ranker.Rank(r.Context(), *template, req.MinThreshold, req.MaxResults)
	if err != nil {
		zap.L().Error("export match failed", zap.String("template", template.Name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "match failed")
		return
	}

	created, updated, err := s.exporter.Export(r.Context(), resp)
	if err != nil {
		zap.L().Error("notion export failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "notion export failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"created": created,
		"updated": updated,
		"matches": len(resp.Matches),
	})
}

func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entities, err := s.store.ListEntities(r.Context(), limit)
	if err != nil {
		zap.L().Error("list entities", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list entities failed")
		return
	}
	total, err := s.store.CountEntities(r.Context())
	if err != nil {
		zap.L().Error("count entities", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "count entities failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":    total,
		"entities": entities,
	})
}

func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entity, err := s.store.GetEntity(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "entity not found: "+id)
			return
		}
		zap.L().Error("get entity", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "get entity failed")
		return
	}
	writeJSON(w, http.StatusOK, entity)
}
