package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/match-cli/internal/categorical"
	"github.com/sells-group/match-cli/internal/model"
	"github.com/sells-group/match-cli/internal/scorer"
	"github.com/sells-group/match-cli/internal/store"
)

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	cs := scorer.NewCriterionScorer(categorical.NewRegistry(), nil)
	ranker := scorer.NewRanker(store.NewEntitySource(st), scorer.NewMatcher(cs), 2)
	return NewServer(st, cs, ranker, nil), st
}

func seedEntities(t *testing.T, st store.Store) {
	t.Helper()
	ctx := context.Background()

	entities := []model.CompanyEntity{
		{
			ProfileID: "profile-nl",
			CompanyDetails: model.CompanyDetails{
				CompanyName:       "Tulip Trading",
				Country:           "Netherlands",
				NumberOfEmployees: 120,
			},
			Classification: model.Classification{
				ProfileType: "Distributor",
				Keywords:    []string{"logistics", "flowers"},
			},
		},
		{
			ProfileID: "profile-de",
			CompanyDetails: model.CompanyDetails{
				CompanyName:       "Rhein Retail",
				Country:           "Germany",
				NumberOfEmployees: 45,
			},
			Classification: model.Classification{
				ProfileType: "Retailer",
			},
		},
	}
	for _, e := range entities {
		require.NoError(t, st.UpsertEntity(ctx, e))
	}
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Router(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestFields(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Router(), http.MethodGet, "/api/icp/fields", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Fields []model.FieldInfo `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Fields)

	names := make(map[string]model.ScoringType)
	for _, f := range resp.Fields {
		names[f.Name] = f.DefaultScoringType
	}
	assert.Equal(t, model.ScoreGeographic, names["country"])
	assert.Equal(t, model.ScoreNumeric, names["numberOfEmployees"])
}

func TestScoringTypes(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Router(), http.MethodGet, "/api/icp/scoring-types", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ScoringTypes []scoringTypeInfo `json:"scoringTypes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.ScoringTypes, 5)
}

func TestTestScoring_Geographic(t *testing.T) {
	s, _ := newTestServer(t)

	body := map[string]any{
		"criterion": map[string]any{
			"field":       "country",
			"value":       "Germany",
			"weight":      5,
			"scoringType": "geographic",
		},
		"companyValue": "Germany",
	}
	rec := doJSON(t, s.Router(), http.MethodPost, "/api/icp/test-scoring", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.ParameterMatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, float64(100), result.MatchPercentage)
	assert.False(t, result.Skipped)
}

func TestTestScoring_InvalidScoringType(t *testing.T) {
	s, _ := newTestServer(t)

	body := map[string]any{
		"criterion": map[string]any{
			"field":       "country",
			"value":       "Germany",
			"weight":      5,
			"scoringType": "telepathic",
		},
		"companyValue": "Germany",
	}
	rec := doJSON(t, s.Router(), http.MethodPost, "/api/icp/test-scoring", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuickMatch(t *testing.T) {
	s, st := newTestServer(t)
	seedEntities(t, st)

	body := map[string]any{
		"criteria": []map[string]any{
			{"field": "country", "value": "Netherlands", "weight": 9},
			{"field": "profileType", "value": "Distributor", "weight": 7},
		},
		"minThreshold": 50,
	}
	rec := doJSON(t, s.Router(), http.MethodPost, "/api/icp/quick-match", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.MatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Matches)
	assert.Equal(t, "profile-nl", resp.Matches[0].CompanyID)
	assert.Equal(t, 1, resp.Matches[0].Rank)
	assert.Equal(t, float64(100), resp.Matches[0].MatchPercentage)
}

func TestQuickMatch_NoCriteria(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Router(), http.MethodPost, "/api/icp/quick-match", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatch_WithStoredTemplate(t *testing.T) {
	s, st := newTestServer(t)
	seedEntities(t, st)

	template := model.NewTemplate("Dutch Distributors", []model.Criterion{
		model.NewCriterion("country", model.StringValue("Netherlands"), 9),
	})
	require.NoError(t, st.SaveTemplate(context.Background(), template))

	rec := doJSON(t, s.Router(), http.MethodPost, "/api/icp/match", model.MatchRequest{
		TemplateID:   template.ID,
		MinThreshold: 50,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.MatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, template.ID, resp.TemplateID)
	assert.Equal(t, 1, resp.MatchesAboveThreshold)
}

func TestMatch_TemplateNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Router(), http.MethodPost, "/api/icp/match", model.MatchRequest{
		TemplateID: "icp-missing",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMatch_MissingTemplate(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Router(), http.MethodPost, "/api/icp/match", model.MatchRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport_NotConfigured(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Router(), http.MethodPost, "/api/icp/export", model.MatchRequest{
		TemplateID: "icp-1",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEntities(t *testing.T) {
	s, st := newTestServer(t)
	seedEntities(t, st)
	router := s.Router()

	rec := doJSON(t, router, http.MethodGet, "/api/entities/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Total    int                   `json:"total"`
		Entities []model.CompanyEntity `json:"entities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Total)
	assert.Len(t, list.Entities, 2)

	rec = doJSON(t, router, http.MethodGet, "/api/entities/profile-nl", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entity model.CompanyEntity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entity))
	assert.Equal(t, "Tulip Trading", entity.Name())

	rec = doJSON(t, router, http.MethodGet, "/api/entities/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
