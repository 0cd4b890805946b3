package scorer

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/match-cli/internal/model"
)

type fakeSource struct {
	entities []model.CompanyEntity
	err      error
	lastK    int
	lastQ    string
}

func (f *fakeSource) Search(ctx context.Context, query string, k int) ([]model.CompanyEntity, error) {
	f.lastQ, f.lastK = query, k
	if f.err != nil {
		return nil, f.err
	}
	return f.entities, nil
}

func candidate(id, name, country string) model.CompanyEntity {
	return model.CompanyEntity{
		ProfileID: id,
		CompanyDetails: model.CompanyDetails{
			CompanyName: name,
			Country:     country,
		},
		Classification: model.Classification{ProfileType: "Distributor"},
	}
}

func newTestRanker(src CandidateSource) *Ranker {
	return NewRanker(src, NewMatcher(newTestScorer()), 2)
}

func TestRank_OrdersAndAssignsRanks(t *testing.T) {
	src := &fakeSource{entities: []model.CompanyEntity{
		candidate("p-de", "Rhein Retail", "Germany"),
		candidate("p-nl", "Tulip Trading", "Netherlands"),
		candidate("p-cn", "Beijing Exports", "China"),
	}}
	template := model.NewTemplate("EU Distributors", []model.Criterion{
		model.NewCriterion("country", model.StringValue("Netherlands"), 8),
	})

	resp, err := newTestRanker(src).Rank(context.Background(), template, 0, 10)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.TotalCandidates)
	assert.Equal(t, 3, resp.MatchesAboveThreshold)
	require.Len(t, resp.Matches, 3)

	assert.Equal(t, "p-nl", resp.Matches[0].CompanyID)
	assert.Equal(t, 1, resp.Matches[0].Rank)
	assert.Equal(t, float64(100), resp.Matches[0].MatchPercentage)
	assert.Equal(t, "p-de", resp.Matches[1].CompanyID)
	assert.Equal(t, 2, resp.Matches[1].Rank)
	assert.Equal(t, "p-cn", resp.Matches[2].CompanyID)
	assert.Equal(t, 3, resp.Matches[2].Rank)
}

func TestRank_ThresholdFilters(t *testing.T) {
	src := &fakeSource{entities: []model.CompanyEntity{
		candidate("p-nl", "Tulip Trading", "Netherlands"),
		candidate("p-cn", "Beijing Exports", "China"),
	}}
	template := model.NewTemplate("EU Only", []model.Criterion{
		model.NewCriterion("country", model.StringValue("Netherlands"), 8),
	})

	resp, err := newTestRanker(src).Rank(context.Background(), template, 50, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.TotalCandidates)
	assert.Equal(t, 1, resp.MatchesAboveThreshold)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "p-nl", resp.Matches[0].CompanyID)
	assert.Equal(t, float64(50), resp.Threshold)
}

func TestRank_TiesKeepRetrievalOrder(t *testing.T) {
	src := &fakeSource{entities: []model.CompanyEntity{
		candidate("p-first", "First BV", "Netherlands"),
		candidate("p-second", "Second BV", "Netherlands"),
	}}
	template := model.NewTemplate("Tie", []model.Criterion{
		model.NewCriterion("country", model.StringValue("Netherlands"), 5),
	})

	resp, err := newTestRanker(src).Rank(context.Background(), template, 0, 10)
	require.NoError(t, err)
	require.Len(t, resp.Matches, 2)
	assert.Equal(t, "p-first", resp.Matches[0].CompanyID)
	assert.Equal(t, "p-second", resp.Matches[1].CompanyID)
}

func TestRank_RetrievalErrorFailsWholeRequest(t *testing.T) {
	src := &fakeSource{err: eris.New("store offline")}
	template := model.NewTemplate("Any", []model.Criterion{
		model.NewCriterion("country", model.StringValue("Netherlands"), 5),
	})

	resp, err := newTestRanker(src).Rank(context.Background(), template, 0, 10)
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieve candidates")
}

func TestRank_InvalidTemplateRejected(t *testing.T) {
	src := &fakeSource{}
	template := model.Template{Criteria: []model.Criterion{
		model.NewCriterion("country", model.StringValue("Netherlands"), 5),
	}}

	_, err := newTestRanker(src).Rank(context.Background(), template, 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Empty(t, src.lastQ, "retrieval must not run for invalid templates")
}

func TestRank_DefaultMaxResults(t *testing.T) {
	src := &fakeSource{}
	template := model.NewTemplate("Defaults", []model.Criterion{
		model.NewCriterion("country", model.StringValue("Netherlands"), 5),
	})

	_, err := newTestRanker(src).Rank(context.Background(), template, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxResults, src.lastK)
}

func TestBuildQuery(t *testing.T) {
	criteria := []model.Criterion{
		model.NewCriterion("companyDetails.country", model.StringValue("Netherlands"), 8),
		model.NewCriterion("classification.profileType", model.StringValue("Distributor"), 6),
		model.NewCriterion("classification.keywords", model.ListValue([]string{"solar", "wind"}), 4),
		model.NewCriterion("numberOfEmployees", model.NumberValue(50), 3),
	}

	q := BuildQuery(criteria)
	assert.Contains(t, q, "Location: Netherlands.")
	assert.Contains(t, q, "Type: Distributor.")
	assert.Contains(t, q, "Keywords: solar, wind.")
	assert.Contains(t, q, "Around 50 employees.")
}

func TestBuildQuery_SkipsInactiveAndEmpty(t *testing.T) {
	inactive := model.NewCriterion("country", model.StringValue("Germany"), 5)
	inactive.Weight = 0
	empty := model.NewCriterion("city", model.FieldValue{}, 5)

	q := BuildQuery([]model.Criterion{inactive, empty})
	assert.Empty(t, q)
}
