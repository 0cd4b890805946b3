package scorer

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"

	"github.com/sells-group/match-cli/internal/categorical"
	"github.com/sells-group/match-cli/internal/model"
	"github.com/sells-group/match-cli/pkg/embed"
)

func newTestScorer() *CriterionScorer {
	return NewCriterionScorer(categorical.NewRegistry(), nil)
}

func TestScore_Geographic(t *testing.T) {
	cs := newTestScorer()
	c := model.NewCriterion("companyDetails.country", model.StringValue("Netherlands"), 8)

	got := cs.Score(context.Background(), c, model.StringValue("Netherlands"))
	assert.Equal(t, float64(100), got.MatchPercentage)
	assert.Equal(t, model.ScoreGeographic, got.ScoringType)
	assert.Equal(t, 8, got.Weight)

	far := cs.Score(context.Background(), c, model.StringValue("China"))
	assert.Zero(t, far.MatchPercentage)
}

func TestScore_GeographicCustomCutoff(t *testing.T) {
	cs := newTestScorer()
	c := model.NewCriterion("country", model.StringValue("Netherlands"), 5)
	c.Config = &model.CriterionConfig{MaxDistanceKm: 100}

	got := cs.Score(context.Background(), c, model.StringValue("Germany"))
	assert.Zero(t, got.MatchPercentage)
}

func TestScore_GeographicConfiguredCutoff(t *testing.T) {
	// The scorer-wide cutoff applies when the criterion has no override.
	tight := NewCriterionScorer(categorical.NewRegistry(), nil, WithMaxDistance(100))
	c := model.NewCriterion("country", model.StringValue("Netherlands"), 5)

	got := tight.Score(context.Background(), c, model.StringValue("Germany"))
	assert.Zero(t, got.MatchPercentage)

	// A per-criterion override still wins over the scorer-wide cutoff.
	c.Config = &model.CriterionConfig{MaxDistanceKm: 10000}
	got = tight.Score(context.Background(), c, model.StringValue("Germany"))
	assert.Greater(t, got.MatchPercentage, float64(0))
}

func TestScore_Categorical(t *testing.T) {
	cs := newTestScorer()
	c := model.NewCriterion("classification.profileType", model.StringValue("Distributor"), 6)

	tests := []struct {
		name      string
		candidate string
		want      float64
	}{
		{"exact", "Distributor", 100},
		{"seeded pair", "Wholesaler", 85},
		{"unknown pair default", "Spaceship", 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cs.Score(context.Background(), c, model.StringValue(tt.candidate))
			assert.Equal(t, tt.want, got.MatchPercentage)
		})
	}
}

func TestScore_CategoricalSemanticFallback(t *testing.T) {
	embedder := &embed.Mock{
		EmbedFunc: func(ctx context.Context, text string) ([]float32, error) {
			// Same vector for every text: cosine 1.0.
			return []float32{1, 0}, nil
		},
	}
	cs := NewCriterionScorer(categorical.NewRegistry(), embedder)
	c := model.NewCriterion("profileType", model.StringValue("Distributor"), 5)

	got := cs.Score(context.Background(), c, model.StringValue("Channel Partner"))
	assert.Equal(t, float64(100), got.MatchPercentage)
	assert.Contains(t, got.Explanation, "Semantic similarity")
}

func TestScore_CategoricalKnownPairAtDefaultStillFallsBack(t *testing.T) {
	// Manufacturer vs Consultant is curated at 20, the profileType
	// default. Scores at or below the default are not authoritative and
	// the embedding provider still gets consulted.
	embedder := &embed.Mock{
		EmbedFunc: func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1, 0}, nil
		},
	}
	cs := NewCriterionScorer(categorical.NewRegistry(), embedder)
	c := model.NewCriterion("profileType", model.StringValue("Manufacturer"), 5)

	got := cs.Score(context.Background(), c, model.StringValue("Consultant"))
	assert.Equal(t, float64(100), got.MatchPercentage)
	assert.Contains(t, got.Explanation, "Semantic similarity")

	// Above the default the table wins even with an embedder present.
	wholesale := model.NewCriterion("profileType", model.StringValue("Distributor"), 5)
	table := cs.Score(context.Background(), wholesale, model.StringValue("Wholesaler"))
	assert.Equal(t, float64(85), table.MatchPercentage)
}

func TestScore_CategoricalFallbackGatedByMinSimilarity(t *testing.T) {
	vectors := map[string][]float32{
		"Distributor":     {1, 0},
		"Channel Partner": {0, 1},
	}
	embedder := &embed.Mock{
		EmbedFunc: func(ctx context.Context, text string) ([]float32, error) {
			return vectors[text], nil
		},
	}
	cs := NewCriterionScorer(categorical.NewRegistry(), embedder)
	c := model.NewCriterion("profileType", model.StringValue("Distributor"), 5)
	c.Config = &model.CriterionConfig{MinSimilarity: 0.5}

	// Orthogonal vectors score 0, below the gate: fall back to the
	// table default.
	got := cs.Score(context.Background(), c, model.StringValue("Channel Partner"))
	assert.Equal(t, float64(20), got.MatchPercentage)
}

func TestScore_CategoricalFallbackDegradesOnError(t *testing.T) {
	embedder := &embed.Mock{
		EmbedFunc: func(ctx context.Context, text string) ([]float32, error) {
			return nil, eris.New("provider down")
		},
	}
	cs := NewCriterionScorer(categorical.NewRegistry(), embedder)
	c := model.NewCriterion("profileType", model.StringValue("Distributor"), 5)

	got := cs.Score(context.Background(), c, model.StringValue("Spaceship"))
	assert.Zero(t, got.MatchPercentage)
	assert.Equal(t, "Failed to calculate semantic similarity", got.Explanation)
}

func TestScore_Numeric(t *testing.T) {
	cs := newTestScorer()
	c := model.NewCriterion("numberOfEmployees", model.NumberValue(100), 5)

	got := cs.Score(context.Background(), c, model.NumberValue(50))
	assert.Equal(t, float64(50), got.MatchPercentage)

	c.Config = &model.CriterionConfig{Tolerance: 0.5}
	got = cs.Score(context.Background(), c, model.NumberValue(60))
	assert.Equal(t, float64(100), got.MatchPercentage)
}

func TestScore_Exact(t *testing.T) {
	cs := newTestScorer()
	c := model.NewCriterion("website", model.StringValue("https://example.com"), 3)
	c.ScoringType = model.ScoreExact

	hit := cs.Score(context.Background(), c, model.StringValue("HTTPS://EXAMPLE.COM"))
	assert.Equal(t, float64(100), hit.MatchPercentage)

	miss := cs.Score(context.Background(), c, model.StringValue("https://other.com"))
	assert.Zero(t, miss.MatchPercentage)
}

func TestScore_SemanticTextAndArrays(t *testing.T) {
	cs := newTestScorer()

	tests := []struct {
		name      string
		ideal     model.FieldValue
		candidate model.FieldValue
		want      float64
	}{
		{
			name:      "array vs array",
			ideal:     model.ListValue([]string{"solar", "wind"}),
			candidate: model.ListValue([]string{"solar", "hydro"}),
			want:      50,
		},
		{
			name:      "array vs scalar",
			ideal:     model.ListValue([]string{"solar panels", "inverters"}),
			candidate: model.StringValue("inverters"),
			want:      50,
		},
		{
			name:      "scalar vs array",
			ideal:     model.StringValue("inverters"),
			candidate: model.ListValue([]string{"solar panels", "inverters"}),
			want:      50,
		},
		{
			name:      "scalar vs scalar identical",
			ideal:     model.StringValue("renewable energy"),
			candidate: model.StringValue("renewable energy"),
			want:      100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := model.NewCriterion("keywords", tt.ideal, 5)
			got := cs.Score(context.Background(), c, tt.candidate)
			assert.Equal(t, tt.want, got.MatchPercentage)
		})
	}
}

func TestScore_CarriesCriterionMetadata(t *testing.T) {
	cs := newTestScorer()
	c := model.NewCriterion("country", model.StringValue("Germany"), 7)

	got := cs.Score(context.Background(), c, model.StringValue("Germany"))
	assert.Equal(t, c.ID, got.CriterionID)
	assert.Equal(t, "country", got.Field)
	assert.Equal(t, c.Value, got.IcpValue)
	assert.Equal(t, model.StringValue("Germany"), got.CompanyValue)
	assert.NotEmpty(t, got.Explanation)
	assert.False(t, got.Skipped)
}
