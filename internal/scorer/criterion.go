package scorer

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/match-cli/internal/categorical"
	"github.com/sells-group/match-cli/internal/geo"
	"github.com/sells-group/match-cli/internal/model"
	"github.com/sells-group/match-cli/pkg/embed"
)

// CriterionScorer dispatches a single (ideal value, candidate value)
// pair to the sub-scorer selected by the criterion's scoring type.
type CriterionScorer struct {
	registry      *categorical.Registry
	embedder      embed.Embedder
	maxDistanceKm float64
}

// ScorerOption configures a CriterionScorer.
type ScorerOption func(*CriterionScorer)

// WithMaxDistance sets the geographic cutoff applied to criteria that
// carry no per-criterion override. Values <= 0 keep the package default.
func WithMaxDistance(km float64) ScorerOption {
	return func(cs *CriterionScorer) {
		cs.maxDistanceKm = km
	}
}

// NewCriterionScorer creates a dispatcher. The embedder may be nil, in
// which case categorical scoring stops at the table default instead of
// falling back to embedding similarity.
func NewCriterionScorer(registry *categorical.Registry, embedder embed.Embedder, opts ...ScorerOption) *CriterionScorer {
	if registry == nil {
		registry = categorical.NewRegistry()
	}
	cs := &CriterionScorer{registry: registry, embedder: embedder}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

// Score computes the ParameterMatchResult for one criterion against a
// resolved candidate value. Scoring anomalies (unknown geography,
// unknown category pairs) degrade to low scores with explanations; only
// embedding transport failures are logged, and those degrade too.
func (cs *CriterionScorer) Score(ctx context.Context, c model.Criterion, companyValue model.FieldValue) model.ParameterMatchResult {
	result := model.ParameterMatchResult{
		CriterionID:  c.ID,
		Field:        c.Field,
		Label:        c.Label,
		ScoringType:  c.EffectiveType(),
		Weight:       c.Weight,
		IcpValue:     c.Value,
		CompanyValue: companyValue,
	}

	var score float64
	var explanation string

	switch result.ScoringType {
	case model.ScoreGeographic:
		maxKm := cs.maxDistanceKm
		if c.Config != nil && c.Config.MaxDistanceKm > 0 {
			maxKm = c.Config.MaxDistanceKm
		}
		p := geo.ProximityScore(c.Value.AsString(), companyValue.AsString(), maxKm)
		score, explanation = p.Score, p.Explanation

	case model.ScoreCategorical:
		score, explanation = cs.scoreCategorical(ctx, c, companyValue)

	case model.ScoreNumeric:
		var tolerance float64
		if c.Config != nil {
			tolerance = c.Config.Tolerance
		}
		n := NumericSimilarity(c.Value.AsNumber(), companyValue.AsNumber(), tolerance)
		score, explanation = n.Score, n.Explanation

	case model.ScoreExact:
		if strings.EqualFold(c.Value.AsString(), companyValue.AsString()) {
			score = 100
			explanation = fmt.Sprintf("Exact match: %q = %q", c.Value.AsString(), companyValue.AsString())
		} else {
			score = 0
			explanation = fmt.Sprintf("No match: %q != %q", c.Value.AsString(), companyValue.AsString())
		}

	case model.ScoreSemantic:
		score, explanation = scoreSemantic(c.Value, companyValue)
	}

	result.MatchPercentage = round2(score)
	result.Explanation = explanation
	return result
}

// scoreCategorical consults the similarity tables, then the embedding
// provider for pairs the tables do not know.
func (cs *CriterionScorer) scoreCategorical(ctx context.Context, c model.Criterion, companyValue model.FieldValue) (float64, string) {
	category := categorical.ProfileType
	if strings.Contains(c.Field, "marketSegment") {
		category = categorical.MarketSegment
	}

	ideal := c.Value.AsString()
	candidate := companyValue.AsString()

	// A table score above the category default is authoritative. At or
	// below it (unknown pairs and curated very-different pairs alike)
	// the embedding provider gets a say.
	tableScore := cs.registry.Similarity(ideal, candidate, category)
	if tableScore.Score > categorical.DefaultScore(category) || cs.embedder == nil {
		return tableScore.Score, tableScore.Explanation
	}

	semantic, err := cs.semanticSimilarity(ctx, ideal, candidate)
	if err != nil {
		zap.L().Warn("scorer: semantic fallback failed",
			zap.String("field", c.Field),
			zap.Error(err),
		)
		return 0, "Failed to calculate semantic similarity"
	}

	if c.Config != nil && c.Config.MinSimilarity > 0 && semantic < c.Config.MinSimilarity*100 {
		return tableScore.Score, tableScore.Explanation
	}

	return semantic, fmt.Sprintf("Semantic similarity: %q vs %q = %.0f%%", ideal, candidate, semantic)
}

func (cs *CriterionScorer) semanticSimilarity(ctx context.Context, a, b string) (float64, error) {
	vecA, err := cs.embedder.Embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vecB, err := cs.embedder.Embed(ctx, b)
	if err != nil {
		return 0, err
	}
	return math.Round(embed.Cosine(vecA, vecB) * 100), nil
}

// scoreSemantic handles the text family: array-array overlap,
// array-vs-scalar containment, and scalar-scalar edit distance.
func scoreSemantic(ideal, candidate model.FieldValue) (float64, string) {
	switch {
	case ideal.Kind == model.KindList && candidate.Kind == model.KindList:
		score := ArrayOverlap(ideal.List, candidate.List)
		matched := intersect(ideal.List, candidate.List)
		return score, fmt.Sprintf("Array intersection: [%s] = %.0f%%", strings.Join(matched, ", "), score)

	case ideal.Kind == model.KindList:
		score := MixedOverlap(ideal.List, candidate.AsString())
		return score, fmt.Sprintf("Partial match of %q against %d values = %.0f%%", candidate.AsString(), len(ideal.List), score)

	case candidate.Kind == model.KindList:
		score := MixedOverlap(candidate.List, ideal.AsString())
		return score, fmt.Sprintf("Partial match of %q against %d values = %.0f%%", ideal.AsString(), len(candidate.List), score)

	default:
		score := TextSimilarity(ideal.AsString(), candidate.AsString())
		return score, fmt.Sprintf("Text similarity: %q vs %q = %.0f%%", ideal.AsString(), candidate.AsString(), score)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
