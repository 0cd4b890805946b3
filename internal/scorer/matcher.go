package scorer

import (
	"context"
	"math"

	"github.com/sells-group/match-cli/internal/model"
)

// Matcher scores a candidate entity against a full set of weighted
// criteria and aggregates the per-criterion results.
type Matcher struct {
	criterion *CriterionScorer
}

// NewMatcher creates a Matcher around a criterion dispatcher.
func NewMatcher(criterion *CriterionScorer) *Matcher {
	return &Matcher{criterion: criterion}
}

// MatchEntity scores every criterion against the entity and computes the
// weighted total. Criteria whose candidate-side value cannot be resolved
// are skipped: they keep weight zero in the aggregate rather than
// counting as a mismatch. Criteria declared with weight zero are
// inactive and excluded from both the results and the counts.
func (m *Matcher) MatchEntity(ctx context.Context, entity *model.CompanyEntity, criteria []model.Criterion) model.MatchResult {
	result := model.MatchResult{
		CompanyID:   entity.ProfileID,
		CompanyName: entity.Name(),
		Company:     entity,
	}

	var weightedSum, weightTotal float64

	for _, c := range criteria {
		if c.Weight == 0 {
			continue
		}
		result.TotalCriteria++

		value, ok := model.ResolveField(entity, c.Field)
		if !ok {
			result.SkippedCriteria++
			result.ParameterMatches = append(result.ParameterMatches, model.ParameterMatchResult{
				CriterionID: c.ID,
				Field:       c.Field,
				Label:       c.Label,
				ScoringType: c.EffectiveType(),
				Weight:      c.Weight,
				IcpValue:    c.Value,
				Explanation: "Company data missing for this field",
				Skipped:     true,
			})
			continue
		}

		pm := m.criterion.Score(ctx, c, value)
		result.MatchedCriteria++
		result.ParameterMatches = append(result.ParameterMatches, pm)

		weightedSum += pm.MatchPercentage * float64(c.Weight)
		weightTotal += float64(c.Weight)
	}

	if weightTotal > 0 {
		result.MatchPercentage = round2(weightedSum / weightTotal)
	}
	if result.TotalCriteria > 0 {
		result.DataCompleteness = math.Round(float64(result.MatchedCriteria) / float64(result.TotalCriteria) * 100)
	}

	return result
}
