package scorer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/match-cli/internal/model"
)

// CandidateSource is the external candidate-retrieval oracle. The
// engine treats the returned ordering as a hint only; it re-ranks by
// its own weighted score.
type CandidateSource interface {
	Search(ctx context.Context, query string, k int) ([]model.CompanyEntity, error)
}

// DefaultMaxResults bounds candidate retrieval when a request does not
// specify its own limit.
const DefaultMaxResults = 100

// Ranker orchestrates a full ranking pass: candidate retrieval,
// per-candidate aggregation, threshold filtering, sorting, and rank
// assignment.
type Ranker struct {
	source      CandidateSource
	matcher     *Matcher
	concurrency int
}

// NewRanker creates a Ranker. Concurrency bounds the number of
// candidates scored in parallel; values below 1 mean sequential.
func NewRanker(source CandidateSource, matcher *Matcher, concurrency int) *Ranker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Ranker{source: source, matcher: matcher, concurrency: concurrency}
}

// Rank retrieves candidates for the template and returns them scored,
// filtered by minThreshold, sorted descending by match percentage
// (retrieval order breaks ties), with dense 1-based ranks.
//
// Failure is all-or-nothing: a retrieval error or any per-candidate
// scoring error fails the whole request rather than returning a partial
// result set.
func (r *Ranker) Rank(ctx context.Context, template model.Template, minThreshold float64, maxResults int) (*model.MatchResponse, error) {
	if err := template.Validate(); err != nil {
		return nil, err
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	query := BuildQuery(template.Criteria)
	candidates, err := r.source.Search(ctx, query, maxResults)
	if err != nil {
		return nil, eris.Wrap(err, "ranker: retrieve candidates")
	}

	zap.L().Debug("ranker: retrieved candidates",
		zap.String("template", template.Name),
		zap.String("query", query),
		zap.Int("count", len(candidates)),
	)

	// Scoring is independent per candidate; results land at their
	// retrieval index so tie-breaks stay stable.
	results := make([]model.MatchResult, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.matcher.MatchEntity(gctx, &candidates[i], template.Criteria)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "ranker: score candidates")
	}

	var matches []model.MatchResult
	for _, res := range results {
		if res.MatchPercentage >= minThreshold {
			matches = append(matches, res)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchPercentage > matches[j].MatchPercentage
	})
	for i := range matches {
		matches[i].Rank = i + 1
	}

	zap.L().Info("ranker: matching complete",
		zap.String("template", template.Name),
		zap.Int("candidates", len(candidates)),
		zap.Int("above_threshold", len(matches)),
		zap.Float64("threshold", minThreshold),
	)

	return &model.MatchResponse{
		TemplateID:            template.ID,
		TemplateName:          template.Name,
		TotalCandidates:       len(candidates),
		MatchesAboveThreshold: len(matches),
		Threshold:             minThreshold,
		Matches:               matches,
	}, nil
}

// BuildQuery renders criteria as a natural-language query string for
// the candidate-retrieval oracle, with field-specific phrasing.
func BuildQuery(criteria []model.Criterion) string {
	var parts []string
	for _, c := range criteria {
		if c.Weight == 0 || c.Value.IsEmpty() {
			continue
		}
		value := c.Value.AsString()
		switch field := c.Field; {
		case strings.Contains(field, "country") || strings.Contains(field, "city"):
			parts = append(parts, fmt.Sprintf("Location: %s.", value))
		case strings.Contains(field, "profileType"):
			parts = append(parts, fmt.Sprintf("Type: %s.", value))
		case strings.Contains(field, "marketSegment"):
			parts = append(parts, fmt.Sprintf("Segment: %s.", value))
		case strings.Contains(field, "keywords"):
			parts = append(parts, fmt.Sprintf("Keywords: %s.", value))
		case strings.Contains(field, "servicesOffered"):
			parts = append(parts, fmt.Sprintf("Services: %s.", value))
		case strings.Contains(field, "clientTypesServed"):
			parts = append(parts, fmt.Sprintf("Clients: %s.", value))
		case strings.Contains(field, "numberOfEmployees"):
			parts = append(parts, fmt.Sprintf("Around %s employees.", value))
		case strings.Contains(field, "annualTurnover"):
			parts = append(parts, fmt.Sprintf("Annual turnover around %s.", value))
		default:
			parts = append(parts, value+".")
		}
	}
	return strings.Join(parts, " ")
}
