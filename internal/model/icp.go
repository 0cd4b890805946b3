package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// ScoringType selects the sub-scorer applied to a criterion.
type ScoringType string

const (
	ScoreGeographic  ScoringType = "geographic"  // distance-based, km decay
	ScoreCategorical ScoringType = "categorical" // curated similarity tables
	ScoreSemantic    ScoringType = "semantic"    // text/array similarity
	ScoreNumeric     ScoringType = "numeric"     // ratio and tolerance based
	ScoreExact       ScoringType = "exact"       // binary match
)

// ParseScoringType validates a scoring type string.
func ParseScoringType(s string) (ScoringType, error) {
	switch t := ScoringType(s); t {
	case ScoreGeographic, ScoreCategorical, ScoreSemantic, ScoreNumeric, ScoreExact:
		return t, nil
	}
	return "", eris.Errorf("model: unknown scoring type %q", s)
}

// fieldScoringTypes maps field references to their default scoring type.
// Unlisted fields score as semantic.
var fieldScoringTypes = map[string]ScoringType{
	"country":           ScoreGeographic,
	"city":              ScoreGeographic,
	"profileType":       ScoreCategorical,
	"marketSegment":     ScoreCategorical,
	"numberOfEmployees": ScoreNumeric,
	"annualTurnover":    ScoreNumeric,
	"keywords":          ScoreSemantic,
	"servicesOffered":   ScoreSemantic,
	"clientTypesServed": ScoreSemantic,
	"summaryOfActivity": ScoreSemantic,
	"companyName":       ScoreSemantic,
}

// DefaultScoringType derives the scoring type for a field reference.
// Dotted paths resolve through their final segment.
func DefaultScoringType(field string) ScoringType {
	if t, ok := fieldScoringTypes[bareName(field)]; ok {
		return t
	}
	return ScoreSemantic
}

const (
	// MinWeight and MaxWeight bound a criterion's importance weight.
	MinWeight = 1
	MaxWeight = 10
)

// CriterionConfig carries optional per-scoring-type settings.
type CriterionConfig struct {
	// MaxDistanceKm overrides the geographic cutoff (default 5000 km).
	MaxDistanceKm float64 `json:"maxDistance,omitempty" yaml:"maxDistance,omitempty"`
	// Tolerance is the numeric acceptance window as a fraction
	// (0.2 means a candidate within ±20% of the target scores 100).
	Tolerance float64 `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	// MinSimilarity gates the categorical semantic fallback (0-1).
	MinSimilarity float64 `json:"minSimilarity,omitempty" yaml:"minSimilarity,omitempty"`
}

// Criterion is one weighted matching rule. Immutable once scoring starts.
type Criterion struct {
	ID          string           `json:"id" yaml:"id"`
	Field       string           `json:"field" yaml:"field"`
	Label       string           `json:"label" yaml:"label"`
	Value       FieldValue       `json:"value" yaml:"value"`
	Weight      int              `json:"weight" yaml:"weight"`
	ScoringType ScoringType      `json:"scoringType" yaml:"scoringType"`
	Config      *CriterionConfig `json:"config,omitempty" yaml:"config,omitempty"`
}

// NewCriterion builds a criterion with a generated id, the default
// scoring type for the field, and the weight clamped to 1..10.
func NewCriterion(field string, value FieldValue, weight int) Criterion {
	if weight < MinWeight {
		weight = MinWeight
	}
	if weight > MaxWeight {
		weight = MaxWeight
	}
	return Criterion{
		ID:          "criterion-" + uuid.NewString(),
		Field:       field,
		Label:       bareName(field),
		Value:       value,
		Weight:      weight,
		ScoringType: DefaultScoringType(field),
	}
}

// EffectiveType returns the declared scoring type, deriving it from the
// field reference when unset.
func (c Criterion) EffectiveType() ScoringType {
	if c.ScoringType == "" {
		return DefaultScoringType(c.Field)
	}
	return c.ScoringType
}

// Validate checks a criterion's request shape.
func (c Criterion) Validate() error {
	if c.Field == "" {
		return eris.New("model: criterion field is required")
	}
	if c.Weight < 0 || c.Weight > MaxWeight {
		return eris.Errorf("model: criterion %q weight %d out of range 0-%d", c.Field, c.Weight, MaxWeight)
	}
	if c.ScoringType != "" {
		if _, err := ParseScoringType(string(c.ScoringType)); err != nil {
			return eris.Wrapf(err, "model: criterion %q", c.Field)
		}
	}
	return nil
}

// Template is a named, reusable bundle of criteria (an ICP).
type Template struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   time.Time   `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" yaml:"updatedAt"`
	Active      bool        `json:"isActive" yaml:"isActive"`
	Criteria    []Criterion `json:"criteria" yaml:"criteria"`
}

// NewTemplate builds an active template with a generated id.
func NewTemplate(name string, criteria []Criterion) Template {
	now := time.Now().UTC()
	return Template{
		ID:        "icp-" + uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Active:    true,
		Criteria:  criteria,
	}
}

// Validate checks the template and all its criteria.
func (t Template) Validate() error {
	if t.Name == "" {
		return eris.New("model: template name is required")
	}
	for _, c := range t.Criteria {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}
