package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/match-cli/internal/model"
)

func TestParseCriterion(t *testing.T) {
	tests := []struct {
		name       string
		spec       string
		wantField  string
		wantValue  model.FieldValue
		wantWeight int
		wantErr    bool
	}{
		{
			name:       "string with weight",
			spec:       "country=Netherlands:9",
			wantField:  "country",
			wantValue:  model.StringValue("Netherlands"),
			wantWeight: 9,
		},
		{
			name:       "default weight",
			spec:       "profileType=Distributor",
			wantField:  "profileType",
			wantValue:  model.StringValue("Distributor"),
			wantWeight: 5,
		},
		{
			name:       "list value",
			spec:       "keywords=logistics|freight:4",
			wantField:  "keywords",
			wantValue:  model.ListValue([]string{"logistics", "freight"}),
			wantWeight: 4,
		},
		{
			name:       "numeric value",
			spec:       "numberOfEmployees=100:3",
			wantField:  "numberOfEmployees",
			wantValue:  model.NumberValue(100),
			wantWeight: 3,
		},
		{
			name:       "weight clamped to max",
			spec:       "country=Spain:99",
			wantField:  "country",
			wantValue:  model.StringValue("Spain"),
			wantWeight: model.MaxWeight,
		},
		{name: "missing equals", spec: "country", wantErr: true},
		{name: "empty value", spec: "country=:5", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := parseCriterion(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, c.Field)
			assert.Equal(t, tt.wantValue, c.Value)
			assert.Equal(t, tt.wantWeight, c.Weight)
		})
	}
}

func TestParseCriterion_DerivesScoringType(t *testing.T) {
	c, err := parseCriterion("country=Germany:5")
	require.NoError(t, err)
	assert.Equal(t, model.ScoreGeographic, c.ScoringType)

	c, err = parseCriterion("annualTurnover=2000000:5")
	require.NoError(t, err)
	assert.Equal(t, model.ScoreNumeric, c.ScoringType)
}

func TestLoadTemplateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: Dutch Distributors
description: Core European profile
criteria:
  - field: country
    value: Netherlands
    weight: 9
  - field: keywords
    value: [logistics, freight]
    weight: 5
  - field: numberOfEmployees
    value: 120
    weight: 3
    config:
      tolerance: 0.2
`), 0o644))

	template, err := loadTemplateFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Dutch Distributors", template.Name)
	require.Len(t, template.Criteria, 3)

	assert.Equal(t, model.StringValue("Netherlands"), template.Criteria[0].Value)
	assert.Equal(t, 9, template.Criteria[0].Weight)
	assert.NotEmpty(t, template.Criteria[0].ID)
	assert.Equal(t, "country", template.Criteria[0].Label)

	assert.Equal(t, model.ListValue([]string{"logistics", "freight"}), template.Criteria[1].Value)

	assert.Equal(t, model.NumberValue(120), template.Criteria[2].Value)
	require.NotNil(t, template.Criteria[2].Config)
	assert.Equal(t, 0.2, template.Criteria[2].Config.Tolerance)
}

func TestLoadTemplateFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("criteria: {not: a list}"), 0o644))

	_, err := loadTemplateFile(path)
	assert.Error(t, err)

	_, err = loadTemplateFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
