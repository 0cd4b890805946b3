package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFieldValueConstructors(t *testing.T) {
	assert.True(t, StringValue("  ").IsEmpty())
	assert.False(t, StringValue("x").IsEmpty())
	assert.True(t, ListValue(nil).IsEmpty())
	assert.False(t, ListValue([]string{"a"}).IsEmpty())
	// Zero is a present numeric value.
	assert.False(t, NumberValue(0).IsEmpty())
}

func TestFieldValue_AsString(t *testing.T) {
	tests := []struct {
		name  string
		value FieldValue
		want  string
	}{
		{"string", StringValue("Distributor"), "Distributor"},
		{"integer number", NumberValue(250), "250"},
		{"fractional number", NumberValue(2.5), "2.5"},
		{"list joins", ListValue([]string{"a", "b"}), "a, b"},
		{"empty", FieldValue{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.AsString())
		})
	}
}

func TestFieldValue_AsNumber(t *testing.T) {
	tests := []struct {
		name  string
		value FieldValue
		want  float64
	}{
		{"number", NumberValue(42), 42},
		{"numeric string", StringValue(" 42.5 "), 42.5},
		{"non-numeric string", StringValue("many"), 0},
		{"list", ListValue([]string{"1"}), 0},
		{"empty", FieldValue{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.AsNumber())
		})
	}
}

func TestFieldValue_JSON(t *testing.T) {
	tests := []struct {
		name string
		json string
		want FieldValue
	}{
		{"string", `"Distributor"`, StringValue("Distributor")},
		{"number", `250`, NumberValue(250)},
		{"array", `["solar","wind"]`, ListValue([]string{"solar", "wind"})},
		{"null", `null`, FieldValue{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v FieldValue
			require.NoError(t, json.Unmarshal([]byte(tt.json), &v))
			assert.Equal(t, tt.want, v)

			out, err := json.Marshal(v)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(out))
		})
	}

	var v FieldValue
	assert.Error(t, json.Unmarshal([]byte(`{"bad":"shape"}`), &v))
}

func TestFieldValue_YAML(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want FieldValue
	}{
		{"string", `Distributor`, StringValue("Distributor")},
		{"int", `250`, NumberValue(250)},
		{"float", `2.5`, NumberValue(2.5)},
		{"sequence", "- solar\n- wind", ListValue([]string{"solar", "wind"})},
		{"null", `null`, FieldValue{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v FieldValue
			require.NoError(t, yaml.Unmarshal([]byte(tt.yaml), &v))
			assert.Equal(t, tt.want, v)
		})
	}
}
