package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValueKind discriminates the payload held by a FieldValue.
type ValueKind int

const (
	KindEmpty ValueKind = iota
	KindString
	KindNumber
	KindList
)

// FieldValue is a typed scalar-or-list value extracted from a company
// entity or declared as a criterion target. Criterion targets arrive as
// JSON string, number, or string array; UnmarshalJSON preserves that.
type FieldValue struct {
	Kind ValueKind
	Str  string
	Num  float64
	List []string
}

// StringValue wraps a string. Blank strings produce an empty value.
func StringValue(s string) FieldValue {
	if strings.TrimSpace(s) == "" {
		return FieldValue{}
	}
	return FieldValue{Kind: KindString, Str: s}
}

// NumberValue wraps a number. Zero is a valid, present value.
func NumberValue(n float64) FieldValue {
	return FieldValue{Kind: KindNumber, Num: n}
}

// ListValue wraps a string slice. Empty or nil slices produce an empty value.
func ListValue(items []string) FieldValue {
	if len(items) == 0 {
		return FieldValue{}
	}
	return FieldValue{Kind: KindList, List: items}
}

// IsEmpty reports whether no value is present.
func (v FieldValue) IsEmpty() bool {
	return v.Kind == KindEmpty
}

// AsString renders the value for comparison and explanations.
func (v FieldValue) AsString() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindList:
		return strings.Join(v.List, ", ")
	default:
		return ""
	}
}

// AsNumber coerces the value to a float64, returning 0 when it is not
// numeric. Matches the source system's Number(x) || 0 coercion.
func (v FieldValue) AsNumber() float64 {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// MarshalJSON emits the natural JSON form: string, number, array, or null.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindList:
		return json.Marshal(v.List)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a string, number, array of strings, or null.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*v = FieldValue{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = StringValue(s)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = NumberValue(n)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*v = ListValue(list)
		return nil
	}

	return fmt.Errorf("model: value must be string, number, or string array, got %s", data)
}

// MarshalYAML mirrors the JSON form for template files.
func (v FieldValue) MarshalYAML() (any, error) {
	switch v.Kind {
	case KindString:
		return v.Str, nil
	case KindNumber:
		return v.Num, nil
	case KindList:
		return v.List, nil
	default:
		return nil, nil
	}
}

// UnmarshalYAML accepts a scalar or a string sequence.
func (v *FieldValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*v = ListValue(list)
		return nil
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!null":
			*v = FieldValue{}
			return nil
		case "!!int", "!!float":
			var n float64
			if err := node.Decode(&n); err != nil {
				return err
			}
			*v = NumberValue(n)
			return nil
		default:
			var s string
			if err := node.Decode(&s); err != nil {
				return err
			}
			*v = StringValue(s)
			return nil
		}
	}
	return fmt.Errorf("model: value must be a scalar or string sequence")
}
