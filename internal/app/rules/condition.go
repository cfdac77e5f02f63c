package rules

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Comparison tokens understood by the evaluator. Anything else compares
// to false.
const (
	CompareEquals      = "equals"
	CompareNotEquals   = "not_equals"
	CompareContains    = "contains"
	CompareNotContains = "not_contains"
	CompareEmpty       = "empty"
	CompareNotEmpty    = "not_empty"
	CompareGreaterThan = "greater_than"
	CompareLessThan    = "less_than"
)

// Logical operators for combining leaf conditions. Any unrecognized operator
// behaves as "and".
const (
	OperatorAnd = "and"
	OperatorOr  = "or"
)

var errEmptyCondition = errors.New("condition has no leaves")

// flexID is an option ID that tolerates both numeric and string encodings;
// rule documents authored through older admin forms serialize IDs as strings.
type flexID uint

func (f *flexID) UnmarshalJSON(data []byte) error {
	var n uint
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexID(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return err
	}
	*f = flexID(parsed)
	return nil
}

// flexString reads a JSON string, number, or bool as its string form.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	*f = flexString(strings.Trim(string(data), `"`))
	return nil
}

// Leaf is a single comparison against one option's selected value.
type Leaf struct {
	OptionID   flexID     `json:"option_id"`
	Comparison string     `json:"comparison"`
	Value      flexString `json:"value"`
}

// ConditionGroup is the condition tree of a rule: a list of leaves combined
// with a logical operator. Unknown extra fields are tolerated for forward
// compatibility.
type ConditionGroup struct {
	Operator   string `json:"operator"`
	Conditions []Leaf `json:"conditions"`
}

// ParseCondition deserializes a condition document. A document with no
// leaves is rejected so that an "and" over nothing can never vacuously fire.
func ParseCondition(raw []byte) (*ConditionGroup, error) {
	var group ConditionGroup
	if err := json.Unmarshal(raw, &group); err != nil {
		return nil, err
	}
	if len(group.Conditions) == 0 {
		return nil, errEmptyCondition
	}
	return &group, nil
}

// Evaluate runs the condition tree against the current selections.
// "or" is true when any leaf is true; everything else requires that no leaf
// is false.
func (g *ConditionGroup) Evaluate(selections Selections) bool {
	if g == nil || len(g.Conditions) == 0 {
		return false
	}

	anyTrue := false
	anyFalse := false
	for _, leaf := range g.Conditions {
		selected := selections[uint(leaf.OptionID)]
		if Compare(selected, string(leaf.Value), leaf.Comparison) {
			anyTrue = true
		} else {
			anyFalse = true
		}
	}

	if g.Operator == OperatorOr {
		return anyTrue
	}
	return !anyFalse
}

// Compare applies one comparison between a selection and a target token.
// Semantics mirror the storefront exactly so server and client never
// disagree mid-interaction.
func Compare(selected Selected, target, comparison string) bool {
	switch comparison {
	case CompareEquals:
		// type-sensitive: a list never equals a scalar target
		return !selected.IsList() && selected.String() == target
	case CompareNotEquals:
		return selected.IsList() || selected.String() != target
	case CompareContains:
		if selected.IsList() {
			return selected.Has(target)
		}
		return strings.Contains(selected.String(), target)
	case CompareNotContains:
		if selected.IsList() {
			return !selected.Has(target)
		}
		return !strings.Contains(selected.String(), target)
	case CompareEmpty:
		return selected.IsEmpty()
	case CompareNotEmpty:
		return !selected.IsEmpty()
	case CompareGreaterThan:
		return selected.Numeric() > parseFloat(target)
	case CompareLessThan:
		return selected.Numeric() < parseFloat(target)
	default:
		return false
	}
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
