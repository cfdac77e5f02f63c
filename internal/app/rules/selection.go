package rules

import (
	"encoding/json"
	"strconv"
)

// FileSelected is the sentinel a client submits for a file option when a
// file has been attached. The engine only ever checks it for emptiness.
const FileSelected = "file_selected"

// Selected holds the submitted value(s) for a single option: a scalar string
// for single-select and free-text types, or a list for multi-select types.
// The zero value reads as an empty scalar, which is exactly how an absent
// selection must behave in comparisons.
type Selected struct {
	scalar string
	list   []string
	isList bool
}

// Value builds a scalar selection.
func Value(s string) Selected {
	return Selected{scalar: s}
}

// Values builds a list selection.
func Values(ss ...string) Selected {
	return Selected{list: ss, isList: true}
}

// IsList reports whether the selection is a list.
func (s Selected) IsList() bool {
	return s.isList
}

// List returns the selected values for list selections, nil otherwise.
func (s Selected) List() []string {
	if !s.isList {
		return nil
	}
	return s.list
}

// String returns the scalar form. List selections have no scalar form.
func (s Selected) String() string {
	if s.isList {
		return ""
	}
	return s.scalar
}

// IsEmpty reports whether no meaningful value was chosen: empty scalar,
// empty list, or absent selection.
func (s Selected) IsEmpty() bool {
	if s.isList {
		return len(s.list) == 0
	}
	return s.scalar == ""
}

// Has reports whether the exact token was selected. Scalars match by
// equality, lists by membership.
func (s Selected) Has(token string) bool {
	if s.isList {
		for _, v := range s.list {
			if v == token {
				return true
			}
		}
		return false
	}
	return s.scalar == token
}

// Numeric parses the selection as a float. Non-numeric input parses to 0 so
// ordering comparisons stay deterministic. Lists parse their first entry.
func (s Selected) Numeric() float64 {
	str := s.scalar
	if s.isList {
		if len(s.list) == 0 {
			return 0
		}
		str = s.list[0]
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0
	}
	return f
}

// UnmarshalJSON accepts a string, a number, or an array of strings, matching
// what browsers submit for the different option input types.
func (s *Selected) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = Value(str)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = Values(list...)
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*s = Value(strconv.FormatFloat(num, 'f', -1, 64))
		return nil
	}

	// null or anything else reads as no selection
	*s = Selected{}
	return nil
}

// MarshalJSON emits the submitted shape back out.
func (s Selected) MarshalJSON() ([]byte, error) {
	if s.isList {
		if s.list == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(s.list)
	}
	return json.Marshal(s.scalar)
}

// Selections maps option IDs to the user's current choices. Absent entries
// read as empty selections.
type Selections map[uint]Selected
