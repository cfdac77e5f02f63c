package service

import (
	"encoding/json"
	"strconv"
	"strings"

	"gorm.io/datatypes"
)

// remapRuleDocument rewrites every option reference inside a condition or
// action document using idMap. References to options outside the map are left
// untouched. A document that fails to parse is returned as-is; the engine
// treats it as inert either way.
func remapRuleDocument(doc datatypes.JSON, idMap map[uint]uint) datatypes.JSON {
	if len(doc) == 0 {
		return doc
	}

	var tree interface{}
	if err := json.Unmarshal(doc, &tree); err != nil {
		return doc
	}

	remapped := remapNode(tree, idMap)
	out, err := json.Marshal(remapped)
	if err != nil {
		return doc
	}
	return datatypes.JSON(out)
}

func remapNode(node interface{}, idMap map[uint]uint) interface{} {
	switch v := node.(type) {
	case map[string]interface{}:
		for key, child := range v {
			switch key {
			case "option_id":
				v[key] = remapID(child, idMap)
			case "target_options":
				if list, ok := child.([]interface{}); ok {
					for i, id := range list {
						list[i] = remapID(id, idMap)
					}
				}
			default:
				v[key] = remapNode(child, idMap)
			}
		}
		return v
	case []interface{}:
		for i, child := range v {
			v[i] = remapNode(child, idMap)
		}
		return v
	default:
		return node
	}
}

// remapID handles both JSON numbers and numeric strings, preserving the
// original representation.
func remapID(raw interface{}, idMap map[uint]uint) interface{} {
	switch id := raw.(type) {
	case float64:
		if mapped, ok := idMap[uint(id)]; ok {
			return float64(mapped)
		}
	case string:
		n, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			return raw
		}
		if mapped, ok := idMap[uint(n)]; ok {
			return strconv.FormatUint(uint64(mapped), 10)
		}
	}
	return raw
}

// isDuplicateKeyError matches unique constraint violations from both the
// postgres and sqlite drivers.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
