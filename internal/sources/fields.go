package sources

import (
	"github.com/spf13/cast"
)

// records returns the map entries of doc[field]. Non-object items are skipped.
func records(doc map[string]any, field string) []map[string]any {
	items, ok := doc[field].([]any)
	if !ok {
		return nil
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(map[string]any); ok {
			out = append(out, rec)
		}
	}
	return out
}

// stringField returns rec[key] as a string, or def when absent or not scalar
func stringField(rec map[string]any, key, def string) string {
	val, ok := rec[key]
	if !ok || val == nil {
		return def
	}
	s, err := cast.ToStringE(val)
	if err != nil {
		return def
	}
	return s
}

// floatField returns rec[key] as a float, or def when absent or not numeric
func floatField(rec map[string]any, key string, def float64) float64 {
	val, ok := rec[key]
	if !ok || val == nil {
		return def
	}
	f, err := cast.ToFloat64E(val)
	if err != nil {
		return def
	}
	return f
}

// stringList returns the string items of a list field. Non-string items are skipped.
func stringList(rec map[string]any, key string) []string {
	items, ok := rec[key].([]any)
	if !ok {
		return nil
	}

	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// anyList returns a list field unchanged, or nil when it is not a list
func anyList(rec map[string]any, key string) []any {
	items, _ := rec[key].([]any)
	return items
}
