package types

import (
	"encoding/json"
	"strconv"
)

// EntityState is a snapshot of a named external state record as supplied by
// the host data source: a primary state value plus a mapping of auxiliary
// attributes. The core only reads snapshots and never mutates them.
type EntityState struct {
	EntityID   string         `json:"entity_id"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// AttrFloat returns the named attribute coerced to a float64. Attribute
// values arrive as untyped JSON, so numbers may surface as float64, int,
// json.Number, or numeric strings depending on the producer.
func (e EntityState) AttrFloat(key string) (float64, bool) {
	v, ok := e.Attributes[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// AttrString returns the named attribute as a string. Non-string values
// report false rather than being stringified.
func (e EntityState) AttrString(key string) (string, bool) {
	v, ok := e.Attributes[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// AttrStringOr returns the named string attribute, or def when the
// attribute is absent or empty.
func (e EntityState) AttrStringOr(key, def string) string {
	if s, ok := e.AttrString(key); ok && s != "" {
		return s
	}
	return def
}
