// Package field holds the shared accessors used by both exporters: confidence
// unwrapping, deterministic date formatting and recursive null cleaning.
package field

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/fatturapa-exporter/internal/model"
)

// Unwrap returns the raw value of a leaf, or nil when absent.
// Values that are not leaves pass through unchanged, except that a
// map carrying a "value" key is treated as an already-serialized leaf.
func Unwrap(v any) any {
	switch l := v.(type) {
	case nil:
		return nil
	case model.Leaf:
		raw, ok := l.Raw()
		if !ok {
			return nil
		}
		return raw
	case map[string]any:
		if inner, ok := l["value"]; ok && isLeafShape(l) {
			return inner
		}
	}
	return v
}

// UnwrapWithConfidence is the single switch deciding whether confidence is
// surfaced: with include set every leaf becomes {value, confidence}, and a
// value lacking confidence gets 0.
func UnwrapWithConfidence(v any, include bool) any {
	if !include {
		return Unwrap(v)
	}
	switch l := v.(type) {
	case model.Leaf:
		return map[string]any{"value": Unwrap(l), "confidence": l.Score()}
	case map[string]any:
		if isLeafShape(l) {
			confidence, ok := l["confidence"]
			if !ok || confidence == nil {
				confidence = 0.0
			}
			return map[string]any{"value": l["value"], "confidence": confidence}
		}
	}
	return map[string]any{"value": Unwrap(v), "confidence": 0.0}
}

// JSON behaves like UnwrapWithConfidence but converts decimals to float64 so
// the encoder emits plain JSON numbers.
func JSON(v any, include bool) any {
	out := UnwrapWithConfidence(v, include)
	if m, ok := out.(map[string]any); ok && include {
		m["value"] = jsonScalar(m["value"])
		return m
	}
	return jsonScalar(out)
}

func jsonScalar(v any) any {
	if d, ok := v.(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return v
}

// String returns the text form of a leaf, or "" when absent.
func String(l model.Leaf) string {
	switch v := Unwrap(l).(type) {
	case string:
		return v
	case decimal.Decimal:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	}
	return ""
}

// StringOr returns the text form of a leaf, or def when absent.
func StringOr(l model.Leaf, def string) string {
	if s := String(l); s != "" {
		return s
	}
	return def
}

// Present reports whether a leaf carries a value.
func Present(l model.Leaf) bool {
	_, ok := l.Raw()
	return ok
}

// AnyPresent reports whether at least one leaf carries a value.
func AnyPresent(leaves ...model.Leaf) bool {
	for _, l := range leaves {
		if Present(l) {
			return true
		}
	}
	return false
}

func isLeafShape(m map[string]any) bool {
	if _, ok := m["value"]; !ok {
		return false
	}
	for k := range m {
		if k != "value" && k != "confidence" {
			return false
		}
	}
	return true
}
