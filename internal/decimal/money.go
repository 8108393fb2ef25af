package decimal

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// FromString parses decimal from string, accepting a single decimal comma
func FromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

// Coerce converts any supported numeric input into a decimal.
// Returns false for nil, non-numeric strings, NaN and infinities.
func Coerce(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case nil:
		return Zero, false
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return Zero, false
		}
		return *n, true
	case string:
		d, err := FromString(n)
		if err != nil {
			return Zero, false
		}
		return d, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return Zero, false
		}
		return decimal.NewFromFloat(n), true
	case float32:
		return Coerce(float64(n))
	case bool:
		if n {
			return decimal.NewFromInt(1), true
		}
		return Zero, true
	case interface{ String() string }:
		return Coerce(n.String())
	}
	return Zero, false
}

// Format renders v with two decimals. Anything that is not a number renders "0.00".
func Format(v any) string {
	return FormatPlaces(v, 2)
}

// FormatPlaces renders v with a fixed number of decimals, falling back to zero.
func FormatPlaces(v any, places int32) string {
	d, ok := Coerce(v)
	if !ok {
		d = Zero
	}
	return d.StringFixed(places)
}

// Float converts a decimal to float64 for JSON output
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// Within reports whether a and b differ by at most tolerance
func Within(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// Cents is the default reconciliation tolerance
var Cents = decimal.New(1, -2)

// Trim renders d without trailing zeros, e.g. line numbers
func Trim(d decimal.Decimal) string {
	if d.IsInteger() {
		return strconv.FormatInt(d.IntPart(), 10)
	}
	return d.String()
}
