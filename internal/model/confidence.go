package model

import (
	"bytes"
	"reflect"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Scalar is the set of leaf types an extracted value can carry.
type Scalar interface {
	~string | ~bool | decimal.Decimal
}

// ConfidenceValue wraps an extracted leaf with its certainty score.
// A nil Value means the field is absent, whatever the confidence says.
type ConfidenceValue[T Scalar] struct {
	Value      *T
	Confidence float64
}

// Common leaf shapes
type (
	Text   = ConfidenceValue[string]
	Amount = ConfidenceValue[decimal.Decimal]
	Flag   = ConfidenceValue[bool]
)

// Leaf is implemented by every ConfidenceValue instantiation so that
// accessors can work over heterogeneous fields.
type Leaf interface {
	// Raw returns the value as a plain string, bool or decimal.Decimal.
	Raw() (any, bool)
	Score() float64
}

// Known builds a present value.
func Known[T Scalar](v T, confidence float64) ConfidenceValue[T] {
	return ConfidenceValue[T]{Value: &v, Confidence: clamp(confidence)}
}

// S is shorthand for a present text value.
func S(v string, confidence float64) Text {
	return Known(v, confidence)
}

// D is shorthand for a present amount parsed from s. Unparsable input yields an absent value.
func D(s string, confidence float64) Amount {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}
	}
	return Known(d, confidence)
}

// B is shorthand for a present flag.
func B(v bool, confidence float64) Flag {
	return Known(v, confidence)
}

// Get returns the value and whether it is present.
func (c ConfidenceValue[T]) Get() (T, bool) {
	if c.Value == nil {
		var zero T
		return zero, false
	}
	return *c.Value, true
}

// IsPresent reports whether a value was extracted. Empty strings count as absent.
func (c ConfidenceValue[T]) IsPresent() bool {
	_, ok := c.Raw()
	return ok
}

// Or returns the value, or def when absent.
func (c ConfidenceValue[T]) Or(def T) T {
	if !c.IsPresent() {
		return def
	}
	return *c.Value
}

func (c ConfidenceValue[T]) Score() float64 {
	return c.Confidence
}

func (c ConfidenceValue[T]) Raw() (any, bool) {
	if c.Value == nil {
		return nil, false
	}
	v := *c.Value
	if d, ok := any(v).(decimal.Decimal); ok {
		return d, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		if rv.String() == "" {
			return nil, false
		}
		return rv.String(), true
	case reflect.Bool:
		return rv.Bool(), true
	}
	return nil, false
}

// MarshalJSON always emits the {value, confidence} pair.
func (c ConfidenceValue[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"value":`)
	raw, ok := c.Raw()
	switch v := raw.(type) {
	case decimal.Decimal:
		buf.WriteString(v.String())
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case string:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	default:
		if !ok {
			buf.WriteString("null")
		}
	}
	buf.WriteString(`,"confidence":`)
	buf.WriteString(strconv.FormatFloat(clamp(c.Confidence), 'f', -1, 64))
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts either {value, confidence} or a bare primitive.
// Bare primitives get confidence 0. Values that cannot be coerced to T
// decode as absent instead of failing.
func (c *ConfidenceValue[T]) UnmarshalJSON(data []byte) error {
	*c = ConfidenceValue[T]{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] != '{' {
		c.Value = coerce[T](data)
		return nil
	}

	var wrapped struct {
		Value      json.RawMessage `json:"value"`
		Confidence *float64        `json:"confidence"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	if wrapped.Confidence != nil {
		c.Confidence = clamp(*wrapped.Confidence)
	}
	c.Value = coerce[T](bytes.TrimSpace(wrapped.Value))
	return nil
}

// coerce converts a raw JSON literal into T, returning nil when it does not fit.
func coerce[T Scalar](lit []byte) *T {
	if len(lit) == 0 || bytes.Equal(lit, []byte("null")) {
		return nil
	}

	var text string
	isString := lit[0] == '"'
	if isString {
		if err := json.Unmarshal(lit, &text); err != nil {
			return nil
		}
	} else if lit[0] == '{' || lit[0] == '[' {
		return nil
	} else {
		text = string(lit)
	}

	var out T
	if p, ok := any(&out).(*decimal.Decimal); ok {
		d, err := decimal.NewFromString(normalizeNumber(text))
		if err != nil {
			return nil
		}
		*p = d
		return &out
	}

	rv := reflect.ValueOf(&out).Elem()
	switch rv.Kind() {
	case reflect.String:
		if text == "" {
			return nil
		}
		rv.SetString(text)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return nil
		}
		rv.SetBool(b)
	default:
		return nil
	}
	return &out
}

// normalizeNumber strips whitespace and a decimal comma (1234,50) from s.
func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return s
}

func clamp(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}
