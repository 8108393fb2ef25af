package field_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rezonia/fatturapa-exporter/internal/field"
	"github.com/rezonia/fatturapa-exporter/internal/model"
)

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected any
	}{
		{"text leaf", model.S("Milano", 0.9), "Milano"},
		{"absent leaf", model.Text{}, nil},
		{"empty text leaf", model.S("", 0.9), nil},
		{"flag leaf", model.B(false, 1), false},
		{"serialized leaf", map[string]any{"value": "IT", "confidence": 0.4}, "IT"},
		{"bare primitive", "already unwrapped", "already unwrapped"},
		{"number", 42, 42},
		{"nil", nil, nil},
		{"plain object", map[string]any{"street": "Via Roma"}, map[string]any{"street": "Via Roma"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, field.Unwrap(tt.input))
		})
	}
}

func TestUnwrap_Decimal(t *testing.T) {
	got := field.Unwrap(model.D("22.00", 1))
	d, ok := got.(decimal.Decimal)
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.NewFromInt(22)))
}

func TestUnwrapWithConfidence(t *testing.T) {
	leaf := model.S("01234567890", 0.85)

	assert.Equal(t, "01234567890", field.UnwrapWithConfidence(leaf, false))
	assert.Equal(t,
		map[string]any{"value": "01234567890", "confidence": 0.85},
		field.UnwrapWithConfidence(leaf, true))

	assert.Equal(t,
		map[string]any{"value": nil, "confidence": 0.0},
		field.UnwrapWithConfidence(model.Text{}, true))

	assert.Equal(t,
		map[string]any{"value": "raw", "confidence": 0.0},
		field.UnwrapWithConfidence("raw", true))

	assert.Equal(t,
		map[string]any{"value": "IT", "confidence": 0.0},
		field.UnwrapWithConfidence(map[string]any{"value": "IT"}, true))
}

func TestJSON(t *testing.T) {
	amount := model.D("1234.50", 0.6)

	assert.Equal(t, 1234.5, field.JSON(amount, false))
	assert.Equal(t, map[string]any{"value": 1234.5, "confidence": 0.6}, field.JSON(amount, true))
	assert.Nil(t, field.JSON(model.Amount{}, false))
}

func TestString(t *testing.T) {
	assert.Equal(t, "Roma", field.String(model.S("Roma", 1)))
	assert.Equal(t, "22", field.String(model.D("22.00", 1)))
	assert.Equal(t, "true", field.String(model.B(true, 1)))
	assert.Equal(t, "", field.String(model.Text{}))
	assert.Equal(t, "IT", field.StringOr(model.Text{}, "IT"))
	assert.Equal(t, "SM", field.StringOr(model.S("SM", 1), "IT"))
}

func TestPresent(t *testing.T) {
	assert.True(t, field.Present(model.S("x", 0)))
	assert.False(t, field.Present(model.Text{}))
	assert.True(t, field.AnyPresent(model.Text{}, model.D("1", 1)))
	assert.False(t, field.AnyPresent(model.Text{}, model.Amount{}))
}
