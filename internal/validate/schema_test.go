package validate_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fatturapa-exporter/internal/model"
	"github.com/rezonia/fatturapa-exporter/internal/validate"
)

func TestSchema_Accepts(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty object", `{}`},
		{"wrapped leaves", `{"invoice_number":{"value":"1","confidence":0.9},"supplier":{"name":{"value":"A","confidence":1}}}`},
		{"bare leaves", `{"invoice_number":"1","issue_date":"2024-01-01","total_amount":12.5}`},
		{"null leaves", `{"invoice_number":{"value":null,"confidence":0},"transportation":null}`},
		{"line items", `{"line_items":[{"description":"x","quantity":{"value":2,"confidence":1}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, validate.Schema([]byte(tt.doc)))
		})
	}
}

func TestSchema_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", `{"invoice_number":`},
		{"array root", `[]`},
		{"line items not array", `{"line_items":{"a":1}}`},
		{"leaf with extra keys", `{"invoice_number":{"value":"1","confidence":1,"page":3}}`},
		{"leaf holding object", `{"invoice_number":{"value":{"nested":true}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Schema([]byte(tt.doc))
			require.Error(t, err)

			var pe *model.ParseError
			assert.True(t, errors.As(err, &pe))
		})
	}
}
