package processor_test

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fatturapa-exporter/internal/model"
	"github.com/rezonia/fatturapa-exporter/internal/model/modeltest"
	"github.com/rezonia/fatturapa-exporter/internal/processor"
)

func TestDecode(t *testing.T) {
	inv, err := processor.Decode([]byte(`{
		"invoice_number": {"value": "7/A", "confidence": 0.9},
		"total_amount": "1234,5",
		"supplier": {"name": "Bottega Rossi"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "7/A", inv.InvoiceNumber.Or(""))
	assert.Equal(t, "Bottega Rossi", inv.Supplier.Name.Or(""))
}

func TestDecode_SchemaViolation(t *testing.T) {
	_, err := processor.Decode([]byte(`{"line_items": {"not": "a list"}}`))
	require.Error(t, err)

	var pe *model.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"object", `{"invoice_number":"1"}`, 1, false},
		{"array", `[{"invoice_number":"1"},{"invoice_number":"2"},{}]`, 3, false},
		{"empty array", `[]`, 0, false},
		{"scalar", `42`, 0, true},
		{"invalid", `{"a":`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := processor.Split([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, docs, tt.want)
		})
	}
}

func TestDecodeItems(t *testing.T) {
	good, err := json.Marshal(modeltest.Minimal())
	require.NoError(t, err)

	data := []byte(`[` + string(good) + `,{"line_items":"oops"}]`)
	items, err := processor.DecodeItems(data, "upload.json")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "upload.json#0", items[0].Source)
	assert.NoError(t, items[0].Err)
	require.NotNil(t, items[0].Invoice)
	assert.Equal(t, "2024/001", items[0].Invoice.InvoiceNumber.Or(""))

	assert.Equal(t, "upload.json#1", items[1].Source)
	assert.Error(t, items[1].Err)

	single, err := processor.DecodeItems(good, "one.json")
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.Equal(t, "one.json", single[0].Source)
}
