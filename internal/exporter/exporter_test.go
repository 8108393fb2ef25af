package exporter_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/rezonia/fatturapa-exporter/internal/exporter"
	"github.com/rezonia/fatturapa-exporter/internal/model"
	"github.com/rezonia/fatturapa-exporter/internal/model/modeltest"
)

func TestRegistry_NewRegistry(t *testing.T) {
	registry := exporter.NewRegistry()
	assert.Equal(t, []string{"xml", "json", "validation", "raw"}, registry.Formats())

	for _, format := range registry.Formats() {
		exp, err := registry.Get(format, exporter.DefaultOptions())
		require.NoError(t, err, "format %s", format)
		assert.Equal(t, format, exp.Format())
		assert.NotEmpty(t, exp.ContentType())
	}
}

func TestRegistry_Get(t *testing.T) {
	registry := exporter.NewRegistry()
	inv := modeltest.Minimal()

	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{"xml", func(t *testing.T, out string) {
			assert.True(t, strings.HasPrefix(out, "<?xml"))
		}},
		{"JSON", func(t *testing.T, out string) {
			assert.Equal(t, "2024/001", gjson.Get(out, "body.general_data.number").String())
		}},
		{"validation", func(t *testing.T, out string) {
			assert.Equal(t, int64(1), gjson.Get(out, "line_count").Int())
		}},
		{" raw ", func(t *testing.T, out string) {
			assert.Equal(t, "2024/001", gjson.Get(out, "invoice_number.value").String())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exp, err := registry.Get(tt.format, exporter.DefaultOptions())
			require.NoError(t, err)
			out, err := exp.Export(inv)
			require.NoError(t, err)
			tt.check(t, out)
		})
	}
}

func TestRegistry_OptionsMapping(t *testing.T) {
	registry := exporter.NewRegistry()
	opts := exporter.DefaultOptions()
	opts.Pretty = false
	opts.IncludeConfidence = true

	exp, err := registry.Get(exporter.FormatJSON, opts)
	require.NoError(t, err)
	out, err := exp.Export(modeltest.Minimal())
	require.NoError(t, err)
	assert.NotContains(t, out, "\n")
	assert.Equal(t, 0.97, gjson.Get(out, "header.supplier.legal_info.name.confidence").Float())

	opts.Validate = false
	exp, err = registry.Get(exporter.FormatXML, opts)
	require.NoError(t, err)
	_, err = exp.Export(&model.Invoice{})
	assert.NoError(t, err)
}

func TestRegistry_Unsupported(t *testing.T) {
	_, err := exporter.NewRegistry().Get("csv", exporter.DefaultOptions())
	require.Error(t, err)

	var ufe *exporter.UnsupportedFormatError
	require.True(t, errors.As(err, &ufe))
	assert.Equal(t, "csv", ufe.Format)
	assert.Contains(t, err.Error(), "xml, json, validation, raw")
}

func TestRegistry_Register(t *testing.T) {
	registry := exporter.NewRegistry()
	registry.Register("xml", func(exporter.Options) exporter.Exporter {
		return exporter.Func("xml", "text/plain", func(*model.Invoice) (string, error) { return "custom", nil })
	})

	exp, err := registry.Get("xml", exporter.DefaultOptions())
	require.NoError(t, err)
	out, err := exp.Export(modeltest.Minimal())
	require.NoError(t, err)
	assert.Equal(t, "custom", out)
	assert.Equal(t, []string{"xml", "json", "validation", "raw"}, registry.Formats())
}
