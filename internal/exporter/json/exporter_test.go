package json_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	jsonexport "github.com/rezonia/fatturapa-exporter/internal/exporter/json"
	"github.com/rezonia/fatturapa-exporter/internal/model"
	"github.com/rezonia/fatturapa-exporter/internal/model/modeltest"
)

func export(t *testing.T, inv *model.Invoice, opts ...jsonexport.Option) string {
	t.Helper()
	out, err := jsonexport.NewExporter(opts...).Export(inv)
	require.NoError(t, err)
	require.True(t, gjson.Valid(out), "output must be valid JSON")
	return out
}

func TestExport_Defaults(t *testing.T) {
	out := export(t, modeltest.Minimal())

	assert.True(t, strings.HasPrefix(out, "{\n  \""), "pretty printed with two spaces")

	tests := []struct {
		path     string
		expected any
	}{
		{"header.transmission.sender_country", "IT"},
		{"header.transmission.sender_code", "01234567890"},
		{"header.transmission.progressive_number", "1"},
		{"header.transmission.format", "FPR12"},
		{"header.transmission.destination_code", "0000000"},
		{"header.supplier.legal_info.name", "Fornitore S.r.l."},
		{"header.supplier.identification.vat_id", "01234567890"},
		{"header.customer.address.city", "Roma"},
		{"body.general_data.document_type", "TD01"},
		{"body.general_data.currency.code", "EUR"},
		{"body.general_data.date", "2024-03-15"},
		{"body.general_data.number", "2024/001"},
		{"body.general_data.totals.total_amount", 122.0},
		{"body.line_items.0.line_number", 1.0},
		{"body.line_items.0.quantity", 2.0},
		{"body.line_items.0.vat.rate", 22.0},
		{"body.tax_summary.0.vat_amount", 22.0},
		{"metadata.document_language", "it"},
		{"metadata.confidence_scores", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, gjson.Get(out, tt.path).Value())
		})
	}

	for _, absent := range []string{
		"header.supplier.contact",
		"header.supplier.registration",
		"header.tax_representative",
		"header.intermediary",
		"body.line_items.0.unit_of_measure",
		"body.line_items.0.discounts",
		"body.payment_data",
		"body.attachments",
		"body.general_data.references",
		"body.general_data.totals.withholding_amount",
		"metadata.processing_notes",
	} {
		assert.False(t, gjson.Get(out, absent).Exists(), "%s should be absent", absent)
	}
}

func TestExport_ConfidenceScores(t *testing.T) {
	out := export(t, modeltest.Minimal(), jsonexport.WithConfidenceScores(true))

	name := gjson.Get(out, "header.supplier.legal_info.name")
	assert.Equal(t, "Fornitore S.r.l.", name.Get("value").String())
	assert.Equal(t, 0.97, name.Get("confidence").Float())

	quantity := gjson.Get(out, "body.line_items.0.quantity")
	assert.Equal(t, 2.0, quantity.Get("value").Float())
	assert.Equal(t, 0.9, quantity.Get("confidence").Float())

	assert.True(t, gjson.Get(out, "metadata.confidence_scores").Bool())
	assert.Equal(t, "TD01", gjson.Get(out, "body.general_data.document_type").String(), "structural fields stay bare")
}

func TestExport_WithoutCleaning(t *testing.T) {
	out := export(t, modeltest.Minimal(), jsonexport.WithCleanNullValues(false))

	phone := gjson.Get(out, "header.supplier.contact.phone")
	require.True(t, phone.Exists())
	assert.Equal(t, gjson.Null, phone.Type)

	assert.Equal(t, gjson.Null, gjson.Get(out, "body.line_items.0.unit_of_measure").Type)
}

func TestExport_Compact(t *testing.T) {
	out := export(t, modeltest.Minimal(), jsonexport.WithPrettyPrint(false))
	assert.NotContains(t, out, "\n")
}

func TestExport_Metadata(t *testing.T) {
	clock := func() time.Time { return time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC) }

	out := export(t, modeltest.Minimal(), jsonexport.WithClock(clock))
	assert.Equal(t, "2025-06-01T08:30:00Z", gjson.Get(out, "metadata.extraction_date").String())

	out = export(t, modeltest.Minimal(), jsonexport.WithMetadata(false))
	assert.False(t, gjson.Get(out, "metadata").Exists())
}

func TestExport_DatePassThrough(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"iso", "2024-01-31", "2024-01-31"},
		{"day first", "31/01/2024", "2024-01-31"},
		{"unparsable", "fine mese", "fine mese"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := modeltest.Minimal()
			inv.IssueDate = model.S(tt.input, 0.5)

			out := export(t, inv)
			assert.Equal(t, tt.expected, gjson.Get(out, "body.general_data.date").String())
		})
	}
}

func TestExport_Full(t *testing.T) {
	out := export(t, modeltest.Full())

	tests := []struct {
		path     string
		expected any
	}{
		{"header.transmission.format", "FPA12"},
		{"header.supplier.registration.rea_number", "1234567"},
		{"header.supplier.contact.email", "info@fornitore.it"},
		{"header.customer.contact.pec", "cliente@pec.it"},
		{"header.tax_representative.legal_info.name", "Rappresentante Fiscale S.r.l."},
		{"header.intermediary.identification.vat_id", "55566677788"},
		{"body.general_data.currency.code", "USD"},
		{"body.general_data.currency.exchange_rate", 1.085},
		{"body.general_data.currency.exchange_rate_date", "2024-03-14"},
		{"body.general_data.totals.withholding_amount", 144.0},
		{"body.general_data.totals.stamp_duty_amount", 2.0},
		{"body.general_data.references.#", 1.0},
		{"body.general_data.references.0.document_number", "PO-778"},
		{"body.general_data.references.0.cig", "Z1A2B3C4D5"},
		{"body.general_data.withholdings.0.type", "RT01"},
		{"body.line_items.1.line_number", 2.0},
		{"body.line_items.1.discounts.percentage", 10.0},
		{"body.line_items.1.product.code", "CONS-01"},
		{"body.line_items.1.service_period.end_date", "2024-02-29"},
		{"body.line_items.1.vat.nature_code", "N2.2"},
		{"body.line_items.1.withholding_tax.rate", 20.0},
		{"body.tax_summary.1.nature_code", "N2.2"},
		{"body.payment_data.#", 2.0},
		{"body.payment_data.0.due_date", "2024-04-15"},
		{"body.payment_data.0.bank_details.iban", "IT60X0542811101000000123456"},
		{"body.payment_data.1.method", "MP01"},
		{"body.attachments.0.name", "attachment_1"},
		{"body.attachments.0.description", "Timesheet febbraio"},
		{"body.transport.carrier.name", "Trasporti Veloci S.r.l."},
		{"body.transport.document.number", "DDT-55"},
		{"metadata.processing_notes", "second page rotated"},
		{"metadata.extraction_date", "2024-03-16T10:00:00Z"},
		{"metadata.document_classification.document_type_code", "TD01"},
		{"metadata.digital_signature.signer_name", "Mario Rossi"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, gjson.Get(out, tt.path).Value())
		})
	}

	assert.False(t, gjson.Get(out, "body.payment_data.1.bank_details").Exists())
}

func TestExport_NoHTMLEscaping(t *testing.T) {
	inv := modeltest.Minimal()
	inv.Supplier.Name = model.S("Rossi & Figli <srl>", 0.9)

	out := export(t, inv)
	assert.Contains(t, out, "Rossi & Figli <srl>")
}

func TestExport_NilInvoice(t *testing.T) {
	_, err := jsonexport.NewExporter().Export(nil)
	assert.Error(t, err)
}

func TestExportRaw(t *testing.T) {
	out, err := jsonexport.NewExporter().ExportRaw(modeltest.Minimal())
	require.NoError(t, err)
	require.True(t, gjson.Valid(out))

	assert.Equal(t, "2024/001", gjson.Get(out, "invoice_number.value").String())
	assert.Equal(t, 0.98, gjson.Get(out, "invoice_number.confidence").Float())
	assert.Equal(t, 50.0, gjson.Get(out, "line_items.0.unit_price.value").Float())
	assert.False(t, gjson.Get(out, "supplier.phone.value").Exists())

	uncleaned, err := jsonexport.NewExporter(jsonexport.WithCleanNullValues(false)).ExportRaw(modeltest.Minimal())
	require.NoError(t, err)
	assert.Equal(t, gjson.Null, gjson.Get(uncleaned, "supplier.phone.value").Type)
}
