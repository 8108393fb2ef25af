package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fatturapa-exporter/internal/model"
	"github.com/rezonia/fatturapa-exporter/internal/model/modeltest"
	"github.com/rezonia/fatturapa-exporter/internal/validate"
)

func TestReconcile_Consistent(t *testing.T) {
	assert.Empty(t, validate.Reconcile(modeltest.Minimal()))
	assert.Empty(t, validate.Reconcile(modeltest.Full()))
	assert.Empty(t, validate.Reconcile(nil))
}

func TestReconcile_Warnings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Invoice)
		field  string
	}{
		{
			name:   "tax details disagree with taxable",
			mutate: func(inv *model.Invoice) { inv.TaxableAmount = model.D("150", 0.9); inv.TotalAmount = model.D("172", 0.9) },
			field:  "taxable_amount",
		},
		{
			name:   "total off by more than a cent",
			mutate: func(inv *model.Invoice) { inv.TotalAmount = model.D("122.02", 0.9) },
			field:  "total_amount",
		},
		{
			name:   "foreign currency without rate",
			mutate: func(inv *model.Invoice) { inv.Currency.CurrencyCode = model.S("CHF", 0.9) },
			field:  "currency.exchange_rate",
		},
		{
			name:   "unknown document type",
			mutate: func(inv *model.Invoice) { inv.DocumentTypeCode = model.Known(model.DocumentType("TD99"), 0.5) },
			field:  "document_type_code",
		},
		{
			name:   "line total mismatch",
			mutate: func(inv *model.Invoice) { inv.LineItems[0].TotalPrice = model.D("90", 0.9) },
			field:  "line_items[0].total_price",
		},
		{
			name:   "zero rate without nature",
			mutate: func(inv *model.Invoice) { inv.TaxDetails[0].VATRate = model.D("0", 0.9) },
			field:  "tax_details[0].nature_code",
		},
		{
			name: "unknown payment method",
			mutate: func(inv *model.Invoice) {
				inv.PaymentTerms = []model.PaymentTerms{{PaymentMethod: model.Known(model.PaymentMethod("MP99"), 0.5)}}
			},
			field: "payment_terms[0].payment_method",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := modeltest.Minimal()
			tt.mutate(inv)

			warnings := validate.Reconcile(inv)
			require.NotEmpty(t, warnings)

			var fields []string
			for _, w := range warnings {
				fields = append(fields, w.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestReconcile_WithinTolerance(t *testing.T) {
	inv := modeltest.Minimal()
	inv.TotalAmount = model.D("122.01", 0.9)
	assert.Empty(t, validate.Reconcile(inv))
}
