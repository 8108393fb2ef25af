package validate_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fatturapa-exporter/internal/model"
	"github.com/rezonia/fatturapa-exporter/internal/model/modeltest"
	"github.com/rezonia/fatturapa-exporter/internal/validate"
)

func TestRequired_Minimal(t *testing.T) {
	assert.NoError(t, validate.Required(modeltest.Minimal()))
}

func TestRequired_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Invoice)
		fields []string
	}{
		{
			name:   "missing number",
			mutate: func(inv *model.Invoice) { inv.InvoiceNumber = model.Text{} },
			fields: []string{"invoice_number"},
		},
		{
			name:   "empty number counts as absent",
			mutate: func(inv *model.Invoice) { inv.InvoiceNumber = model.S("", 0.9) },
			fields: []string{"invoice_number"},
		},
		{
			name:   "missing date",
			mutate: func(inv *model.Invoice) { inv.IssueDate = model.Text{} },
			fields: []string{"issue_date"},
		},
		{
			name: "missing parties",
			mutate: func(inv *model.Invoice) {
				inv.Supplier.Name = model.Text{}
				inv.Customer.Name = model.Text{}
			},
			fields: []string{"supplier.name", "customer.name"},
		},
		{
			name:   "no lines",
			mutate: func(inv *model.Invoice) { inv.LineItems = nil },
			fields: []string{"line_items"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := modeltest.Minimal()
			tt.mutate(inv)

			err := validate.Required(inv)
			require.Error(t, err)

			var ve *model.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.fields, ve.Fields())
		})
	}
}

func TestRequired_MessageListsEveryViolation(t *testing.T) {
	err := validate.Required(&model.Invoice{})
	require.Error(t, err)
	assert.Equal(t,
		"FatturaPA validation failed: Invoice number is required, Issue date is required, "+
			"Supplier name is required, Customer name is required, At least one line item is required",
		err.Error())
}

func TestRequired_NilInvoice(t *testing.T) {
	assert.Error(t, validate.Required(nil))
}
