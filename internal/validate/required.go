// Package validate holds the business checks run against an extracted invoice
// before and after export.
package validate

import (
	"github.com/rezonia/fatturapa-exporter/internal/field"
	"github.com/rezonia/fatturapa-exporter/internal/model"
)

// Required checks the fields the interchange format cannot do without.
// Every violation is collected; the result is nil or a *model.ValidationError.
func Required(inv *model.Invoice) error {
	ve := &model.ValidationError{}
	if inv == nil {
		ve.Add("invoice", "Invoice is required")
		return ve
	}

	if !field.Present(inv.InvoiceNumber) {
		ve.Add("invoice_number", "Invoice number is required")
	}
	if !field.Present(inv.IssueDate) {
		ve.Add("issue_date", "Issue date is required")
	}
	if !field.Present(inv.Supplier.Name) {
		ve.Add("supplier.name", "Supplier name is required")
	}
	if !field.Present(inv.Customer.Name) {
		ve.Add("customer.name", "Customer name is required")
	}
	if len(inv.LineItems) == 0 {
		ve.Add("line_items", "At least one line item is required")
	}

	return ve.ErrOrNil()
}
