package json

import (
	"bytes"

	"github.com/shopspring/decimal"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/rezonia/fatturapa-exporter/internal/field"
	"github.com/rezonia/fatturapa-exporter/internal/model"
)

// ExportForValidation renders the reduced projection consumed by compliance
// pre-checks. Leaves are always bare values and the output is always indented.
func (e *Exporter) ExportForValidation(inv *model.Invoice) (string, error) {
	if inv == nil {
		return "", model.NewValidationError("invoice", "Invoice is required")
	}

	fields := []struct {
		path  string
		value any
	}{
		{"transmission_data.sender_id.country", field.StringOr(inv.CountryCode, defaultCountry)},
		{"transmission_data.sender_id.code", inv.Supplier.VATID.Or("")},
		{"transmission_data.format", field.StringOr(inv.TransmissionFormat, defaultTransmissionFormat)},
		{"invoice_data.type", field.StringOr(inv.DocumentTypeCode, string(model.DocumentTypeDomestic))},
		{"invoice_data.number", value(inv.InvoiceNumber)},
		{"invoice_data.date", value(dateText(inv.IssueDate))},
		{"invoice_data.currency", field.StringOr(inv.Currency.CurrencyCode, defaultCurrency)},
		{"parties.supplier.vat_id", value(inv.Supplier.VATID)},
		{"parties.supplier.tax_id", value(inv.Supplier.TaxID)},
		{"parties.supplier.name", value(inv.Supplier.Name)},
		{"parties.supplier.country", field.StringOr(inv.Supplier.Address.Country, defaultCountry)},
		{"parties.customer.vat_id", value(inv.Customer.VATID)},
		{"parties.customer.tax_id", value(inv.Customer.TaxID)},
		{"parties.customer.name", value(inv.Customer.Name)},
		{"parties.customer.country", field.StringOr(inv.Customer.Address.Country, defaultCountry)},
		{"totals.taxable", number(inv.TaxableAmount)},
		{"totals.vat", number(inv.VATAmount)},
		{"totals.total", number(inv.TotalAmount)},
		{"line_count", len(inv.LineItems)},
		{"tax_rates", taxRates(inv.TaxDetails)},
	}

	doc := []byte(`{}`)
	for _, f := range fields {
		var err error
		if doc, err = sjson.SetBytes(doc, f.path, f.value); err != nil {
			return "", err
		}
	}
	out := pretty.PrettyOptions(doc, &pretty.Options{Width: 80, Indent: indent})
	return string(bytes.TrimRight(out, "\n")), nil
}

// taxRates lists the distinct VAT rates of the summary in first-seen order.
func taxRates(details []model.TaxDetail) []float64 {
	rates := make([]float64, 0, len(details))
	var seen []decimal.Decimal
	for _, td := range details {
		r, ok := td.VATRate.Get()
		if !ok || contains(seen, r) {
			continue
		}
		seen = append(seen, r)
		rates = append(rates, r.InexactFloat64())
	}
	return rates
}

func contains(list []decimal.Decimal, d decimal.Decimal) bool {
	for _, v := range list {
		if v.Equal(d) {
			return true
		}
	}
	return false
}
