package validate

import (
	"fmt"

	"github.com/shopspring/decimal"

	money "github.com/rezonia/fatturapa-exporter/internal/decimal"
	"github.com/rezonia/fatturapa-exporter/internal/model"
)

// Warning is a soft inconsistency. Warnings never block an export.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return w.Field + ": " + w.Message
}

// Reconcile cross-checks amounts and codes of an invoice and reports what does
// not add up. Amounts are compared with a one cent tolerance.
func Reconcile(inv *model.Invoice) []Warning {
	if inv == nil {
		return nil
	}
	var warnings []Warning
	warn := func(field, format string, args ...any) {
		warnings = append(warnings, Warning{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if len(inv.TaxDetails) > 0 {
		taxable, vat := inv.TaxDetailTotals()
		if want, ok := inv.TaxableAmount.Get(); ok && !money.Within(taxable, want, money.Cents) {
			warn("taxable_amount", "tax details sum to %s, document states %s", taxable.StringFixed(2), want.StringFixed(2))
		}
		if want, ok := inv.VATAmount.Get(); ok && !money.Within(vat, want, money.Cents) {
			warn("vat_amount", "tax details sum to %s, document states %s", vat.StringFixed(2), want.StringFixed(2))
		}
	}

	taxable, okTaxable := inv.TaxableAmount.Get()
	vat, okVAT := inv.VATAmount.Get()
	total, okTotal := inv.TotalAmount.Get()
	if okTaxable && okVAT && okTotal {
		expected := taxable.Add(vat).Add(inv.RoundingAmount.Or(decimal.Zero))
		if !money.Within(expected, total, money.Cents) {
			warn("total_amount", "taxable plus VAT is %s, total is %s", expected.StringFixed(2), total.StringFixed(2))
		}
	}

	if code := inv.Currency.CurrencyCode.Or("EUR"); code != "EUR" && !inv.Currency.ExchangeRate.IsPresent() {
		warn("currency.exchange_rate", "exchange rate missing for currency %s", code)
	}

	if dt, ok := inv.DocumentTypeCode.Get(); ok && !dt.Valid() {
		warn("document_type_code", "unknown document type %q", dt)
	}

	for i, li := range inv.LineItems {
		if n, ok := li.VATNatureCode.Get(); ok && !n.Valid() {
			warn(fmt.Sprintf("line_items[%d].vat_nature_code", i), "unknown nature code %q", n)
		}
		stated, ok := li.TotalPrice.Get()
		if !ok {
			continue
		}
		if net, ok := li.NetAmount(); ok && !money.Within(net, stated, money.Cents) {
			warn(fmt.Sprintf("line_items[%d].total_price", i), "computed %s, stated %s", net.StringFixed(2), stated.StringFixed(2))
		}
	}

	for i, td := range inv.TaxDetails {
		n, ok := td.NatureCode.Get()
		if ok && !n.Valid() {
			warn(fmt.Sprintf("tax_details[%d].nature_code", i), "unknown nature code %q", n)
		}
		rate, hasRate := td.VATRate.Get()
		if hasRate && rate.IsZero() && !ok {
			warn(fmt.Sprintf("tax_details[%d].nature_code", i), "zero rate without nature code")
		}
	}

	for i, pt := range inv.PaymentTerms {
		if c, ok := pt.PaymentConditions.Get(); ok && !c.Valid() {
			warn(fmt.Sprintf("payment_terms[%d].payment_conditions", i), "unknown payment condition %q", c)
		}
		if m, ok := pt.PaymentMethod.Get(); ok && !m.Valid() {
			warn(fmt.Sprintf("payment_terms[%d].payment_method", i), "unknown payment method %q", m)
		}
	}

	return warnings
}
