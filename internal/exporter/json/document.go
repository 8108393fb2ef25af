package json

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rezonia/fatturapa-exporter/internal/field"
	"github.com/rezonia/fatturapa-exporter/internal/model"
)

// Defaults shared with the XML rendering.
const (
	defaultCountry            = "IT"
	defaultCurrency           = "EUR"
	defaultTransmissionFormat = "FPR12"
	defaultRecipientCode      = "0000000"
	defaultLanguage           = "it"
)

// Document builds the header/body/metadata tree before encoding.
func (e *Exporter) Document(inv *model.Invoice) map[string]any {
	out := map[string]any{
		"header": e.header(inv),
		"body":   e.body(inv),
	}
	if e.opts.IncludeMetadata {
		out["metadata"] = e.metadata(inv)
	}
	return out
}

func (e *Exporter) leaf(l model.Leaf) any {
	return field.JSON(l, e.opts.IncludeConfidenceScores)
}

// date normalizes parsable dates to YYYY-MM-DD and passes anything else through.
func (e *Exporter) date(l model.Text) any {
	return e.leaf(dateText(l))
}

func (e *Exporter) clean(v map[string]any) (any, bool) {
	if !e.opts.CleanNullValues {
		return v, true
	}
	return field.Clean(v)
}

// put sets key unless cleaning removed the value entirely.
func (e *Exporter) put(m map[string]any, key string, v map[string]any) {
	if cleaned, ok := e.clean(v); ok {
		m[key] = cleaned
	}
}

func value(l model.Leaf) any {
	return field.JSON(l, false)
}

func number(l model.Amount) float64 {
	return l.Or(decimal.Zero).InexactFloat64()
}

// nonZero mirrors the truthiness test used for optional totals.
func nonZero(l model.Amount) bool {
	v, ok := l.Get()
	return ok && !v.IsZero()
}

func (e *Exporter) header(inv *model.Invoice) map[string]any {
	h := map[string]any{
		"transmission": map[string]any{
			"sender_country":     field.StringOr(inv.CountryCode, defaultCountry),
			"sender_code":        inv.Supplier.VATID.Or(""),
			"progressive_number": "1",
			"format":             field.StringOr(inv.TransmissionFormat, defaultTransmissionFormat),
			"destination_code":   defaultRecipientCode,
		},
	}
	e.put(h, "supplier", e.party(inv.Supplier))
	e.put(h, "customer", e.party(inv.Customer))
	if inv.TaxRepresentative.Name.IsPresent() {
		e.put(h, "tax_representative", e.party(inv.TaxRepresentative))
	}
	if inv.Intermediary.Name.IsPresent() {
		e.put(h, "intermediary", e.party(inv.Intermediary))
	}
	return h
}

func (e *Exporter) party(p model.Party) map[string]any {
	identification := map[string]any{
		"vat_id": e.leaf(p.VATID),
		"tax_id": e.leaf(p.TaxID),
	}
	if p.ForeignVATID.IsPresent() {
		identification["foreign_vat_id"] = e.leaf(p.ForeignVATID)
	}

	out := map[string]any{
		"identification": identification,
		"legal_info": map[string]any{
			"name":       e.leaf(p.Name),
			"legal_form": e.leaf(p.LegalForm),
		},
		"address": e.address(p.Address),
		"contact": map[string]any{
			"phone": e.leaf(p.Phone),
			"email": e.leaf(p.Email),
			"pec":   e.leaf(p.PEC),
		},
	}

	if field.AnyPresent(p.REAOffice, p.REANumber) {
		out["registration"] = map[string]any{
			"rea_office":     e.leaf(p.REAOffice),
			"rea_number":     e.leaf(p.REANumber),
			"share_capital":  e.leaf(p.ShareCapital),
			"company_status": e.leaf(p.CompanyStatus),
		}
	}
	return out
}

func (e *Exporter) address(a model.Address) map[string]any {
	return map[string]any{
		"street":          e.leaf(a.Street),
		"street_number":   e.leaf(a.StreetNumber),
		"postal_code":     e.leaf(a.PostalCode),
		"city":            e.leaf(a.City),
		"province":        e.leaf(a.Province),
		"country":         e.leaf(a.Country),
		"additional_info": e.leaf(a.AdditionalInfo),
	}
}

func (e *Exporter) body(inv *model.Invoice) map[string]any {
	b := map[string]any{
		"general_data": e.generalData(inv),
		"line_items":   e.lineItems(inv.LineItems),
		"tax_summary":  e.taxSummary(inv.TaxDetails),
	}

	if len(inv.PaymentTerms) > 0 {
		b["payment_data"] = e.paymentData(inv.PaymentTerms)
	}
	if inv.HasAttachments.Or(false) {
		b["attachments"] = e.attachments(inv.AttachmentDescriptions)
	}
	if inv.Transportation != nil {
		e.put(b, "transport", e.transport(inv.Transportation))
	}
	return b
}

func (e *Exporter) generalData(inv *model.Invoice) map[string]any {
	currency := map[string]any{
		"code": field.StringOr(inv.Currency.CurrencyCode, defaultCurrency),
	}
	if nonZero(inv.Currency.ExchangeRate) {
		currency["exchange_rate"] = value(inv.Currency.ExchangeRate)
		currency["exchange_rate_date"] = field.JSON(dateText(inv.Currency.ExchangeRateDate), false)
	}

	totals := map[string]any{
		"taxable_amount": number(inv.TaxableAmount),
		"vat_amount":     number(inv.VATAmount),
		"total_amount":   number(inv.TotalAmount),
	}
	for key, l := range map[string]model.Amount{
		"withholding_amount": inv.WithholdingAmount,
		"rounding_amount":    inv.RoundingAmount,
		"stamp_duty_amount":  inv.StampDutyAmount,
		"advance_amount":     inv.AdvanceAmount,
	} {
		if nonZero(l) {
			totals[key] = value(l)
		}
	}

	g := map[string]any{
		"document_type": field.StringOr(inv.DocumentTypeCode, string(model.DocumentTypeDomestic)),
		"currency":      currency,
		"date":          field.JSON(dateText(inv.IssueDate), false),
		"number":        value(inv.InvoiceNumber),
		"totals":        totals,
	}
	if len(inv.ReferenceDocuments) > 0 {
		g["references"] = e.references(inv.ReferenceDocuments)
	}
	if notes, ok := inv.GeneralNotes.Get(); ok {
		g["notes"] = notes
	}

	var withholdings []any
	for _, wt := range inv.WithholdingTaxes {
		if cleaned, ok := e.clean(e.withholding(wt)); ok {
			withholdings = append(withholdings, cleaned)
		}
	}
	if len(withholdings) > 0 {
		g["withholdings"] = withholdings
	}
	return g
}

func dateText(l model.Text) model.Text {
	if v, ok := l.Get(); ok {
		return model.Known(field.DateOrInput(v), l.Confidence)
	}
	return l
}

func (e *Exporter) references(refs []model.ReferenceDocument) []any {
	out := make([]any, 0, len(refs))
	for _, ref := range refs {
		if !ref.DocumentNumber.IsPresent() {
			continue
		}
		r := map[string]any{
			"document_type":   e.leaf(ref.DocumentType),
			"document_number": e.leaf(ref.DocumentNumber),
			"document_date":   e.date(ref.DocumentDate),
		}
		if ref.CIG.IsPresent() {
			r["cig"] = e.leaf(ref.CIG)
		}
		if ref.CUP.IsPresent() {
			r["cup"] = e.leaf(ref.CUP)
		}
		if ref.OfficeCode.IsPresent() {
			r["office_code"] = e.leaf(ref.OfficeCode)
		}
		out = append(out, r)
	}
	return out
}

func (e *Exporter) withholding(wt model.WithholdingTax) map[string]any {
	return map[string]any{
		"type":           e.leaf(wt.WithholdingType),
		"taxable_amount": e.leaf(wt.TaxableAmount),
		"rate":           e.leaf(wt.Rate),
		"amount":         e.leaf(wt.Amount),
		"description":    e.leaf(wt.Description),
	}
}

func (e *Exporter) lineItems(items []model.LineItem) []any {
	out := make([]any, 0, len(items))
	for i, li := range items {
		var lineNumber any = i + 1
		if li.LineNumber.IsPresent() {
			lineNumber = number(li.LineNumber)
		}

		line := map[string]any{
			"line_number":     lineNumber,
			"description":     e.leaf(li.Description),
			"quantity":        e.leaf(li.Quantity),
			"unit_of_measure": e.leaf(li.UnitOfMeasure),
			"unit_price":      e.leaf(li.UnitPrice),
			"total_price":     e.leaf(li.TotalPrice),
			"vat": map[string]any{
				"rate":                     e.leaf(li.VATRate),
				"amount":                   e.leaf(li.VATAmount),
				"nature_code":              e.leaf(li.VATNatureCode),
				"administrative_reference": e.leaf(li.VATAdministrativeReference),
			},
		}

		if nonZero(li.DiscountPercentage) || nonZero(li.DiscountAmount) {
			line["discounts"] = map[string]any{
				"percentage": e.leaf(li.DiscountPercentage),
				"amount":     e.leaf(li.DiscountAmount),
			}
		}
		if nonZero(li.MarkupPercentage) || nonZero(li.MarkupAmount) {
			line["markups"] = map[string]any{
				"percentage": e.leaf(li.MarkupPercentage),
				"amount":     e.leaf(li.MarkupAmount),
			}
		}
		if li.ProductCode.IsPresent() {
			line["product"] = map[string]any{
				"code":      e.leaf(li.ProductCode),
				"code_type": e.leaf(li.ProductCodeType),
			}
		}
		if field.AnyPresent(li.StartDate, li.EndDate) {
			line["service_period"] = map[string]any{
				"start_date": e.date(li.StartDate),
				"end_date":   e.date(li.EndDate),
			}
		}
		if li.WithholdingTax != nil {
			line["withholding_tax"] = e.withholding(*li.WithholdingTax)
		}

		if cleaned, ok := e.clean(line); ok {
			out = append(out, cleaned)
		}
	}
	return out
}

func (e *Exporter) taxSummary(details []model.TaxDetail) []any {
	out := make([]any, 0, len(details))
	for _, td := range details {
		s := map[string]any{
			"vat_rate":       e.leaf(td.VATRate),
			"taxable_amount": e.leaf(td.TaxableAmount),
			"vat_amount":     e.leaf(td.VATAmount),
		}
		if td.NatureCode.IsPresent() {
			s["nature_code"] = e.leaf(td.NatureCode)
			s["nature_description"] = e.leaf(td.NatureDescription)
		}
		if nonZero(td.RoundingAmount) {
			s["rounding_amount"] = e.leaf(td.RoundingAmount)
		}
		out = append(out, s)
	}
	return out
}

func (e *Exporter) paymentData(terms []model.PaymentTerms) []any {
	out := make([]any, 0, len(terms))
	for _, p := range terms {
		pd := map[string]any{
			"conditions": e.leaf(p.PaymentConditions),
			"method":     e.leaf(p.PaymentMethod),
			"due_date":   e.date(p.DueDate),
			"amount":     e.leaf(p.Amount),
		}
		if p.IBAN.IsPresent() {
			pd["bank_details"] = map[string]any{
				"iban":             e.leaf(p.IBAN),
				"bic":              e.leaf(p.BIC),
				"bank_name":        e.leaf(p.BankName),
				"beneficiary_name": e.leaf(p.BeneficiaryName),
			}
		}
		out = append(out, pd)
	}
	return out
}

func (e *Exporter) attachments(descriptions []model.Text) []any {
	out := make([]any, 0, len(descriptions))
	for i, d := range descriptions {
		if !d.IsPresent() {
			continue
		}
		out = append(out, map[string]any{
			"name":        fmt.Sprintf("attachment_%d", i+1),
			"description": e.leaf(d),
		})
	}
	return out
}

func (e *Exporter) transport(t *model.Transportation) map[string]any {
	return map[string]any{
		"carrier": map[string]any{
			"name":   e.leaf(t.CarrierName),
			"vat_id": e.leaf(t.CarrierVATID),
		},
		"method":             e.leaf(t.TransportMethod),
		"reason":             e.leaf(t.TransportReason),
		"date":               e.date(t.TransportDate),
		"delivery_terms":     e.leaf(t.DeliveryTerms),
		"delivery_address":   e.address(t.DeliveryAddress),
		"number_of_packages": e.leaf(t.NumberOfPackages),
		"description":        e.leaf(t.PackageDescription),
		"gross_weight":       e.leaf(t.GrossWeight),
		"net_weight":         e.leaf(t.NetWeight),
		"document": map[string]any{
			"number": e.leaf(t.TransportDocumentNumber),
			"date":   e.date(t.TransportDocumentDate),
		},
	}
}

func (e *Exporter) metadata(inv *model.Invoice) map[string]any {
	m := map[string]any{
		"extraction_date":   field.StringOr(inv.ExtractionDate, e.opts.Now().UTC().Format(time.RFC3339)),
		"document_language": field.StringOr(inv.DocumentLanguage, defaultLanguage),
		"confidence_scores": e.opts.IncludeConfidenceScores,
		"document_classification": map[string]any{
			"is_domestic":         value(inv.IsDomestic),
			"document_type_code":  value(inv.DocumentTypeCode),
			"origin_country":      value(inv.OriginCountry),
			"destination_country": value(inv.DestinationCountry),
		},
	}
	if notes, ok := inv.ProcessingNotes.Get(); ok {
		m["processing_notes"] = notes
	}
	if inv.IsDigitallySigned.Or(false) {
		e.put(m, "digital_signature", map[string]any{
			"is_digitally_signed": true,
			"signer_name":         value(inv.SignerName),
			"signature_date":      field.JSON(dateText(inv.SignatureDate), false),
		})
	}
	return m
}
