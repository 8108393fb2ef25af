package model

import (
	"github.com/shopspring/decimal"
)

// Address is a postal address as extracted from the document.
type Address struct {
	Street         Text `json:"street"`
	StreetNumber   Text `json:"street_number"`
	PostalCode     Text `json:"postal_code"`
	City           Text `json:"city"`
	Province       Text `json:"province"` // two-letter Italian province, may be empty
	Country        Text `json:"country"`  // ISO 3166-1 alpha-2
	AdditionalInfo Text `json:"additional_info"`
}

// Party is a supplier, customer, tax representative or intermediary.
type Party struct {
	Name         Text    `json:"name"`
	LegalForm    Text    `json:"legal_form"`
	VATID        Text    `json:"vat_id"`
	TaxID        Text    `json:"tax_id"` // Codice Fiscale
	ForeignVATID Text    `json:"foreign_vat_id"`
	Address      Address `json:"address"`

	Phone Text `json:"phone"`
	Email Text `json:"email"`
	PEC   Text `json:"pec"` // certified email

	REAOffice     Text   `json:"rea_office"`
	REANumber     Text   `json:"rea_number"`
	ShareCapital  Amount `json:"share_capital"`
	CompanyStatus Text   `json:"company_status"` // LS (liquidation) or LN

	RepresentativeTaxID Text `json:"representative_tax_id"`
	IsForeign           Flag `json:"is_foreign"`
}

// TaxDetail is one VAT rate/nature bucket of the summary.
type TaxDetail struct {
	TaxableAmount           Amount                      `json:"taxable_amount"`
	VATRate                 Amount                      `json:"vat_rate"`
	VATAmount               Amount                      `json:"vat_amount"`
	NatureCode              ConfidenceValue[NatureCode] `json:"nature_code"`
	NatureDescription       Text                        `json:"nature_description"`
	AdministrativeReference Text                        `json:"administrative_reference"`
	RoundingAmount          Amount                      `json:"rounding_amount"`
}

// WithholdingTax is a ritenuta applied to the document or a line.
type WithholdingTax struct {
	WithholdingType Text   `json:"withholding_type"` // RT01..RT06
	TaxableAmount   Amount `json:"taxable_amount"`
	Rate            Amount `json:"rate"`
	Amount          Amount `json:"amount"`
	Description     Text   `json:"description"` // CausalePagamento
}

// PaymentTerms holds one payment instruction.
type PaymentTerms struct {
	PaymentConditions ConfidenceValue[PaymentCondition] `json:"payment_conditions"`
	DueDate           Text                              `json:"due_date"`
	Amount            Amount                            `json:"amount"`
	PaymentMethod     ConfidenceValue[PaymentMethod]    `json:"payment_method"`

	IBAN            Text `json:"iban"`
	BIC             Text `json:"bic"`
	BankName        Text `json:"bank_name"`
	BeneficiaryName Text `json:"beneficiary_name"`

	InstallmentNumber Amount `json:"installment_number"`
	AdvancePayment    Amount `json:"advance_payment"`
	PenaltyAmount     Amount `json:"penalty_amount"`
	PenaltyDate       Text   `json:"penalty_date"`
	DiscountAmount    Amount `json:"discount_amount"`
	DiscountDate      Text   `json:"discount_date"`
}

// ReferenceDocument links the invoice to an order, contract or tender.
type ReferenceDocument struct {
	DocumentType   Text   `json:"document_type"`
	DocumentNumber Text   `json:"document_number"`
	DocumentDate   Text   `json:"document_date"`
	CIG            Text   `json:"cig"` // tender id
	CUP            Text   `json:"cup"` // project id
	OfficeCode     Text   `json:"office_code"`
	LineReference  Amount `json:"line_reference"`
}

// LineItem is one DettaglioLinee row.
type LineItem struct {
	LineNumber    Amount `json:"line_number"`
	Description   Text   `json:"description"`
	Quantity      Amount `json:"quantity"`
	UnitOfMeasure Text   `json:"unit_of_measure"`
	UnitPrice     Amount `json:"unit_price"`
	TotalPrice    Amount `json:"total_price"`

	DiscountPercentage Amount `json:"discount_percentage"`
	DiscountAmount     Amount `json:"discount_amount"`
	MarkupPercentage   Amount `json:"markup_percentage"`
	MarkupAmount       Amount `json:"markup_amount"`

	VATRate                    Amount                      `json:"vat_rate"`
	VATAmount                  Amount                      `json:"vat_amount"`
	VATNatureCode              ConfidenceValue[NatureCode] `json:"vat_nature_code"`
	VATAdministrativeReference Text                        `json:"vat_administrative_reference"`

	ProductCode     Text `json:"product_code"`
	ProductCodeType Text `json:"product_code_type"`
	StartDate       Text `json:"start_date"`
	EndDate         Text `json:"end_date"`

	WithholdingTax *WithholdingTax `json:"withholding_tax,omitempty"`

	CustomsInfo   Text `json:"customs_info"`
	OriginCountry Text `json:"origin_country"`
}

// CurrencyInfo carries the document currency and its exchange rate.
type CurrencyInfo struct {
	CurrencyCode     Text   `json:"currency_code"` // ISO 4217
	ExchangeRate     Amount `json:"exchange_rate"`
	ExchangeRateDate Text   `json:"exchange_rate_date"`
}

// Transportation is the DatiTrasporto block.
type Transportation struct {
	TransportMethod         Text    `json:"transport_method"`
	CarrierName             Text    `json:"carrier_name"`
	CarrierVATID            Text    `json:"carrier_vat_id"`
	TransportDate           Text    `json:"transport_date"`
	DeliveryAddress         Address `json:"delivery_address"`
	DeliveryTerms           Text    `json:"delivery_terms"` // incoterm
	TransportReason         Text    `json:"transport_reason"`
	NumberOfPackages        Amount  `json:"number_of_packages"`
	PackageDescription      Text    `json:"package_description"`
	GrossWeight             Amount  `json:"gross_weight"`
	NetWeight               Amount  `json:"net_weight"`
	TransportDocumentNumber Text    `json:"transport_document_number"`
	TransportDocumentDate   Text    `json:"transport_document_date"`
}

// Invoice is the aggregate produced by the extraction step. Exporters treat it as read-only.
type Invoice struct {
	DocumentTypeCode   ConfidenceValue[DocumentType] `json:"document_type_code"`
	InvoiceNumber      Text                          `json:"invoice_number"`
	IssueDate          Text                          `json:"issue_date"`
	Currency           CurrencyInfo                  `json:"currency"`
	TransmissionFormat Text                          `json:"transmission_format"` // FPR12 or FPA12
	CountryCode        Text                          `json:"country_code"`

	Supplier          Party `json:"supplier"`
	Customer          Party `json:"customer"`
	TaxRepresentative Party `json:"tax_representative"`
	Intermediary      Party `json:"intermediary"`

	LineItems        []LineItem       `json:"line_items"`
	TaxDetails       []TaxDetail      `json:"tax_details"`
	WithholdingTaxes []WithholdingTax `json:"withholding_taxes"`

	TaxableAmount     Amount `json:"taxable_amount"`
	VATAmount         Amount `json:"vat_amount"`
	WithholdingAmount Amount `json:"withholding_amount"`
	TotalAmount       Amount `json:"total_amount"`
	RoundingAmount    Amount `json:"rounding_amount"`
	AdvanceAmount     Amount `json:"advance_amount"`
	StampDutyAmount   Amount `json:"stamp_duty_amount"`

	PaymentTerms       []PaymentTerms      `json:"payment_terms"`
	ReferenceDocuments []ReferenceDocument `json:"reference_documents"`
	Transportation     *Transportation     `json:"transportation,omitempty"`

	HasAttachments         Flag   `json:"has_attachments"`
	AttachmentCount        Amount `json:"attachment_count"`
	AttachmentDescriptions []Text `json:"attachment_descriptions"`

	GeneralNotes            Text `json:"general_notes"`
	AdministrativeReference Text `json:"administrative_reference"`
	InvoiceNote             Text `json:"invoice_note"`

	IsDomestic         Flag `json:"is_domestic"`
	OriginCountry      Text `json:"origin_country"`
	DestinationCountry Text `json:"destination_country"`
	CustomsProcedure   Text `json:"customs_procedure"`

	IsDigitallySigned Flag `json:"is_digitally_signed"`
	SignatureDate     Text `json:"signature_date"`
	SignerName        Text `json:"signer_name"`

	ExtractionDate   Text `json:"extraction_date"`
	DocumentLanguage Text `json:"document_language"`
	ProcessingNotes  Text `json:"processing_notes"`
}

var hundred = decimal.NewFromInt(100)

// NetAmount computes quantity * unit price, less discounts and plus markups.
// It reports false when the unit price is absent. Quantity defaults to 1.
func (li LineItem) NetAmount() (decimal.Decimal, bool) {
	price, ok := li.UnitPrice.Get()
	if !ok {
		return decimal.Zero, false
	}
	amount := price.Mul(li.Quantity.Or(decimal.NewFromInt(1)))

	if pct, ok := li.DiscountPercentage.Get(); ok {
		amount = amount.Sub(amount.Mul(pct).Div(hundred))
	}
	if d, ok := li.DiscountAmount.Get(); ok {
		amount = amount.Sub(d)
	}
	if pct, ok := li.MarkupPercentage.Get(); ok {
		amount = amount.Add(amount.Mul(pct).Div(hundred))
	}
	if m, ok := li.MarkupAmount.Get(); ok {
		amount = amount.Add(m)
	}
	return amount.Round(2), true
}

// TaxDetailTotals sums taxable and VAT amounts over the tax summary rows.
func (inv *Invoice) TaxDetailTotals() (taxable, vat decimal.Decimal) {
	taxable, vat = decimal.Zero, decimal.Zero
	for _, td := range inv.TaxDetails {
		taxable = taxable.Add(td.TaxableAmount.Or(decimal.Zero))
		vat = vat.Add(td.VATAmount.Or(decimal.Zero))
	}
	return taxable, vat
}

// HasDocumentType reports whether the document type was already determined.
func (inv *Invoice) HasDocumentType() bool {
	return inv.DocumentTypeCode.IsPresent()
}
