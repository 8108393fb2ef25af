// Package fatturapa provides a public API for exporting extracted invoices to
// FatturaPA XML and JSON.
//
// Invoices carry a confidence score on every field, as produced by an
// extraction step. Fields that were not found are simply absent.
//
// Example usage:
//
//	inv, err := fatturapa.Decode(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	xml, err := fatturapa.NewXMLExporter().Export(inv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(xml)
package fatturapa

import "github.com/rezonia/fatturapa-exporter/internal/model"

// Re-export core types for public API
type (
	Invoice           = model.Invoice
	Party             = model.Party
	Address           = model.Address
	LineItem          = model.LineItem
	TaxDetail         = model.TaxDetail
	WithholdingTax    = model.WithholdingTax
	PaymentTerms      = model.PaymentTerms
	ReferenceDocument = model.ReferenceDocument
	CurrencyInfo      = model.CurrencyInfo
	Transportation    = model.Transportation

	DocumentType     = model.DocumentType
	NatureCode       = model.NatureCode
	PaymentCondition = model.PaymentCondition
	PaymentMethod    = model.PaymentMethod
	CodeEntry        = model.CodeEntry
)

// ConfidenceValue is a field value with the extractor's confidence score
type ConfidenceValue[T model.Scalar] = model.ConfidenceValue[T]

// Common field shapes
type (
	Text   = model.Text
	Amount = model.Amount
	Flag   = model.Flag
)

// Field constructors
var (
	S = model.S
	D = model.D
	B = model.B
)

// Re-export document types
const (
	TD01 = model.TD01
	TD02 = model.TD02
	TD03 = model.TD03
	TD04 = model.TD04
	TD05 = model.TD05
	TD06 = model.TD06
	TD16 = model.TD16
	TD17 = model.TD17
	TD18 = model.TD18
	TD19 = model.TD19
	TD20 = model.TD20
	TD21 = model.TD21
	TD22 = model.TD22
	TD23 = model.TD23
	TD24 = model.TD24
	TD25 = model.TD25
	TD26 = model.TD26
	TD27 = model.TD27
)

// Re-export error types
type (
	ValidationError = model.ValidationError
	Violation       = model.Violation
	ParseError      = model.ParseError
)

// CodeTables returns the FatturaPA code tables keyed by table name
func CodeTables() map[string][]CodeEntry {
	return model.CodeTables()
}
