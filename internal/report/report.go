// Package report renders batch export outcomes as an XLSX workbook.
package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	money "github.com/rezonia/fatturapa-exporter/internal/decimal"
	"github.com/rezonia/fatturapa-exporter/internal/field"
	"github.com/rezonia/fatturapa-exporter/internal/model"
	"github.com/rezonia/fatturapa-exporter/internal/processor"
)

// Sheet is the worksheet holding one row per exported invoice
const Sheet = "Exports"

// Headers are the column titles of the report, in order
var Headers = []string{
	"Source",
	"Result ID",
	"Invoice Number",
	"Issue Date",
	"Document Type",
	"Supplier",
	"Customer",
	"Currency",
	"Taxable",
	"VAT",
	"Total",
	"Status",
	"Warnings",
	"Error",
}

// XLSX builds the workbook for results and returns its bytes
func XLSX(results []*processor.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(Sheet); err != nil {
		return nil, err
	}
	index, err := f.GetSheetIndex(Sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(Sheet, cell, h)
	}

	row := 2
	for _, r := range results {
		if r == nil {
			continue
		}
		for col, v := range values(r) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(Sheet, cell, v)
		}
		row++
	}

	_ = f.SetColWidth(Sheet, "A", "B", 36)
	_ = f.SetColWidth(Sheet, "C", "E", 14)
	_ = f.SetColWidth(Sheet, "F", "G", 32)
	_ = f.SetColWidth(Sheet, "I", "K", 14)
	_ = f.SetColWidth(Sheet, "M", "N", 60)
	if err := f.AutoFilter(Sheet, fmt.Sprintf("A1:N%d", max(row-1, 1)), nil); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func values(r *processor.Result) []any {
	errText := ""
	if r.Error != nil {
		errText = r.Error.Error()
	}
	warnings := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		warnings = append(warnings, w.String())
	}

	row := []any{r.Source, r.ID, "", "", string(r.DocumentType), "", "", "", nil, nil, nil, r.Status(), strings.Join(warnings, "; "), errText}

	inv := r.Invoice
	if inv == nil {
		return row
	}
	row[2] = field.String(inv.InvoiceNumber)
	row[3] = field.DateOrInput(field.String(inv.IssueDate))
	if r.DocumentType == "" {
		row[4] = field.StringOr(inv.DocumentTypeCode, string(model.DocumentTypeDomestic))
	}
	row[5] = field.String(inv.Supplier.Name)
	row[6] = field.String(inv.Customer.Name)
	row[7] = field.StringOr(inv.Currency.CurrencyCode, "EUR")
	row[8] = amount(inv.TaxableAmount)
	row[9] = amount(inv.VATAmount)
	row[10] = amount(inv.TotalAmount)
	return row
}

// amount returns a float so spreadsheet cells stay numeric; absent values leave the cell empty.
func amount(a model.Amount) any {
	d, ok := a.Get()
	if !ok {
		return nil
	}
	return money.Float(d.Round(2))
}
