package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/fatturapa-exporter/internal/classify"
	"github.com/rezonia/fatturapa-exporter/internal/model"
	"github.com/rezonia/fatturapa-exporter/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate extracted invoices",
	Long: `Validate extracted invoice JSON files before export.

Checks:
  - Input shape against the invoice JSON schema
  - Required FatturaPA fields (number, date, supplier, customer, VAT ids)
  - Totals, line amounts and code tables (reported as warnings)

Examples:
  fatturapa-exporter validate invoice.json
  fatturapa-exporter validate extracted/ --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// ValidateResult is the validation outcome of one invoice
type ValidateResult struct {
	File         string             `json:"file"`
	Valid        bool               `json:"valid"`
	DocumentType model.DocumentType `json:"document_type,omitempty"`
	Errors       []model.Violation  `json:"errors,omitempty"`
	Warnings     []validate.Warning `json:"warnings,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, ".json")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to validate")
	}

	results := make([]ValidateResult, 0, len(files))
	invalid := 0
	for _, item := range loadItems(files) {
		r := validateItem(item.Source, item.Invoice, item.Err)
		if !r.Valid {
			invalid++
		}
		results = append(results, r)
	}

	if jsonOutput {
		if err := printJSON(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			status := "✓ VALID"
			if !r.Valid {
				status = "✗ INVALID"
			}
			fmt.Printf("%s: %s\n", r.File, status)
			if r.DocumentType != "" {
				fmt.Printf("  Type: %s (%s)\n", r.DocumentType, r.DocumentType.Description())
			}
			for _, e := range r.Errors {
				fmt.Printf("  ✗ %s\n", e.Message)
			}
			for _, w := range r.Warnings {
				fmt.Printf("  ! %s\n", w)
			}
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d invoices are invalid", invalid, len(results))
	}
	return nil
}

func validateItem(source string, inv *model.Invoice, decodeErr error) ValidateResult {
	r := ValidateResult{File: source, Valid: true}
	if decodeErr != nil {
		r.Valid = false
		r.Errors = violations(decodeErr)
		return r
	}

	r.DocumentType = inv.DocumentTypeCode.Or(classify.Classify(inv))
	if err := validate.Required(inv); err != nil {
		r.Valid = false
		r.Errors = violations(err)
	}
	r.Warnings = validate.Reconcile(inv)
	return r
}

func violations(err error) []model.Violation {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return ve.Violations
	}
	return []model.Violation{{Field: "document", Message: err.Error()}}
}
