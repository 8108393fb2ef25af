package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/fatturapa-exporter/internal/classify"
	"github.com/rezonia/fatturapa-exporter/internal/model"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [files...]",
	Short: "Determine the document type of extracted invoices",
	Long: `Print the FatturaPA document type (TD01..TD27) of each invoice.

A type already present in the input is kept; otherwise it is derived from
the parties' countries, line descriptions and amounts.

Examples:
  fatturapa-exporter classify invoice.json
  fatturapa-exporter classify extracted/ --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

// ClassifyResult is the document type of one invoice
type ClassifyResult struct {
	File         string             `json:"file"`
	DocumentType model.DocumentType `json:"document_type,omitempty"`
	Description  string             `json:"description,omitempty"`
	Classified   bool               `json:"classified"`
	Error        string             `json:"error,omitempty"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, ".json")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to classify")
	}

	var results []ClassifyResult
	for _, item := range loadItems(files) {
		r := ClassifyResult{File: item.Source}
		switch {
		case item.Err != nil:
			r.Error = item.Err.Error()
		case item.Invoice.HasDocumentType():
			r.DocumentType, _ = item.Invoice.DocumentTypeCode.Get()
		default:
			r.DocumentType = classify.Classify(item.Invoice)
			r.Classified = true
		}
		r.Description = r.DocumentType.Description()
		results = append(results, r)
	}

	if jsonOutput {
		return printJSON(results)
	}

	for _, r := range results {
		if r.Error != "" {
			fmt.Printf("%s: ERROR: %s\n", r.File, r.Error)
			continue
		}
		source := "input"
		if r.Classified {
			source = "classified"
		}
		fmt.Printf("%s: %s %s (%s)\n", r.File, r.DocumentType, r.Description, source)
	}
	return nil
}
