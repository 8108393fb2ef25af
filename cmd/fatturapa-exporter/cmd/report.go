package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/fatturapa-exporter/internal/exporter"
	"github.com/rezonia/fatturapa-exporter/internal/processor"
	"github.com/rezonia/fatturapa-exporter/internal/report"
)

var (
	reportFile   string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report [files...]",
	Short: "Export invoices and summarise the run in an XLSX workbook",
	Long: `Run a batch export and write one spreadsheet row per invoice with its
number, parties, totals, status and reconciliation warnings. The exported
documents themselves are not written.

Examples:
  fatturapa-exporter report extracted/ -o report.xlsx
  fatturapa-exporter report extracted/ --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportFile, "output", "o", "report.xlsx", "Output workbook")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", exporter.FormatXML, "Export format to check")
	reportCmd.Flags().DurationVar(&timeout, "timeout", defaultTimeout, "Timeout for the whole run")
}

func runReport(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, ".json")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to report on")
	}

	pipeline := processor.NewPipeline(processor.WithWorkers(cfg.BatchWorkers))

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	results, err := pipeline.ExportBatch(ctx, loadItems(files), processor.Request{
		Format:  reportFormat,
		Options: exporter.DefaultOptions(),
	})
	if err != nil {
		return err
	}

	data, err := report.XLSX(results)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := writeOutput(reportFile, data); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	fmt.Printf("Wrote %s: %d invoices, %d failed\n", reportFile, len(results), failed)
	return nil
}
