package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/fatturapa-exporter/internal/attachment"
	"github.com/rezonia/fatturapa-exporter/internal/exporter"
	"github.com/rezonia/fatturapa-exporter/internal/logger"
	"github.com/rezonia/fatturapa-exporter/internal/processor"
	"github.com/rezonia/fatturapa-exporter/internal/signing"
)

const defaultTimeout = 2 * time.Minute

var (
	exportFormat      string
	outputFile        string
	timeout           time.Duration
	compact           bool
	withConfidence    bool
	noValidate        bool
	noMetadata        bool
	signCert          string
	signKey           string
	attachments       []string
	attachDescription string
)

var exportCmd = &cobra.Command{
	Use:   "export [files...]",
	Short: "Export extracted invoices",
	Long: `Export one or more extracted invoice JSON files.

Formats:
  - xml:        FatturaPA XML for SDI transmission
  - json:       structured JSON with optional confidence scores
  - validation: flat projection for validation tools
  - raw:        the extracted model with empty fields removed

A file may contain a single invoice or an array of invoices. Invoices without
a document type are classified before export.

Examples:
  fatturapa-exporter export invoice.json
  fatturapa-exporter export invoice.json -o invoice.xml --attach original.pdf
  fatturapa-exporter export extracted/ --format json --confidence -o out/
  fatturapa-exporter export invoice.json --sign-cert cert.pem --sign-key key.pem`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", exporter.FormatXML, "Output format (xml, json, validation, raw)")
	exportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file, or directory for several invoices (default: stdout)")
	exportCmd.Flags().DurationVar(&timeout, "timeout", defaultTimeout, "Timeout for the whole run")
	exportCmd.Flags().BoolVar(&compact, "compact", false, "Disable indentation")
	exportCmd.Flags().BoolVar(&withConfidence, "confidence", false, "Include confidence scores")
	exportCmd.Flags().BoolVar(&noValidate, "no-validate", false, "Skip required-field validation")
	exportCmd.Flags().BoolVar(&noMetadata, "no-metadata", false, "Omit the JSON metadata block")
	exportCmd.Flags().StringVar(&signCert, "sign-cert", "", "PEM certificate used to sign XML output")
	exportCmd.Flags().StringVar(&signKey, "sign-key", "", "PEM private key used to sign XML output")
	exportCmd.Flags().StringSliceVar(&attachments, "attach", nil, "Files to embed as Allegati (XML only)")
	exportCmd.Flags().StringVar(&attachDescription, "attach-description", "", "Description for embedded attachments")
}

func runExport(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, ".json")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to export")
	}
	printVerbose("Found %d files to export\n", len(files))

	opts, err := exportOptions()
	if err != nil {
		return err
	}

	pipeline, err := newPipeline(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	results, err := pipeline.ExportBatch(ctx, loadItems(files), processor.Request{Format: exportFormat, Options: opts})
	if err != nil {
		return err
	}

	if err := writeResults(results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		for _, w := range r.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", r.Source, w)
		}
		if !r.OK() {
			failed++
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", r.Source, r.Error)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d invoices failed to export", failed, len(results))
	}
	return nil
}

func exportOptions() (exporter.Options, error) {
	opts := exporter.DefaultOptions()
	opts.Pretty = !compact
	opts.IncludeConfidence = withConfidence
	opts.Validate = !noValidate
	opts.IncludeMetadata = !noMetadata

	for _, path := range attachments {
		f, err := attachment.Load(path, attachDescription)
		if err != nil {
			return opts, err
		}
		printVerbose("Attaching: %s (%s, %d bytes)\n", f.Name, f.Format, f.Size)
		opts.Attachments = append(opts.Attachments, f)
	}
	return opts, nil
}

// newPipeline builds the export pipeline, signing XML when a key pair is
// configured by flag or environment.
func newPipeline(cmd *cobra.Command) (*processor.Pipeline, error) {
	pipelineOpts := []processor.Option{
		processor.WithWorkers(cfg.BatchWorkers),
		processor.WithLogger(logger.WithComponent(cmd.Name())),
	}

	certFile, keyFile := signCert, signKey
	if certFile == "" && keyFile == "" && cfg.SigningEnabled() {
		certFile, keyFile = cfg.SignCert, cfg.SignKey
	}
	if certFile != "" || keyFile != "" {
		signer, err := signing.LoadSigner(certFile, keyFile)
		if err != nil {
			return nil, err
		}
		printVerbose("Signing XML as: %s\n", signer.Certificate().Subject.CommonName)
		pipelineOpts = append(pipelineOpts, processor.WithSigner(signer))
	}

	return processor.NewPipeline(pipelineOpts...), nil
}

func writeResults(results []*processor.Result) error {
	var ok []*processor.Result
	for _, r := range results {
		if r.OK() {
			ok = append(ok, r)
		}
	}

	switch {
	case outputFile == "":
		for _, r := range ok {
			fmt.Println(r.Output)
		}
		return nil
	case len(results) == 1:
		if len(ok) == 0 {
			return nil
		}
		return writeOutput(outputFile, []byte(ok[0].Output))
	}

	if err := os.MkdirAll(outputFile, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, r := range ok {
		path := filepath.Join(outputFile, outputName(r))
		if err := writeOutput(path, []byte(r.Output)); err != nil {
			return err
		}
		printVerbose("Wrote: %s\n", path)
	}
	return nil
}

func writeOutput(path string, content []byte) error {
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// outputName derives a file name from the source, e.g. "batch.json#2" -> "batch-2.xml".
func outputName(r *processor.Result) string {
	base := filepath.Base(r.Source)
	name, index, _ := strings.Cut(base, "#")
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if index != "" {
		name += "-" + index
	}

	ext := ".json"
	if r.Format == exporter.FormatXML {
		ext = ".xml"
	}
	if r.Format == exporter.FormatValidation || r.Format == exporter.FormatRaw {
		ext = "." + r.Format + ".json"
	}
	return name + ext
}
