package fatturapa

import (
	"context"

	"github.com/rezonia/fatturapa-exporter/internal/classify"
	"github.com/rezonia/fatturapa-exporter/internal/exporter"
	"github.com/rezonia/fatturapa-exporter/internal/processor"
	"github.com/rezonia/fatturapa-exporter/internal/signing"
	"github.com/rezonia/fatturapa-exporter/internal/validate"
)

// Output formats
const (
	FormatXML        = exporter.FormatXML
	FormatJSON       = exporter.FormatJSON
	FormatValidation = exporter.FormatValidation
	FormatRaw        = exporter.FormatRaw
)

type (
	// Exporter renders an invoice in one format
	Exporter = exporter.Exporter
	// Options are the switches shared by all formats
	Options = exporter.Options
	// Warning is a consistency problem that does not block export
	Warning = validate.Warning
	// Signer signs FatturaPA XML with XMLDSig
	Signer = signing.Signer
	// Result is the outcome of exporting one invoice
	Result = processor.Result
)

// DefaultOptions returns pretty-printed, validated output with metadata
func DefaultOptions() Options {
	return exporter.DefaultOptions()
}

// NewExporter returns the exporter for format
func NewExporter(format string, opts Options) (Exporter, error) {
	return exporter.NewRegistry().Get(format, opts)
}

// NewXMLExporter returns a FatturaPA XML exporter with default options
func NewXMLExporter() Exporter {
	e, _ := NewExporter(FormatXML, DefaultOptions())
	return e
}

// NewJSONExporter returns a structured JSON exporter with default options
func NewJSONExporter() Exporter {
	e, _ := NewExporter(FormatJSON, DefaultOptions())
	return e
}

// Decode checks data against the input schema and decodes one invoice
func Decode(data []byte) (*Invoice, error) {
	return processor.Decode(data)
}

// Classify determines the document type of inv from its parties and lines
func Classify(inv *Invoice) DocumentType {
	return classify.Classify(inv)
}

// Validate reports inconsistent amounts or codes as warnings and missing
// required fields as a *ValidationError
func Validate(inv *Invoice) ([]Warning, error) {
	return validate.Reconcile(inv), validate.Required(inv)
}

// LoadSigner reads a PEM certificate and RSA key for signing XML output
func LoadSigner(certFile, keyFile string) (*Signer, error) {
	return signing.LoadSigner(certFile, keyFile)
}

// Processor exports invoices, classifying and reconciling them on the way
type Processor struct {
	pipeline *processor.Pipeline
}

// NewProcessor creates a processor. A nil signer leaves XML unsigned; workers
// below one use the default batch concurrency.
func NewProcessor(signer *Signer, workers int) *Processor {
	opts := []processor.Option{processor.WithWorkers(workers)}
	if signer != nil {
		opts = append(opts, processor.WithSigner(signer))
	}
	return &Processor{pipeline: processor.NewPipeline(opts...)}
}

// Export renders inv in format
func (p *Processor) Export(ctx context.Context, inv *Invoice, format string, opts Options) *Result {
	return p.pipeline.Export(ctx, inv, processor.Request{Format: format, Options: opts})
}

// ExportBatch decodes data, one invoice or an array of them, and exports
// every invoice concurrently. Results keep the input order.
func (p *Processor) ExportBatch(ctx context.Context, data []byte, format string, opts Options) ([]*Result, error) {
	items, err := processor.DecodeItems(data, "batch")
	if err != nil {
		return nil, err
	}
	return p.pipeline.ExportBatch(ctx, items, processor.Request{Format: format, Options: opts})
}
