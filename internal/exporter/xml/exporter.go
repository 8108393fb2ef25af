// Package xml renders an extracted invoice as a FatturaPA 1.2 document for the
// Sistema di Interscambio.
package xml

import (
	"time"

	"github.com/beevik/etree"

	"github.com/rezonia/fatturapa-exporter/internal/attachment"
	"github.com/rezonia/fatturapa-exporter/internal/model"
	"github.com/rezonia/fatturapa-exporter/internal/validate"
)

// FatturaPA namespaces
const (
	NamespaceFattura = "http://ivaservizi.agenziaentrate.gov.it/docs/xsd/fatture/v1.2"
	NamespaceDSig    = "http://www.w3.org/2000/09/xmldsig#"
)

// Format is the registry key of this exporter.
const Format = "xml"

// Options controls a single export.
type Options struct {
	// FormatOutput puts every element on its own line.
	FormatOutput bool
	// IncludeConfidenceData precedes each extracted element with a comment
	// carrying its confidence. Comments are ignored by schema validation.
	IncludeConfidenceData bool
	// ValidateRequired rejects invoices missing required fields.
	ValidateRequired bool
	// Attachments are embedded with their payload in Allegati.
	Attachments []attachment.File
	// Now supplies the fallback for unparsable dates.
	Now func() time.Time
}

// DefaultOptions returns formatted, validated output without confidence data.
func DefaultOptions() Options {
	return Options{
		FormatOutput:     true,
		ValidateRequired: true,
		Now:              time.Now,
	}
}

// Option configures an Exporter.
type Option func(*Options)

// WithFormatOutput toggles one-element-per-line output.
func WithFormatOutput(on bool) Option {
	return func(o *Options) { o.FormatOutput = on }
}

// WithConfidenceData toggles confidence comments.
func WithConfidenceData(on bool) Option {
	return func(o *Options) { o.IncludeConfidenceData = on }
}

// WithValidation toggles the required-field check.
func WithValidation(on bool) Option {
	return func(o *Options) { o.ValidateRequired = on }
}

// WithAttachments embeds files in Allegati.
func WithAttachments(files ...attachment.File) Option {
	return func(o *Options) { o.Attachments = append(o.Attachments, files...) }
}

// WithClock sets the clock used for date fallbacks.
func WithClock(now func() time.Time) Option {
	return func(o *Options) { o.Now = now }
}

// Exporter renders FatturaPA XML. It holds no per-export state and is safe for
// concurrent use.
type Exporter struct {
	opts Options
}

// NewExporter creates an exporter from DefaultOptions and the given overrides.
func NewExporter(opts ...Option) *Exporter {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return &Exporter{opts: o}
}

// Format returns "xml".
func (e *Exporter) Format() string {
	return Format
}

// ContentType returns the MIME type of the output.
func (e *Exporter) ContentType() string {
	return "application/xml; charset=utf-8"
}

// Options returns the effective options.
func (e *Exporter) Options() Options {
	return e.opts
}

// Export validates inv and renders it. On validation failure no output is
// produced and the error is a *model.ValidationError.
func (e *Exporter) Export(inv *model.Invoice) (string, error) {
	if inv == nil {
		return "", model.NewValidationError("invoice", "Invoice is required")
	}
	if e.opts.ValidateRequired {
		if err := validate.Required(inv); err != nil {
			return "", err
		}
	}

	doc := e.Document(inv)
	if e.opts.FormatOutput {
		// Zero-width indentation: one element per line, no leading spaces.
		doc.Indent(0)
	}
	return doc.WriteToString()
}

// Document builds the FatturaPA tree without validating or formatting it.
func (e *Exporter) Document(inv *model.Invoice) *etree.Document {
	b := &builder{inv: inv, opts: e.opts, now: e.opts.Now()}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("ns2:FatturaElettronica")
	root.CreateAttr("versione", b.transmissionFormat())
	root.CreateAttr("xmlns:ds", NamespaceDSig)
	root.CreateAttr("xmlns:ns2", NamespaceFattura)

	b.header(root.CreateElement("FatturaElettronicaHeader"))
	b.body(root.CreateElement("FatturaElettronicaBody"))

	return doc
}
