// Package json renders an extracted invoice as JSON mirroring the FatturaPA
// structure, plus the raw and validation projections.
package json

import (
	"bytes"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/rezonia/fatturapa-exporter/internal/field"
	"github.com/rezonia/fatturapa-exporter/internal/model"
)

// Registry keys of the three projections.
const (
	Format           = "json"
	FormatRaw        = "raw"
	FormatValidation = "validation"
)

const indent = "  "

// Options controls a single export.
type Options struct {
	// IncludeConfidenceScores renders every leaf as {value, confidence}.
	IncludeConfidenceScores bool
	// IncludeMetadata adds the metadata section.
	IncludeMetadata bool
	// PrettyPrint indents with two spaces.
	PrettyPrint bool
	// CleanNullValues strips absent values from parties, line items and the raw projection.
	CleanNullValues bool
	// Now supplies the extraction date when the invoice has none.
	Now func() time.Time
}

// DefaultOptions returns pretty, cleaned output with metadata and without confidence.
func DefaultOptions() Options {
	return Options{
		IncludeMetadata: true,
		PrettyPrint:     true,
		CleanNullValues: true,
		Now:             time.Now,
	}
}

// Option configures an Exporter.
type Option func(*Options)

// WithConfidenceScores toggles {value, confidence} leaves.
func WithConfidenceScores(on bool) Option {
	return func(o *Options) { o.IncludeConfidenceScores = on }
}

// WithMetadata toggles the metadata section.
func WithMetadata(on bool) Option {
	return func(o *Options) { o.IncludeMetadata = on }
}

// WithPrettyPrint toggles indentation.
func WithPrettyPrint(on bool) Option {
	return func(o *Options) { o.PrettyPrint = on }
}

// WithCleanNullValues toggles null cleaning.
func WithCleanNullValues(on bool) Option {
	return func(o *Options) { o.CleanNullValues = on }
}

// WithClock sets the clock used for the extraction date fallback.
func WithClock(now func() time.Time) Option {
	return func(o *Options) { o.Now = now }
}

// Exporter renders JSON projections of an invoice. It is safe for concurrent use.
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

// Format returns "json".
func (e *Exporter) Format() string {
	return Format
}

// ContentType returns the MIME type of every projection.
func (e *Exporter) ContentType() string {
	return "application/json; charset=utf-8"
}

// Options returns the effective options.
func (e *Exporter) Options() Options {
	return e.opts
}

// Export renders the header/body/metadata projection.
func (e *Exporter) Export(inv *model.Invoice) (string, error) {
	if inv == nil {
		return "", model.NewValidationError("invoice", "Invoice is required")
	}
	return encode(e.Document(inv), e.opts.PrettyPrint)
}

// ExportRaw renders the invoice as extracted, confidence included.
func (e *Exporter) ExportRaw(inv *model.Invoice) (string, error) {
	if inv == nil {
		return "", model.NewValidationError("invoice", "Invoice is required")
	}

	data, err := gojson.Marshal(inv)
	if err != nil {
		return "", err
	}
	var tree any
	if err := gojson.Unmarshal(data, &tree); err != nil {
		return "", err
	}
	if e.opts.CleanNullValues {
		tree, _ = field.Clean(tree)
	}
	return encode(tree, e.opts.PrettyPrint)
}

// encode marshals v without HTML escaping, optionally indented.
func encode(v any, pretty bool) (string, error) {
	var buf bytes.Buffer
	enc := gojson.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
