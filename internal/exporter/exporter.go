// Package exporter selects an output format for an extracted invoice.
package exporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/rezonia/fatturapa-exporter/internal/attachment"
	jsonexport "github.com/rezonia/fatturapa-exporter/internal/exporter/json"
	xmlexport "github.com/rezonia/fatturapa-exporter/internal/exporter/xml"
	"github.com/rezonia/fatturapa-exporter/internal/model"
)

// Supported formats
const (
	FormatXML        = xmlexport.Format
	FormatJSON       = jsonexport.Format
	FormatValidation = jsonexport.FormatValidation
	FormatRaw        = jsonexport.FormatRaw
)

// Exporter renders an invoice in one format
type Exporter interface {
	// Export renders inv; only required-field validation can fail it
	Export(inv *model.Invoice) (string, error)

	// Format returns the registry key
	Format() string

	// ContentType returns the MIME type of the output
	ContentType() string
}

// Options are shared by all formats; each format reads the switches it knows.
type Options struct {
	Pretty            bool
	IncludeConfidence bool
	Validate          bool
	IncludeMetadata   bool
	CleanNulls        bool
	Attachments       []attachment.File
	Now               func() time.Time
}

// DefaultOptions mirrors the per-format defaults.
func DefaultOptions() Options {
	return Options{
		Pretty:          true,
		Validate:        true,
		IncludeMetadata: true,
		CleanNulls:      true,
	}
}

// Factory builds an exporter for one set of options
type Factory func(opts Options) Exporter

type entry struct {
	format string
	build  Factory
}

// Registry maps format names to exporter factories
type Registry struct {
	entries []entry
}

// NewRegistry creates a registry with the xml, json, validation and raw formats
func NewRegistry() *Registry {
	return &Registry{
		entries: []entry{
			{FormatXML, newXML},
			{FormatJSON, func(o Options) Exporter { return newJSON(o) }},
			{FormatValidation, func(o Options) Exporter {
				j := newJSON(o)
				return Func(FormatValidation, j.ContentType(), j.ExportForValidation)
			}},
			{FormatRaw, func(o Options) Exporter {
				j := newJSON(o)
				return Func(FormatRaw, j.ContentType(), j.ExportRaw)
			}},
		},
	}
}

func newXML(o Options) Exporter {
	opts := []xmlexport.Option{
		xmlexport.WithFormatOutput(o.Pretty),
		xmlexport.WithConfidenceData(o.IncludeConfidence),
		xmlexport.WithValidation(o.Validate),
		xmlexport.WithAttachments(o.Attachments...),
	}
	if o.Now != nil {
		opts = append(opts, xmlexport.WithClock(o.Now))
	}
	return xmlexport.NewExporter(opts...)
}

func newJSON(o Options) *jsonexport.Exporter {
	opts := []jsonexport.Option{
		jsonexport.WithPrettyPrint(o.Pretty),
		jsonexport.WithConfidenceScores(o.IncludeConfidence),
		jsonexport.WithMetadata(o.IncludeMetadata),
		jsonexport.WithCleanNullValues(o.CleanNulls),
	}
	if o.Now != nil {
		opts = append(opts, jsonexport.WithClock(o.Now))
	}
	return jsonexport.NewExporter(opts...)
}

// Register adds a format; it takes priority over a built-in of the same name
func (r *Registry) Register(format string, build Factory) {
	r.entries = append([]entry{{strings.ToLower(format), build}}, r.entries...)
}

// Get builds the exporter for format
func (r *Registry) Get(format string, opts Options) (Exporter, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	for _, e := range r.entries {
		if e.format == format {
			return e.build(opts), nil
		}
	}
	return nil, &UnsupportedFormatError{Format: format, Available: r.Formats()}
}

// Formats lists the registered formats without duplicates
func (r *Registry) Formats() []string {
	seen := make(map[string]bool, len(r.entries))
	formats := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		if !seen[e.format] {
			seen[e.format] = true
			formats = append(formats, e.format)
		}
	}
	return formats
}

// UnsupportedFormatError is returned for an unknown format name
type UnsupportedFormatError struct {
	Format    string
	Available []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q (available: %s)", e.Format, strings.Join(e.Available, ", "))
}

// Func adapts a plain function to Exporter
func Func(format, contentType string, fn func(*model.Invoice) (string, error)) Exporter {
	return funcExporter{format: format, contentType: contentType, fn: fn}
}

type funcExporter struct {
	format      string
	contentType string
	fn          func(*model.Invoice) (string, error)
}

func (f funcExporter) Export(inv *model.Invoice) (string, error) { return f.fn(inv) }
func (f funcExporter) Format() string                            { return f.format }
func (f funcExporter) ContentType() string                       { return f.contentType }
