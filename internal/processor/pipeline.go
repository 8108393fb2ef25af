// Package processor runs decoded invoices through classification, export,
// optional signing and reconciliation, singly or in batches.
package processor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rezonia/fatturapa-exporter/internal/classify"
	"github.com/rezonia/fatturapa-exporter/internal/exporter"
	"github.com/rezonia/fatturapa-exporter/internal/logger"
	"github.com/rezonia/fatturapa-exporter/internal/metrics"
	"github.com/rezonia/fatturapa-exporter/internal/model"
	"github.com/rezonia/fatturapa-exporter/internal/signing"
	"github.com/rezonia/fatturapa-exporter/internal/validate"
)

// DefaultWorkers bounds batch concurrency when no limit is configured
const DefaultWorkers = 4

// Pipeline exports invoices through a format registry
type Pipeline struct {
	registry *exporter.Registry
	signer   *signing.Signer
	metrics  *metrics.Metrics
	workers  int
	logger   zerolog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithRegistry replaces the default format registry
func WithRegistry(r *exporter.Registry) Option {
	return func(p *Pipeline) {
		p.registry = r
	}
}

// WithSigner signs every XML output
func WithSigner(s *signing.Signer) Option {
	return func(p *Pipeline) {
		p.signer = s
	}
}

// WithMetrics records exports and warnings
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithWorkers sets the batch concurrency limit
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the logger used for batch progress
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// NewPipeline creates a pipeline over the built-in formats
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		registry: exporter.NewRegistry(),
		workers:  DefaultWorkers,
		logger:   logger.WithComponent("processor"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Registry returns the format registry in use
func (p *Pipeline) Registry() *exporter.Registry {
	return p.registry
}

// Request selects the output of one export
type Request struct {
	Format  string
	Options exporter.Options
}

// Result is the outcome of exporting one invoice
type Result struct {
	ID           string
	Source       string
	Format       string
	ContentType  string
	DocumentType model.DocumentType
	Classified   bool
	Signed       bool
	Output       string
	Warnings     []validate.Warning
	Invoice      *model.Invoice
	Duration     time.Duration
	Error        error
}

// OK reports whether the export produced output
func (r *Result) OK() bool {
	return r.Error == nil
}

// Status maps the result onto a metrics status label
func (r *Result) Status() string {
	var ve *model.ValidationError
	switch {
	case r.Error == nil:
		return metrics.StatusSuccess
	case errors.As(r.Error, &ve):
		return metrics.StatusInvalid
	default:
		return metrics.StatusError
	}
}

// Export renders inv in the requested format. A missing document type is
// classified first; the caller's invoice is not modified.
func (p *Pipeline) Export(ctx context.Context, inv *model.Invoice, req Request) *Result {
	start := time.Now()
	result := &Result{ID: uuid.NewString(), Format: req.Format, Invoice: inv}
	defer func() {
		result.Duration = time.Since(start)
		if p.metrics != nil {
			format := result.Format
			if result.ContentType == "" {
				format = "unknown"
			}
			p.metrics.RecordExport(format, result.Status(), result.Duration)
		}
	}()

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	exp, err := p.registry.Get(req.Format, req.Options)
	if err != nil {
		result.Error = err
		return result
	}
	result.Format = exp.Format()
	result.ContentType = exp.ContentType()

	if inv != nil && !inv.HasDocumentType() {
		classified := *inv
		classified.DocumentTypeCode = model.Known(classify.Classify(inv), 0)
		inv = &classified
		result.Invoice = inv
		result.Classified = true
	}
	if inv != nil {
		result.DocumentType = inv.DocumentTypeCode.Or(model.DocumentTypeDomestic)
	}

	out, err := exp.Export(inv)
	if err != nil {
		result.Error = err
		return result
	}

	if p.signer != nil && result.Format == exporter.FormatXML {
		signed, err := p.signer.Sign([]byte(out))
		if err != nil {
			result.Error = err
			return result
		}
		out = string(signed)
		result.Signed = true
	}
	result.Output = out

	result.Warnings = validate.Reconcile(inv)
	if p.metrics != nil {
		for _, w := range result.Warnings {
			p.metrics.RecordWarning(w.Field)
		}
	}
	return result
}

// Item is one batch input
type Item struct {
	Source  string
	Invoice *model.Invoice
	Err     error // decode failure carried into the result
}

// ExportBatch exports every item with at most the configured number of workers.
// Per-item failures are reported in the results, which keep input order;
// only context cancellation aborts the batch.
func (p *Pipeline) ExportBatch(ctx context.Context, items []Item, req Request) ([]*Result, error) {
	results := make([]*Result, len(items))
	if p.metrics != nil {
		p.metrics.ObserveBatch(len(items))
	}

	batchID := uuid.NewString()
	logger := p.logger.With().Str("batch_id", batchID).Int("items", len(items)).Logger()
	logger.Debug().Str("format", req.Format).Int("workers", p.workers).Msg("batch started")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			var r *Result
			if item.Err != nil {
				r = &Result{ID: uuid.NewString(), Format: req.Format, Error: item.Err}
			} else {
				r = p.Export(gctx, item.Invoice, req)
			}
			r.Source = item.Source
			results[i] = r

			event := logger.Debug()
			if r.Error != nil {
				event = logger.Warn().Err(r.Error)
			}
			event.Str("id", r.ID).Str("source", r.Source).Int("warnings", len(r.Warnings)).Msg("item exported")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	logger.Info().Int("failed", failed).Msg("batch finished")
	return results, nil
}
