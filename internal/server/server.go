package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rezonia/fatturapa-exporter/internal/classify"
	"github.com/rezonia/fatturapa-exporter/internal/exporter"
	"github.com/rezonia/fatturapa-exporter/internal/logger"
	"github.com/rezonia/fatturapa-exporter/internal/metrics"
	"github.com/rezonia/fatturapa-exporter/internal/model"
	"github.com/rezonia/fatturapa-exporter/internal/processor"
	"github.com/rezonia/fatturapa-exporter/internal/signing"
	"github.com/rezonia/fatturapa-exporter/internal/validate"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured
const DefaultMaxBodyBytes = 10 << 20

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
	Workers      int
	MaxBodyBytes int64
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *processor.Pipeline
	verifier *signing.Verifier
	metrics  *metrics.Metrics
	signer   *signing.Signer
	trust    *signing.TrustStore
	logger   zerolog.Logger
	now      func() time.Time
}

// Option configures a Server
type Option func(*Server)

// WithSigner signs every XML export
func WithSigner(s *signing.Signer) Option {
	return func(srv *Server) {
		srv.signer = s
	}
}

// WithTrustStore anchors verified signatures to the given roots
func WithTrustStore(ts *signing.TrustStore) Option {
	return func(srv *Server) {
		srv.trust = ts
	}
}

// WithMetrics replaces the server's metrics registry
func WithMetrics(m *metrics.Metrics) Option {
	return func(srv *Server) {
		srv.metrics = m
	}
}

// WithClock fixes the time used for date fallbacks and certificate checks
func WithClock(now func() time.Time) Option {
	return func(srv *Server) {
		srv.now = now
	}
}

// NewServer creates a new API server
func NewServer(config *Config, opts ...Option) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}

	s := &Server{
		config: config,
		router: gin.New(),
		logger: logger.WithComponent("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}

	s.pipeline = processor.NewPipeline(
		processor.WithSigner(s.signer),
		processor.WithMetrics(s.metrics),
		processor.WithWorkers(config.Workers),
		processor.WithLogger(s.logger),
	)

	verifierOpts := []signing.VerifierOption{signing.WithTrustStore(s.trust)}
	if s.now != nil {
		verifierOpts = append(verifierOpts, signing.WithVerifierClock(s.now))
	}
	s.verifier = signing.NewVerifier(verifierOpts...)

	s.router.Use(gin.Recovery(), s.requestID(), s.limitBody())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/export/:format", s.handleExport)
		v1.POST("/validate", s.handleValidate)
		v1.POST("/classify", s.handleClassify)
		v1.POST("/batch", s.handleBatch)
		v1.POST("/verify", s.handleVerify)
		v1.GET("/codes", s.handleCodes)
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"formats": s.pipeline.Registry().Formats(),
		"signing": s.signer != nil,
	})
}

func (s *Server) handleCodes(c *gin.Context) {
	c.JSON(http.StatusOK, model.CodeTables())
}

func (s *Server) handleExport(c *gin.Context) {
	inv, ok := s.decodeInvoice(c)
	if !ok {
		return
	}

	req := processor.Request{Format: c.Param("format"), Options: s.exportOptions(c)}
	result := s.pipeline.Export(c.Request.Context(), inv, req)
	if result.Error != nil {
		s.exportError(c, result.Error)
		return
	}

	c.Header("X-Export-Id", result.ID)
	c.Header("X-Document-Type", string(result.DocumentType))
	c.Header("X-Reconcile-Warnings", strconv.Itoa(len(result.Warnings)))
	c.Data(http.StatusOK, result.ContentType, []byte(result.Output))
}

func (s *Server) handleValidate(c *gin.Context) {
	inv, ok := s.decodeInvoice(c)
	if !ok {
		return
	}

	response := ValidationResponse{
		Valid:        true,
		DocumentType: string(inv.DocumentTypeCode.Or(classify.Classify(inv))),
		Warnings:     validate.Reconcile(inv),
	}

	var ve *model.ValidationError
	if err := validate.Required(inv); errors.As(err, &ve) {
		response.Valid = false
		response.Errors = ve.Violations
	}

	status := http.StatusOK
	if !response.Valid {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, response)
}

func (s *Server) handleClassify(c *gin.Context) {
	inv, ok := s.decodeInvoice(c)
	if !ok {
		return
	}

	dt := classify.Classify(inv)
	c.JSON(http.StatusOK, ClassifyResponse{
		DocumentType:    string(dt),
		Description:     dt.Description(),
		SupplierCountry: classify.PartyCountry(inv.Supplier),
		CustomerCountry: classify.PartyCountry(inv.Customer),
		ServiceLines:    classify.HasServiceLines(inv.LineItems),
	})
}

func (s *Server) handleBatch(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	items, err := processor.DecodeItems(body, "request")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid batch", Details: err.Error()})
		return
	}

	format := c.DefaultQuery("format", exporter.FormatJSON)
	if _, err := s.pipeline.Registry().Get(format, exporter.DefaultOptions()); err != nil {
		s.exportError(c, err)
		return
	}

	results, err := s.pipeline.ExportBatch(c.Request.Context(), items, processor.Request{Format: format, Options: s.exportOptions(c)})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "batch aborted", Details: err.Error()})
		return
	}

	response := BatchResponse{Format: format, Total: len(results), Results: make([]BatchItemResponse, 0, len(results))}
	for _, r := range results {
		item := BatchItemResponse{
			ID:           r.ID,
			Source:       r.Source,
			Status:       r.Status(),
			DocumentType: string(r.DocumentType),
			ContentType:  r.ContentType,
			Output:       r.Output,
			Warnings:     r.Warnings,
		}
		if r.Error != nil {
			item.Error = r.Error.Error()
			var ve *model.ValidationError
			if errors.As(r.Error, &ve) {
				item.Violations = ve.Violations
			}
			response.Failed++
		} else {
			response.Succeeded++
		}
		response.Results = append(response.Results, item)
	}
	c.JSON(http.StatusOK, response)
}

func (s *Server) handleVerify(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := s.verifier.Verify(ctx, body)
	if err != nil {
		var sigErr *signing.SignatureError
		status := http.StatusInternalServerError
		if errors.As(err, &sigErr) {
			status = http.StatusUnprocessableEntity
			if sigErr.Code == signing.ErrCodeMalformedXML {
				status = http.StatusBadRequest
			}
		}
		c.JSON(status, ErrorResponse{Error: "signature verification failed", Details: err.Error()})
		return
	}
	s.metrics.RecordVerification(result.Valid)

	response := VerifyResponse{
		Valid:          result.Valid,
		SignatureFound: result.SignatureFound,
		SignatureValid: result.SignatureValid,
		CertTrusted:    result.CertTrusted,
		SignedAt:       result.SignedAt,
		Warnings:       result.Warnings,
		Errors:         result.Errors,
	}
	if result.Signer != nil {
		response.Signer = &SignerInfoOutput{
			Name:         result.Signer.Name,
			Organization: result.Signer.Organization,
			SerialNumber: result.Signer.SerialNumber,
			Issuer:       result.Signer.Issuer,
			ValidFrom:    &result.Signer.ValidFrom,
			ValidTo:      &result.Signer.ValidTo,
		}
	}

	if result.Valid {
		c.JSON(http.StatusOK, response)
	} else {
		c.JSON(http.StatusUnprocessableEntity, response)
	}
}

func (s *Server) readBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return nil, false
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return nil, false
	}
	return body, true
}

func (s *Server) decodeInvoice(c *gin.Context) (*model.Invoice, bool) {
	body, ok := s.readBody(c)
	if !ok {
		return nil, false
	}
	inv, err := processor.Decode(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid invoice", Details: err.Error()})
		return nil, false
	}
	return inv, true
}

func (s *Server) exportError(c *gin.Context, err error) {
	var ve *model.ValidationError
	var ufe *exporter.UnsupportedFormatError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: ve.Error(), Violations: ve.Violations})
	case errors.As(err, &ufe):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: ufe.Error(), Available: ufe.Available})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "export cancelled", Details: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "export failed", Details: err.Error()})
	}
}

// exportOptions reads the pretty, confidence, validate and metadata query switches
func (s *Server) exportOptions(c *gin.Context) exporter.Options {
	opts := exporter.DefaultOptions()
	opts.Pretty = queryBool(c, "pretty", opts.Pretty)
	opts.IncludeConfidence = queryBool(c, "confidence", opts.IncludeConfidence)
	opts.Validate = queryBool(c, "validate", opts.Validate)
	opts.IncludeMetadata = queryBool(c, "metadata", opts.IncludeMetadata)
	opts.Now = s.now
	return opts
}

func queryBool(c *gin.Context, key string, def bool) bool {
	v, ok := c.GetQuery(key)
	if !ok {
		return def
	}
	if v == "" {
		return true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
