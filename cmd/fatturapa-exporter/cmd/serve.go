package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rezonia/fatturapa-exporter/internal/server"
	"github.com/rezonia/fatturapa-exporter/internal/signing"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
	maxBodyBytes int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for exporting invoices.

The API provides endpoints for:
  - POST /api/v1/export/:format - Export one invoice (xml, json, validation, raw)
  - POST /api/v1/batch          - Export an array of invoices
  - POST /api/v1/validate       - Validate an invoice
  - POST /api/v1/classify       - Determine the document type
  - POST /api/v1/verify         - Verify a signed FatturaPA XML
  - GET  /api/v1/codes          - FatturaPA code tables
  - GET  /health                - Health check
  - GET  /metrics               - Prometheus metrics

Settings default to the FATTURAPA_* environment variables.

Examples:
  # Start server on default port
  fatturapa-exporter serve

  # Sign every XML export
  fatturapa-exporter serve --sign-cert cert.pem --sign-key key.pem

  # Start in debug mode
  fatturapa-exporter serve --address :9090 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", "", "Server listen address (default: FATTURAPA_ADDR or :8080)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 0, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 0, "HTTP write timeout")
	serveCmd.Flags().Int64Var(&maxBodyBytes, "max-body", server.DefaultMaxBodyBytes, "Maximum request body size in bytes")
	serveCmd.Flags().StringVar(&signCert, "sign-cert", "", "PEM certificate used to sign XML exports")
	serveCmd.Flags().StringVar(&signKey, "sign-key", "", "PEM private key used to sign XML exports")
	serveCmd.Flags().StringVar(&caFile, "ca-file", "", "Trusted root certificates for /verify (PEM)")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &server.Config{
		Address:      firstNonEmpty(serverAddr, cfg.Address),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		Debug:        serverDebug || cfg.Debug,
		Workers:      cfg.BatchWorkers,
		MaxBodyBytes: maxBodyBytes,
	}
	if readTimeout > 0 {
		config.ReadTimeout = readTimeout
	}
	if writeTimeout > 0 {
		config.WriteTimeout = writeTimeout
	}

	var opts []server.Option

	certFile, keyFile := signCert, signKey
	if certFile == "" && keyFile == "" && cfg.SigningEnabled() {
		certFile, keyFile = cfg.SignCert, cfg.SignKey
	}
	if certFile != "" || keyFile != "" {
		signer, err := signing.LoadSigner(certFile, keyFile)
		if err != nil {
			return err
		}
		opts = append(opts, server.WithSigner(signer))
	}

	if roots := firstNonEmpty(caFile, cfg.TrustRoots); roots != "" {
		store, err := signing.LoadTrustStore(roots)
		if err != nil {
			return fmt.Errorf("failed to create trust store: %w", err)
		}
		opts = append(opts, server.WithTrustStore(store))
	}

	srv := server.NewServer(config, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("address", config.Address).
		Bool("signing", certFile != "").
		Msg("starting server")

	return srv.Run(ctx)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
