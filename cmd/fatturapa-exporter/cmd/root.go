package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/fatturapa-exporter/internal/config"
	"github.com/rezonia/fatturapa-exporter/internal/logger"
)

var (
	version = "1.0.0"

	// Global flags
	verbose    bool
	jsonOutput bool
	envFile    string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fatturapa-exporter",
	Short: "Export extracted invoices to FatturaPA XML and JSON",
	Long: `FatturaPA Exporter turns invoices extracted with per-field confidence
scores into documents for the Italian Sistema di Interscambio (SDI).

Supports:
  - FatturaPA XML (FPR12 / FPA12), optionally signed with XMLDSig
  - Structured JSON, a flat validation projection and the cleaned raw model
  - Document-type classification, required-field and consistency checks
  - Signature verification and XLSX batch reports

Examples:
  # Export one invoice to FatturaPA XML
  fatturapa-exporter export invoice.json -o invoice.xml

  # Export a folder to JSON with confidence scores
  fatturapa-exporter export extracted/ --format json --confidence -o out/

  # Check an invoice before export
  fatturapa-exporter validate invoice.json`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print machine-readable JSON instead of text")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file with FATTURAPA_* settings")
}

func initConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(envFile)
	if err != nil {
		return err
	}
	cfg = c

	logCfg := cfg.LoggerConfig()
	if verbose {
		logCfg.Level = "debug"
	}
	if err := logger.Setup(logCfg); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	return nil
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
