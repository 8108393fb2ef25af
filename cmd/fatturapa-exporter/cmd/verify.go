package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/fatturapa-exporter/internal/signing"
)

var caFile string

var verifyCmd = &cobra.Command{
	Use:   "verify [files...]",
	Short: "Verify XMLDSig signatures of FatturaPA files",
	Long: `Verify enveloped XMLDSig signatures on exported FatturaPA XML files.

Verifies:
  - Signature validity (digest and RSA-SHA256 signature value)
  - Signer certificate validity period
  - Certificate chain, when trusted roots are given with --ca-file
    or FATTURAPA_TRUST_ROOTS

Examples:
  # Verify a signed export
  fatturapa-exporter verify invoice.xml

  # Require the signer to chain to a company CA
  fatturapa-exporter verify --ca-file company-ca.pem invoice.xml

  # JSON output
  fatturapa-exporter verify --json signed/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&caFile, "ca-file", "", "Trusted root certificates (PEM)")
}

// VerifyResult is the verification outcome of one file
type VerifyResult struct {
	File string `json:"file"`
	*signing.VerificationResult
	Error string `json:"error,omitempty"`
}

func runVerify(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, ".xml")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to verify")
	}

	var opts []signing.VerifierOption
	roots := caFile
	if roots == "" {
		roots = cfg.TrustRoots
	}
	if roots != "" {
		store, err := signing.LoadTrustStore(roots)
		if err != nil {
			return fmt.Errorf("failed to create trust store: %w", err)
		}
		printVerbose("Loaded %d trusted roots from %s\n", store.Len(), roots)
		opts = append(opts, signing.WithTrustStore(store))
	}
	verifier := signing.NewVerifier(opts...)

	results := make([]*VerifyResult, 0, len(files))
	allValid := true
	for _, file := range files {
		printVerbose("Verifying: %s\n", file)

		result := verifyFile(cmd.Context(), verifier, file)
		results = append(results, result)
		if result.VerificationResult == nil || !result.Valid {
			allValid = false
		}
	}

	if jsonOutput {
		if err := printJSON(results); err != nil {
			return err
		}
	} else {
		printVerifyResults(results)
	}

	if !allValid {
		return fmt.Errorf("one or more signatures are invalid")
	}
	return nil
}

func verifyFile(ctx context.Context, verifier *signing.Verifier, file string) *VerifyResult {
	result := &VerifyResult{File: file}

	data, err := os.ReadFile(file)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read file: %v", err)
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	vr, err := verifier.Verify(ctx, data)
	result.VerificationResult = vr
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

func printVerifyResults(results []*VerifyResult) {
	for _, r := range results {
		valid := r.VerificationResult != nil && r.Valid
		statusIcon := "✓"
		statusText := "VALID"
		if !valid {
			statusIcon = "✗"
			statusText = "INVALID"
		}
		fmt.Printf("%s %s: %s\n", statusIcon, r.File, statusText)

		if r.Error != "" {
			fmt.Printf("  Error:  %s\n", r.Error)
		}
		if r.VerificationResult == nil {
			fmt.Println()
			continue
		}

		if r.Signer != nil {
			fmt.Printf("  Signer: %s\n", r.Signer.Name)
			if r.Signer.Organization != "" {
				fmt.Printf("  Org:    %s\n", r.Signer.Organization)
			}
			if r.Signer.Issuer != "" {
				fmt.Printf("  Issuer: %s\n", r.Signer.Issuer)
			}
		}
		if r.SignedAt != nil {
			fmt.Printf("  Signed: %s\n", r.SignedAt.Format(time.RFC3339))
		}

		fmt.Printf("  Checks: signature %s, certificate %s\n", check(r.SignatureValid), check(r.CertTrusted))

		for _, e := range r.Errors {
			fmt.Printf("  ✗ %s\n", e)
		}
		for _, w := range r.Warnings {
			fmt.Printf("  ! %s\n", w)
		}
		fmt.Println()
	}
}

func check(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
