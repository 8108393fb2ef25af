package signing

import (
	"context"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
)

// Verifier checks enveloped XMLDSig signatures on FatturaPA documents
type Verifier struct {
	trustStore *TrustStore
	now        func() time.Time
}

// VerifierOption configures a Verifier
type VerifierOption func(*Verifier)

// WithTrustStore anchors signer certificates to the given roots
func WithTrustStore(ts *TrustStore) VerifierOption {
	return func(v *Verifier) {
		v.trustStore = ts
	}
}

// WithVerifierClock overrides the time certificates are checked at
func WithVerifierClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.now = now
	}
}

// NewVerifier creates a verifier. Without a trust store the signer certificate is
// accepted as its own anchor and the result carries a warning.
func NewVerifier(opts ...VerifierOption) *Verifier {
	v := &Verifier{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify verifies the enveloped signature in the given XML data.
// A missing signature returns ErrNoSignature alongside the result.
func (v *Verifier) Verify(ctx context.Context, data []byte) (*VerificationResult, error) {
	result := NewVerificationResult()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		result.AddError(fmt.Sprintf("failed to parse XML: %v", err))
		return result, ErrMalformedXML(err)
	}
	root := doc.Root()
	if root == nil {
		result.AddError("empty XML document")
		return result, ErrMalformedXML(nil)
	}

	sig := findSignature(root)
	if sig == nil {
		result.AddError("no Signature element found in document")
		return result, ErrNoSignature()
	}
	result.SignatureFound = true

	cert, err := signerCertificate(sig)
	if err != nil {
		result.AddError(err.Error())
		result.ComputeValidity()
		return result, nil
	}
	result.SetSigner(cert)

	now := v.now()
	switch {
	case now.Before(cert.NotBefore):
		result.AddError(ErrCertNotYetValid(cert.Subject.CommonName).Error())
	case now.After(cert.NotAfter):
		result.AddError(ErrCertExpired(cert.Subject.CommonName).Error())
	}

	if v.trustStore.Len() == 0 {
		result.AddWarning("no trust roots configured: signer certificate not anchored")
	} else if chain, err := v.trustStore.VerifyChain(cert, nil, now); err != nil {
		result.AddError(ErrUntrustedRoot(err).Error())
	} else {
		result.CertTrusted = true
		result.CertChain = chain
	}

	// The signer certificate is pinned so goxmldsig checks the signature math only;
	// trust is decided above.
	validationCtx := dsig.NewDefaultValidationContext(&dsig.MemoryX509CertificateStore{
		Roots: []*x509.Certificate{cert},
	})
	validationCtx.Clock = dsig.NewFakeClockAt(clampToValidity(now, cert))

	if _, err := validationCtx.Validate(root); err != nil {
		result.AddError(ErrInvalidSignature(err).Error())
	} else {
		result.SignatureValid = true
	}

	result.SignedAt = signingTime(sig)

	result.ComputeValidity()
	return result, nil
}

// clampToValidity keeps goxmldsig from rejecting on validity window, which is reported separately.
func clampToValidity(t time.Time, cert *x509.Certificate) time.Time {
	if t.Before(cert.NotBefore) {
		return cert.NotBefore
	}
	if t.After(cert.NotAfter) {
		return cert.NotAfter
	}
	return t
}

// findSignature searches for a Signature element, direct children first
func findSignature(root *etree.Element) *etree.Element {
	for _, child := range root.ChildElements() {
		if child.Tag == "Signature" {
			return child
		}
	}
	for _, child := range root.ChildElements() {
		if found := findSignature(child); found != nil {
			return found
		}
	}
	return nil
}

func signerCertificate(sig *etree.Element) (*x509.Certificate, error) {
	el := sig.FindElement("KeyInfo/X509Data/X509Certificate")
	if el == nil || strings.TrimSpace(el.Text()) == "" {
		return nil, fmt.Errorf("no X509Certificate found in Signature")
	}

	der, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(el.Text()), ""))
	if err != nil {
		return nil, fmt.Errorf("failed to decode certificate: %w", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}
	return cert, nil
}

func signingTime(sig *etree.Element) *time.Time {
	paths := []string{
		"Object/SignatureProperties/SignatureProperty/SigningTime",
		"Object/QualifyingProperties/SignedProperties/SignedSignatureProperties/SigningTime",
	}

	for _, path := range paths {
		if el := sig.FindElement(path); el != nil {
			if t, err := time.Parse(SigningTimeLayout, strings.TrimSpace(el.Text())); err == nil {
				return &t
			}
			if t, err := time.Parse("2006-01-02T15:04:05", strings.TrimSpace(el.Text())); err == nil {
				return &t
			}
		}
	}
	return nil
}
