package signing_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fatturaxml "github.com/rezonia/fatturapa-exporter/internal/exporter/xml"
	"github.com/rezonia/fatturapa-exporter/internal/model/modeltest"
	"github.com/rezonia/fatturapa-exporter/internal/signing"
)

var signedAt = time.Date(2024, 3, 16, 9, 30, 0, 0, time.UTC)

type keyPair struct {
	tls  tls.Certificate
	cert *x509.Certificate
	key  *rsa.PrivateKey
}

func newKeyPair(t *testing.T, cn string, parent *keyPair, isCA bool) *keyPair {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: cn, Organization: []string{"Fornitore S.r.l."}},
		NotBefore:             time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		NotAfter:              time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
		IsCA:                  isCA,
	}

	issuer, signer := tmpl, key
	if parent != nil {
		issuer, signer = parent.cert, parent.key
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, issuer, &key.PublicKey, signer)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	return &keyPair{
		tls:  tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key},
		cert: cert,
		key:  key,
	}
}

func exported(t *testing.T, opts ...fatturaxml.Option) []byte {
	t.Helper()
	out, err := fatturaxml.NewExporter(opts...).Export(modeltest.Minimal())
	require.NoError(t, err)
	return []byte(out)
}

func sign(t *testing.T, kp *keyPair, data []byte) []byte {
	t.Helper()
	s, err := signing.NewSigner(kp.tls, signing.WithSignerClock(func() time.Time { return signedAt }))
	require.NoError(t, err)
	signed, err := s.Sign(data)
	require.NoError(t, err)
	return signed
}

func verifyAt(t *testing.T, data []byte, opts ...signing.VerifierOption) *signing.VerificationResult {
	t.Helper()
	opts = append(opts, signing.WithVerifierClock(func() time.Time { return signedAt }))
	result, err := signing.NewVerifier(opts...).Verify(context.Background(), data)
	require.NoError(t, err)
	return result
}

func TestSignAndVerify_RoundTrip(t *testing.T) {
	kp := newKeyPair(t, "Mario Rossi", nil, false)
	signed := sign(t, kp, exported(t))

	assert.Contains(t, string(signed), "<ds:Signature")
	assert.Contains(t, string(signed), "<ds:X509Certificate>")

	result := verifyAt(t, signed)
	assert.True(t, result.Valid)
	assert.True(t, result.SignatureFound)
	assert.True(t, result.SignatureValid)
	assert.False(t, result.CertTrusted)
	assert.NotEmpty(t, result.Warnings)

	require.NotNil(t, result.Signer)
	assert.Equal(t, "Mario Rossi", result.Signer.Name)
	assert.Equal(t, "Fornitore S.r.l.", result.Signer.Organization)

	require.NotNil(t, result.SignedAt)
	assert.True(t, signedAt.Equal(*result.SignedAt))
}

func TestSignAndVerify_IndentedDocument(t *testing.T) {
	kp := newKeyPair(t, "Mario Rossi", nil, false)
	signed := sign(t, kp, exported(t, fatturaxml.WithFormatOutput(true)))

	result := verifyAt(t, signed)
	assert.True(t, result.SignatureValid, result.Errors)
}

func TestVerify_TamperedContent(t *testing.T) {
	kp := newKeyPair(t, "Mario Rossi", nil, false)
	signed := sign(t, kp, exported(t))

	require.Contains(t, string(signed), "<Numero>2024/001</Numero>")
	tampered := strings.Replace(string(signed), "<Numero>2024/001</Numero>", "<Numero>2024/999</Numero>", 1)

	result := verifyAt(t, []byte(tampered))
	assert.True(t, result.SignatureFound)
	assert.False(t, result.SignatureValid)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
}

func TestVerify_TrustStore(t *testing.T) {
	ca := newKeyPair(t, "Test CA", nil, true)
	leaf := newKeyPair(t, "Mario Rossi", ca, false)
	signed := sign(t, leaf, exported(t))

	t.Run("chains to trusted root", func(t *testing.T) {
		result := verifyAt(t, signed, signing.WithTrustStore(signing.NewTrustStore(ca.cert)))
		assert.True(t, result.Valid, result.Errors)
		assert.True(t, result.CertTrusted)
		assert.Len(t, result.CertChain, 2)
		assert.Equal(t, "Test CA", result.Signer.Issuer)
	})

	t.Run("unknown root", func(t *testing.T) {
		other := newKeyPair(t, "Other CA", nil, true)
		result := verifyAt(t, signed, signing.WithTrustStore(signing.NewTrustStore(other.cert)))
		assert.True(t, result.SignatureValid)
		assert.False(t, result.CertTrusted)
		assert.False(t, result.Valid)
		require.NotEmpty(t, result.Errors)
		assert.Contains(t, result.Errors[0], signing.ErrCodeUntrustedRoot)
	})
}

func TestVerify_ExpiredCertificate(t *testing.T) {
	kp := newKeyPair(t, "Mario Rossi", nil, false)
	signed := sign(t, kp, exported(t))

	late := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	result, err := signing.NewVerifier(signing.WithVerifierClock(func() time.Time { return late })).
		Verify(context.Background(), signed)
	require.NoError(t, err)

	assert.True(t, result.SignatureValid)
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], signing.ErrCodeCertExpired)
}

func TestVerify_NoSignature(t *testing.T) {
	result, err := signing.NewVerifier().Verify(context.Background(), exported(t))
	require.Error(t, err)

	var sigErr *signing.SignatureError
	require.True(t, errors.As(err, &sigErr))
	assert.Equal(t, signing.ErrCodeNoSignature, sigErr.Code)
	assert.False(t, result.SignatureFound)
	assert.False(t, result.Valid)
}

func TestVerify_MalformedXML(t *testing.T) {
	_, err := signing.NewVerifier().Verify(context.Background(), []byte("<unclosed"))

	var sigErr *signing.SignatureError
	require.True(t, errors.As(err, &sigErr))
	assert.Equal(t, signing.ErrCodeMalformedXML, sigErr.Code)
}

func TestVerify_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := signing.NewVerifier().Verify(ctx, exported(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadSigner(t *testing.T) {
	kp := newKeyPair(t, "Mario Rossi", nil, false)
	dir := t.TempDir()

	certFile := filepath.Join(dir, "cert.pem")
	keyFile := filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: kp.tls.Certificate[0]}), 0o600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(kp.key)}), 0o600))

	s, err := signing.LoadSigner(certFile, keyFile)
	require.NoError(t, err)
	assert.Equal(t, "Mario Rossi", s.Certificate().Subject.CommonName)

	_, err = signing.LoadSigner(filepath.Join(dir, "missing.pem"), keyFile)
	var sigErr *signing.SignatureError
	require.True(t, errors.As(err, &sigErr))
	assert.Equal(t, signing.ErrCodeInvalidKeyPair, sigErr.Code)
}

func TestNewSigner_RejectsEmptyPair(t *testing.T) {
	_, err := signing.NewSigner(tls.Certificate{})
	require.Error(t, err)
}

func TestSign_MalformedInput(t *testing.T) {
	kp := newKeyPair(t, "Mario Rossi", nil, false)
	s, err := signing.NewSigner(kp.tls)
	require.NoError(t, err)

	_, err = s.Sign([]byte("not xml"))
	require.Error(t, err)
}
