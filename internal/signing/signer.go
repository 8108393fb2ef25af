package signing

import (
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"time"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
)

// NamespaceDSig is the XMLDSig namespace
const NamespaceDSig = "http://www.w3.org/2000/09/xmldsig#"

// SigningTimeLayout is how the informational signing time is written
const SigningTimeLayout = time.RFC3339

// Signer appends an enveloped XMLDSig signature to FatturaPA documents
type Signer struct {
	cert tls.Certificate
	leaf *x509.Certificate
	now  func() time.Time
}

// SignerOption configures a Signer
type SignerOption func(*Signer)

// WithSignerClock overrides the clock used for the signing time
func WithSignerClock(now func() time.Time) SignerOption {
	return func(s *Signer) {
		s.now = now
	}
}

// LoadSigner reads a PEM certificate and RSA private key pair
func LoadSigner(certFile, keyFile string, opts ...SignerOption) (*Signer, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, ErrInvalidKeyPair(err)
	}
	return NewSigner(cert, opts...)
}

// NewSigner creates a signer from an in-memory key pair
func NewSigner(cert tls.Certificate, opts ...SignerOption) (*Signer, error) {
	if len(cert.Certificate) == 0 {
		return nil, NewSignatureError(ErrCodeInvalidKeyPair, "certificate", "no certificate in key pair", nil)
	}
	if _, ok := cert.PrivateKey.(*rsa.PrivateKey); !ok {
		return nil, NewSignatureError(ErrCodeInvalidKeyPair, "key", "only RSA keys are supported", nil)
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, ErrInvalidKeyPair(err)
	}

	s := &Signer{cert: cert, leaf: leaf, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Certificate returns the signing certificate
func (s *Signer) Certificate() *x509.Certificate {
	return s.leaf
}

// Sign parses data, signs its root element and returns the serialized result
func (s *Signer) Sign(data []byte) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, ErrMalformedXML(err)
	}
	if err := s.SignDocument(doc); err != nil {
		return nil, err
	}
	return doc.WriteToBytes()
}

// SignDocument replaces the root of doc with its signed copy
func (s *Signer) SignDocument(doc *etree.Document) error {
	root := doc.Root()
	if root == nil {
		return ErrMalformedXML(nil)
	}

	ctx := dsig.NewDefaultSigningContext(dsig.TLSCertKeyStore(s.cert))
	if err := ctx.SetSignatureMethod(dsig.RSASHA256SignatureMethod); err != nil {
		return ErrInvalidKeyPair(err)
	}

	signed, err := ctx.SignEnveloped(root)
	if err != nil {
		return NewSignatureError(ErrCodeInvalidSignature, "signature", "signing failed", err)
	}

	// The Object sits outside SignedInfo, so it carries no integrity guarantee.
	if sig := findSignature(signed); sig != nil {
		obj := sig.CreateElement(ctx.Prefix + ":Object")
		props := obj.CreateElement(ctx.Prefix + ":SignatureProperties")
		prop := props.CreateElement(ctx.Prefix + ":SignatureProperty")
		prop.CreateAttr("Target", "")
		prop.CreateElement("SigningTime").SetText(s.now().UTC().Format(SigningTimeLayout))
	}

	doc.SetRoot(signed)
	return nil
}
