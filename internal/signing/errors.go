package signing

import "fmt"

// Error codes for signing and verification
const (
	ErrCodeNoSignature      = "NO_SIGNATURE"
	ErrCodeInvalidSignature = "INVALID_SIGNATURE"
	ErrCodeCertExpired      = "CERT_EXPIRED"
	ErrCodeCertNotYetValid  = "CERT_NOT_YET_VALID"
	ErrCodeUntrustedRoot    = "UNTRUSTED_ROOT"
	ErrCodeInvalidKeyPair   = "INVALID_KEY_PAIR"
	ErrCodeMalformedXML     = "MALFORMED_XML"
)

// SignatureError represents signing and verification failures
type SignatureError struct {
	Code    string
	Field   string
	Message string
	Cause   error
}

func (e *SignatureError) Error() string {
	if e.Field != "" && e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Code, e.Field, e.Message, e.Cause)
	}
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *SignatureError) Unwrap() error {
	return e.Cause
}

// NewSignatureError creates a new signature error
func NewSignatureError(code, field, message string, cause error) *SignatureError {
	return &SignatureError{
		Code:    code,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// ErrNoSignature returns error when no signature found in document
func ErrNoSignature() *SignatureError {
	return NewSignatureError(ErrCodeNoSignature, "", "no signature found in document", nil)
}

// ErrInvalidSignature returns error when signature validation fails
func ErrInvalidSignature(cause error) *SignatureError {
	return NewSignatureError(ErrCodeInvalidSignature, "signature", "signature validation failed", cause)
}

// ErrCertExpired returns error when certificate has expired
func ErrCertExpired(subject string) *SignatureError {
	return NewSignatureError(ErrCodeCertExpired, "certificate", fmt.Sprintf("certificate expired: %s", subject), nil)
}

// ErrCertNotYetValid returns error when certificate is not yet valid
func ErrCertNotYetValid(subject string) *SignatureError {
	return NewSignatureError(ErrCodeCertNotYetValid, "certificate", fmt.Sprintf("certificate not yet valid: %s", subject), nil)
}

// ErrUntrustedRoot returns error when the signer does not chain to a trusted root
func ErrUntrustedRoot(cause error) *SignatureError {
	return NewSignatureError(ErrCodeUntrustedRoot, "chain", "certificate does not chain to a trusted root", cause)
}

// ErrInvalidKeyPair returns error when the signing key pair cannot be used
func ErrInvalidKeyPair(cause error) *SignatureError {
	return NewSignatureError(ErrCodeInvalidKeyPair, "key", "signing key pair unusable", cause)
}

// ErrMalformedXML returns error when the input is not a well-formed document
func ErrMalformedXML(cause error) *SignatureError {
	return NewSignatureError(ErrCodeMalformedXML, "", "malformed XML document", cause)
}
