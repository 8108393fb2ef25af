package server

import (
	"time"

	"github.com/rezonia/fatturapa-exporter/internal/model"
	"github.com/rezonia/fatturapa-exporter/internal/validate"
)

// ValidationResponse is the response for validate endpoint
type ValidationResponse struct {
	Valid        bool               `json:"valid"`
	DocumentType string             `json:"document_type"`
	Errors       []model.Violation  `json:"errors,omitempty"`
	Warnings     []validate.Warning `json:"warnings,omitempty"`
}

// ClassifyResponse is the response for classify endpoint
type ClassifyResponse struct {
	DocumentType    string `json:"document_type"`
	Description     string `json:"description"`
	SupplierCountry string `json:"supplier_country,omitempty"`
	CustomerCountry string `json:"customer_country,omitempty"`
	ServiceLines    bool   `json:"service_lines"`
}

// BatchItemResponse is one entry of the batch endpoint response
type BatchItemResponse struct {
	ID           string             `json:"id"`
	Source       string             `json:"source"`
	Status       string             `json:"status"`
	DocumentType string             `json:"document_type,omitempty"`
	ContentType  string             `json:"content_type,omitempty"`
	Output       string             `json:"output,omitempty"`
	Warnings     []validate.Warning `json:"warnings,omitempty"`
	Error        string             `json:"error,omitempty"`
	Violations   []model.Violation  `json:"violations,omitempty"`
}

// BatchResponse is the response for batch endpoint
type BatchResponse struct {
	Format    string              `json:"format"`
	Total     int                 `json:"total"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Results   []BatchItemResponse `json:"results"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error      string            `json:"error"`
	Details    string            `json:"details,omitempty"`
	Violations []model.Violation `json:"violations,omitempty"`
	Available  []string          `json:"available,omitempty"`
}

// VerifyResponse is the response for signature verification endpoint
type VerifyResponse struct {
	Valid          bool              `json:"valid"`
	SignatureFound bool              `json:"signature_found"`
	SignatureValid bool              `json:"signature_valid"`
	CertTrusted    bool              `json:"cert_trusted"`
	Signer         *SignerInfoOutput `json:"signer,omitempty"`
	SignedAt       *time.Time        `json:"signed_at,omitempty"`
	Warnings       []string          `json:"warnings,omitempty"`
	Errors         []string          `json:"errors,omitempty"`
}

// SignerInfoOutput holds signer info for API response
type SignerInfoOutput struct {
	Name         string     `json:"name,omitempty"`
	Organization string     `json:"organization,omitempty"`
	SerialNumber string     `json:"serial_number,omitempty"`
	Issuer       string     `json:"issuer,omitempty"`
	ValidFrom    *time.Time `json:"valid_from,omitempty"`
	ValidTo      *time.Time `json:"valid_to,omitempty"`
}
