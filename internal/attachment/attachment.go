// Package attachment loads files to be embedded in the Allegati block of an
// exported invoice.
package attachment

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Maximum length of NomeAttachment and FormatoAttachment.
const (
	maxNameLen   = 60
	maxFormatLen = 10
)

// FormatPDF is the FormatoAttachment value of PDF files.
const FormatPDF = "PDF"

func init() {
	// Keep pdfcpu from creating a configuration directory on first use.
	pdfmodel.ConfigPath = "disable"
}

// File is one attachment ready for embedding.
type File struct {
	Name        string `json:"name"`
	Format      string `json:"format"`
	Description string `json:"description,omitempty"`
	Pages       int    `json:"pages,omitempty"`
	Size        int    `json:"size"`
	Data        []byte `json:"-"`
}

// Encoded returns the payload as standard base64.
func (f File) Encoded() string {
	return base64.StdEncoding.EncodeToString(f.Data)
}

// Load reads an attachment from disk.
func Load(path, description string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read attachment %s: %w", path, err)
	}
	return New(filepath.Base(path), description, data)
}

// New builds an attachment from memory. PDF payloads are validated and their
// pages counted; a broken PDF is rejected.
func New(name, description string, data []byte) (File, error) {
	if len(data) == 0 {
		return File{}, fmt.Errorf("attachment %s is empty", name)
	}

	f := File{
		Name:        truncate(name, maxNameLen),
		Format:      formatOf(name, data),
		Description: description,
		Size:        len(data),
		Data:        data,
	}

	if f.Format == FormatPDF {
		pages, err := inspectPDF(data)
		if err != nil {
			return File{}, fmt.Errorf("attachment %s: %w", name, err)
		}
		f.Pages = pages
	}

	return f, nil
}

// IsPDF reports whether data starts with the PDF magic header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-"))
}

func inspectPDF(data []byte) (int, error) {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return 0, fmt.Errorf("invalid PDF: %w", err)
	}
	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("count PDF pages: %w", err)
	}
	return pages, nil
}

func formatOf(name string, data []byte) string {
	if IsPDF(data) {
		return FormatPDF
	}
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return truncate(strings.ToUpper(ext), maxFormatLen)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
