package attachment_test

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fatturapa-exporter/internal/attachment"
)

// onePagePDF assembles a minimal PDF with a correct cross-reference table.
func onePagePDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 595 842] >>",
		"<< /Type /Page /Parent 2 0 R /Resources << >> >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestNew_PDF(t *testing.T) {
	f, err := attachment.New("timesheet.pdf", "Timesheet", onePagePDF())
	require.NoError(t, err)

	assert.Equal(t, attachment.FormatPDF, f.Format)
	assert.Equal(t, 1, f.Pages)
	assert.Equal(t, "Timesheet", f.Description)
}

func TestNew_BrokenPDF(t *testing.T) {
	_, err := attachment.New("broken.pdf", "", []byte("%PDF-1.4\nthis is not a pdf"))
	assert.Error(t, err)
}

func TestNew_OtherFormats(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		format   string
	}{
		{"text", "notes.txt", "TXT"},
		{"csv", "rows.csv", "CSV"},
		{"no extension", "README", ""},
		{"long extension truncated", "file.abcdefghijklm", "ABCDEFGHIJ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := attachment.New(tt.fileName, "", []byte("hello"))
			require.NoError(t, err)
			assert.Equal(t, tt.format, f.Format)
			assert.Zero(t, f.Pages)
			assert.Equal(t, 5, f.Size)
		})
	}
}

func TestNew_Empty(t *testing.T) {
	_, err := attachment.New("empty.txt", "", nil)
	assert.Error(t, err)
}

func TestFile_Encoded(t *testing.T) {
	f, err := attachment.New("a.txt", "", []byte("Fattura & allegato"))
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(f.Encoded())
	require.NoError(t, err)
	assert.Equal(t, "Fattura & allegato", string(decoded))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ddt.pdf")
	require.NoError(t, os.WriteFile(path, onePagePDF(), 0o600))

	f, err := attachment.Load(path, "DDT")
	require.NoError(t, err)
	assert.Equal(t, "ddt.pdf", f.Name)
	assert.Equal(t, 1, f.Pages)

	_, err = attachment.Load(filepath.Join(t.TempDir(), "missing.pdf"), "")
	assert.Error(t, err)
}

func TestIsPDF(t *testing.T) {
	assert.True(t, attachment.IsPDF([]byte("%PDF-1.7")))
	assert.False(t, attachment.IsPDF([]byte("<xml/>")))
}
