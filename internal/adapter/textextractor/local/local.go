// Package local extracts text from resumes without an external service.
// PDFs are parsed in process; plain text files are read directly. Word
// documents need the Tika extractor.
package local

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
	"github.com/rakeshbhasyam/RecruitIQ/pkg/textx"
)

// Extractor implements domain.TextExtractor for .pdf and .txt files.
type Extractor struct{}

// New constructs a local extractor.
func New() *Extractor { return &Extractor{} }

// ExtractPath returns the plain text content of the file at path.
func (e *Extractor) ExtractPath(_ context.Context, fileName, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".pdf":
		return extractPDF(fileName, path)
	case ".txt":
		b, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return "", fmt.Errorf("%w: read %s: %v", domain.ErrExtraction, fileName, err)
		}
		out := textx.CollapseSpaces(textx.SanitizeText(string(b)))
		if out == "" {
			return "", fmt.Errorf("%w: empty file %s", domain.ErrExtraction, fileName)
		}
		return out, nil
	default:
		// .doc and .docx need a Tika server.
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}
}

func extractPDF(fileName, path string) (string, error) {
	f, r, err := pdf.Open(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", domain.ErrExtraction, fileName, err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	rd, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrExtraction, fileName, err)
	}
	if _, err := buf.ReadFrom(rd); err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrExtraction, fileName, err)
	}
	out := textx.CollapseSpaces(textx.SanitizeText(buf.String()))
	if out == "" {
		return "", fmt.Errorf("%w: no text extracted from %s", domain.ErrExtraction, fileName)
	}
	return out, nil
}
