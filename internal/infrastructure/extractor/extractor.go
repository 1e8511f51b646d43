package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Extractor converts uploaded attachments into plain text for the prompt
// assembler. PDFs go through a real parser; everything else must already be
// valid UTF-8 text.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, filename string, data []byte) (string, error) {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return extractPDF(filename, data)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("unsupported binary attachment: %s", filename)
	}
	return strings.TrimSpace(string(data)), nil
}

func extractPDF(filename string, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf %s: %w", filename, err)
	}

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text %s: %w", filename, err)
	}
	text, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("read pdf text %s: %w", filename, err)
	}
	return strings.TrimSpace(string(text)), nil
}
