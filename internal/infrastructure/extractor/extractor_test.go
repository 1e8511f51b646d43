package extractor

import (
	"context"
	"strings"
	"testing"
)

func TestExtractPlainTextPassthrough(t *testing.T) {
	text, err := New().Extract(context.Background(), "notes.txt", []byte("  meeting notes\nline two  \n"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "meeting notes\nline two" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractRejectsBinaryNonPDF(t *testing.T) {
	_, err := New().Extract(context.Background(), "photo.jpg", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00})
	if err == nil || !strings.Contains(err.Error(), "photo.jpg") {
		t.Fatalf("expected binary rejection naming the file, got %v", err)
	}
}

func TestExtractMalformedPDFFails(t *testing.T) {
	_, err := New().Extract(context.Background(), "broken.pdf", []byte("%PDF-1.4 garbage"))
	if err == nil {
		t.Fatalf("expected parse error for malformed pdf")
	}
}
