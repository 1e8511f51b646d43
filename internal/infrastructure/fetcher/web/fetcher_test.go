package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>Turn Time Benchmarks</title>
	<style>body { color: red; }</style>
</head>
<body>
	<script>trackVisit();</script>
	<h1>Industry Benchmarks</h1>
	<p>Average clear-to-close is 45 days.</p>
</body>
</html>`

func TestFetchTextExtractsTitleAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	title, text, err := New().FetchText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchText() error = %v", err)
	}
	if title != "Turn Time Benchmarks" {
		t.Fatalf("title = %q", title)
	}
	if !strings.Contains(text, "Average clear-to-close is 45 days.") {
		t.Fatalf("body text missing:\n%s", text)
	}
	if strings.Contains(text, "trackVisit") || strings.Contains(text, "color: red") {
		t.Fatalf("script/style content leaked into text:\n%s", text)
	}
}

func TestFetchTextNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, _, err := New().FetchText(context.Background(), server.URL)
	if err == nil || !strings.Contains(err.Error(), "status") {
		t.Fatalf("expected status error, got %v", err)
	}
}
