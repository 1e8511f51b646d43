package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	maxBodyBytes   = 2 << 20
	requestTimeout = 15 * time.Second
)

// Fetcher retrieves a cited web page and reduces it to readable text. Script
// and style subtrees are skipped; everything else contributes its text nodes.
type Fetcher struct {
	httpClient *http.Client
}

func New() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

func (f *Fetcher) FetchText(ctx context.Context, url string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", fmt.Errorf("create page request: %w", err)
	}
	req.Header.Set("User-Agent", "TellCMG/1.0 (idea reference fetcher)")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("fetch page %s: status %s", url, resp.Status)
	}

	title, text, err := extract(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", "", fmt.Errorf("parse page %s: %w", url, err)
	}
	return title, text, nil
}

func extract(body io.Reader) (string, string, error) {
	tokenizer := html.NewTokenizer(body)

	var (
		title   string
		text    strings.Builder
		inTitle bool
		skip    int
	)
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if tokenizer.Err() == io.EOF {
				return title, strings.TrimSpace(text.String()), nil
			}
			return "", "", tokenizer.Err()

		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "title":
				inTitle = true
			case "script", "style", "noscript":
				skip++
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "title":
				inTitle = false
			case "script", "style", "noscript":
				if skip > 0 {
					skip--
				}
			}

		case html.TextToken:
			content := strings.TrimSpace(string(tokenizer.Text()))
			if content == "" {
				continue
			}
			if inTitle {
				if title == "" {
					title = content
				}
				continue
			}
			if skip > 0 {
				continue
			}
			if text.Len() > 0 {
				text.WriteByte('\n')
			}
			text.WriteString(content)
		}
	}
}
