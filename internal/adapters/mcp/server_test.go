package mcpadapter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
)

type structurerFake struct {
	document string
	err      error
	last     domain.IdeaDraft
}

func (f *structurerFake) Structure(_ context.Context, draft domain.IdeaDraft) (string, error) {
	f.last = draft
	return f.document, f.err
}

type submitterFake struct {
	err            error
	calls          int
	lastDocument   string
	lastCategories []string
	lastEmail      string
}

func (f *submitterFake) Submit(_ context.Context, document string, categories []string, email string) error {
	f.calls++
	f.lastDocument = document
	f.lastCategories = categories
	f.lastEmail = email
	return f.err
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatalf("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestStructureToolReturnsDocument(t *testing.T) {
	structurer := &structurerFake{document: "# Structured"}
	srv := NewServer(structurer, &submitterFake{}, domain.NewCatalog())

	result, err := srv.structureHandler(context.Background(), toolRequest(map[string]any{
		"transcript": "automate disclosures",
		"categories": "doc-mgmt, sla",
		"context":    "east coast branches",
	}))
	if err != nil {
		t.Fatalf("structureHandler: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if got := resultText(t, result); got != "# Structured" {
		t.Fatalf("result = %q", got)
	}
	if structurer.last.RawText != "automate disclosures" {
		t.Fatalf("transcript = %q", structurer.last.RawText)
	}
	if len(structurer.last.Categories) != 2 || structurer.last.Categories[1] != "sla" {
		t.Fatalf("categories = %v", structurer.last.Categories)
	}
	if structurer.last.Context != "east coast branches" {
		t.Fatalf("context = %q", structurer.last.Context)
	}
}

func TestStructureToolReportsFailure(t *testing.T) {
	structurer := &structurerFake{err: errors.New("model offline")}
	srv := NewServer(structurer, &submitterFake{}, domain.NewCatalog())

	result, err := srv.structureHandler(context.Background(), toolRequest(map[string]any{
		"transcript": "anything",
	}))
	if err != nil {
		t.Fatalf("structureHandler: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error result")
	}
	if got := resultText(t, result); !strings.Contains(got, "model offline") {
		t.Fatalf("error text = %q", got)
	}
}

func TestSubmitToolForwardsFields(t *testing.T) {
	submitter := &submitterFake{}
	srv := NewServer(&structurerFake{}, submitter, domain.NewCatalog())

	result, err := srv.submitHandler(context.Background(), toolRequest(map[string]any{
		"document":        "## Idea\nbody",
		"categories":      "doc-mgmt",
		"submitter_email": "lo@cmg.com",
	}))
	if err != nil {
		t.Fatalf("submitHandler: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if submitter.calls != 1 {
		t.Fatalf("submit calls = %d", submitter.calls)
	}
	if submitter.lastDocument != "## Idea\nbody" || submitter.lastEmail != "lo@cmg.com" {
		t.Fatalf("forwarded document=%q email=%q", submitter.lastDocument, submitter.lastEmail)
	}
	if len(submitter.lastCategories) != 1 || submitter.lastCategories[0] != "doc-mgmt" {
		t.Fatalf("categories = %v", submitter.lastCategories)
	}
}

func TestSubmitToolReportsFailure(t *testing.T) {
	submitter := &submitterFake{err: errors.New("smtp refused")}
	srv := NewServer(&structurerFake{}, submitter, domain.NewCatalog())

	result, err := srv.submitHandler(context.Background(), toolRequest(map[string]any{
		"document": "## Idea",
	}))
	if err != nil {
		t.Fatalf("submitHandler: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error result")
	}
}

func TestListCategoriesIncludesCatalogEntries(t *testing.T) {
	srv := NewServer(&structurerFake{}, &submitterFake{}, domain.NewCatalog())

	result, err := srv.listCategoriesHandler(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("listCategoriesHandler: %v", err)
	}
	got := resultText(t, result)
	for _, want := range []string{`"doc-mgmt"`, `"SLA / Turn Time"`, `"los-tech"`} {
		if !strings.Contains(got, want) {
			t.Fatalf("listing missing %s:\n%s", want, got)
		}
	}
}

func TestSplitListTrimsAndDropsEmpty(t *testing.T) {
	got := splitList(" doc-mgmt , , sla ")
	if len(got) != 2 || got[0] != "doc-mgmt" || got[1] != "sla" {
		t.Fatalf("splitList = %v", got)
	}
	if splitList("  ") != nil {
		t.Fatal("blank input should yield nil")
	}
}
