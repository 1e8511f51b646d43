package usecase

import (
	"strings"
	"testing"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
)

func newAssembler() *PromptAssembler {
	return NewPromptAssembler(domain.NewCatalog())
}

func TestAssembleSectionOrderIsStable(t *testing.T) {
	draft := domain.IdeaDraft{
		RawText:       "Add e-sign to disclosures",
		Categories:    []string{"doc-mgmt"},
		DetailLevel:   domain.DetailBalanced,
		OutputFormat:  domain.FormatStructured,
		Modifiers:     []string{"roi-impact"},
		Context:       "Borrowers still print and scan.",
		Attachments:   []domain.Attachment{{Name: "notes.txt", Content: "wet signatures everywhere"}},
		URLReferences: []domain.URLReference{{Title: "E-sign study", URL: "https://example.com/esign", Content: "study text"}},
	}

	out := newAssembler().Assemble(draft)

	if !strings.Contains(out, draft.RawText) {
		t.Fatalf("assembled prompt does not contain raw idea text")
	}

	sections := []string{"IDEA:", "CATEGORIES:", "DETAIL:", "FORMAT:", "CONTEXT:", "ATTACHED FILES:", "REFERENCED URLS:", "REQUIREMENTS:"}
	last := -1
	for _, marker := range sections {
		idx := strings.Index(out, marker)
		if idx < 0 {
			t.Fatalf("section %q missing from assembled prompt", marker)
		}
		if idx < last {
			t.Fatalf("section %q out of order", marker)
		}
		last = idx
	}
}

func TestAssembleCategoryRendering(t *testing.T) {
	out := newAssembler().Assemble(domain.IdeaDraft{
		RawText:    "idea",
		Categories: []string{"doc-mgmt", "automation"},
	})
	want := "CATEGORIES: doc-mgmt (document handling, e-sign, and storage) + automation (automating manual tasks and processes)"
	if !strings.Contains(out, want) {
		t.Fatalf("category list not rendered as expected:\n%s", out)
	}
}

func TestAssembleNoCategoriesUsesGeneralPhrase(t *testing.T) {
	out := newAssembler().Assemble(domain.IdeaDraft{RawText: "idea"})
	if !strings.Contains(out, "CATEGORIES: general improvement idea") {
		t.Fatalf("expected general improvement idea phrase, got:\n%s", out)
	}
}

func TestAssembleUnknownCategoryDegradesToGeneral(t *testing.T) {
	out := newAssembler().Assemble(domain.IdeaDraft{
		RawText:    "idea",
		Categories: []string{"quantum-loans"},
	})
	if !strings.Contains(out, "quantum-loans (general)") {
		t.Fatalf("unknown category should describe as general, got:\n%s", out)
	}
}

func TestAssembleDefaultsDetailAndFormat(t *testing.T) {
	out := newAssembler().Assemble(domain.IdeaDraft{
		RawText:      "idea",
		DetailLevel:  domain.DetailLevel("extreme"),
		OutputFormat: domain.OutputFormat("interpretive-dance"),
	})
	if !strings.Contains(out, "DETAIL: Provide moderate detail — enough to evaluate.") {
		t.Fatalf("unknown detail level should default to balanced")
	}
	if !strings.Contains(out, "FORMAT: Use clear markdown headers to organize into sections.") {
		t.Fatalf("unknown format should default to structured")
	}
}

func TestAssembleTruncatesAttachmentsSilently(t *testing.T) {
	big := strings.Repeat("a", attachmentRuneLimit+500)
	out := newAssembler().Assemble(domain.IdeaDraft{
		RawText:     "idea",
		Attachments: []domain.Attachment{{Name: "dump.txt", Content: big}},
	})
	if strings.Contains(out, big) {
		t.Fatalf("attachment content was not truncated")
	}
	if !strings.Contains(out, strings.Repeat("a", attachmentRuneLimit)) {
		t.Fatalf("truncated attachment content missing")
	}
}

func TestAssembleTruncatesURLReferences(t *testing.T) {
	big := strings.Repeat("b", urlReferenceRuneLimit+1)
	out := newAssembler().Assemble(domain.IdeaDraft{
		RawText:       "idea",
		URLReferences: []domain.URLReference{{Title: "ref", URL: "https://example.com", Content: big}},
	})
	if strings.Contains(out, big) {
		t.Fatalf("url reference content was not truncated")
	}
}

func TestAssembleDropsUnknownModifiers(t *testing.T) {
	out := newAssembler().Assemble(domain.IdeaDraft{
		RawText:   "idea",
		Modifiers: []string{"roi-impact", "does-not-exist"},
	})
	if !strings.Contains(out, "- Include estimated ROI and business impact") {
		t.Fatalf("known modifier missing")
	}
	if strings.Contains(out, "does-not-exist") {
		t.Fatalf("unknown modifier should be dropped silently")
	}
}

func TestAssembleOmitsEmptySections(t *testing.T) {
	out := newAssembler().Assemble(domain.IdeaDraft{RawText: "idea"})
	for _, marker := range []string{"CONTEXT:", "ATTACHED FILES:", "REFERENCED URLS:", "REQUIREMENTS:"} {
		if strings.Contains(out, marker) {
			t.Fatalf("empty section %q should be omitted", marker)
		}
	}
}
